package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
)

type WeightBridgeOperator struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	MobNo     string    `gorm:"size:20" json:"mob_no"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	Remarks   string    `gorm:"size:255" json:"remarks"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewWeightBridgeOperator struct {
	Name     string `json:"name" binding:"required,max=100"`
	MobNo    string `json:"mob_no" binding:"max=20"`
	IsActive *bool  `json:"is_active"`
	Remarks  string `json:"remarks" binding:"max=255"`
}

func (input *NewWeightBridgeOperator) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[WeightBridgeOperator](ctx, "name", input.Name, id); err != nil {
		return err
	}
	return validateMobile(input.MobNo)
}

func CreateWeightBridgeOperator(ctx context.Context, input *NewWeightBridgeOperator) (*WeightBridgeOperator, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	operator := WeightBridgeOperator{
		Name:     strings.TrimSpace(input.Name),
		MobNo:    input.MobNo,
		IsActive: input.IsActive,
		Remarks:  input.Remarks,
	}
	if operator.IsActive == nil {
		operator.IsActive = utils.NewTrue()
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&operator).Error; err != nil {
		return nil, utils.NameConflict(err)
	}
	return &operator, nil
}

func UpdateWeightBridgeOperator(ctx context.Context, id int, input *NewWeightBridgeOperator) (*WeightBridgeOperator, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	operator, err := utils.FetchSingleModel[WeightBridgeOperator](ctx, id)
	if err != nil {
		return nil, err
	}
	old := *operator

	updates := map[string]interface{}{
		"Name":    strings.TrimSpace(input.Name),
		"MobNo":   input.MobNo,
		"Remarks": input.Remarks,
	}
	if input.IsActive != nil {
		updates["IsActive"] = *input.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(operator).Updates(updates).Error; err != nil {
		return nil, utils.NameConflict(err)
	}
	clearResourceCache(&old, input.Name)

	return operator, nil
}

func GetWeightBridgeOperator(ctx context.Context, id int) (*WeightBridgeOperator, error) {
	return GetResource[WeightBridgeOperator](ctx, id)
}

func GetWeightBridgeOperatorByName(ctx context.Context, name string) (*WeightBridgeOperator, error) {
	return GetResourceByName[WeightBridgeOperator](ctx, nil, name)
}

func ListWeightBridgeOperator(ctx context.Context, name *string) ([]*WeightBridgeOperator, error) {
	return listByName[WeightBridgeOperator](ctx, name)
}
