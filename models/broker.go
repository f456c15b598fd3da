package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
	"github.com/shopspring/decimal"
)

type Broker struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	MobNo         string          `gorm:"size:20" json:"mob_no"`
	BrokerageRate decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"brokerage_rate"`
	Remarks       string          `gorm:"size:255" json:"remarks"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBroker struct {
	Name          string          `json:"name" binding:"required,max=100"`
	MobNo         string          `json:"mob_no" binding:"max=20"`
	BrokerageRate decimal.Decimal `json:"brokerage_rate"`
	Remarks       string          `json:"remarks" binding:"max=255"`
}

func (input *NewBroker) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Broker](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.BrokerageRate.IsNegative() {
		return newInputError("brokerage rate cannot be negative")
	}
	return validateMobile(input.MobNo)
}

func CreateBroker(ctx context.Context, input *NewBroker) (*Broker, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	broker := Broker{
		Name:          strings.TrimSpace(input.Name),
		MobNo:         input.MobNo,
		BrokerageRate: input.BrokerageRate,
		Remarks:       input.Remarks,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&broker).Error; err != nil {
		return nil, utils.NameConflict(err)
	}
	return &broker, nil
}

func UpdateBroker(ctx context.Context, id int, input *NewBroker) (*Broker, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	broker, err := utils.FetchSingleModel[Broker](ctx, id)
	if err != nil {
		return nil, err
	}
	old := *broker

	db := config.GetDB()
	err = db.WithContext(ctx).Model(broker).Updates(map[string]interface{}{
		"Name":          strings.TrimSpace(input.Name),
		"MobNo":         input.MobNo,
		"BrokerageRate": input.BrokerageRate,
		"Remarks":       input.Remarks,
	}).Error
	if err != nil {
		return nil, utils.NameConflict(err)
	}
	clearResourceCache(&old, input.Name)

	return broker, nil
}

func GetBroker(ctx context.Context, id int) (*Broker, error) {
	return GetResource[Broker](ctx, id)
}

func GetBrokerByName(ctx context.Context, name string) (*Broker, error) {
	return GetResourceByName[Broker](ctx, nil, name)
}

func ListBroker(ctx context.Context, name *string) ([]*Broker, error) {
	return listByName[Broker](ctx, name)
}
