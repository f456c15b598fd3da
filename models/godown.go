package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
	"gorm.io/gorm"
)

type Godown struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	QtlCapacity  int       `gorm:"default:0" json:"qtl_capacity"`
	BagsCapacity int       `gorm:"default:0" json:"bags_capacity"`
	Remarks      string    `gorm:"size:255" json:"remarks"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewGodown struct {
	Name         string `json:"name" binding:"required,max=100"`
	QtlCapacity  int    `json:"qtl_capacity" binding:"min=0"`
	BagsCapacity int    `json:"bags_capacity" binding:"min=0"`
	Remarks      string `json:"remarks" binding:"max=255"`
}

func (input *NewGodown) validate(ctx context.Context, id int) error {
	return utils.ValidateUnique[Godown](ctx, "name", input.Name, id)
}

func CreateGodown(ctx context.Context, input *NewGodown) (*Godown, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	godown := Godown{
		Name:         strings.TrimSpace(input.Name),
		QtlCapacity:  input.QtlCapacity,
		BagsCapacity: input.BagsCapacity,
		Remarks:      input.Remarks,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&godown).Error; err != nil {
		return nil, utils.NameConflict(err)
	}
	return &godown, nil
}

func UpdateGodown(ctx context.Context, id int, input *NewGodown) (*Godown, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	godown, err := utils.FetchSingleModel[Godown](ctx, id)
	if err != nil {
		return nil, err
	}
	old := *godown

	db := config.GetDB()
	err = db.WithContext(ctx).Model(godown).Updates(map[string]interface{}{
		"Name":         strings.TrimSpace(input.Name),
		"QtlCapacity":  input.QtlCapacity,
		"BagsCapacity": input.BagsCapacity,
		"Remarks":      input.Remarks,
	}).Error
	if err != nil {
		return nil, utils.NameConflict(err)
	}
	clearResourceCache(&old, input.Name)

	return godown, nil
}

func GetGodown(ctx context.Context, id int) (*Godown, error) {
	return GetResource[Godown](ctx, id)
}

func GetGodownByName(ctx context.Context, name string) (*Godown, error) {
	return GetResourceByName[Godown](ctx, nil, name)
}

func ListGodown(ctx context.Context, name *string) ([]*Godown, error) {
	return listByName[Godown](ctx, name)
}

// resolve an unloading destination, by name when given, otherwise by id
func lookupGodown(ctx context.Context, tx *gorm.DB, id int, name string) (*Godown, error) {
	if strings.TrimSpace(name) != "" {
		godown, err := GetResourceByName[Godown](ctx, tx, name)
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, &ReferenceNotFoundError{Kind: "godown", Name: name}
		}
		return godown, err
	}
	if id <= 0 {
		return nil, &ReferenceNotFoundError{Kind: "godown", Id: id}
	}
	var godown Godown
	err := tx.WithContext(ctx).First(&godown, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ReferenceNotFoundError{Kind: "godown", Id: id}
	}
	if err != nil {
		return nil, err
	}
	return &godown, nil
}
