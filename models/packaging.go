package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
	"github.com/shopspring/decimal"
)

// Packaging is a bag type. BagWeight is grams per empty bag.
type Packaging struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	BagWeight     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"bag_weight"`
	PackagingUnit string          `gorm:"size:20" json:"packaging_unit"`
	Remarks       string          `gorm:"size:255" json:"remarks"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPackaging struct {
	Name          string          `json:"name" binding:"required,max=100"`
	BagWeight     decimal.Decimal `json:"bag_weight"`
	PackagingUnit string          `json:"packaging_unit" binding:"max=20"`
	Remarks       string          `json:"remarks" binding:"max=255"`
}

func (input *NewPackaging) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Packaging](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.BagWeight.IsNegative() {
		return newInputError("bag weight cannot be negative")
	}
	return nil
}

func CreatePackaging(ctx context.Context, input *NewPackaging) (*Packaging, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	packaging := Packaging{
		Name:          strings.TrimSpace(input.Name),
		BagWeight:     input.BagWeight,
		PackagingUnit: input.PackagingUnit,
		Remarks:       input.Remarks,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&packaging).Error; err != nil {
		return nil, utils.NameConflict(err)
	}
	return &packaging, nil
}

// UpdatePackaging changes the master row only. Transactions keep the bag
// weight they were posted with.
func UpdatePackaging(ctx context.Context, id int, input *NewPackaging) (*Packaging, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	packaging, err := utils.FetchSingleModel[Packaging](ctx, id)
	if err != nil {
		return nil, err
	}
	old := *packaging

	db := config.GetDB()
	err = db.WithContext(ctx).Model(packaging).Updates(map[string]interface{}{
		"Name":          strings.TrimSpace(input.Name),
		"BagWeight":     input.BagWeight,
		"PackagingUnit": input.PackagingUnit,
		"Remarks":       input.Remarks,
	}).Error
	if err != nil {
		return nil, utils.NameConflict(err)
	}
	clearResourceCache(&old, input.Name)

	return packaging, nil
}

func GetPackaging(ctx context.Context, id int) (*Packaging, error) {
	return GetResource[Packaging](ctx, id)
}

func GetPackagingByName(ctx context.Context, name string) (*Packaging, error) {
	return GetResourceByName[Packaging](ctx, nil, name)
}

func ListPackaging(ctx context.Context, name *string) ([]*Packaging, error) {
	return listByName[Packaging](ctx, name)
}
