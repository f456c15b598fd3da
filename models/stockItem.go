package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
)

type StockItem struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Remarks   string    `gorm:"size:255" json:"remarks"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewStockItem struct {
	Name    string `json:"name" binding:"required,max=100"`
	Remarks string `json:"remarks" binding:"max=255"`
}

func (input *NewStockItem) validate(ctx context.Context, id int) error {
	return utils.ValidateUnique[StockItem](ctx, "name", input.Name, id)
}

func CreateStockItem(ctx context.Context, input *NewStockItem) (*StockItem, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	stockItem := StockItem{
		Name:    strings.TrimSpace(input.Name),
		Remarks: input.Remarks,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&stockItem).Error; err != nil {
		return nil, utils.NameConflict(err)
	}
	return &stockItem, nil
}

func UpdateStockItem(ctx context.Context, id int, input *NewStockItem) (*StockItem, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	stockItem, err := utils.FetchSingleModel[StockItem](ctx, id)
	if err != nil {
		return nil, err
	}
	old := *stockItem

	db := config.GetDB()
	err = db.WithContext(ctx).Model(stockItem).Updates(map[string]interface{}{
		"Name":    strings.TrimSpace(input.Name),
		"Remarks": input.Remarks,
	}).Error
	if err != nil {
		return nil, utils.NameConflict(err)
	}
	clearResourceCache(&old, input.Name)

	return stockItem, nil
}

func GetStockItem(ctx context.Context, id int) (*StockItem, error) {
	return GetResource[StockItem](ctx, id)
}

func GetStockItemByName(ctx context.Context, name string) (*StockItem, error) {
	return GetResourceByName[StockItem](ctx, nil, name)
}

func ListStockItem(ctx context.Context, name *string) ([]*StockItem, error) {
	return listByName[StockItem](ctx, name)
}
