package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockMovement records one allocation posted to the ledger.
// A reversal is written as a new row with the opposite direction pointing at
// the row it cancels, so summing every row by direction rebuilds the ledger.
type StockMovement struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TransactionId int             `gorm:"index;not null" json:"transaction_id"`
	UnloadingId   int             `gorm:"index" json:"unloading_id"`
	GodownId      int             `gorm:"index:idx_stock_movement_godown_item;not null" json:"godown_id"`
	StockItemId   int             `gorm:"index:idx_stock_movement_godown_item;not null" json:"stock_item_id"`
	IsPurchase    bool            `gorm:"not null" json:"is_purchase"`
	Bags          int             `gorm:"not null" json:"bags"`
	WeightQuintal decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"weight_quintal"`
	ReversalOfId  *int            `gorm:"index" json:"reversal_of_id"`
	ReversedAt    *time.Time      `json:"reversed_at"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// Reverse builds the row that cancels m.
func (m StockMovement) Reverse() StockMovement {
	id := m.ID
	return StockMovement{
		TransactionId: m.TransactionId,
		UnloadingId:   m.UnloadingId,
		GodownId:      m.GodownId,
		StockItemId:   m.StockItemId,
		IsPurchase:    !m.IsPurchase,
		Bags:          m.Bags,
		WeightQuintal: m.WeightQuintal,
		ReversalOfId:  &id,
	}
}

// active (posted, not yet reversed) movements of a transaction, in posting order
func activeStockMovements(tx *gorm.DB, transactionId int) ([]*StockMovement, error) {
	var movements []*StockMovement
	err := tx.Where("transaction_id = ? AND reversal_of_id IS NULL AND reversed_at IS NULL", transactionId).
		Order("id").Find(&movements).Error
	return movements, err
}

func ListStockMovementsByTransaction(ctx context.Context, transactionId int) ([]*StockMovement, error) {
	db := config.GetDB()
	var movements []*StockMovement
	if err := db.WithContext(ctx).Where("transaction_id = ?", transactionId).Order("id").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
