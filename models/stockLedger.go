package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockLedger is the running balance of one stock item in one godown.
// Rows are created lazily by the first movement and never deleted.
type StockLedger struct {
	ID            int             `gorm:"primary_key" json:"id"`
	GodownId      int             `gorm:"not null;uniqueIndex:idx_stock_ledger_godown_item" json:"godown_id"`
	StockItemId   int             `gorm:"not null;uniqueIndex:idx_stock_ledger_godown_item;index" json:"stock_item_id"`
	QuantityBags  int             `gorm:"not null;default:0" json:"quantity_bags"`
	WeightQuintal decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"weight_quintal"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ApplyMovement adds a purchase to the balance or subtracts a sale.
func (l *StockLedger) ApplyMovement(isPurchase bool, bags int, weightQuintal decimal.Decimal) {
	if isPurchase {
		l.QuantityBags += bags
		l.WeightQuintal = l.WeightQuintal.Add(weightQuintal)
	} else {
		l.QuantityBags -= bags
		l.WeightQuintal = l.WeightQuintal.Sub(weightQuintal)
	}
}

func (l *StockLedger) IsNegative() bool {
	return l.QuantityBags < 0 || l.WeightQuintal.IsNegative()
}

// FirstOrCreateStockLedger returns the (godown, item) row locked FOR UPDATE
// until tx ends, inserting a zero row first when none exists.
func FirstOrCreateStockLedger(tx *gorm.DB, godownId int, stockItemId int) (*StockLedger, bool, error) {
	isNew := false
	var ledger StockLedger

	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("godown_id = ? AND stock_item_id = ?", godownId, stockItemId).
		First(&ledger).Error
	if err == nil {
		return &ledger, isNew, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, isNew, err
	}

	// a concurrent first movement may insert the same key; the unique index
	// turns that into a no-op and the locking read below waits for it
	ledger = StockLedger{
		GodownId:      godownId,
		StockItemId:   stockItemId,
		WeightQuintal: decimal.Zero,
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ledger)
	if result.Error != nil {
		return nil, isNew, result.Error
	}
	isNew = result.RowsAffected == 1

	ledger = StockLedger{}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("godown_id = ? AND stock_item_id = ?", godownId, stockItemId).
		First(&ledger).Error; err != nil {
		return nil, isNew, err
	}
	return &ledger, isNew, nil
}

// ApplyStockLedgerMovement is the only write path to stock_ledgers.
// With rejectNegative a movement that leaves the balance below zero fails
// with ErrInsufficientStock and nothing is written.
func ApplyStockLedgerMovement(tx *gorm.DB, godownId int, stockItemId int, isPurchase bool, bags int, weightQuintal decimal.Decimal, rejectNegative bool) (*StockLedger, error) {
	ledger, _, err := FirstOrCreateStockLedger(tx, godownId, stockItemId)
	if err != nil {
		return nil, err
	}

	ledger.ApplyMovement(isPurchase, bags, weightQuintal)
	if rejectNegative && ledger.IsNegative() {
		return nil, &InsufficientStockError{
			GodownId:    godownId,
			StockItemId: stockItemId,
			Bags:        ledger.QuantityBags,
			Weight:      ledger.WeightQuintal.String(),
		}
	}

	if err := tx.Model(ledger).Updates(map[string]interface{}{
		"QuantityBags":  ledger.QuantityBags,
		"WeightQuintal": ledger.WeightQuintal,
	}).Error; err != nil {
		return nil, err
	}
	return ledger, nil
}

func GetStockLedger(ctx context.Context, godownId int, stockItemId int) (*StockLedger, error) {
	db := config.GetDB()
	var ledger StockLedger
	err := db.WithContext(ctx).Where("godown_id = ? AND stock_item_id = ?", godownId, stockItemId).First(&ledger).Error
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

func ListStockLedger(ctx context.Context) ([]*StockLedger, error) {
	db := config.GetDB()
	var results []*StockLedger
	if err := db.WithContext(ctx).Order("godown_id, stock_item_id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
