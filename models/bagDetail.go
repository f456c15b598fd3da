package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BagDetail tracks returnable bags of one packaging line of a transaction.
// RemainingBags is always TotalBags - ReturnedBags.
type BagDetail struct {
	ID            int        `gorm:"primary_key" json:"id"`
	TransactionId int        `gorm:"index;not null" json:"transaction_id"`
	PackagingId   int        `gorm:"index;not null" json:"packaging_id"`
	TotalBags     int        `gorm:"not null;default:0" json:"total_bags"`
	ReturnedBags  int        `gorm:"not null;default:0" json:"returned_bags"`
	RemainingBags int        `gorm:"not null;default:0" json:"remaining_bags"`
	BagsStatus    BagsStatus `gorm:"size:20;not null;default:ACTIVE" json:"bags_status"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	PackagingName string     `gorm:"-" json:"packaging_name,omitempty"`
}

type NewBagReturn struct {
	PackagingName string `json:"packaging_name" binding:"required"`
	ReturnedCount int    `json:"returned_count" binding:"min=0"`
}

// ApplyReturn adds count returned bags, clamped at TotalBags.
// A detail that is already RETURNED rejects further returns.
func (b *BagDetail) ApplyReturn(count int) error {
	if b.BagsStatus == BagsStatusReturned {
		return ErrBagsAlreadyReturned
	}
	if count < 0 {
		count = 0
	}
	b.ReturnedBags += count
	if b.ReturnedBags >= b.TotalBags {
		b.ReturnedBags = b.TotalBags
		b.BagsStatus = BagsStatusReturned
	} else {
		b.BagsStatus = BagsStatusActive
	}
	b.RemainingBags = b.TotalBags - b.ReturnedBags
	return nil
}

func newBagDetails(packagings []TransactionPackaging) []BagDetail {
	details := make([]BagDetail, 0, len(packagings))
	for _, p := range packagings {
		details = append(details, BagDetail{
			PackagingId:   p.PackagingId,
			TotalBags:     p.BagNos,
			RemainingBags: p.BagNos,
			BagsStatus:    BagsStatusActive,
		})
	}
	return details
}

// carryBagReturns rebuilds details for new packaging lines, keeping bags
// already returned per packaging (clamped to the new totals).
func carryBagReturns(existing []BagDetail, packagings []TransactionPackaging) []BagDetail {
	returned := make(map[int]int)
	for _, d := range existing {
		returned[d.PackagingId] += d.ReturnedBags
	}

	details := newBagDetails(packagings)
	for i := range details {
		carry := returned[details[i].PackagingId]
		if carry <= 0 {
			continue
		}
		if carry > details[i].TotalBags {
			carry = details[i].TotalBags
		}
		returned[details[i].PackagingId] -= carry
		details[i].ReturnedBags = carry
		details[i].RemainingBags = details[i].TotalBags - carry
		if details[i].RemainingBags == 0 {
			details[i].BagsStatus = BagsStatusReturned
		}
	}
	return details
}

func rebuildBagDetails(tx *gorm.DB, transactionId int, existing []BagDetail, packagings []TransactionPackaging) error {
	if err := tx.Where("transaction_id = ?", transactionId).Delete(&BagDetail{}).Error; err != nil {
		return err
	}
	details := carryBagReturns(existing, packagings)
	if len(details) == 0 {
		return nil
	}
	for i := range details {
		details[i].TransactionId = transactionId
	}
	return tx.Create(&details).Error
}

// ReturnBags records returned bags per packaging name. All lines apply or none.
func ReturnBags(ctx context.Context, transactionId int, input []NewBagReturn) (result []*BagDetail, err error) {
	logger := config.GetLogger()
	defer func() { config.ObserveTransactionOperation("return_bags", err) }()

	if len(input) == 0 {
		return nil, newInputError("no bag returns given")
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	if err := tx.Select("id").First(&Transaction{}, transactionId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	var details []*BagDetail
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("transaction_id = ?", transactionId).Order("id").Find(&details).Error; err != nil {
		return nil, err
	}

	for _, line := range input {
		packaging, err := GetResourceByName[Packaging](ctx, tx, line.PackagingName)
		if err != nil && !errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, err
		}
		detail := findBagDetail(details, packaging)
		if detail == nil {
			return nil, &BagDetailNotFoundError{PackagingName: line.PackagingName}
		}
		if err := detail.ApplyReturn(line.ReturnedCount); err != nil {
			return nil, err
		}
		detail.PackagingName = strings.TrimSpace(line.PackagingName)
		if err := tx.Model(detail).Updates(map[string]interface{}{
			"ReturnedBags":  detail.ReturnedBags,
			"RemainingBags": detail.RemainingBags,
			"BagsStatus":    detail.BagsStatus,
		}).Error; err != nil {
			config.LogError(logger, "bagDetail.go", "ReturnBags", "update bag detail", detail.ID, err)
			return nil, err
		}
		result = append(result, detail)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return result, nil
}

// first active detail of the packaging, or the first one at all so an
// exhausted packaging reports ErrBagsAlreadyReturned
func findBagDetail(details []*BagDetail, packaging *Packaging) *BagDetail {
	if packaging == nil {
		return nil
	}
	var first *BagDetail
	for _, d := range details {
		if d.PackagingId != packaging.ID {
			continue
		}
		if d.BagsStatus == BagsStatusActive {
			return d
		}
		if first == nil {
			first = d
		}
	}
	return first
}
