package workflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockLedgerDrift is one (godown, stock item) whose stored balance differs
// from the sum of its movement trail.
type StockLedgerDrift struct {
	GodownId              int             `json:"godown_id"`
	StockItemId           int             `json:"stock_item_id"`
	LedgerBags            int             `json:"ledger_bags"`
	ExpectedBags          int             `json:"expected_bags"`
	LedgerWeightQuintal   decimal.Decimal `json:"ledger_weight_quintal"`
	ExpectedWeightQuintal decimal.Decimal `json:"expected_weight_quintal"`
	MissingLedger         bool            `json:"missing_ledger"`
}

type ledgerKey struct {
	godownId    int
	stockItemId int
}

type movementBalance struct {
	GodownId      int
	StockItemId   int
	Bags          int
	WeightQuintal decimal.Decimal
}

// signed totals per key; reversal rows carry the opposite direction, so they
// cancel the rows they reverse
func movementBalances(tx *gorm.DB) ([]movementBalance, error) {
	var rows []movementBalance
	err := tx.Model(&models.StockMovement{}).
		Select("godown_id, stock_item_id, " +
			"SUM(CASE WHEN is_purchase THEN bags ELSE -bags END) AS bags, " +
			"SUM(CASE WHEN is_purchase THEN weight_quintal ELSE -weight_quintal END) AS weight_quintal").
		Group("godown_id, stock_item_id").
		Scan(&rows).Error
	return rows, err
}

// diffStockLedger compares stored balances against movement totals. Keys
// present on only one side count as zero on the other.
func diffStockLedger(ledgers []*models.StockLedger, balances []movementBalance) []StockLedgerDrift {
	expected := make(map[ledgerKey]movementBalance, len(balances))
	for _, b := range balances {
		expected[ledgerKey{b.GodownId, b.StockItemId}] = b
	}

	var drifts []StockLedgerDrift
	seen := make(map[ledgerKey]bool, len(ledgers))
	for _, l := range ledgers {
		key := ledgerKey{l.GodownId, l.StockItemId}
		seen[key] = true
		want, ok := expected[key]
		if !ok {
			want = movementBalance{WeightQuintal: decimal.Zero}
		}
		if l.QuantityBags != want.Bags || !l.WeightQuintal.Equal(want.WeightQuintal) {
			drifts = append(drifts, StockLedgerDrift{
				GodownId:              l.GodownId,
				StockItemId:           l.StockItemId,
				LedgerBags:            l.QuantityBags,
				ExpectedBags:          want.Bags,
				LedgerWeightQuintal:   l.WeightQuintal,
				ExpectedWeightQuintal: want.WeightQuintal,
			})
		}
	}
	for key, want := range expected {
		if seen[key] || (want.Bags == 0 && want.WeightQuintal.IsZero()) {
			continue
		}
		drifts = append(drifts, StockLedgerDrift{
			GodownId:              key.godownId,
			StockItemId:           key.stockItemId,
			LedgerWeightQuintal:   decimal.Zero,
			ExpectedBags:          want.Bags,
			ExpectedWeightQuintal: want.WeightQuintal,
			MissingLedger:         true,
		})
	}

	sort.Slice(drifts, func(i, j int) bool {
		if drifts[i].GodownId != drifts[j].GodownId {
			return drifts[i].GodownId < drifts[j].GodownId
		}
		return drifts[i].StockItemId < drifts[j].StockItemId
	})
	return drifts
}

// CheckStockLedgerConsistency returns the drift rows without writing.
func CheckStockLedgerConsistency(ctx context.Context, db *gorm.DB) ([]StockLedgerDrift, error) {
	if db == nil {
		return nil, fmt.Errorf("check stock ledger: db is nil")
	}
	dbCtx := db.WithContext(ctx)

	var ledgers []*models.StockLedger
	if err := dbCtx.Order("id").Find(&ledgers).Error; err != nil {
		return nil, err
	}
	balances, err := movementBalances(dbCtx)
	if err != nil {
		return nil, err
	}
	return diffStockLedger(ledgers, balances), nil
}

// RebuildStockLedger recomputes every balance from the movement trail. Ledger
// rows stay locked for the whole run so postings wait for it. With dryRun the
// drift is reported and nothing is written.
func RebuildStockLedger(ctx context.Context, db *gorm.DB, logger *logrus.Logger, dryRun bool) (drifts []StockLedgerDrift, err error) {
	if db == nil {
		return nil, fmt.Errorf("rebuild stock ledger: db is nil")
	}
	if logger == nil {
		logger = config.GetLogger()
	}

	tx := db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	defer func() { _ = tx.Rollback().Error }()

	var ledgers []*models.StockLedger
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Order("id").Find(&ledgers).Error; err != nil {
		return nil, err
	}
	balances, err := movementBalances(tx)
	if err != nil {
		return nil, err
	}
	drifts = diffStockLedger(ledgers, balances)

	logger.WithFields(logrus.Fields{
		"ledger_rows": len(ledgers),
		"keys":        len(balances),
		"drift_rows":  len(drifts),
		"dry_run":     dryRun,
	}).Info("stock.rebuild.scan")

	if dryRun || len(drifts) == 0 {
		return drifts, nil
	}

	for _, d := range drifts {
		ledger, _, err := models.FirstOrCreateStockLedger(tx, d.GodownId, d.StockItemId)
		if err != nil {
			return nil, err
		}
		if err := tx.Model(ledger).Updates(map[string]interface{}{
			"QuantityBags":  d.ExpectedBags,
			"WeightQuintal": d.ExpectedWeightQuintal,
		}).Error; err != nil {
			config.LogError(logger, "stockLedgerRebuild.go", "RebuildStockLedger", "overwrite balance", d, err)
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"godown_id":       d.GodownId,
			"stock_item_id":   d.StockItemId,
			"ledger_bags":     d.LedgerBags,
			"expected_bags":   d.ExpectedBags,
			"ledger_weight":   d.LedgerWeightQuintal.String(),
			"expected_weight": d.ExpectedWeightQuintal.String(),
		}).Warn("stock.rebuild.drift_fixed")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return drifts, nil
}
