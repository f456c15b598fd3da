package models

import (
	"fmt"
	"sync"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("ricemill-stock-ledger")

// StockAllocation is one (unloading, stock line) share of a transaction.
type StockAllocation struct {
	UnloadingIndex int
	ItemIndex      int
	Bags           int
	WeightQuintal  decimal.Decimal
}

// packaging mass (grams) and packaged bag count over all packaging lines
func (t *Transaction) PackagingTotals() (int, decimal.Decimal) {
	bags := 0
	grams := decimal.Zero
	for _, p := range t.Packagings {
		bags += p.BagNos
		grams = grams.Add(p.BagWeight.Mul(decimal.NewFromInt(int64(p.BagNos))))
	}
	return bags, grams
}

func (t *Transaction) UnloadedBags() int {
	bags := 0
	for _, u := range t.Unloadings {
		bags += u.NumberOfBags
	}
	return bags
}

func (t *Transaction) BagWeights() utils.BagWeights {
	packagedBags, packagingGrams := t.PackagingTotals()
	return utils.CalculateBagWeights(t.GrossWeight, t.TareWeight, t.UnloadedBags(), packagedBags, packagingGrams)
}

// StockAllocations splits every unloading across the stock lines and prices
// each non-zero share in quintals. Unloadings and stock lines keep list order.
func (t *Transaction) StockAllocations() []StockAllocation {
	if len(t.StockItems) == 0 {
		return nil
	}
	perBag := t.BagWeights().PerBag(t.IsPurchase())

	itemBags := make([]int, len(t.StockItems))
	for i, item := range t.StockItems {
		itemBags[i] = item.NumberOfBags
	}

	var allocations []StockAllocation
	for u, unloading := range t.Unloadings {
		for i, bags := range utils.AllocateBags(unloading.NumberOfBags, itemBags) {
			if bags <= 0 {
				continue
			}
			allocations = append(allocations, StockAllocation{
				UnloadingIndex: u,
				ItemIndex:      i,
				Bags:           bags,
				WeightQuintal:  utils.MovementWeightQuintal(perBag, bags),
			})
		}
	}
	return allocations
}

// ApplyTransactionStock posts the ledger effect of a saved transaction and
// records each posting as a StockMovement. Callers own tx and its commit.
func ApplyTransactionStock(tx *gorm.DB, t *Transaction) (err error) {
	if tx == nil {
		return fmt.Errorf("tx is nil")
	}
	if t == nil {
		return fmt.Errorf("transaction is nil")
	}

	ctx, span := tracer.Start(tx.Statement.Context, "stock.apply", trace.WithAttributes(
		attribute.Int("transaction.id", t.ID),
		attribute.Bool("transaction.purchase", t.IsPurchase()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	tx = tx.WithContext(ctx)

	// only sales can oversell; purchases always go through
	rejectNegative := config.RejectNegativeStock() && !t.IsPurchase()
	direction := config.StockDirection(t.IsPurchase())

	for _, a := range t.StockAllocations() {
		unloading := t.Unloadings[a.UnloadingIndex]
		item := t.StockItems[a.ItemIndex]

		if _, err := ApplyStockLedgerMovement(tx, unloading.GodownId, item.StockItemId, t.IsPurchase(), a.Bags, a.WeightQuintal, rejectNegative); err != nil {
			return err
		}

		movement := StockMovement{
			TransactionId: t.ID,
			UnloadingId:   unloading.ID,
			GodownId:      unloading.GodownId,
			StockItemId:   item.StockItemId,
			IsPurchase:    t.IsPurchase(),
			Bags:          a.Bags,
			WeightQuintal: a.WeightQuintal,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}

		config.StockMovementsTotal.WithLabelValues(direction, "apply").Inc()
		config.StockMovementBagsTotal.WithLabelValues(direction).Add(float64(a.Bags))
	}
	return nil
}

// ReverseTransactionStock applies the inverse of every recorded, unreversed
// movement of the transaction, using the recorded bags and weight.
func ReverseTransactionStock(tx *gorm.DB, transactionId int) (err error) {
	if tx == nil {
		return fmt.Errorf("tx is nil")
	}

	ctx, span := tracer.Start(tx.Statement.Context, "stock.reverse", trace.WithAttributes(
		attribute.Int("transaction.id", transactionId),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	tx = tx.WithContext(ctx)

	movements, err := activeStockMovements(tx, transactionId)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, m := range movements {
		reversal := m.Reverse()
		if _, err := ApplyStockLedgerMovement(tx, reversal.GodownId, reversal.StockItemId, reversal.IsPurchase, reversal.Bags, reversal.WeightQuintal, false); err != nil {
			return err
		}
		if err := tx.Create(&reversal).Error; err != nil {
			return err
		}
		if err := tx.Model(m).Update("ReversedAt", now).Error; err != nil {
			return err
		}
		config.StockMovementsTotal.WithLabelValues(config.StockDirection(reversal.IsPurchase), "reverse").Inc()
	}
	return nil
}

// setStockLockTimeout bounds ledger row lock waits when
// STOCK_LOCK_WAIT_TIMEOUT_SECONDS is set. The returned restore puts the MySQL
// session value back; call it on tx before commit or rollback so the pooled
// connection does not keep the posting timeout. Postgres scopes it with SET LOCAL.
func setStockLockTimeout(tx *gorm.DB) (restore func(), err error) {
	restore = func() {}
	timeout := config.StockLockWaitTimeout()
	if timeout <= 0 {
		return restore, nil
	}

	driver := config.DatabaseDriver()
	previous := 0
	if driver != config.DriverPostgres {
		if err := tx.Raw("SELECT @@SESSION.innodb_lock_wait_timeout").Scan(&previous).Error; err != nil {
			return restore, err
		}
	}
	set, reset := lockTimeoutStatements(driver, timeout, previous)
	if err := tx.Exec(set).Error; err != nil {
		return restore, err
	}
	if reset == "" {
		return restore, nil
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := tx.Exec(reset).Error; err != nil {
				config.LogError(config.GetLogger(), "stockCommands_transaction.go", "setStockLockTimeout", "restore lock wait timeout", previous, err)
			}
		})
	}, nil
}

// lockTimeoutStatements returns the statement bounding lock waits and, for
// session-scoped drivers, the one restoring the previous value.
func lockTimeoutStatements(driver string, timeout time.Duration, previous int) (set string, reset string) {
	if driver == config.DriverPostgres {
		return fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds()), ""
	}
	return fmt.Sprintf("SET SESSION innodb_lock_wait_timeout = %d", int(timeout.Seconds())),
		fmt.Sprintf("SET SESSION innodb_lock_wait_timeout = %d", previous)
}
