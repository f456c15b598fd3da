package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/models"
	"github.com/mmdatafocus/ricemill_backend/models/reports"
	"github.com/mmdatafocus/ricemill_backend/utils"
	"github.com/mmdatafocus/ricemill_backend/workflow"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireNoError(t *testing.T, what string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", what, err)
	}
}

func transactionInput(isPurchase bool, gross, tare int, item string, bags int, packaging string, godown string) *models.NewTransaction {
	input := &models.NewTransaction{
		TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		TransactionType: &isPurchase,
		PartyName:       "Ravi Traders",
		BrokerName:      "Kumar",
		TransporterName: "Fast Lines",
		OperatorName:    "Suresh",
		GrossWeight:     gross,
		TareWeight:      tare,
		StockItems: []models.NewTransactionStockItem{
			{StockItemName: item, NumberOfBags: bags, Weight: dec("8"), Rate: dec("2500")},
		},
		Unloadings: []models.NewTransactionUnloading{
			{GodownName: godown, NumberOfBags: bags},
		},
	}
	if packaging != "" {
		input.Packagings = []models.NewTransactionPackaging{{PackagingName: packaging, BagNos: bags}}
	}
	return input
}

func expectLedger(t *testing.T, ctx context.Context, godownId, itemId, bags int, weight string) {
	t.Helper()
	ledger, err := models.GetStockLedger(ctx, godownId, itemId)
	if err != nil {
		t.Fatalf("GetStockLedger(%d, %d): %v", godownId, itemId, err)
	}
	if ledger.QuantityBags != bags || !ledger.WeightQuintal.Equal(dec(weight)) {
		t.Fatalf("ledger (%d, %d): expected (%d, %s), got (%d, %s)", godownId, itemId, bags, weight, ledger.QuantityBags, ledger.WeightQuintal)
	}
}

func TestStockLedgerLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", testDatabaseName)
	t.Setenv("REJECT_NEGATIVE_STOCK", "")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	ctx = utils.SetUsernameInContext(ctx, "test@local")
	db := config.GetDB()

	_, err := models.CreateParty(ctx, &models.NewParty{Name: "Ravi Traders", MobNo: "9876543210"})
	requireNoError(t, "CreateParty", err)
	_, err = models.CreateBroker(ctx, &models.NewBroker{Name: "Kumar", BrokerageRate: dec("1.5")})
	requireNoError(t, "CreateBroker", err)
	_, err = models.CreateTransporter(ctx, &models.NewTransporter{Name: "Fast Lines"})
	requireNoError(t, "CreateTransporter", err)
	_, err = models.CreateWeightBridgeOperator(ctx, &models.NewWeightBridgeOperator{Name: "Suresh"})
	requireNoError(t, "CreateWeightBridgeOperator", err)
	east, err := models.CreateGodown(ctx, &models.NewGodown{Name: "East"})
	requireNoError(t, "CreateGodown east", err)
	west, err := models.CreateGodown(ctx, &models.NewGodown{Name: "West"})
	requireNoError(t, "CreateGodown west", err)
	sona, err := models.CreateStockItem(ctx, &models.NewStockItem{Name: "Sona Masoori"})
	requireNoError(t, "CreateStockItem sona", err)
	raw, err := models.CreateStockItem(ctx, &models.NewStockItem{Name: "Raw Rice"})
	requireNoError(t, "CreateStockItem raw", err)
	_, err = models.CreatePackaging(ctx, &models.NewPackaging{Name: "PP 50kg", BagWeight: dec("200")})
	requireNoError(t, "CreatePackaging", err)

	if _, err := models.CreateParty(ctx, &models.NewParty{Name: "ravi traders "}); err == nil {
		t.Fatalf("expected duplicate party name to be rejected")
	}
	if found, err := models.GetGodownByName(ctx, " east"); err != nil || found.ID != east.ID {
		t.Fatalf("GetGodownByName: expected %d, got %+v (%v)", east.ID, found, err)
	}

	// purchase posts weight net of packaging: 800 kg - 8 kg over 40 bags
	purchaseInput := transactionInput(true, 1000, 200, "Sona Masoori", 40, "PP 50kg", "East")
	purchaseInput.Payments = []models.NewTransactionPayment{{Amount: dec("10000")}}
	purchase, err := models.CreateTransaction(ctx, purchaseInput)
	if err != nil {
		t.Fatalf("CreateTransaction purchase: %v", err)
	}
	expectLedger(t, ctx, east.ID, sona.ID, 40, "7.92")
	if purchase.PaymentStatus != utils.PaymentStatusPartiallyPaid || !purchase.RemainingPayment.Equal(dec("10000")) {
		t.Fatalf("expected PARTIALLY PAID with 10000 remaining, got %s %s", purchase.PaymentStatus, purchase.RemainingPayment)
	}
	if purchase.CreatedBy != "test@local" {
		t.Fatalf("expected created_by from context, got %q", purchase.CreatedBy)
	}

	// sale posts weight including packaging
	saleInput := transactionInput(false, 1000, 200, "Sona Masoori", 40, "PP 50kg", "East")
	sale, err := models.CreateTransaction(ctx, saleInput)
	if err != nil {
		t.Fatalf("CreateTransaction sale: %v", err)
	}
	expectLedger(t, ctx, east.ID, sona.ID, 0, "-0.08")

	t.Run("remarks only edit keeps the ledger and movements", func(t *testing.T) {
		saleInput.Remarks = "loaded at door 2"
		updated, err := models.UpdateTransaction(ctx, sale.ID, saleInput)
		if err != nil {
			t.Fatalf("UpdateTransaction: %v", err)
		}
		if updated.Remarks != "loaded at door 2" {
			t.Fatalf("expected remarks to change, got %q", updated.Remarks)
		}
		movements, err := models.ListStockMovementsByTransaction(ctx, sale.ID)
		if err != nil {
			t.Fatalf("ListStockMovementsByTransaction: %v", err)
		}
		if len(movements) != 1 || movements[0].ReversedAt != nil {
			t.Fatalf("expected the single original movement, got %+v", movements)
		}
		expectLedger(t, ctx, east.ID, sona.ID, 0, "-0.08")
	})

	t.Run("stock edit reverses and reposts", func(t *testing.T) {
		edited := transactionInput(false, 600, 200, "Sona Masoori", 20, "PP 50kg", "East")
		updated, err := models.UpdateTransaction(ctx, sale.ID, edited)
		if err != nil {
			t.Fatalf("UpdateTransaction: %v", err)
		}
		expectLedger(t, ctx, east.ID, sona.ID, 20, "3.92")

		movements, err := models.ListStockMovementsByTransaction(ctx, sale.ID)
		if err != nil {
			t.Fatalf("ListStockMovementsByTransaction: %v", err)
		}
		if len(movements) != 3 {
			t.Fatalf("expected original, reversal and repost rows, got %d", len(movements))
		}
		if movements[0].ReversedAt == nil || movements[1].ReversalOfId == nil || *movements[1].ReversalOfId != movements[0].ID {
			t.Fatalf("unexpected reversal trail %+v %+v", movements[0], movements[1])
		}
		if movements[2].Bags != 20 || !movements[2].WeightQuintal.Equal(dec("4")) {
			t.Fatalf("unexpected repost %+v", movements[2])
		}
		if len(updated.BagDetails) != 1 || updated.BagDetails[0].TotalBags != 20 {
			t.Fatalf("expected bag details rebuilt for 20 bags, got %+v", updated.BagDetails)
		}
	})

	t.Run("missing reference leaves the ledger alone", func(t *testing.T) {
		input := transactionInput(false, 1000, 200, "Sona Masoori", 40, "PP 50kg", "East")
		input.PartyName = "Nobody"
		_, err := models.CreateTransaction(ctx, input)
		var refErr *models.ReferenceNotFoundError
		if !errors.As(err, &refErr) || refErr.Kind != "party" {
			t.Fatalf("expected a party ReferenceNotFoundError, got %v", err)
		}
		expectLedger(t, ctx, east.ID, sona.ID, 20, "3.92")
	})

	t.Run("stock summary subtracts sold packaging", func(t *testing.T) {
		name := "east"
		summary, err := reports.GetStockSummary(ctx, &reports.StockSummaryFilter{GodownName: &name})
		if err != nil {
			t.Fatalf("GetStockSummary: %v", err)
		}
		if len(summary.Summary) != 1 || len(summary.Summary[0].Items) != 1 {
			t.Fatalf("expected one godown with one item, got %+v", summary.Summary)
		}
		item := summary.Summary[0].Items[0]
		// 3.92 on the ledger less 4 kg of packaging carried out by the sale
		if item.Bags != 20 || !item.WeightQuintal.Equal(dec("3.88")) {
			t.Fatalf("expected (20, 3.88), got (%d, %s)", item.Bags, item.WeightQuintal)
		}
	})

	t.Run("bag returns", func(t *testing.T) {
		details, err := models.ReturnBags(ctx, purchase.ID, []models.NewBagReturn{{PackagingName: "PP 50kg", ReturnedCount: 15}})
		if err != nil {
			t.Fatalf("ReturnBags: %v", err)
		}
		if details[0].RemainingBags != 25 || details[0].BagsStatus != models.BagsStatusActive {
			t.Fatalf("expected 25 remaining and ACTIVE, got %+v", details[0])
		}
		details, err = models.ReturnBags(ctx, purchase.ID, []models.NewBagReturn{{PackagingName: "pp 50KG", ReturnedCount: 25}})
		if err != nil {
			t.Fatalf("ReturnBags: %v", err)
		}
		if details[0].RemainingBags != 0 || details[0].BagsStatus != models.BagsStatusReturned {
			t.Fatalf("expected RETURNED, got %+v", details[0])
		}
		if _, err := models.ReturnBags(ctx, purchase.ID, []models.NewBagReturn{{PackagingName: "PP 50kg", ReturnedCount: 1}}); !errors.Is(err, models.ErrBagsAlreadyReturned) {
			t.Fatalf("expected ErrBagsAlreadyReturned, got %v", err)
		}
		var notFound *models.BagDetailNotFoundError
		if _, err := models.ReturnBags(ctx, purchase.ID, []models.NewBagReturn{{PackagingName: "Jute", ReturnedCount: 1}}); !errors.As(err, &notFound) {
			t.Fatalf("expected BagDetailNotFoundError, got %v", err)
		}
		if _, err := models.ReturnBags(ctx, 999999, []models.NewBagReturn{{PackagingName: "PP 50kg", ReturnedCount: 1}}); !errors.Is(err, models.ErrTransactionNotFound) {
			t.Fatalf("expected ErrTransactionNotFound, got %v", err)
		}
	})

	t.Run("concurrent sales serialize on the ledger row", func(t *testing.T) {
		// 100 kg per bag, no packaging
		if _, err := models.CreateTransaction(ctx, transactionInput(true, 1000, 0, "Raw Rice", 10, "", "West")); err != nil {
			t.Fatalf("CreateTransaction purchase: %v", err)
		}
		expectLedger(t, ctx, west.ID, raw.ID, 10, "10")

		var wg sync.WaitGroup
		errs := make(chan error, 5)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := models.CreateTransaction(ctx, transactionInput(false, 200, 0, "Raw Rice", 2, "", "West"))
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("concurrent sale: %v", err)
			}
		}
		expectLedger(t, ctx, west.ID, raw.ID, 0, "0")
	})

	t.Run("negative stock rejection", func(t *testing.T) {
		t.Setenv("REJECT_NEGATIVE_STOCK", "true")
		var before int64
		db.Model(&models.Transaction{}).Count(&before)

		_, err := models.CreateTransaction(ctx, transactionInput(false, 100, 0, "Raw Rice", 1, "", "West"))
		if !errors.Is(err, models.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		var after int64
		db.Model(&models.Transaction{}).Count(&after)
		if after != before {
			t.Fatalf("rejected sale must not persist a transaction (%d -> %d)", before, after)
		}
		expectLedger(t, ctx, west.ID, raw.ID, 0, "0")
	})

	t.Run("rebuild repairs drift from the movement trail", func(t *testing.T) {
		drifts, err := workflow.CheckStockLedgerConsistency(ctx, db)
		if err != nil {
			t.Fatalf("CheckStockLedgerConsistency: %v", err)
		}
		if len(drifts) != 0 {
			t.Fatalf("expected a consistent ledger, got %+v", drifts)
		}

		if err := db.Model(&models.StockLedger{}).
			Where("godown_id = ? AND stock_item_id = ?", west.ID, raw.ID).
			Update("quantity_bags", 99).Error; err != nil {
			t.Fatalf("corrupt ledger: %v", err)
		}

		drifts, err = workflow.RebuildStockLedger(ctx, db, nil, true)
		if err != nil || len(drifts) != 1 || drifts[0].LedgerBags != 99 || drifts[0].ExpectedBags != 0 {
			t.Fatalf("dry run: expected one drift row, got %+v (%v)", drifts, err)
		}
		expectLedger(t, ctx, west.ID, raw.ID, 99, "0")

		if _, err := workflow.RebuildStockLedger(ctx, db, nil, false); err != nil {
			t.Fatalf("RebuildStockLedger: %v", err)
		}
		expectLedger(t, ctx, west.ID, raw.ID, 0, "0")
		expectLedger(t, ctx, east.ID, sona.ID, 20, "3.92")
	})
}
