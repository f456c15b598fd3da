package models

import (
	"strings"
	"testing"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestTransaction_StockAllocationsTareAboveGross(t *testing.T) {
	cases := []struct {
		isPurchase bool
		weight     string
	}{
		// -100 kg net over 10 bags; purchases floor the material weight at zero
		{true, "0"},
		{false, "-1"},
	}
	for _, tc := range cases {
		tr := &Transaction{
			TransactionType: tc.isPurchase,
			GrossWeight:     100,
			TareWeight:      200,
			StockItems:      []TransactionStockItem{{StockItemId: 1, NumberOfBags: 10}},
			Unloadings:      []TransactionUnloading{{GodownId: 2, NumberOfBags: 10}},
		}
		allocations := tr.StockAllocations()
		if len(allocations) != 1 {
			t.Fatalf("purchase=%v: expected 1 allocation, got %d", tc.isPurchase, len(allocations))
		}
		if allocations[0].Bags != 10 || !allocations[0].WeightQuintal.Equal(dec(tc.weight)) {
			t.Fatalf("purchase=%v: expected (10, %s), got (%d, %s)", tc.isPurchase, tc.weight, allocations[0].Bags, allocations[0].WeightQuintal)
		}
	}
}

func TestStockCommands_RequireTx(t *testing.T) {
	if err := ApplyTransactionStock(nil, sampleTransaction(true)); err == nil {
		t.Fatalf("expected an error applying stock without a tx")
	}
	if err := ReverseTransactionStock(nil, 1); err == nil {
		t.Fatalf("expected an error reversing stock without a tx")
	}
}

func TestLockTimeoutStatements(t *testing.T) {
	cases := []struct {
		driver   string
		timeout  time.Duration
		previous int
		set      string
		reset    string
	}{
		{config.DriverMySQL, 10 * time.Second, 50, "SET SESSION innodb_lock_wait_timeout = 10", "SET SESSION innodb_lock_wait_timeout = 50"},
		{config.DriverMySQL, 3 * time.Second, 7, "SET SESSION innodb_lock_wait_timeout = 3", "SET SESSION innodb_lock_wait_timeout = 7"},
		{config.DriverPostgres, 10 * time.Second, 0, "SET LOCAL lock_timeout = '10000ms'", ""},
	}
	for _, tc := range cases {
		set, reset := lockTimeoutStatements(tc.driver, tc.timeout, tc.previous)
		if set != tc.set || reset != tc.reset {
			t.Fatalf("%s: expected (%q, %q), got (%q, %q)", tc.driver, tc.set, tc.reset, set, reset)
		}
	}
}

// dryRunDB builds statements without a server behind it.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "test:test@tcp(127.0.0.1:1)/ricemill_test?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry run db: %v", err)
	}
	return db
}

func TestUpdateTransactionHeader_LeavesChildrenAlone(t *testing.T) {
	db := dryRunDB(t)

	creates := 0
	if err := db.Callback().Create().Before("gorm:create").Register("test:count_creates", func(*gorm.DB) { creates++ }); err != nil {
		t.Fatalf("register create callback: %v", err)
	}
	var updateSQL string
	if err := db.Callback().Update().After("gorm:update").Register("test:capture_update", func(d *gorm.DB) {
		updateSQL = d.Statement.SQL.String()
	}); err != nil {
		t.Fatalf("register update callback: %v", err)
	}

	existing := sampleTransaction(false)
	existing.BagDetails = []BagDetail{{ID: 41, TransactionId: 1, PackagingId: 21, TotalBags: 40, RemainingBags: 40, BagsStatus: BagsStatusActive}}
	next := sampleTransaction(false)
	next.Remarks = "re-weighed"

	if err := updateTransactionHeader(db, existing, &NewTransaction{RstNumber: "R-7"}, next); err != nil {
		t.Fatalf("update header: %v", err)
	}
	if creates != 0 {
		t.Fatalf("expected no child rows written, got %d create statements", creates)
	}
	if !strings.HasPrefix(updateSQL, "UPDATE") {
		t.Fatalf("expected a header UPDATE, got %q", updateSQL)
	}
}
