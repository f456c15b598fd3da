package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/workflow"
	"github.com/sirupsen/logrus"
)

func main() {
	dryRun := flag.Bool("dry-run", true, "Report drift without overwriting balances")
	checkOnly := flag.Bool("check", false, "Only check consistency (no row locks, no writes)")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall timeout")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var (
		drifts []workflow.StockLedgerDrift
		err    error
	)
	if *checkOnly {
		drifts, err = workflow.CheckStockLedgerConsistency(ctx, db)
	} else {
		drifts, err = workflow.RebuildStockLedger(ctx, db, logger, *dryRun)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "stock ledger rebuild failed: %v\n", err)
		os.Exit(1)
	}

	for _, d := range drifts {
		fmt.Printf("godown=%d item=%d bags %d -> %d weight %s -> %s missing=%v\n",
			d.GodownId, d.StockItemId, d.LedgerBags, d.ExpectedBags,
			d.LedgerWeightQuintal.String(), d.ExpectedWeightQuintal.String(), d.MissingLedger)
	}

	switch {
	case len(drifts) == 0:
		fmt.Println("stock ledger consistent")
	case *checkOnly || *dryRun:
		fmt.Printf("%d drift rows found (not fixed)\n", len(drifts))
		os.Exit(2)
	default:
		fmt.Printf("%d drift rows fixed\n", len(drifts))
	}
}
