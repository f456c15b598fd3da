package config

import (
	"os"
	"strings"
	"time"
)

// RejectNegativeStock makes a sale fail instead of driving a ledger balance below zero.
//
// Set via env:
// - REJECT_NEGATIVE_STOCK=true
func RejectNegativeStock() bool {
	return boolFromEnv("REJECT_NEGATIVE_STOCK")
}

// StockLockWaitTimeout bounds how long a stock posting waits for a ledger row lock.
// Zero keeps the database default.
//
// Set via env:
// - STOCK_LOCK_WAIT_TIMEOUT_SECONDS=10
func StockLockWaitTimeout() time.Duration {
	n := intFromEnv("STOCK_LOCK_WAIT_TIMEOUT_SECONDS", 0)
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func SkipMigrations() bool {
	return boolFromEnv("SKIP_MIGRATIONS")
}

func MetricsEnabled() bool {
	return boolFromEnv("METRICS_ENABLED")
}

func IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production")
}
