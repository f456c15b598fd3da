package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StockMovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ricemill_stock_movements_total",
		Help: "Stock ledger movements applied, by direction (in, out) and kind (apply, reverse).",
	}, []string{"direction", "kind"})

	StockMovementBagsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ricemill_stock_movement_bags_total",
		Help: "Bags moved through the stock ledger, by direction.",
	}, []string{"direction"})

	TransactionOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ricemill_transaction_operations_total",
		Help: "Transaction create/update/return-bags calls, by outcome.",
	}, []string{"operation", "status"})
)

func StockDirection(isPurchase bool) string {
	if isPurchase {
		return "in"
	}
	return "out"
}

func ObserveTransactionOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	TransactionOperationsTotal.WithLabelValues(operation, status).Inc()
}
