package utils

import "github.com/shopspring/decimal"

type PaymentStatus string

const (
	PaymentStatusPaid          PaymentStatus = "PAID"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY PAID"
	PaymentStatusUnpaid        PaymentStatus = "UNPAID"
)

type FinancialLine struct {
	Weight decimal.Decimal
	Rate   decimal.Decimal
}

type AdjustmentLine struct {
	IsAllowance bool
	Amount      decimal.Decimal
}

// CalculateFinancials returns the net bill amount, its payment status and the
// unpaid remainder. Allowances, deductions and payments count in whole units
// (half to even).
func CalculateFinancials(lines []FinancialLine, adjustments []AdjustmentLine, payments []decimal.Decimal) (decimal.Decimal, PaymentStatus, decimal.Decimal) {
	netTotal := decimal.Zero
	for _, line := range lines {
		netTotal = netTotal.Add(line.Weight.Mul(line.Rate))
	}

	for _, adj := range adjustments {
		amount := adj.Amount.RoundBank(0)
		if adj.IsAllowance {
			netTotal = netTotal.Add(amount)
		} else {
			netTotal = netTotal.Sub(amount)
		}
	}

	totalPayments := decimal.Zero
	for _, p := range payments {
		totalPayments = totalPayments.Add(p.RoundBank(0))
	}

	remaining := netTotal.Sub(totalPayments)

	var status PaymentStatus
	switch {
	case totalPayments.GreaterThanOrEqual(netTotal):
		status = PaymentStatusPaid
	case totalPayments.IsPositive():
		status = PaymentStatusPartiallyPaid
	default:
		status = PaymentStatusUnpaid
	}
	return netTotal, status, remaining
}
