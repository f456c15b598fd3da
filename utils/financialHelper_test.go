package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateFinancials(t *testing.T) {
	lines := []FinancialLine{
		{Weight: dec("10"), Rate: dec("2500")},
		{Weight: dec("2.5"), Rate: dec("2000")},
	}
	adjustments := []AdjustmentLine{
		{IsAllowance: true, Amount: dec("500")},
		{IsAllowance: false, Amount: dec("1000")},
	}

	cases := []struct {
		name      string
		payments  []decimal.Decimal
		status    PaymentStatus
		remaining string
	}{
		{"no payments", nil, PaymentStatusUnpaid, "29500"},
		{"partial", []decimal.Decimal{dec("10000")}, PaymentStatusPartiallyPaid, "19500"},
		{"exact", []decimal.Decimal{dec("20000"), dec("9500")}, PaymentStatusPaid, "0"},
		{"overpaid", []decimal.Decimal{dec("30000")}, PaymentStatusPaid, "-500"},
		{"payments rounded", []decimal.Decimal{dec("29499.6")}, PaymentStatusPaid, "0"},
	}
	for _, tc := range cases {
		net, status, remaining := CalculateFinancials(lines, adjustments, tc.payments)
		if !net.Equal(dec("29500")) {
			t.Fatalf("%s: expected net 29500, got %s", tc.name, net)
		}
		if status != tc.status {
			t.Fatalf("%s: expected status %s, got %s", tc.name, tc.status, status)
		}
		if !remaining.Equal(dec(tc.remaining)) {
			t.Fatalf("%s: expected remaining %s, got %s", tc.name, tc.remaining, remaining)
		}
	}
}

func TestCalculateFinancials_EmptyBillIsPaid(t *testing.T) {
	net, status, remaining := CalculateFinancials(nil, nil, nil)
	if !net.IsZero() || !remaining.IsZero() {
		t.Fatalf("expected zero totals, got net=%s remaining=%s", net, remaining)
	}
	if status != PaymentStatusPaid {
		t.Fatalf("expected %s, got %s", PaymentStatusPaid, status)
	}
}
