package utils

import "github.com/shopspring/decimal"

// BagWeights holds the per-bag figures, in kg, derived from one weighbridge slip.
type BagWeights struct {
	IncludingPackaging decimal.Decimal
	PackagingPerBag    decimal.Decimal
	ExcludingPackaging decimal.Decimal
}

// CalculateBagWeights derives per-bag weights from gross/tare kg, the total
// unloaded bag count and the packaging mass. Zero bag counts give zero figures.
func CalculateBagWeights(grossWeight int, tareWeight int, totalUnloadedBags int, totalPackagedBags int, totalPackagingGrams decimal.Decimal) BagWeights {
	netKg := decimal.NewFromInt(int64(grossWeight - tareWeight))

	includingPackaging := decimal.Zero
	if totalUnloadedBags > 0 {
		includingPackaging = netKg.Div(decimal.NewFromInt(int64(totalUnloadedBags)))
	}

	packagingPerBag := decimal.Zero
	if totalPackagedBags > 0 {
		packagingPerBag = GramsToKg(totalPackagingGrams).Div(decimal.NewFromInt(int64(totalPackagedBags)))
	}

	excludingPackaging := includingPackaging.Sub(packagingPerBag)
	if excludingPackaging.IsNegative() {
		excludingPackaging = decimal.Zero
	}

	return BagWeights{
		IncludingPackaging: includingPackaging,
		PackagingPerBag:    packagingPerBag,
		ExcludingPackaging: excludingPackaging,
	}
}

// PerBag picks the figure that moves stock: purchases receive material only,
// sales ship the full weight including packaging.
func (w BagWeights) PerBag(isPurchase bool) decimal.Decimal {
	if isPurchase {
		return w.ExcludingPackaging
	}
	return w.IncludingPackaging
}

// MovementWeightQuintal is perBagKg * bags / 100, rounded to QuintalScale.
func MovementWeightQuintal(perBagKg decimal.Decimal, bags int) decimal.Decimal {
	return KgToQuintal(perBagKg.Mul(decimal.NewFromInt(int64(bags)))).Round(QuintalScale)
}
