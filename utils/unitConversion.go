package utils

import "github.com/shopspring/decimal"

var (
	decimalGramsPerKg      = decimal.NewFromInt(1000)
	decimalKgPerQuintal    = decimal.NewFromInt(100)
	decimalGramsPerQuintal = decimal.NewFromInt(100000)
)

// QuintalScale is the number of decimal places kept on stored quintal weights.
const QuintalScale int32 = 4

func GramsToKg(grams decimal.Decimal) decimal.Decimal {
	return grams.Div(decimalGramsPerKg)
}

func KgToQuintal(kg decimal.Decimal) decimal.Decimal {
	return kg.Div(decimalKgPerQuintal)
}

// PackagingGramsToQuintal is GramsToKg followed by KgToQuintal.
func PackagingGramsToQuintal(grams decimal.Decimal) decimal.Decimal {
	return grams.Div(decimalGramsPerQuintal)
}
