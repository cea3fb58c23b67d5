package finsight

import (
	"github.com/shopspring/decimal"
)

var (
	oneHundred    = decimal.NewFromInt(100)
	centTolerance = decimal.New(1, -2) // 0.01
)

// Round rounds amount to the given number of decimal places, half away
// from zero. Monetary callers pass 2; percentage bands pass 0.
func Round(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.Round(places)
}

// RoundCents rounds amount to whole cents.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// PercentOf returns what percentage of whole the part represents, on the
// 0-100 scale. A zero whole yields zero rather than an error.
func PercentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(oneHundred)
}

// PercentAmount returns percent (0-100) of whole.
func PercentAmount(percent, whole decimal.Decimal) decimal.Decimal {
	return percent.Mul(whole).Div(oneHundred)
}

// Sum adds the given amounts. An empty input sums to zero.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
