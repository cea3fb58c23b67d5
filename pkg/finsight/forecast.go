package finsight

import (
	"github.com/shopspring/decimal"
)

// ForecastStatus classifies expected-vs-actual variance for a period.
type ForecastStatus string

// Forecast statuses.
const (
	ForecastOnTrack ForecastStatus = "on-track"
	ForecastOver    ForecastStatus = "over"
	ForecastUnder   ForecastStatus = "under"
)

// DefaultForecastThreshold is the variance fraction inside which spending
// counts as on track.
const DefaultForecastThreshold = 0.10

// SpendingForecast is the result of comparing expected and actual spend.
type SpendingForecast struct {
	Expected          decimal.Decimal `json:"expected"`
	Actual            decimal.Decimal `json:"actual"`
	Difference        decimal.Decimal `json:"difference"`
	PercentDifference decimal.Decimal `json:"percentDifference"`
	Status            ForecastStatus  `json:"status"`
}

// CompareForecast compares expected and actual spend for a period.
// threshold is a fraction (0.10 means a ±10% band counts as on track); pass
// DefaultForecastThreshold when in doubt. A non-positive expected value
// yields a zero percent difference.
func CompareForecast(expected, actual decimal.Decimal, threshold float64) *SpendingForecast {
	diff := actual.Sub(expected)

	pct := decimal.Zero
	if expected.IsPositive() {
		pct = RoundCents(diff.Div(expected).Mul(oneHundred))
	}

	band := decimal.NewFromFloat(threshold).Mul(oneHundred)

	status := ForecastOnTrack
	if pct.Abs().GreaterThan(band) {
		if actual.GreaterThan(expected) {
			status = ForecastOver
		} else {
			status = ForecastUnder
		}
	}

	return &SpendingForecast{
		Expected:          expected,
		Actual:            actual,
		Difference:        diff,
		PercentDifference: pct,
		Status:            status,
	}
}
