package finsight

import (
	"math"

	"github.com/shopspring/decimal"
)

// SBNLBand is the qualitative rating of a spent-but-not-listed gap.
type SBNLBand string

// SBNL bands, from fully tracked to needing attention.
const (
	SBNLAccountedFor SBNLBand = "accounted for"
	SBNLGreat        SBNLBand = "great"
	SBNLGood         SBNLBand = "good"
	SBNLReview       SBNLBand = "review"
	SBNLSignificant  SBNLBand = "significant"
)

// SBNLDirection classifies how a gap series is moving over time.
type SBNLDirection string

// SBNL trend directions.
const (
	SBNLIncreasing       SBNLDirection = "increasing"
	SBNLDecreasing       SBNLDirection = "decreasing"
	SBNLStable           SBNLDirection = "stable"
	SBNLInsufficientData SBNLDirection = "insufficient_data"
)

var (
	sbnlGreatMax       = decimal.NewFromInt(5)
	sbnlGoodMax        = decimal.NewFromInt(15)
	sbnlReviewMax      = decimal.NewFromInt(25)
	sbnlIncreaseFactor = decimal.NewFromFloat(1.1)
	sbnlDecreaseFactor = decimal.NewFromFloat(0.9)
)

// SBNLResult is the reconciliation of one card payment against the
// expenses tracked ahead of it.
type SBNLResult struct {
	Payment decimal.Decimal `json:"payment"`
	Tracked decimal.Decimal `json:"tracked"`
	Gap     decimal.Decimal `json:"gap"`
	Percent decimal.Decimal `json:"percent"`
	Band    SBNLBand        `json:"band"`
	Message string          `json:"message"`
}

// SBNLTrend summarizes a series of monthly gaps.
type SBNLTrend struct {
	Average        decimal.Decimal `json:"average"`
	Classification SBNLDirection   `json:"classification"`
	Highest        decimal.Decimal `json:"highest"`
	Lowest         decimal.Decimal `json:"lowest"`
	Volatility     decimal.Decimal `json:"volatility"`
}

// Reconcile computes the gap between a card payment and the expenses that
// were tracked against that card. A negative gap means tracking exceeded
// the payment and is a valid, fully-accounted-for state, not an error.
func Reconcile(payment, tracked decimal.Decimal) *SBNLResult {
	gap := payment.Sub(tracked)

	percent := decimal.Zero
	if payment.IsPositive() {
		percent = Round(PercentOf(gap, payment), 0)
	}

	var band SBNLBand
	var message string
	switch {
	case gap.Sign() <= 0:
		band = SBNLAccountedFor
		message = "Every dollar of the payment is accounted for by tracked expenses"
	case percent.LessThan(sbnlGreatMax):
		band = SBNLGreat
		message = "Tracking covers nearly all of the payment"
	case percent.LessThan(sbnlGoodMax):
		band = SBNLGood
		message = "Most of the payment is tracked; a small gap remains"
	case percent.LessThan(sbnlReviewMax):
		band = SBNLReview
		message = "A noticeable share of the payment is untracked; worth a review"
	default:
		band = SBNLSignificant
		message = "A significant share of the payment has no tracked expenses behind it"
	}

	return &SBNLResult{
		Payment: payment,
		Tracked: tracked,
		Gap:     gap,
		Percent: percent,
		Band:    band,
		Message: message,
	}
}

// SBNLTrendOf summarizes a chronological series of monthly gaps. The
// classification compares the mean of the most recent three points against
// the earliest three. An empty series yields insufficient_data with zeroed
// aggregates.
func SBNLTrendOf(series []decimal.Decimal) *SBNLTrend {
	if len(series) == 0 {
		return &SBNLTrend{Classification: SBNLInsufficientData}
	}

	highest := series[0]
	lowest := series[0]
	for _, gap := range series[1:] {
		if gap.GreaterThan(highest) {
			highest = gap
		}
		if gap.LessThan(lowest) {
			lowest = gap
		}
	}

	window := 3
	if len(series) < window {
		window = len(series)
	}
	older := average(series[:window])
	recent := average(series[len(series)-window:])

	classification := SBNLStable
	switch {
	case recent.GreaterThan(older.Mul(sbnlIncreaseFactor)):
		classification = SBNLIncreasing
	case recent.LessThan(older.Mul(sbnlDecreaseFactor)):
		classification = SBNLDecreasing
	}

	return &SBNLTrend{
		Average:        RoundCents(average(series)),
		Classification: classification,
		Highest:        highest,
		Lowest:         lowest,
		Volatility:     stddev(series),
	}
}

// stddev is the population standard deviation of the series, rounded to
// cents. Volatility is a descriptive statistic, so the float round trip
// through math.Sqrt is acceptable here.
func stddev(series []decimal.Decimal) decimal.Decimal {
	if len(series) < 2 {
		return decimal.Zero
	}
	mean := average(series)
	sumSquares := decimal.Zero
	for _, v := range series {
		d := v.Sub(mean)
		sumSquares = sumSquares.Add(d.Mul(d))
	}
	variance := sumSquares.Div(decimal.NewFromInt(int64(len(series))))
	return RoundCents(decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64())))
}
