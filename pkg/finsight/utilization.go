package finsight

import (
	"github.com/shopspring/decimal"
)

// UtilizationStatus bands a credit card's utilization percentage.
type UtilizationStatus string

// Utilization statuses.
const (
	UtilizationHealthy UtilizationStatus = "healthy"
	UtilizationWarning UtilizationStatus = "warning"
	UtilizationDanger  UtilizationStatus = "danger"
)

// TrendDirection classifies how a utilization series is moving.
type TrendDirection string

// Trend directions.
const (
	TrendImproving TrendDirection = "improving"
	TrendWorsening TrendDirection = "worsening"
	TrendStable    TrendDirection = "stable"
)

var (
	utilizationHealthyMax = decimal.NewFromInt(30)
	utilizationDangerMin  = decimal.NewFromInt(70)
	trendDeadband         = decimal.NewFromInt(5)
)

// CCUtilization is the utilization picture for a single card.
type CCUtilization struct {
	Percent         decimal.Decimal   `json:"percent"`
	AvailableCredit decimal.Decimal   `json:"availableCredit"`
	Status          UtilizationStatus `json:"status"`
	Message         string            `json:"message"`
}

// MonthlyUtilization is one point of a card's balance history.
type MonthlyUtilization struct {
	Month   Date            `json:"month"`
	Balance decimal.Decimal `json:"balance"`
	Limit   decimal.Decimal `json:"limit"`
}

// CCHealthTrend summarizes utilization movement over a monthly series.
type CCHealthTrend struct {
	PerMonthPercent []decimal.Decimal `json:"perMonthPercent"`
	Classification  TrendDirection    `json:"classification"`
	AveragePercent  decimal.Decimal   `json:"averagePercent"`
}

// Utilization computes the utilization ratio and status band for a card. A
// non-positive limit is a valid state and yields a zero, healthy result.
func Utilization(balance, limit decimal.Decimal) *CCUtilization {
	if limit.Sign() <= 0 {
		return &CCUtilization{
			Percent:         decimal.Zero,
			AvailableCredit: decimal.Zero,
			Status:          UtilizationHealthy,
			Message:         "No credit limit set",
		}
	}

	percent := Round(PercentOf(balance, limit), 0)

	available := limit.Sub(balance)
	if available.IsNegative() {
		available = decimal.Zero
	}

	var status UtilizationStatus
	var message string
	switch {
	case percent.LessThanOrEqual(utilizationHealthyMax):
		status = UtilizationHealthy
		message = "Utilization is in the healthy range"
	case percent.LessThan(utilizationDangerMin):
		status = UtilizationWarning
		message = "Utilization is elevated; paying the balance down will help your score"
	default:
		status = UtilizationDanger
		message = "Utilization is high and likely hurting your credit score"
	}

	return &CCUtilization{
		Percent:         percent,
		AvailableCredit: available,
		Status:          status,
		Message:         message,
	}
}

// UtilizationTrend classifies utilization movement across a monthly series
// by comparing the first third of the series against the last third. An
// empty series is stable with zeroed aggregates.
func UtilizationTrend(series []MonthlyUtilization) *CCHealthTrend {
	if len(series) == 0 {
		return &CCHealthTrend{
			Classification: TrendStable,
			AveragePercent: decimal.Zero,
		}
	}

	percents := make([]decimal.Decimal, len(series))
	for i, point := range series {
		if point.Limit.Sign() <= 0 {
			percents[i] = decimal.Zero
			continue
		}
		percents[i] = Round(PercentOf(point.Balance, point.Limit), 0)
	}

	third := len(percents) / 3
	if third < 1 {
		third = 1
	}
	firstAvg := average(percents[:third])
	lastAvg := average(percents[len(percents)-third:])

	classification := TrendStable
	switch {
	case lastAvg.LessThan(firstAvg.Sub(trendDeadband)):
		classification = TrendImproving
	case lastAvg.GreaterThan(firstAvg.Add(trendDeadband)):
		classification = TrendWorsening
	}

	return &CCHealthTrend{
		PerMonthPercent: percents,
		Classification:  classification,
		AveragePercent:  RoundCents(average(percents)),
	}
}

func average(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return Sum(values...).Div(decimal.NewFromInt(int64(len(values))))
}
