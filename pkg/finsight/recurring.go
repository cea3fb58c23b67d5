package finsight

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthEndPolicy controls what happens when a due day exceeds the length of
// the target month (for example due day 31 in February).
type MonthEndPolicy string

const (
	// MonthEndRoll lets the date roll forward into the following month,
	// so due day 31 in February lands in early March.
	MonthEndRoll MonthEndPolicy = "roll"

	// MonthEndClamp pins the date to the last day of the target month.
	MonthEndClamp MonthEndPolicy = "clamp"
)

var (
	daysPerMonth  = decimal.NewFromInt(365).Div(decimal.NewFromInt(12))
	weeksPerMonth = decimal.NewFromInt(52).Div(decimal.NewFromInt(12))
	three         = decimal.NewFromInt(3)
	six           = decimal.NewFromInt(6)
	twelve        = decimal.NewFromInt(12)
)

// Scheduler computes recurring-expense due dates and monthly-equivalent
// costs. The month-end policy is fixed at construction so every date it
// produces follows one documented behavior.
type Scheduler struct {
	policy MonthEndPolicy
}

// NewScheduler creates a scheduler with the given month-end policy. An
// empty policy defaults to MonthEndRoll.
func NewScheduler(policy MonthEndPolicy) *Scheduler {
	if policy == "" {
		policy = MonthEndRoll
	}
	return &Scheduler{policy: policy}
}

// Policy returns the scheduler's month-end policy.
func (s *Scheduler) Policy() MonthEndPolicy {
	return s.policy
}

// NextDueDate returns the next due date strictly after from for the given
// frequency. dueDay (1-31, zero for none) applies to monthly, quarterly,
// and semi-annual frequencies; quarterly and semi-annual advance by 3 and 6
// months under the same day-of-month rule.
func (s *Scheduler) NextDueDate(frequency Frequency, dueDay int, from time.Time) time.Time {
	switch frequency {
	case FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyYearly:
		return s.dateOn(from.Year()+1, from.Month(), from.Day(), from.Location())
	case FrequencyMonthly, FrequencyQuarterly, FrequencySemiAnnual:
		return s.nextMonthly(frequency, dueDay, from)
	default:
		return from
	}
}

// Advance returns the expense's next due date after from.
func (s *Scheduler) Advance(e *RecurringExpense, from time.Time) time.Time {
	return s.NextDueDate(e.Frequency, e.DueDay, from)
}

func (s *Scheduler) nextMonthly(frequency Frequency, dueDay int, from time.Time) time.Time {
	period := 1
	switch frequency {
	case FrequencyQuarterly:
		period = 3
	case FrequencySemiAnnual:
		period = 6
	}

	if dueDay <= 0 {
		return s.dateOn(from.Year(), from.Month()+time.Month(period), from.Day(), from.Location())
	}

	candidate := s.dateOn(from.Year(), from.Month(), dueDay, from.Location())
	if candidate.After(from) {
		return candidate
	}
	return s.dateOn(from.Year(), from.Month()+time.Month(period), dueDay, from.Location())
}

// dateOn builds a calendar date applying the month-end policy. Under
// MonthEndRoll an out-of-range day normalizes into the following month;
// under MonthEndClamp it pins to the month's last day.
func (s *Scheduler) dateOn(year int, month time.Month, day int, loc *time.Location) time.Time {
	if s.policy == MonthEndClamp {
		first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		if last := daysIn(first.Year(), first.Month()); day > last {
			day = last
		}
		return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func daysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthlyEquivalent returns the expense's cost normalized to one month,
// rounded to cents. An inactive expense contributes zero.
func (s *Scheduler) MonthlyEquivalent(e *RecurringExpense) decimal.Decimal {
	if !e.IsActive {
		return decimal.Zero
	}
	switch e.Frequency {
	case FrequencyDaily:
		return RoundCents(e.Amount.Mul(daysPerMonth))
	case FrequencyWeekly:
		return RoundCents(e.Amount.Mul(weeksPerMonth))
	case FrequencyMonthly:
		return RoundCents(e.Amount)
	case FrequencyQuarterly:
		return RoundCents(e.Amount.Div(three))
	case FrequencySemiAnnual:
		return RoundCents(e.Amount.Div(six))
	case FrequencyYearly:
		return RoundCents(e.Amount.Div(twelve))
	default:
		return decimal.Zero
	}
}

// ExpectedMonthlyTotal forecasts total recurring spend for the given month.
// Sub-yearly frequencies contribute their monthly equivalent regardless of
// due date; yearly expenses contribute their full amount only when the next
// due date falls inside the queried month.
func (s *Scheduler) ExpectedMonthlyTotal(expenses []*RecurringExpense, year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e == nil || !e.IsActive {
			continue
		}
		if e.Frequency == FrequencyYearly {
			if e.NextDueDate.InMonth(year, month) {
				total = total.Add(e.Amount)
			}
			continue
		}
		total = total.Add(s.MonthlyEquivalent(e))
	}
	return RoundCents(total)
}

// DueInMonth returns the active expenses whose next due date falls in the
// given month.
func (s *Scheduler) DueInMonth(expenses []*RecurringExpense, year int, month time.Month) []*RecurringExpense {
	var due []*RecurringExpense
	for _, e := range expenses {
		if e == nil || !e.IsActive {
			continue
		}
		if e.NextDueDate.InMonth(year, month) {
			due = append(due, e)
		}
	}
	return due
}
