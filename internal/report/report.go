// Package report loads a portfolio document and runs the full finsight
// analysis over it, producing a single serializable report for the
// presentation layer.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/finsight-go/pkg/finsight"
)

// Document is the validated portfolio snapshot the engine is run against.
type Document struct {
	Accounts                  []*finsight.Account          `json:"accounts"`
	Transactions              []*finsight.Transaction      `json:"transactions,omitempty"`
	Rules                     []*finsight.Rule             `json:"rules,omitempty"`
	RecurringExpenses         []*finsight.RecurringExpense `json:"recurringExpenses,omitempty"`
	Incomes                   []*finsight.Income           `json:"incomes,omitempty"`
	MonthlySpending           decimal.Decimal              `json:"monthlySpending"`
	MonthlySpendingByCategory map[string]decimal.Decimal   `json:"monthlySpendingByCategory,omitempty"`
	CardPayments              []CardPayment                `json:"cardPayments,omitempty"`
}

// CardPayment is one historical payment made to a credit card, paired with
// the expenses that were tracked against the card ahead of it.
type CardPayment struct {
	Month           finsight.Date   `json:"month"`
	AccountID       string          `json:"accountId"`
	Amount          decimal.Decimal `json:"amount"`
	TrackedExpenses decimal.Decimal `json:"trackedExpenses"`
}

// Allocation is the split breakdown a routing rule produced for one
// unsplit transaction or income entry.
type Allocation struct {
	RecordID string                   `json:"recordId"`
	RuleName string                   `json:"ruleName"`
	Splits   []finsight.ResolvedSplit `json:"splits"`
}

// CardReconciliation is the SBNL picture for one card across its payment
// history.
type CardReconciliation struct {
	AccountID   string                 `json:"accountId"`
	AccountName string                 `json:"accountName"`
	Results     []*finsight.SBNLResult `json:"results"`
	Trend       *finsight.SBNLTrend    `json:"trend"`
}

// Report is the full analysis output for one portfolio document.
type Report struct {
	GeneratedAt     time.Time                         `json:"generatedAt"`
	CreditCards     *finsight.CreditCardAnalysis      `json:"creditCards"`
	NetWorth        *finsight.NetWorthBreakdown       `json:"netWorth"`
	CashFlow        *finsight.CashFlowAnalysis        `json:"cashFlow"`
	Utilization     map[string]*finsight.CCUtilization `json:"utilization"`
	ExpectedMonthly decimal.Decimal                   `json:"expectedMonthly"`
	Forecast        *finsight.SpendingForecast        `json:"forecast"`
	DueThisMonth    []*finsight.RecurringExpense      `json:"dueThisMonth"`
	Allocations     []Allocation                      `json:"allocations,omitempty"`
	Reconciliations []*CardReconciliation             `json:"reconciliations,omitempty"`
	Insights        []*finsight.FinancialInsight      `json:"insights"`
	Strategy        []*finsight.CardStrategy          `json:"strategy,omitempty"`
}

// Options tunes the analysis run. The zero value gives the engine
// defaults.
type Options struct {
	ForecastThreshold    float64
	MonthEndPolicy       finsight.MonthEndPolicy
	CaseInsensitiveRules bool
	InsightCap           int
}

// Load decodes a portfolio document from JSON.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode portfolio document")
	}
	return &doc, nil
}

// Validate checks every income entry against the payroll identity and
// aggregates the violations, so a caller sees all bad records in one pass
// instead of fixing them one at a time.
func (d *Document) Validate() error {
	var errs finsight.ValidationErrors
	for _, inc := range d.Incomes {
		if inc == nil {
			continue
		}
		err := inc.Validate()
		if err == nil {
			continue
		}
		var vErr *finsight.ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		errs.Errors = append(errs.Errors, &finsight.ValidationError{
			Field:   fmt.Sprintf("incomes[%s].%s", inc.ID, vErr.Field),
			Message: vErr.Message,
			Value:   vErr.Value,
		})
	}
	if len(errs.Errors) > 0 {
		return &errs
	}
	return nil
}

// Analyze runs every engine component over the document as of now. It
// fails on a document whose incomes do not reconcile, or on an invalid
// rule pattern.
func Analyze(doc *Document, now time.Time, opts *Options) (*Report, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := doc.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid portfolio document")
	}
	threshold := opts.ForecastThreshold
	if threshold <= 0 {
		threshold = finsight.DefaultForecastThreshold
	}

	analyzer := finsight.NewAnalyzer(&finsight.AnalyzerOptions{InsightCap: opts.InsightCap})
	scheduler := finsight.NewScheduler(opts.MonthEndPolicy)
	matcher := finsight.NewRuleMatcher(&finsight.RuleMatcherOptions{
		CaseInsensitive: opts.CaseInsensitiveRules,
	})

	rpt := &Report{
		GeneratedAt: now,
		CreditCards: analyzer.CreditCardAnalysis(doc.Accounts),
		NetWorth:    analyzer.NetWorth(doc.Accounts),
		CashFlow:    analyzer.CashFlow(doc.Accounts),
		Utilization: make(map[string]*finsight.CCUtilization),
	}

	for _, acct := range doc.Accounts {
		if acct == nil || !acct.IsActive || !acct.IsCreditCard() {
			continue
		}
		rpt.Utilization[acct.ID] = finsight.Utilization(acct.CurrentBalance, acct.CreditLimit)
	}

	rpt.ExpectedMonthly = scheduler.ExpectedMonthlyTotal(doc.RecurringExpenses, now.Year(), now.Month())
	rpt.Forecast = finsight.CompareForecast(rpt.ExpectedMonthly, doc.MonthlySpending, threshold)
	rpt.DueThisMonth = scheduler.DueInMonth(doc.RecurringExpenses, now.Year(), now.Month())

	allocations, err := routeRecords(matcher, doc)
	if err != nil {
		return nil, err
	}
	rpt.Allocations = allocations

	rpt.Reconciliations = reconcileCards(doc)

	rpt.Insights = analyzer.GenerateInsights(
		doc.Accounts,
		rpt.CreditCards,
		rpt.NetWorth,
		rpt.CashFlow,
		doc.MonthlySpending,
		paymentAnalysis(doc),
	)
	rpt.Strategy = analyzer.SuggestCardStrategy(doc.Accounts, doc.MonthlySpendingByCategory)

	return rpt, nil
}

// routeRecords applies the first matching rule to every transaction and
// income entry that does not already carry splits.
func routeRecords(matcher *finsight.RuleMatcher, doc *Document) ([]Allocation, error) {
	var allocations []Allocation

	for _, txn := range doc.Transactions {
		if txn == nil || len(txn.Splits) > 0 {
			continue
		}
		rule, err := matcher.FirstMatch(doc.Rules, txn.MatchRecord())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to route transaction %s", txn.ID)
		}
		if rule == nil {
			continue
		}
		allocations = append(allocations, Allocation{
			RecordID: txn.ID,
			RuleName: rule.Name,
			Splits:   finsight.ApplySplits(txn.Amount, rule.SplitConfig),
		})
	}

	for _, inc := range doc.Incomes {
		if inc == nil || len(inc.Splits) > 0 {
			continue
		}
		rule, err := matcher.FirstMatch(doc.Rules, inc.MatchRecord())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to route income %s", inc.ID)
		}
		if rule == nil {
			continue
		}
		allocations = append(allocations, Allocation{
			RecordID: inc.ID,
			RuleName: rule.Name,
			Splits:   finsight.ApplySplits(inc.NetAmount, rule.SplitConfig),
		})
	}

	return allocations, nil
}

// reconcileCards groups payments per card and reconciles each against its
// tracked expenses. Payments referencing an account the document does not
// contain are skipped; a dangling reference is a degenerate state, not an
// error.
func reconcileCards(doc *Document) []*CardReconciliation {
	known := make(map[string]*finsight.Account, len(doc.Accounts))
	for _, acct := range doc.Accounts {
		if acct != nil {
			known[acct.ID] = acct
		}
	}

	byCard := make(map[string]*CardReconciliation)
	var order []string
	gaps := make(map[string][]decimal.Decimal)

	for _, payment := range doc.CardPayments {
		acct, ok := known[payment.AccountID]
		if !ok {
			continue
		}
		rec, ok := byCard[payment.AccountID]
		if !ok {
			rec = &CardReconciliation{AccountID: acct.ID, AccountName: acct.Name}
			byCard[payment.AccountID] = rec
			order = append(order, payment.AccountID)
		}
		result := finsight.Reconcile(payment.Amount, payment.TrackedExpenses)
		rec.Results = append(rec.Results, result)
		gaps[payment.AccountID] = append(gaps[payment.AccountID], result.Gap)
	}

	reconciliations := make([]*CardReconciliation, 0, len(order))
	for _, id := range order {
		rec := byCard[id]
		rec.Trend = finsight.SBNLTrendOf(gaps[id])
		reconciliations = append(reconciliations, rec)
	}
	return reconciliations
}

// paymentAnalysis derives the optional payment-history input for insight
// generation from the document's card payments. Starting debt is
// approximated as the current card balances plus everything paid over the
// window.
func paymentAnalysis(doc *Document) *finsight.PaymentAnalysis {
	known := make(map[string]*finsight.Account, len(doc.Accounts))
	for _, acct := range doc.Accounts {
		if acct != nil {
			known[acct.ID] = acct
		}
	}

	totals := make(map[string]decimal.Decimal)
	months := make(map[string]struct{})
	totalPaid := decimal.Zero
	counted := 0

	for _, payment := range doc.CardPayments {
		if _, ok := known[payment.AccountID]; !ok {
			continue
		}
		totals[payment.AccountID] = totals[payment.AccountID].Add(payment.Amount)
		totalPaid = totalPaid.Add(payment.Amount)
		counted++
		if !payment.Month.IsZero() {
			months[payment.Month.Format("2006-01")] = struct{}{}
		}
	}
	if counted == 0 {
		return nil
	}

	analysis := &finsight.PaymentAnalysis{MonthsAnalyzed: len(months)}
	if analysis.MonthsAnalyzed == 0 {
		analysis.MonthsAnalyzed = 1
	}
	analysis.MonthlyAverage = finsight.RoundCents(
		totalPaid.Div(decimal.NewFromInt(int64(analysis.MonthsAnalyzed))))

	for id, total := range totals {
		if analysis.TopAccountID == "" || total.GreaterThan(analysis.TopAccountTotal) {
			analysis.TopAccountID = id
			analysis.TopAccountName = known[id].Name
			analysis.TopAccountTotal = total
		}
	}

	currentDebt := decimal.Zero
	for _, acct := range doc.Accounts {
		if acct != nil && acct.IsActive && acct.IsCreditCard() && acct.CurrentBalance.IsPositive() {
			currentDebt = currentDebt.Add(acct.CurrentBalance)
		}
	}
	startingDebt := currentDebt.Add(totalPaid)
	if startingDebt.IsPositive() {
		analysis.DebtReductionRate = finsight.RoundCents(finsight.PercentOf(totalPaid, startingDebt))
	}

	return analysis
}
