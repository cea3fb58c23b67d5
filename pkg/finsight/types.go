package finsight

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies a financial account.
type AccountType string

// Account types.
const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountCash       AccountType = "cash"
	AccountInvestment AccountType = "investment"
	AccountLoan       AccountType = "loan"
	AccountOther      AccountType = "other"
)

// TransactionMethod is the payment method used for a transaction.
type TransactionMethod string

// Transaction methods. The empty string on a Rule means "any method".
const (
	MethodCreditCard TransactionMethod = "cc"
	MethodCash       TransactionMethod = "cash"
	MethodACH        TransactionMethod = "ach"
	MethodOther      TransactionMethod = "other"
)

// SplitType is the budgeting category class of a split.
type SplitType string

// Split types.
const (
	SplitNeed    SplitType = "need"
	SplitWant    SplitType = "want"
	SplitDebt    SplitType = "debt"
	SplitTax     SplitType = "tax"
	SplitSavings SplitType = "savings"
	SplitOtherT  SplitType = "other"
)

// Frequency is how often a recurring expense repeats.
type Frequency string

// Recurring expense frequencies.
const (
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiAnnual Frequency = "semi-annual"
	FrequencyYearly     Frequency = "yearly"
)

// Account represents a financial account. Only a subset of the numeric
// fields is meaningful for any given type; unused fields are left at zero
// and the engine never assumes they are populated.
type Account struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     AccountType `json:"type"`
	IsActive bool        `json:"isActive"`

	// Credit card fields
	CreditLimit     decimal.Decimal `json:"creditLimit"`
	InterestRate    decimal.Decimal `json:"interestRate"` // APR, 0-100
	CashBackPercent decimal.Decimal `json:"cashBackPercent"`
	PointsPerDollar decimal.Decimal `json:"pointsPerDollar"`
	AnnualFee       decimal.Decimal `json:"annualFee"`
	RewardsProgram  string          `json:"rewardsProgram,omitempty"`

	// Deposit account fields
	InterestRateAPY decimal.Decimal `json:"interestRateApy"` // 0-100
	MonthlyFee      decimal.Decimal `json:"monthlyFee"`
	MinimumBalance  decimal.Decimal `json:"minimumBalance"`
	IsFDIC          bool            `json:"isFdic"`

	CurrentBalance decimal.Decimal `json:"currentBalance"`

	// Loan fields
	PrincipalBalance decimal.Decimal `json:"principalBalance"`
}

// IsCreditCard reports whether the account is a credit card.
func (a *Account) IsCreditCard() bool {
	return a.Type == AccountCreditCard
}

// LiabilityBalance returns the balance an account contributes to the
// liability side of a net worth statement. Loans prefer the principal
// balance when one is recorded.
func (a *Account) LiabilityBalance() decimal.Decimal {
	if a.Type == AccountLoan && !a.PrincipalBalance.IsZero() {
		return a.PrincipalBalance
	}
	return a.CurrentBalance
}

// Split allocates part of a transaction or income entry to a category.
// Amount and Percent are both optional; a split carrying neither resolves
// to zero. Splits are not required to cover the full transaction amount.
type Split struct {
	Type    SplitType        `json:"type"`
	Target  string           `json:"target"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Percent *decimal.Decimal `json:"percent,omitempty"` // 0-100
}

// Transaction represents a single validated transaction record.
type Transaction struct {
	ID          string            `json:"id"`
	Date        Date              `json:"date"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description"`
	AccountID   string            `json:"accountId"`
	// PayingAccountID is set when the transaction is itself a debt payment,
	// naming the account the payment was made from.
	PayingAccountID string            `json:"payingAccountId,omitempty"`
	Method          TransactionMethod `json:"method"`
	Tags            []string          `json:"tags,omitempty"`
	Splits          []Split           `json:"splits,omitempty"`
}

// MatchRecord returns the view of the transaction a routing rule is
// evaluated against.
func (t *Transaction) MatchRecord() MatchRecord {
	return MatchRecord{
		Description: t.Description,
		AccountID:   t.AccountID,
		Method:      t.Method,
		Tags:        t.Tags,
	}
}

// Rule is a routing rule that applies a split configuration to matching
// transaction or income records. Unset criteria are wildcards; all set
// criteria must match.
type Rule struct {
	Name             string            `json:"name"`
	MatchSource      string            `json:"matchSource,omitempty"`      // regex
	MatchDescription string            `json:"matchDescription,omitempty"` // regex
	MatchAccountID   string            `json:"matchAccountId,omitempty"`
	MatchMethod      TransactionMethod `json:"matchMethod,omitempty"`
	MatchTags        []string          `json:"matchTags,omitempty"`
	SplitConfig      []Split           `json:"splitConfig"`
	IsActive         bool              `json:"isActive"`
}

// MatchRecord is the normalized view of a transaction or income entry that
// routing rules are evaluated against.
type MatchRecord struct {
	Source      string
	Description string
	AccountID   string
	Method      TransactionMethod
	Tags        []string
}

// RecurringExpense is a bill with a repeat frequency used for due-date
// scheduling and monthly spend forecasting.
type RecurringExpense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   Frequency       `json:"frequency"`
	// DueDay is the 1-31 day of month for monthly-style frequencies.
	// Zero means no fixed due day.
	DueDay      int  `json:"dueDay,omitempty"`
	NextDueDate Date `json:"nextDueDate"`
	IsActive    bool `json:"isActive"`
}

// Income represents a single income entry after payroll breakdown.
type Income struct {
	ID                string          `json:"id"`
	Source            string          `json:"source"`
	GrossAmount       decimal.Decimal `json:"grossAmount"`
	Taxes             decimal.Decimal `json:"taxes"`
	PreTaxDeductions  decimal.Decimal `json:"preTaxDeductions"`
	PostTaxDeductions decimal.Decimal `json:"postTaxDeductions"`
	NetAmount         decimal.Decimal `json:"netAmount"`
	Splits            []Split         `json:"splits,omitempty"`
}

// MatchRecord returns the view of the income entry a routing rule is
// evaluated against.
func (i *Income) MatchRecord() MatchRecord {
	return MatchRecord{Source: i.Source}
}

// NetReconciles reports whether the net amount equals gross minus taxes and
// deductions to within one cent.
func (i *Income) NetReconciles() bool {
	expected := i.GrossAmount.
		Sub(i.Taxes).
		Sub(i.PreTaxDeductions).
		Sub(i.PostTaxDeductions)
	return i.NetAmount.Sub(expected).Abs().LessThanOrEqual(centTolerance)
}

// Validate checks the income identity and returns a ValidationError when it
// does not hold. It is intended for the upstream validation layer; the
// engine itself assumes validated input.
func (i *Income) Validate() error {
	if !i.NetReconciles() {
		return &ValidationError{
			Field:   "netAmount",
			Message: "net amount does not equal gross minus taxes and deductions",
			Value:   i.NetAmount.String(),
		}
	}
	return nil
}
