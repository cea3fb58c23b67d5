package finsight

import (
	"github.com/shopspring/decimal"
)

// AnalyzerOptions tunes the portfolio-level thresholds. Zero values fall
// back to the documented defaults.
type AnalyzerOptions struct {
	// InsightCap is the maximum number of insights returned (default 10).
	InsightCap int

	// UtilizationAlert is the aggregate utilization percent above which a
	// warning insight fires (default 80).
	UtilizationAlert decimal.Decimal

	// OpportunityGapAlert is the monthly interest gap in dollars above
	// which an opportunity insight fires (default 100).
	OpportunityGapAlert decimal.Decimal

	// RewardValueFloor is the projected annual reward value in dollars
	// above which the reward-maximization insight fires (default 240).
	RewardValueFloor decimal.Decimal

	// FDICLimit is the per-bank insured deposit threshold (default 250000).
	FDICLimit decimal.Decimal

	// LowYieldAPY is the checking APY below which a large balance counts
	// as idle (default 0.5).
	LowYieldAPY decimal.Decimal

	// LowYieldBalance is the checking balance above which idle cash is
	// flagged (default 10000).
	LowYieldBalance decimal.Decimal

	// FeeAlert is the monthly fee total above which a warning fires
	// (default 20).
	FeeAlert decimal.Decimal

	// SavingsFloor is the aggregate card balance below which implied
	// interest savings are not worth surfacing (default 50).
	SavingsFloor decimal.Decimal
}

// Analyzer composes the engine's account-level computations: credit-card
// aggregates, net worth, cash flow, insights, and card strategy.
type Analyzer struct {
	options AnalyzerOptions
}

// NewAnalyzer creates an analyzer, filling unset options with defaults.
func NewAnalyzer(opts *AnalyzerOptions) *Analyzer {
	a := &Analyzer{}
	if opts != nil {
		a.options = *opts
	}
	if a.options.InsightCap <= 0 {
		a.options.InsightCap = 10
	}
	if a.options.UtilizationAlert.IsZero() {
		a.options.UtilizationAlert = decimal.NewFromInt(80)
	}
	if a.options.OpportunityGapAlert.IsZero() {
		a.options.OpportunityGapAlert = decimal.NewFromInt(100)
	}
	if a.options.RewardValueFloor.IsZero() {
		a.options.RewardValueFloor = decimal.NewFromInt(240)
	}
	if a.options.FDICLimit.IsZero() {
		a.options.FDICLimit = decimal.NewFromInt(250000)
	}
	if a.options.LowYieldAPY.IsZero() {
		a.options.LowYieldAPY = decimal.NewFromFloat(0.5)
	}
	if a.options.LowYieldBalance.IsZero() {
		a.options.LowYieldBalance = decimal.NewFromInt(10000)
	}
	if a.options.FeeAlert.IsZero() {
		a.options.FeeAlert = decimal.NewFromInt(20)
	}
	if a.options.SavingsFloor.IsZero() {
		a.options.SavingsFloor = decimal.NewFromInt(50)
	}
	return a
}

// CreditCardAnalysis aggregates the credit-card side of a portfolio.
type CreditCardAnalysis struct {
	TotalLimit      decimal.Decimal `json:"totalLimit"`
	TotalBalance    decimal.Decimal `json:"totalBalance"`
	UtilizationRate decimal.Decimal `json:"utilizationRate"` // 0-100
	WeightedAPR     decimal.Decimal `json:"weightedApr"`
	// PotentialSavings is the implied monthly interest cost on the
	// aggregate balance, zero when the balance is too small to matter.
	PotentialSavings decimal.Decimal `json:"potentialSavings"`
	BestRewardsCard  *Account        `json:"bestRewardsCard,omitempty"`
}

// AccountBalanceLine is one account's contribution to a net worth
// statement.
type AccountBalanceLine struct {
	AccountID string          `json:"accountId"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	IsAsset   bool            `json:"isAsset"`
}

// NetWorthBreakdown is the asset/liability picture of a portfolio.
type NetWorthBreakdown struct {
	Assets      decimal.Decimal      `json:"assets"`
	Liabilities decimal.Decimal      `json:"liabilities"`
	NetWorth    decimal.Decimal      `json:"netWorth"`
	Accounts    []AccountBalanceLine `json:"perAccountBreakdown"`
}

// CashFlowAnalysis is the monthly interest-and-fee picture of a portfolio.
type CashFlowAnalysis struct {
	InterestEarned decimal.Decimal `json:"interestEarned"`
	InterestPaid   decimal.Decimal `json:"interestPaid"`
	FeesTotal      decimal.Decimal `json:"feesTotal"`
	NetInterest    decimal.Decimal `json:"netInterest"`
	// OpportunityGap is how much more interest is paid than earned each
	// month, floored at zero.
	OpportunityGap decimal.Decimal `json:"opportunityGap"`
}

// rewardScore ranks cards for BestRewardsCard. Points only count when the
// card earns more than one point per dollar.
func rewardScore(card *Account) decimal.Decimal {
	score := card.CashBackPercent.Mul(decimal.NewFromInt(10))
	if card.PointsPerDollar.GreaterThan(decimal.NewFromInt(1)) {
		score = score.Add(card.PointsPerDollar.Mul(decimal.NewFromInt(5)))
	}
	return score
}

// CreditCardAnalysis aggregates the active credit-card accounts: totals,
// blended utilization, mean APR across cards that carry one, the implied
// monthly interest cost, and the best rewards card by synthetic score.
func (a *Analyzer) CreditCardAnalysis(accounts []*Account) *CreditCardAnalysis {
	analysis := &CreditCardAnalysis{
		TotalLimit:       decimal.Zero,
		TotalBalance:     decimal.Zero,
		UtilizationRate:  decimal.Zero,
		WeightedAPR:      decimal.Zero,
		PotentialSavings: decimal.Zero,
	}

	rateSum := decimal.Zero
	rateCount := 0
	bestScore := decimal.Zero

	for _, acct := range accounts {
		if acct == nil || !acct.IsActive || !acct.IsCreditCard() {
			continue
		}
		analysis.TotalLimit = analysis.TotalLimit.Add(acct.CreditLimit)
		analysis.TotalBalance = analysis.TotalBalance.Add(acct.CurrentBalance)

		if acct.InterestRate.IsPositive() {
			rateSum = rateSum.Add(acct.InterestRate)
			rateCount++
		}

		if score := rewardScore(acct); score.GreaterThan(bestScore) {
			bestScore = score
			analysis.BestRewardsCard = acct
		}
	}

	if analysis.TotalLimit.IsPositive() {
		analysis.UtilizationRate = RoundCents(PercentOf(analysis.TotalBalance, analysis.TotalLimit))
	}

	if rateCount > 0 {
		analysis.WeightedAPR = RoundCents(rateSum.Div(decimal.NewFromInt(int64(rateCount))))
	}

	if analysis.TotalBalance.GreaterThan(a.options.SavingsFloor) {
		monthlyRate := analysis.WeightedAPR.Div(oneHundred).Div(twelve)
		analysis.PotentialSavings = RoundCents(analysis.TotalBalance.Mul(monthlyRate))
	}

	return analysis
}

// NetWorth sums active accounts into assets and liabilities. Deposit, cash,
// and investment balances are assets; loans and credit cards carrying a
// balance are liabilities. Inactive accounts are excluded entirely.
func (a *Analyzer) NetWorth(accounts []*Account) *NetWorthBreakdown {
	breakdown := &NetWorthBreakdown{
		Assets:      decimal.Zero,
		Liabilities: decimal.Zero,
	}

	for _, acct := range accounts {
		if acct == nil || !acct.IsActive {
			continue
		}

		switch acct.Type {
		case AccountChecking, AccountSavings, AccountCash, AccountInvestment:
			breakdown.Assets = breakdown.Assets.Add(acct.CurrentBalance)
			breakdown.Accounts = append(breakdown.Accounts, AccountBalanceLine{
				AccountID: acct.ID,
				Name:      acct.Name,
				Type:      acct.Type,
				Balance:   acct.CurrentBalance,
				IsAsset:   true,
			})
		case AccountCreditCard:
			if !acct.CurrentBalance.IsPositive() {
				continue
			}
			breakdown.Liabilities = breakdown.Liabilities.Add(acct.CurrentBalance)
			breakdown.Accounts = append(breakdown.Accounts, AccountBalanceLine{
				AccountID: acct.ID,
				Name:      acct.Name,
				Type:      acct.Type,
				Balance:   acct.CurrentBalance,
			})
		case AccountLoan:
			balance := acct.LiabilityBalance()
			breakdown.Liabilities = breakdown.Liabilities.Add(balance)
			breakdown.Accounts = append(breakdown.Accounts, AccountBalanceLine{
				AccountID: acct.ID,
				Name:      acct.Name,
				Type:      acct.Type,
				Balance:   balance,
			})
		}
	}

	breakdown.NetWorth = breakdown.Assets.Sub(breakdown.Liabilities)
	return breakdown
}

// CashFlow computes the monthly interest earned on deposits, interest paid
// on debt, and fee drag across active accounts.
func (a *Analyzer) CashFlow(accounts []*Account) *CashFlowAnalysis {
	flow := &CashFlowAnalysis{
		InterestEarned: decimal.Zero,
		InterestPaid:   decimal.Zero,
		FeesTotal:      decimal.Zero,
	}

	for _, acct := range accounts {
		if acct == nil || !acct.IsActive {
			continue
		}

		switch acct.Type {
		case AccountChecking, AccountSavings:
			monthlyRate := acct.InterestRateAPY.Div(oneHundred).Div(twelve)
			flow.InterestEarned = flow.InterestEarned.Add(acct.CurrentBalance.Mul(monthlyRate))
			flow.FeesTotal = flow.FeesTotal.Add(acct.MonthlyFee)
		case AccountCreditCard:
			if acct.CurrentBalance.IsPositive() {
				monthlyRate := acct.InterestRate.Div(oneHundred).Div(twelve)
				flow.InterestPaid = flow.InterestPaid.Add(acct.CurrentBalance.Mul(monthlyRate))
			}
			flow.FeesTotal = flow.FeesTotal.Add(acct.AnnualFee.Div(twelve))
		case AccountLoan:
			monthlyRate := acct.InterestRate.Div(oneHundred).Div(twelve)
			flow.InterestPaid = flow.InterestPaid.Add(acct.LiabilityBalance().Mul(monthlyRate))
		}
	}

	flow.InterestEarned = RoundCents(flow.InterestEarned)
	flow.InterestPaid = RoundCents(flow.InterestPaid)
	flow.FeesTotal = RoundCents(flow.FeesTotal)
	flow.NetInterest = flow.InterestEarned.Sub(flow.InterestPaid)

	gap := flow.InterestPaid.Sub(flow.InterestEarned)
	if gap.IsNegative() {
		gap = decimal.Zero
	}
	flow.OpportunityGap = gap

	return flow
}
