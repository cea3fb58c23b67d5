package finsight

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsightType classifies an insight for rendering.
type InsightType string

// Insight types.
const (
	InsightOpportunity InsightType = "opportunity"
	InsightWarning     InsightType = "warning"
	InsightInfo        InsightType = "info"
)

// FinancialInsight is one prioritized, actionable observation about a
// portfolio. Priority runs 1-10, higher meaning more urgent.
type FinancialInsight struct {
	ID          string          `json:"id"`
	Type        InsightType     `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	// Impact is the estimated dollar amount at stake, zero for purely
	// informational insights.
	Impact   decimal.Decimal `json:"impact"`
	Metric   string          `json:"metric"`
	Action   string          `json:"action"`
	Priority int             `json:"priority"`
}

// PaymentAnalysis summarizes a window of historical debt payments. It is an
// optional input to GenerateInsights.
type PaymentAnalysis struct {
	MonthlyAverage decimal.Decimal `json:"monthlyAverage"`
	// DebtReductionRate is the percent of starting debt retired over the
	// analyzed window.
	DebtReductionRate decimal.Decimal `json:"debtReductionRate"`
	TopAccountID      string          `json:"topAccountId,omitempty"`
	TopAccountName    string          `json:"topAccountName,omitempty"`
	TopAccountTotal   decimal.Decimal `json:"topAccountTotal"`
	MonthsAnalyzed    int             `json:"monthsAnalyzed"`
}

// hysaBenchmark is the high-yield savings APY used to size the impact of
// idle cash sitting in a low-yield account.
var hysaBenchmark = decimal.NewFromFloat(4.0)

// insightContext carries every input an insight rule may inspect.
type insightContext struct {
	options         *AnalyzerOptions
	accounts        []*Account
	creditCards     *CreditCardAnalysis
	netWorth        *NetWorthBreakdown
	cashFlow        *CashFlowAnalysis
	monthlySpending decimal.Decimal
	payments        *PaymentAnalysis
}

// insightRule is one row of the declarative insight table: a predicate, a
// builder, and a fixed type and priority. Rules are evaluated independently
// of one another.
type insightRule struct {
	name     string
	kind     InsightType
	priority int
	applies  func(ctx *insightContext) bool
	build    func(ctx *insightContext) []*FinancialInsight
}

var insightRules = []insightRule{
	{
		name:     "high-utilization",
		kind:     InsightWarning,
		priority: 9,
		applies: func(ctx *insightContext) bool {
			return ctx.creditCards != nil &&
				ctx.creditCards.UtilizationRate.GreaterThan(ctx.options.UtilizationAlert)
		},
		build: func(ctx *insightContext) []*FinancialInsight {
			cc := ctx.creditCards
			return []*FinancialInsight{{
				Title: "Credit utilization is very high",
				Description: fmt.Sprintf(
					"You are using %s%% of your combined credit limits, which weighs heavily on your credit score.",
					cc.UtilizationRate),
				Impact: cc.PotentialSavings,
				Metric: fmt.Sprintf("%s%% utilization", cc.UtilizationRate),
				Action: "Pay balances down below 30% of your limits, starting with the highest-rate card",
			}}
		},
	},
	{
		name:     "interest-opportunity-gap",
		kind:     InsightOpportunity,
		priority: 8,
		applies: func(ctx *insightContext) bool {
			return ctx.cashFlow != nil &&
				ctx.cashFlow.OpportunityGap.GreaterThan(ctx.options.OpportunityGapAlert)
		},
		build: func(ctx *insightContext) []*FinancialInsight {
			gap := ctx.cashFlow.OpportunityGap
			return []*FinancialInsight{{
				Title: "You pay far more interest than you earn",
				Description: fmt.Sprintf(
					"Interest paid exceeds interest earned by $%s every month.", gap),
				Impact: gap,
				Metric: fmt.Sprintf("$%s/month gap", gap),
				Action: "Refinance high-rate debt or redirect idle cash toward paying it down",
			}}
		},
	},
	{
		name:     "reward-maximization",
		kind:     InsightOpportunity,
		priority: 6,
		applies: func(ctx *insightContext) bool {
			if ctx.creditCards == nil || ctx.creditCards.BestRewardsCard == nil {
				return false
			}
			return projectedAnnualRewards(ctx).GreaterThan(ctx.options.RewardValueFloor)
		},
		build: func(ctx *insightContext) []*FinancialInsight {
			card := ctx.creditCards.BestRewardsCard
			value := projectedAnnualRewards(ctx)
			return []*FinancialInsight{{
				Title: "Your best rewards card is underused",
				Description: fmt.Sprintf(
					"Routing your monthly spending through %s would be worth about $%s a year.",
					card.Name, value),
				Impact: value,
				Metric: fmt.Sprintf("$%s/year in rewards", value),
				Action: fmt.Sprintf("Make %s the default card for everyday spending", card.Name),
			}}
		},
	},
	{
		name:     "annual-fee-breakeven",
		kind:     InsightWarning,
		priority: 5,
		applies: func(ctx *insightContext) bool {
			return len(feeLosingCards(ctx)) > 0
		},
		build: func(ctx *insightContext) []*FinancialInsight {
			var insights []*FinancialInsight
			for _, card := range feeLosingCards(ctx) {
				insights = append(insights, &FinancialInsight{
					Title: fmt.Sprintf("%s may not be earning its annual fee", card.Name),
					Description: fmt.Sprintf(
						"At your current spending, rewards on %s do not cover its $%s annual fee.",
						card.Name, card.AnnualFee),
					Impact: card.AnnualFee,
					Metric: fmt.Sprintf("$%s annual fee", card.AnnualFee),
					Action: "Downgrade to a no-fee product or shift enough spending to break even",
				})
			}
			return insights
		},
	},
	{
		name:     "fdic-excess",
		kind:     InsightWarning,
		priority: 7,
		applies: func(ctx *insightContext) bool {
			return len(fdicExcessAccounts(ctx)) > 0
		},
		build: func(ctx *insightContext) []*FinancialInsight {
			var insights []*FinancialInsight
			for _, acct := range fdicExcessAccounts(ctx) {
				excess := acct.CurrentBalance.Sub(ctx.options.FDICLimit)
				insights = append(insights, &FinancialInsight{
					Title: fmt.Sprintf("%s exceeds FDIC insurance coverage", acct.Name),
					Description: fmt.Sprintf(
						"$%s in %s sits above the $%s insured limit.",
						excess, acct.Name, ctx.options.FDICLimit),
					Impact: excess,
					Metric: fmt.Sprintf("$%s uninsured", excess),
					Action: "Spread deposits across institutions to stay under the insured limit",
				})
			}
			return insights
		},
	},
	{
		name:     "low-yield-checking",
		kind:     InsightOpportunity,
		priority: 6,
		applies: func(ctx *insightContext) bool {
			return len(lowYieldCheckingAccounts(ctx)) > 0
		},
		build: func(ctx *insightContext) []*FinancialInsight {
			var insights []*FinancialInsight
			for _, acct := range lowYieldCheckingAccounts(ctx) {
				forgone := RoundCents(PercentAmount(
					hysaBenchmark.Sub(acct.InterestRateAPY), acct.CurrentBalance).Div(twelve))
				insights = append(insights, &FinancialInsight{
					Title: fmt.Sprintf("Idle cash in %s", acct.Name),
					Description: fmt.Sprintf(
						"$%s earns %s%% APY; a high-yield account would add roughly $%s a month.",
						acct.CurrentBalance, acct.InterestRateAPY, forgone),
					Impact: forgone,
					Metric: fmt.Sprintf("%s%% APY on $%s", acct.InterestRateAPY, acct.CurrentBalance),
					Action: "Move the balance above your buffer into a high-yield savings account",
				})
			}
			return insights
		},
	},
	{
		name:     "fee-drag",
		kind:     InsightWarning,
		priority: 5,
		applies: func(ctx *insightContext) bool {
			return ctx.cashFlow != nil &&
				ctx.cashFlow.FeesTotal.GreaterThan(ctx.options.FeeAlert)
		},
		build: func(ctx *insightContext) []*FinancialInsight {
			fees := ctx.cashFlow.FeesTotal
			return []*FinancialInsight{{
				Title: "Account fees are adding up",
				Description: fmt.Sprintf(
					"You pay $%s a month in account and card fees.", fees),
				Impact: fees,
				Metric: fmt.Sprintf("$%s/month in fees", fees),
				Action: "Ask for fee waivers or switch to no-fee accounts",
			}}
		},
	},
	{
		name:     "positive-net-worth",
		kind:     InsightInfo,
		priority: 2,
		applies: func(ctx *insightContext) bool {
			return ctx.netWorth != nil && ctx.netWorth.NetWorth.IsPositive()
		},
		build: func(ctx *insightContext) []*FinancialInsight {
			nw := ctx.netWorth.NetWorth
			return []*FinancialInsight{{
				Title: "Net worth is positive",
				Description: fmt.Sprintf(
					"Assets exceed liabilities by $%s.", nw),
				Metric: fmt.Sprintf("$%s net worth", nw),
				Action: "Keep contributions steady and revisit allocation quarterly",
			}}
		},
	},
	{
		name:     "debt-reduction-pace",
		kind:     InsightInfo,
		priority: 4,
		applies: func(ctx *insightContext) bool {
			return ctx.payments != nil && ctx.payments.DebtReductionRate.IsPositive()
		},
		build: func(ctx *insightContext) []*FinancialInsight {
			p := ctx.payments
			return []*FinancialInsight{{
				Title: "Debt is trending down",
				Description: fmt.Sprintf(
					"Payments averaged $%s a month and retired %s%% of the starting balance over %d months.",
					p.MonthlyAverage, p.DebtReductionRate, p.MonthsAnalyzed),
				Impact: p.MonthlyAverage,
				Metric: fmt.Sprintf("%s%% reduction", p.DebtReductionRate),
				Action: "Keep the payment cadence; redirect it to savings once the balance clears",
			}}
		},
	},
	{
		name:     "top-payment-account",
		kind:     InsightInfo,
		priority: 3,
		applies: func(ctx *insightContext) bool {
			return ctx.payments != nil && ctx.payments.TopAccountName != ""
		},
		build: func(ctx *insightContext) []*FinancialInsight {
			p := ctx.payments
			return []*FinancialInsight{{
				Title: fmt.Sprintf("Most of your payments go to %s", p.TopAccountName),
				Description: fmt.Sprintf(
					"%s received $%s over the analyzed window, more than any other account.",
					p.TopAccountName, p.TopAccountTotal),
				Impact: p.TopAccountTotal,
				Metric: fmt.Sprintf("$%s paid", p.TopAccountTotal),
				Action: "Check whether that balance carries your highest rate; if not, re-target payments",
			}}
		},
	},
}

func projectedAnnualRewards(ctx *insightContext) decimal.Decimal {
	card := ctx.creditCards.BestRewardsCard
	return RoundCents(PercentAmount(card.CashBackPercent, ctx.monthlySpending).Mul(twelve))
}

// feeLosingCards returns active cards whose annual fee is not covered by
// rewards at the current spending level.
func feeLosingCards(ctx *insightContext) []*Account {
	var losing []*Account
	annualSpend := ctx.monthlySpending.Mul(twelve)
	for _, acct := range ctx.accounts {
		if acct == nil || !acct.IsActive || !acct.IsCreditCard() || !acct.AnnualFee.IsPositive() {
			continue
		}
		if !acct.CashBackPercent.IsPositive() {
			losing = append(losing, acct)
			continue
		}
		// Spend needed for cash back to cover the fee.
		breakeven := acct.AnnualFee.Div(acct.CashBackPercent.Div(oneHundred))
		if breakeven.GreaterThan(annualSpend) {
			losing = append(losing, acct)
		}
	}
	return losing
}

func fdicExcessAccounts(ctx *insightContext) []*Account {
	var over []*Account
	for _, acct := range ctx.accounts {
		if acct == nil || !acct.IsActive || !acct.IsFDIC {
			continue
		}
		if acct.CurrentBalance.GreaterThan(ctx.options.FDICLimit) {
			over = append(over, acct)
		}
	}
	return over
}

func lowYieldCheckingAccounts(ctx *insightContext) []*Account {
	var idle []*Account
	for _, acct := range ctx.accounts {
		if acct == nil || !acct.IsActive || acct.Type != AccountChecking {
			continue
		}
		if acct.CurrentBalance.GreaterThan(ctx.options.LowYieldBalance) &&
			acct.InterestRateAPY.LessThan(ctx.options.LowYieldAPY) {
			idle = append(idle, acct)
		}
	}
	return idle
}

// GenerateInsights evaluates the insight rule table over the portfolio and
// returns the results sorted by priority, highest first, capped at the
// analyzer's insight limit. payments may be nil when no payment history is
// available.
func (a *Analyzer) GenerateInsights(
	accounts []*Account,
	creditCards *CreditCardAnalysis,
	netWorth *NetWorthBreakdown,
	cashFlow *CashFlowAnalysis,
	monthlySpending decimal.Decimal,
	payments *PaymentAnalysis,
) []*FinancialInsight {
	ctx := &insightContext{
		options:         &a.options,
		accounts:        accounts,
		creditCards:     creditCards,
		netWorth:        netWorth,
		cashFlow:        cashFlow,
		monthlySpending: monthlySpending,
		payments:        payments,
	}

	var insights []*FinancialInsight
	for _, rule := range insightRules {
		if !rule.applies(ctx) {
			continue
		}
		for _, insight := range rule.build(ctx) {
			insight.ID = uuid.NewString()
			insight.Type = rule.kind
			insight.Priority = rule.priority
			insights = append(insights, insight)
		}
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority > insights[j].Priority
	})

	if len(insights) > a.options.InsightCap {
		insights = insights[:a.options.InsightCap]
	}
	return insights
}
