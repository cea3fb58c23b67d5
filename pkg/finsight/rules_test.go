package finsight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestRuleMatcher_Matches(t *testing.T) {
	rec := MatchRecord{
		Source:      "ACME Payroll",
		Description: "COSTCO WHOLESALE #412",
		AccountID:   "acct-1",
		Method:      MethodCreditCard,
		Tags:        []string{"groceries", "bulk"},
	}

	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{
			name: "no criteria matches everything",
			rule: Rule{Name: "catch-all"},
			want: true,
		},
		{
			name: "description regex",
			rule: Rule{MatchDescription: `COSTCO`},
			want: true,
		},
		{
			name: "description regex is case-sensitive by default",
			rule: Rule{MatchDescription: `costco`},
			want: false,
		},
		{
			name: "source regex",
			rule: Rule{MatchSource: `^ACME`},
			want: true,
		},
		{
			name: "all specified criteria are ANDed",
			rule: Rule{MatchDescription: `COSTCO`, MatchAccountID: "acct-1", MatchMethod: MethodCreditCard},
			want: true,
		},
		{
			name: "one failing criterion fails the rule",
			rule: Rule{MatchDescription: `COSTCO`, MatchAccountID: "acct-2"},
			want: false,
		},
		{
			name: "method exact match",
			rule: Rule{MatchMethod: MethodACH},
			want: false,
		},
		{
			name: "every rule tag must be present",
			rule: Rule{MatchTags: []string{"groceries", "bulk"}},
			want: true,
		},
		{
			name: "missing tag fails",
			rule: Rule{MatchTags: []string{"groceries", "travel"}},
			want: false,
		},
	}

	matcher := NewRuleMatcher(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matcher.Matches(&tt.rule, rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleMatcher_CaseInsensitiveOption(t *testing.T) {
	matcher := NewRuleMatcher(&RuleMatcherOptions{CaseInsensitive: true})
	rule := Rule{MatchDescription: `costco`}

	got, err := matcher.Matches(&rule, MatchRecord{Description: "COSTCO WHOLESALE"})
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRuleMatcher_InvalidPattern(t *testing.T) {
	matcher := NewRuleMatcher(nil)
	rule := Rule{MatchDescription: `([unclosed`}

	_, err := matcher.Matches(&rule, MatchRecord{Description: "anything"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestRuleMatcher_FirstMatch(t *testing.T) {
	rules := []*Rule{
		{Name: "inactive", MatchDescription: `.*`, IsActive: false},
		{Name: "misses", MatchDescription: `NETFLIX`, IsActive: true},
		{Name: "hits", MatchDescription: `COSTCO`, IsActive: true},
		{Name: "also hits but later", MatchDescription: `WHOLESALE`, IsActive: true},
	}

	matcher := NewRuleMatcher(nil)
	got, err := matcher.FirstMatch(rules, MatchRecord{Description: "COSTCO WHOLESALE"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hits", got.Name)

	got, err = matcher.FirstMatch(rules, MatchRecord{Description: "no rule wants this"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRuleMatcher_MatchesIncomeRecord(t *testing.T) {
	matcher := NewRuleMatcher(nil)
	income := Income{Source: "ACME Payroll"}
	rule := Rule{MatchSource: `Payroll$`, IsActive: true}

	got, err := matcher.Matches(&rule, income.MatchRecord())
	require.NoError(t, err)
	assert.True(t, got)
}

func TestApplySplits(t *testing.T) {
	amount := d("200")

	tests := []struct {
		name   string
		splits []Split
		want   []string
	}{
		{
			name: "fixed amount used verbatim",
			splits: []Split{
				{Type: SplitNeed, Target: "rent", Amount: dp("150")},
			},
			want: []string{"150"},
		},
		{
			name: "percent resolved against amount",
			splits: []Split{
				{Type: SplitSavings, Target: "emergency", Percent: dp("25")},
			},
			want: []string{"50"},
		},
		{
			name: "amount wins over percent when both present",
			splits: []Split{
				{Type: SplitWant, Target: "fun", Amount: dp("10"), Percent: dp("50")},
			},
			want: []string{"10"},
		},
		{
			name: "neither resolves to zero",
			splits: []Split{
				{Type: SplitOtherT, Target: "unassigned"},
			},
			want: []string{"0"},
		},
		{
			name: "shortfall is preserved, not normalized",
			splits: []Split{
				{Type: SplitNeed, Target: "rent", Percent: dp("40")},
				{Type: SplitWant, Target: "fun", Amount: dp("20")},
			},
			want: []string{"80", "20"},
		},
		{
			name: "excess is preserved, not normalized",
			splits: []Split{
				{Type: SplitNeed, Target: "a", Amount: dp("150")},
				{Type: SplitWant, Target: "b", Amount: dp("150")},
			},
			want: []string{"150", "150"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := ApplySplits(amount, tt.splits)
			require.Len(t, resolved, len(tt.want))
			for i, want := range tt.want {
				assert.True(t, resolved[i].Amount.Equal(d(want)),
					"split %d: got %s want %s", i, resolved[i].Amount, want)
			}
		})
	}
}

// Splits whose percentages sum to 100 must allocate the full transaction
// amount to within one cent, no matter how many splits carry the load.
func TestApplySplits_FullPercentCoverage(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		splits []Split
	}{
		{
			name:   "three-way thirds",
			amount: d("100"),
			splits: []Split{
				{Type: SplitNeed, Target: "a", Percent: dp("33.33")},
				{Type: SplitWant, Target: "b", Percent: dp("33.33")},
				{Type: SplitSavings, Target: "c", Percent: dp("33.34")},
			},
		},
		{
			// Each 20.5% share of $1.00 sits exactly on a half-cent
			// boundary; rounding shares independently would drift by a
			// half cent apiece.
			name:   "five-way half-cent boundary",
			amount: d("1.00"),
			splits: []Split{
				{Type: SplitNeed, Target: "a", Percent: dp("20.5")},
				{Type: SplitNeed, Target: "b", Percent: dp("20.5")},
				{Type: SplitWant, Target: "c", Percent: dp("20.5")},
				{Type: SplitWant, Target: "d", Percent: dp("20.5")},
				{Type: SplitSavings, Target: "e", Percent: dp("18")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := ApplySplits(tt.amount, tt.splits)
			total := decimal.Zero
			for _, r := range resolved {
				total = total.Add(r.Amount)
			}

			assert.True(t, total.Sub(tt.amount).Abs().LessThanOrEqual(d("0.01")),
				"allocated %s of %s", total, tt.amount)
		})
	}
}
