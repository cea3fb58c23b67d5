package finsight

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/shopspring/decimal"
)

// RuleMatcherOptions configures rule evaluation.
type RuleMatcherOptions struct {
	// CaseInsensitive makes the regex criteria ignore case. The default is
	// case-sensitive matching.
	CaseInsensitive bool
}

// RuleMatcher evaluates routing rules against transaction and income
// records. Match patterns are compiled once and cached, so a matcher can be
// shared across many records and rules. The zero-value options give
// case-sensitive matching.
type RuleMatcher struct {
	options RuleMatcherOptions

	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

// NewRuleMatcher creates a new rule matcher.
func NewRuleMatcher(opts *RuleMatcherOptions) *RuleMatcher {
	m := &RuleMatcher{cache: make(map[string]*regexp.Regexp)}
	if opts != nil {
		m.options = *opts
	}
	return m
}

// compile returns the cached compiled pattern, compiling it on first use.
func (m *RuleMatcher) compile(pattern string) (*regexp.Regexp, error) {
	m.mu.RLock()
	if re, ok := m.cache[pattern]; ok {
		m.mu.RUnlock()
		return re, nil
	}
	m.mu.RUnlock()

	expr := pattern
	if m.options.CaseInsensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}

	m.mu.Lock()
	m.cache[pattern] = re
	m.mu.Unlock()

	return re, nil
}

// Matches reports whether every specified criterion on the rule matches the
// record. Unset criteria act as wildcards; specified criteria are ANDed.
// String criteria are regular expressions, account and method are exact
// matches, and every tag listed on the rule must be present on the record.
func (m *RuleMatcher) Matches(rule *Rule, rec MatchRecord) (bool, error) {
	if rule.MatchSource != "" {
		re, err := m.compile(rule.MatchSource)
		if err != nil {
			return false, err
		}
		if !re.MatchString(rec.Source) {
			return false, nil
		}
	}

	if rule.MatchDescription != "" {
		re, err := m.compile(rule.MatchDescription)
		if err != nil {
			return false, err
		}
		if !re.MatchString(rec.Description) {
			return false, nil
		}
	}

	if rule.MatchAccountID != "" && rule.MatchAccountID != rec.AccountID {
		return false, nil
	}

	if rule.MatchMethod != "" && rule.MatchMethod != rec.Method {
		return false, nil
	}

	for _, tag := range rule.MatchTags {
		if !hasTag(rec.Tags, tag) {
			return false, nil
		}
	}

	return true, nil
}

// FirstMatch returns the first active rule that matches the record, or nil
// when none do. Inactive rules are skipped without evaluation.
func (m *RuleMatcher) FirstMatch(rules []*Rule, rec MatchRecord) (*Rule, error) {
	for _, rule := range rules {
		if rule == nil || !rule.IsActive {
			continue
		}
		ok, err := m.Matches(rule, rec)
		if err != nil {
			return nil, err
		}
		if ok {
			return rule, nil
		}
	}
	return nil, nil
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// ResolvedSplit is a split template applied to a concrete amount.
type ResolvedSplit struct {
	Type   SplitType       `json:"type"`
	Target string          `json:"target"`
	Amount decimal.Decimal `json:"amount"`
}

// ApplySplits resolves each split template against the given amount. A
// fixed amount is used verbatim and wins over a percentage when both are
// present; a template carrying neither resolves to zero. Percent shares
// are exact, not rounded to cents: rounding each share independently lets
// half-cent errors accumulate across splits, so percents summing to 100
// must allocate the full amount. Callers round at the presentation
// boundary. Resolved amounts are not normalized to sum to the input
// amount: excess or shortfall is a valid allocation and is preserved.
func ApplySplits(amount decimal.Decimal, splits []Split) []ResolvedSplit {
	resolved := make([]ResolvedSplit, 0, len(splits))
	for _, s := range splits {
		var value decimal.Decimal
		switch {
		case s.Amount != nil:
			value = *s.Amount
		case s.Percent != nil:
			value = PercentAmount(*s.Percent, amount)
		}
		resolved = append(resolved, ResolvedSplit{
			Type:   s.Type,
			Target: s.Target,
			Amount: value,
		})
	}
	return resolved
}
