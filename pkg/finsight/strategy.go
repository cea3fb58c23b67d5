package finsight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// CardStrategy recommends which card to use for one spending category.
type CardStrategy struct {
	Category        string `json:"category"`
	RecommendedCard string `json:"recommendedCard"`
	Reason          string `json:"reason"`
}

// categoryAliases maps a spending category to rewards-program keywords that
// suggest a bonus category on the card.
var categoryAliases = map[string][]string{
	"dining":    {"restaurant", "food"},
	"groceries": {"grocery", "supermarket"},
	"gas":       {"fuel", "station"},
	"travel":    {"flight", "hotel", "airline"},
	"streaming": {"entertainment"},
}

// categoryBonus estimates the extra percent a card's rewards program earns
// on a category, keyed off free-text substring matches. A direct category
// match is worth more than an alias match.
func categoryBonus(program, category string) decimal.Decimal {
	if program == "" {
		return decimal.Zero
	}
	p := strings.ToLower(program)
	c := strings.ToLower(category)

	if strings.Contains(p, c) {
		return decimal.NewFromInt(2)
	}
	for _, alias := range categoryAliases[c] {
		if strings.Contains(p, alias) {
			return decimal.NewFromInt(1)
		}
	}
	return decimal.Zero
}

// SuggestCardStrategy recommends the best card per spending category. For
// each category with nonzero spend, the card maximizing (cash back +
// category bonus) x spend wins; ties go to the earlier card. Categories
// with zero spend are omitted, and no cards yields an empty result.
// Categories are processed in sorted order so output is deterministic.
func (a *Analyzer) SuggestCardStrategy(cards []*Account, monthlySpendingByCategory map[string]decimal.Decimal) []*CardStrategy {
	var eligible []*Account
	for _, card := range cards {
		if card != nil && card.IsActive && card.IsCreditCard() {
			eligible = append(eligible, card)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	categories := make([]string, 0, len(monthlySpendingByCategory))
	for category := range monthlySpendingByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var strategies []*CardStrategy
	for _, category := range categories {
		spend := monthlySpendingByCategory[category]
		if !spend.IsPositive() {
			continue
		}

		var best *Account
		var bestBonus decimal.Decimal
		bestValue := decimal.Zero
		for _, card := range eligible {
			bonus := categoryBonus(card.RewardsProgram, category)
			value := PercentAmount(card.CashBackPercent.Add(bonus), spend)
			if best == nil || value.GreaterThan(bestValue) {
				best = card
				bestBonus = bonus
				bestValue = value
			}
		}

		reason := fmt.Sprintf("%s earns %s%% cash back on $%s of monthly %s spend",
			best.Name, best.CashBackPercent, spend, category)
		if bestBonus.IsPositive() {
			reason = fmt.Sprintf("%s, plus a %s bonus that covers %s",
				reason, best.RewardsProgram, category)
		}

		strategies = append(strategies, &CardStrategy{
			Category:        category,
			RecommendedCard: best.Name,
			Reason:          reason,
		})
	}
	return strategies
}
