package finsight

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// d parses a decimal literal for test fixtures.
func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		places int32
		want   string
	}{
		{"round half up", "10.005", 2, "10.01"},
		{"round down", "10.004", 2, "10"},
		{"to integer", "35.1351", 0, "35"},
		{"negative amount", "-10.005", 2, "-10.01"},
		{"already exact", "1000.00", 2, "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round(d(tt.amount), tt.places)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name  string
		part  string
		whole string
		want  string
	}{
		{"thirty percent", "1500", "5000", "30"},
		{"over one hundred", "150", "100", "150"},
		{"zero whole guards to zero", "50", "0", "0"},
		{"zero part", "0", "100", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentOf(d(tt.part), d(tt.whole))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestPercentAmount(t *testing.T) {
	assert.True(t, PercentAmount(d("25"), d("200")).Equal(d("50")))
	assert.True(t, PercentAmount(d("0"), d("200")).Equal(d("0")))
	assert.True(t, PercentAmount(d("33.33"), d("100")).Equal(d("33.33")))
}

func TestSum(t *testing.T) {
	assert.True(t, Sum().IsZero())
	assert.True(t, Sum(d("1.10"), d("2.20"), d("3.30")).Equal(d("6.60")))
	assert.True(t, Sum(d("10"), d("-10")).IsZero())
}

// TestMoneyRoundTrip is the regression guard for the floating-point defect
// where 1000.00 stored through a float came back as 999.99.
func TestMoneyRoundTrip(t *testing.T) {
	type payload struct {
		Amount decimal.Decimal `json:"amount"`
	}

	in := payload{Amount: d("1000.00")}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.True(t, out.Amount.Equal(d("1000.00")), "round trip changed value: %s", out.Amount)
	assert.Equal(t, "1000", out.Amount.String())
}
