package finsight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name        string
		payment     string
		tracked     string
		wantGap     string
		wantPercent string
		wantBand    SBNLBand
	}{
		{
			name:        "significant untracked share",
			payment:     "1850",
			tracked:     "1200",
			wantGap:     "650",
			wantPercent: "35",
			wantBand:    SBNLSignificant,
		},
		{
			name:        "tracking exceeds payment is accounted for",
			payment:     "1000",
			tracked:     "1100",
			wantGap:     "-100",
			wantPercent: "-10",
			wantBand:    SBNLAccountedFor,
		},
		{
			name:        "exact match is accounted for",
			payment:     "1000",
			tracked:     "1000",
			wantGap:     "0",
			wantPercent: "0",
			wantBand:    SBNLAccountedFor,
		},
		{
			name:        "small gap is great",
			payment:     "1000",
			tracked:     "970",
			wantGap:     "30",
			wantPercent: "3",
			wantBand:    SBNLGreat,
		},
		{
			name:        "moderate gap is good",
			payment:     "1000",
			tracked:     "900",
			wantGap:     "100",
			wantPercent: "10",
			wantBand:    SBNLGood,
		},
		{
			name:        "larger gap needs review",
			payment:     "1000",
			tracked:     "800",
			wantGap:     "200",
			wantPercent: "20",
			wantBand:    SBNLReview,
		},
		{
			name:        "zero payment guards percent to zero",
			payment:     "0",
			tracked:     "0",
			wantGap:     "0",
			wantPercent: "0",
			wantBand:    SBNLAccountedFor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(d(tt.payment), d(tt.tracked))
			assert.True(t, got.Gap.Equal(d(tt.wantGap)), "gap %s", got.Gap)
			assert.True(t, got.Percent.Equal(d(tt.wantPercent)), "percent %s", got.Percent)
			assert.Equal(t, tt.wantBand, got.Band)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestSBNLTrendOf(t *testing.T) {
	gaps := func(values ...string) []decimal.Decimal {
		out := make([]decimal.Decimal, len(values))
		for i, v := range values {
			out[i] = d(v)
		}
		return out
	}

	tests := []struct {
		name        string
		series      []decimal.Decimal
		want        SBNLDirection
		wantHighest string
		wantLowest  string
	}{
		{
			name:        "increasing when recent mean exceeds older by over ten percent",
			series:      gaps("100", "110", "105", "200", "250", "300"),
			want:        SBNLIncreasing,
			wantHighest: "300",
			wantLowest:  "100",
		},
		{
			name:        "decreasing when recent mean falls below ninety percent of older",
			series:      gaps("300", "280", "290", "100", "90", "80"),
			want:        SBNLDecreasing,
			wantHighest: "300",
			wantLowest:  "80",
		},
		{
			name:        "stable when means stay close",
			series:      gaps("100", "105", "95", "100", "102", "98"),
			want:        SBNLStable,
			wantHighest: "105",
			wantLowest:  "95",
		},
		{
			name:        "short series compares what it has",
			series:      gaps("100", "150"),
			want:        SBNLStable,
			wantHighest: "150",
			wantLowest:  "100",
		},
		{
			name:        "single point is stable",
			series:      gaps("42"),
			want:        SBNLStable,
			wantHighest: "42",
			wantLowest:  "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SBNLTrendOf(tt.series)
			assert.Equal(t, tt.want, got.Classification)
			assert.True(t, got.Highest.Equal(d(tt.wantHighest)), "highest %s", got.Highest)
			assert.True(t, got.Lowest.Equal(d(tt.wantLowest)), "lowest %s", got.Lowest)
		})
	}
}

func TestSBNLTrendOf_EmptySeries(t *testing.T) {
	got := SBNLTrendOf(nil)
	assert.Equal(t, SBNLInsufficientData, got.Classification)
	assert.True(t, got.Average.IsZero())
	assert.True(t, got.Highest.IsZero())
	assert.True(t, got.Lowest.IsZero())
	assert.True(t, got.Volatility.IsZero())
}

func TestSBNLTrendOf_Volatility(t *testing.T) {
	// Population stddev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2.
	series := []decimal.Decimal{d("2"), d("4"), d("4"), d("4"), d("5"), d("5"), d("7"), d("9")}
	got := SBNLTrendOf(series)
	assert.True(t, got.Volatility.Equal(d("2")), "volatility %s", got.Volatility)

	assert.True(t, SBNLTrendOf([]decimal.Decimal{d("42")}).Volatility.IsZero())
}
