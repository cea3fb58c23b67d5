package finsight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareForecast(t *testing.T) {
	tests := []struct {
		name       string
		expected   string
		actual     string
		threshold  float64
		wantDiff   string
		wantPct    string
		wantStatus ForecastStatus
	}{
		{
			name:       "within threshold is on track",
			expected:   "100",
			actual:     "105",
			threshold:  0.10,
			wantDiff:   "5",
			wantPct:    "5",
			wantStatus: ForecastOnTrack,
		},
		{
			name:       "exactly at threshold is on track",
			expected:   "100",
			actual:     "110",
			threshold:  0.10,
			wantDiff:   "10",
			wantPct:    "10",
			wantStatus: ForecastOnTrack,
		},
		{
			name:       "over threshold classifies over",
			expected:   "100",
			actual:     "125",
			threshold:  0.10,
			wantDiff:   "25",
			wantPct:    "25",
			wantStatus: ForecastOver,
		},
		{
			name:       "under threshold classifies under",
			expected:   "100",
			actual:     "60",
			threshold:  0.10,
			wantDiff:   "-40",
			wantPct:    "-40",
			wantStatus: ForecastUnder,
		},
		{
			name:       "zero expected guards percent to zero",
			expected:   "0",
			actual:     "50",
			threshold:  0.10,
			wantDiff:   "50",
			wantPct:    "0",
			wantStatus: ForecastOnTrack,
		},
		{
			name:       "tighter threshold flips classification",
			expected:   "100",
			actual:     "105",
			threshold:  0.02,
			wantDiff:   "5",
			wantPct:    "5",
			wantStatus: ForecastOver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareForecast(d(tt.expected), d(tt.actual), tt.threshold)
			assert.True(t, got.Difference.Equal(d(tt.wantDiff)), "difference %s", got.Difference)
			assert.True(t, got.PercentDifference.Equal(d(tt.wantPct)), "percent %s", got.PercentDifference)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}
