package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSurvival(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		index  float64
		bucket Bucket
		gap    float64
	}{
		{"stable", Sample{Dividend: 300, Expense: 250}, 120, BucketStable, 50},
		{"no dividend", Sample{Dividend: 0, Expense: 250}, 0, BucketDanger, -250},
		{"no expense", Sample{Dividend: 300, Expense: 0}, 0, BucketDanger, 300},
		{"caution", Sample{Dividend: 200, Expense: 250}, 80, BucketCaution, -50},
		{"surplus", Sample{Dividend: 400, Expense: 250}, 160, BucketSurplus, 150},
		{"capped", Sample{Dividend: 5000, Expense: 250}, 999, BucketSurplus, 4750},
		{"negative dividend floors at zero", Sample{Dividend: -10, Expense: 250}, 0, BucketDanger, -260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeSurvival(tt.sample)
			assert.InDelta(t, tt.index, result.Index, 1e-9)
			assert.Equal(t, tt.bucket, result.Bucket)
			assert.InDelta(t, tt.gap, result.Gap, 1e-9)
		})
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		index  float64
		bucket Bucket
	}{
		{0, BucketDanger},
		{69.99, BucketDanger},
		{70, BucketCaution},
		{99.99, BucketCaution},
		{100, BucketStable},
		{129.99, BucketStable},
		{130, BucketSurplus},
		{999, BucketSurplus},
		{math.NaN(), BucketUnknown},
		{math.Inf(1), BucketUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.bucket, BucketFor(tt.index), "index %v", tt.index)
	}
}

func TestSurvivalIndexNaN(t *testing.T) {
	assert.Equal(t, 0.0, SurvivalIndex(100, math.NaN()))
	assert.True(t, math.IsNaN(SurvivalIndex(math.NaN(), 250)))
	assert.Equal(t, BucketUnknown, ComputeSurvival(Sample{Dividend: math.NaN(), Expense: 250}).Bucket)
}

func TestSeriesSurvivalFallsBackToFirstPeriod(t *testing.T) {
	in := zeroGrowthInputs()
	series := GenerateSeries(in, SearchFreedom(in, 60), 2026)

	selected := series.Survival(2035)
	assert.Equal(t, PeriodKey(2035), selected.Period)
	assert.InDelta(t, 104.8, selected.Index, 1e-9)
	assert.Equal(t, BucketStable, selected.Bucket)

	fallback := series.Survival(1999)
	assert.Equal(t, PeriodKey(2026), fallback.Period)
	assert.InDelta(t, 40, fallback.Index, 1e-9)
	assert.Equal(t, BucketDanger, fallback.Bucket)
}
