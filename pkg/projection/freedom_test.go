package projection

import (
	"math"
	"testing"

	"github.com/iwvelando/freedom-forecast/pkg/portfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeroGrowthInputs() Inputs {
	return Inputs{
		CurrentAsset:        10000,
		TargetExpense:       250,
		MonthlyContribution: 150,
		GrowthPct:           0,
		DividendYieldPct:    12,
	}
}

// firstCrossingByRecurrence walks asset(i) = asset(i-1)*(1+r) + contribution
// year by year, independently of the closed-form annuity.
func firstCrossingByRecurrence(in Inputs, horizon int) (int, bool) {
	r := in.GrowthPct / 100
	asset := in.CurrentAsset
	for i := 0; i <= horizon; i++ {
		if i > 0 {
			asset = asset*(1+r) + in.MonthlyContribution*12
		}
		if asset*in.DividendYieldPct/100/12 >= in.TargetExpense {
			return i, true
		}
	}
	return 0, false
}

func TestSearchFreedomZeroGrowth(t *testing.T) {
	in := zeroGrowthInputs()
	assert.InDelta(t, 100, MonthlyDividendAtPeriod(in, 0), 1e-9)

	result := SearchFreedom(in, 0)
	require.True(t, result.Computable)
	require.True(t, result.Reached)
	require.NotNil(t, result.FreedomPeriodIndex)

	// 100 + 18*i >= 250 first holds at i = 9.
	assert.Equal(t, 9, *result.FreedomPeriodIndex)
	assert.Equal(t, 60, result.HorizonPeriodIndex)
	assert.Less(t, MonthlyDividendAtPeriod(in, 8), in.TargetExpense)
	assert.GreaterOrEqual(t, MonthlyDividendAtPeriod(in, 9), in.TargetExpense)
	assert.InDelta(t, 26200, AssetAtPeriod(in, 9), 1e-9)
}

func TestSearchFreedomMatchesRecurrence(t *testing.T) {
	metrics := portfolio.Recommended().Metrics()
	cases := []Inputs{
		NewInputs(10000, 250, 150, metrics),
		NewInputs(0, 500, 300, metrics),
		NewInputs(50000, 1000, 0, metrics),
		{CurrentAsset: 2000, TargetExpense: 90, MonthlyContribution: 40, GrowthPct: -3, DividendYieldPct: 6},
		{CurrentAsset: 1, TargetExpense: 400, MonthlyContribution: 10, GrowthPct: 4, DividendYieldPct: 2},
	}

	for _, in := range cases {
		expected, ok := firstCrossingByRecurrence(in, 60)
		result := SearchFreedom(in, 60)
		require.True(t, result.Computable)
		assert.Equal(t, ok, result.Reached, "inputs %+v", in)
		if ok {
			require.NotNil(t, result.FreedomPeriodIndex)
			assert.Equal(t, expected, *result.FreedomPeriodIndex, "inputs %+v", in)
		} else {
			assert.Nil(t, result.FreedomPeriodIndex)
		}
	}
}

func TestSearchFreedomReachedImmediately(t *testing.T) {
	result := SearchFreedom(Inputs{CurrentAsset: 100000, TargetExpense: 250, DividendYieldPct: 12}, 60)
	require.True(t, result.Reached)
	assert.Equal(t, 0, *result.FreedomPeriodIndex)
	assert.Equal(t, 0, result.EndPeriodIndex())
}

func TestSearchFreedomBeyondHorizon(t *testing.T) {
	result := SearchFreedom(Inputs{CurrentAsset: 100, TargetExpense: 250, DividendYieldPct: 1}, 60)
	assert.True(t, result.Computable)
	assert.False(t, result.Reached)
	assert.Nil(t, result.FreedomPeriodIndex)
	assert.Equal(t, 60, result.HorizonPeriodIndex)
	assert.Equal(t, 60, result.EndPeriodIndex())

	_, ok := result.FreedomYear(2026)
	assert.False(t, ok)
	assert.Equal(t, 2086, result.HorizonYear(2026))
}

func TestSearchFreedomNotComputable(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
	}{
		{"zero expense", Inputs{CurrentAsset: 1e9, TargetExpense: 0, MonthlyContribution: 100, GrowthPct: 10, DividendYieldPct: 5}},
		{"zero yield", Inputs{CurrentAsset: 1e9, TargetExpense: 250, MonthlyContribution: 100, GrowthPct: 10, DividendYieldPct: 0}},
		{"negative expense coerced to zero", Inputs{CurrentAsset: 1e9, TargetExpense: -250, DividendYieldPct: 5}},
		{"NaN yield coerced to zero", Inputs{CurrentAsset: 1e9, TargetExpense: 250, DividendYieldPct: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SearchFreedom(tt.in, 60)
			assert.False(t, result.Computable)
			assert.False(t, result.Reached)
			assert.Nil(t, result.FreedomPeriodIndex)
			assert.Equal(t, 60, result.HorizonPeriodIndex)
		})
	}
}

func TestSearchFreedomCustomHorizon(t *testing.T) {
	result := SearchFreedom(zeroGrowthInputs(), 5)
	assert.False(t, result.Reached)
	assert.Equal(t, 5, result.HorizonPeriodIndex)
}

func TestSanitized(t *testing.T) {
	in := Inputs{
		CurrentAsset:        -10,
		TargetExpense:       math.Inf(1),
		MonthlyContribution: math.NaN(),
		GrowthPct:           -250,
		DividendYieldPct:    math.Inf(-1),
	}.Sanitized()

	assert.Equal(t, Inputs{GrowthPct: -100}, in)
}

func TestNewInputsUsesWeightedRates(t *testing.T) {
	metrics := portfolio.Metrics{AllocationSum: 100, WeightedYield: 5.35, WeightedGrowth: 12.269}
	in := NewInputs(10000, 250, 150, metrics)
	assert.Equal(t, 5.35, in.DividendYieldPct)
	assert.Equal(t, 12.269, in.GrowthPct)
	assert.Equal(t, 1800.0, in.AnnualContribution())
}
