// Package projection computes the financial freedom projection: the first
// period where the monthly dividend of a growing portfolio covers the target
// expense, the asset/dividend/expense series up to that period, and the
// survival index of a selected period.
//
// Everything here is a deterministic function of its arguments. Search runs
// before series generation because the series step size depends on the
// search result.
package projection

import (
	"math"

	"github.com/iwvelando/freedom-forecast/pkg/constants"
	"github.com/iwvelando/freedom-forecast/pkg/mathutil"
	"github.com/iwvelando/freedom-forecast/pkg/portfolio"
)

// minGrowthPct keeps 1+r non-negative so stepped growth factors stay real.
const minGrowthPct = -100.0

// Inputs is the snapshot a projection is computed from. Monetary values are
// in a single fixed unit; rates are annual percentages.
type Inputs struct {
	CurrentAsset        float64 `json:"currentAsset"`
	TargetExpense       float64 `json:"targetExpense"`
	MonthlyContribution float64 `json:"monthlyContribution"`
	GrowthPct           float64 `json:"growthPct"`
	DividendYieldPct    float64 `json:"dividendYieldPct"`
}

// NewInputs combines the monetary inputs with the weighted portfolio rates.
func NewInputs(currentAsset, targetExpense, monthlyContribution float64, metrics portfolio.Metrics) Inputs {
	return Inputs{
		CurrentAsset:        currentAsset,
		TargetExpense:       targetExpense,
		MonthlyContribution: monthlyContribution,
		GrowthPct:           metrics.WeightedGrowth,
		DividendYieldPct:    metrics.WeightedYield,
	}.Sanitized()
}

// Sanitized coerces the inputs into their valid domain: non-finite or
// negative monetary values become 0, non-finite rates become 0 and growth
// is floored at -100%.
func (in Inputs) Sanitized() Inputs {
	return Inputs{
		CurrentAsset:        mathutil.NonNegative(in.CurrentAsset),
		TargetExpense:       mathutil.NonNegative(in.TargetExpense),
		MonthlyContribution: mathutil.NonNegative(in.MonthlyContribution),
		GrowthPct:           math.Max(minGrowthPct, mathutil.Finite(in.GrowthPct)),
		DividendYieldPct:    mathutil.Finite(in.DividendYieldPct),
	}
}

// AnnualContribution is the monthly contribution over a whole year.
func (in Inputs) AnnualContribution() float64 {
	return in.MonthlyContribution * constants.MonthsPerYear
}

// MonthlyDividend converts an asset value into the monthly dividend it pays.
func (in Inputs) MonthlyDividend(asset float64) float64 {
	return mathutil.ApplyPercentage(asset, in.DividendYieldPct) / constants.MonthsPerYear
}
