package projection

import (
	"math"

	"github.com/iwvelando/freedom-forecast/pkg/constants"
)

// FreedomResult is the outcome of the freedom search. Period indices count
// whole years from now.
type FreedomResult struct {
	Computable         bool `json:"computable"`
	Reached            bool `json:"reached"`
	FreedomPeriodIndex *int `json:"freedomPeriodIndex"`
	HorizonPeriodIndex int  `json:"horizonPeriodIndex"`
}

// EndPeriodIndex is the last period a series should cover: the freedom
// period when reached, otherwise the horizon.
func (r FreedomResult) EndPeriodIndex() int {
	if r.Reached && r.FreedomPeriodIndex != nil {
		return *r.FreedomPeriodIndex
	}
	return r.HorizonPeriodIndex
}

// FreedomYear returns the calendar year of the freedom period.
func (r FreedomResult) FreedomYear(startYear int) (int, bool) {
	if !r.Reached || r.FreedomPeriodIndex == nil {
		return 0, false
	}
	return startYear + *r.FreedomPeriodIndex, true
}

// HorizonYear returns the calendar year of the end of the search.
func (r FreedomResult) HorizonYear(startYear int) int {
	return startYear + r.HorizonPeriodIndex
}

// AssetAtPeriod projects the asset after i years of annual compounding with
// the annual contribution added every year.
func AssetAtPeriod(in Inputs, i int) float64 {
	r := in.GrowthPct / constants.PercentageMultiplier
	growth := math.Pow(1+r, float64(i))
	annuity := float64(i)
	if r != 0 {
		annuity = (growth - 1) / r
	}
	return in.CurrentAsset*growth + in.AnnualContribution()*annuity
}

// MonthlyDividendAtPeriod is the monthly dividend paid by AssetAtPeriod.
func MonthlyDividendAtPeriod(in Inputs, i int) float64 {
	return in.MonthlyDividend(AssetAtPeriod(in, i))
}

// SearchFreedom scans periods 0..horizon for the first one whose monthly
// dividend meets the target expense. A horizon <= 0 uses
// constants.MaxFreedomYears. A zero expense or zero yield is not computable.
func SearchFreedom(in Inputs, horizon int) FreedomResult {
	if horizon <= 0 {
		horizon = constants.MaxFreedomYears
	}
	in = in.Sanitized()

	result := FreedomResult{HorizonPeriodIndex: horizon}
	if in.TargetExpense == 0 || in.DividendYieldPct == 0 {
		return result
	}

	result.Computable = true
	for i := 0; i <= horizon; i++ {
		if MonthlyDividendAtPeriod(in, i) >= in.TargetExpense {
			period := i
			result.Reached = true
			result.FreedomPeriodIndex = &period
			return result
		}
	}
	return result
}
