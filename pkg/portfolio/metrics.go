package portfolio

import "github.com/iwvelando/freedom-forecast/pkg/mathutil"

// Metrics are the allocation-weighted portfolio rates.
type Metrics struct {
	AllocationSum  float64 `json:"allocationSum"`
	WeightedYield  float64 `json:"weightedYield"`
	WeightedGrowth float64 `json:"weightedGrowth"`
}

// ComputeMetrics derives the weighted yield and growth of entries. The
// weights are relative, so the result is meaningful while the allocations
// do not yet sum to 100. Non-finite and negative allocations weigh 0, as in
// the normalizer. A zero allocation sum yields zero rates.
func ComputeMetrics(entries []Entry) Metrics {
	var sum, yield, growth float64
	for _, entry := range entries {
		w := mathutil.NonNegative(entry.AllocationPct)
		sum += w
		yield += w * mathutil.Finite(entry.AvgYieldPct)
		growth += w * mathutil.Finite(entry.GrowthPct)
	}

	metrics := Metrics{AllocationSum: sum}
	if sum == 0 {
		return metrics
	}
	metrics.WeightedYield = mathutil.Saturate(yield / sum)
	metrics.WeightedGrowth = mathutil.Saturate(growth / sum)
	return metrics
}

// Metrics computes the weighted metrics of the state.
func (s State) Metrics() Metrics {
	return ComputeMetrics(s.Entries)
}
