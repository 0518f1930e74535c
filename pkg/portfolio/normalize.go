package portfolio

import (
	"github.com/iwvelando/freedom-forecast/pkg/constants"
	"github.com/iwvelando/freedom-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(constants.AllocationTotal)

// ApplyAllocationChange sets the allocation of the entry at index to value
// (clamped to [0,100], rounded to one decimal) and redistributes the rest of
// the 100% over the other entries in proportion to their current
// allocations, or evenly when they are all zero.
//
// The one-decimal rounding residue goes to a single entry: the last one, or
// the second-to-last when the last is the edited entry. The result always
// sums to exactly 100. An out-of-range index returns an unchanged copy and a
// single-entry portfolio is always 100%.
func ApplyAllocationChange(state State, index int, value float64) State {
	next := state.Clone()
	n := next.Len()
	if index < 0 || index >= n {
		return next
	}
	if n == 1 {
		next.Entries[0].AllocationPct = constants.AllocationTotal
		return next
	}

	values := allocations(next.Entries)
	target := decimal.NewFromFloat(mathutil.Clamp(mathutil.Finite(value), 0, constants.AllocationTotal))
	remaining := hundred.Sub(target)

	if !remaining.IsPositive() {
		for i := range values {
			values[i] = decimal.Zero
		}
		values[index] = hundred
		return next.withAllocations(values)
	}

	othersSum := decimal.Zero
	for i, v := range values {
		if i != index {
			othersSum = othersSum.Add(v)
		}
	}

	values[index] = round1(target)
	if othersSum.IsPositive() {
		for i := range values {
			if i != index {
				values[i] = round1(values[i].Mul(remaining).Div(othersSum))
			}
		}
	} else {
		each := round1(remaining.Div(decimal.NewFromInt(int64(n - 1))))
		for i := range values {
			if i != index {
				values[i] = each
			}
		}
	}

	adjust := n - 1
	if index == n-1 {
		adjust = n - 2
	}
	absorbResidue(values, adjust, index)
	return next.withAllocations(values)
}

// ApplyRemoval deletes the entry at index and renormalizes the rest.
// An out-of-range index returns an unchanged copy.
func ApplyRemoval(state State, index int) State {
	if index < 0 || index >= state.Len() {
		return state.Clone()
	}
	remaining := make([]Entry, 0, state.Len()-1)
	remaining = append(remaining, state.Entries[:index]...)
	remaining = append(remaining, state.Entries[index+1:]...)
	return Renormalize(State{Entries: remaining})
}

// Renormalize scales every allocation by 100/sum, or splits 100 evenly when
// the sum is zero, and moves the rounding residue onto the last entry.
func Renormalize(state State) State {
	next := state.Clone()
	n := next.Len()
	if n == 0 {
		return next
	}

	values := allocations(next.Entries)
	total := sumDecimal(values)
	if total.IsZero() {
		each := round1(hundred.Div(decimal.NewFromInt(int64(n))))
		for i := range values {
			values[i] = each
		}
	} else {
		for i := range values {
			values[i] = round1(values[i].Mul(hundred).Div(total))
		}
	}

	absorbResidue(values, n-1, -1)
	return next.withAllocations(values)
}

// Upsert adds entry, or replaces the entry with the same ticker
// (case-insensitive), and then treats its allocation as just set through
// ApplyAllocationChange.
func Upsert(state State, entry Entry) (State, error) {
	ticker := NormalizeTicker(entry.Ticker)
	if ticker == "" {
		return state.Clone(), ErrEmptyTicker
	}

	entry.Ticker = ticker
	entry.GrowthPct = mathutil.Finite(entry.GrowthPct)
	entry.AvgYieldPct = mathutil.Finite(entry.AvgYieldPct)
	if entry.GrowthLabel == "" {
		entry.GrowthLabel = constants.ManualGrowthLabel
		if rec, ok := RecommendedEntry(ticker); ok {
			entry.GrowthLabel = rec.GrowthLabel
		}
	}

	next := state.Clone()
	index := next.IndexOf(ticker)
	if index >= 0 {
		next.Entries[index] = entry
	} else {
		next.Entries = append(next.Entries, entry)
		index = next.Len() - 1
	}
	return ApplyAllocationChange(next, index, entry.AllocationPct), nil
}

// absorbResidue adds 100 - sum(values) to values[adjust]. When clamping to
// [0,100] leaves part of the residue unabsorbed, the rest is taken by the
// remaining entries from the back, never by skip.
func absorbResidue(values []decimal.Decimal, adjust, skip int) {
	residue := hundred.Sub(sumDecimal(values))
	if residue.IsZero() || adjust < 0 || adjust == skip {
		return
	}

	order := []int{adjust}
	for i := len(values) - 1; i >= 0; i-- {
		if i != adjust && i != skip {
			order = append(order, i)
		}
	}

	for _, i := range order {
		if residue.IsZero() {
			return
		}
		updated := clampDecimal(values[i].Add(residue), decimal.Zero, hundred)
		residue = residue.Sub(updated.Sub(values[i]))
		values[i] = updated
	}
}

func (s State) withAllocations(values []decimal.Decimal) State {
	for i := range s.Entries {
		s.Entries[i].AllocationPct = values[i].InexactFloat64()
	}
	return s
}

func round1(d decimal.Decimal) decimal.Decimal {
	return d.Round(constants.AllocationDecimalPlaces)
}

func clampDecimal(d, min, max decimal.Decimal) decimal.Decimal {
	if d.LessThan(min) {
		return min
	}
	if d.GreaterThan(max) {
		return max
	}
	return d
}
