// Package portfolio holds the dividend portfolio model: the entries, the
// allocation normalization that keeps them summing to 100%, and the
// allocation-weighted yield and growth metrics derived from them.
//
// Every operation is a pure transform. Callers own the State and receive a
// fresh copy from each mutation.
package portfolio

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyTicker is returned when an entry has no usable ticker symbol.
	ErrEmptyTicker = errors.New("ticker cannot be empty")
	// ErrIndexOutOfRange is returned when an index does not address an entry.
	ErrIndexOutOfRange = errors.New("portfolio index out of range")
)

// Entry is one ticker in the portfolio.
type Entry struct {
	Ticker        string  `json:"ticker" yaml:"ticker"`
	GrowthPct     float64 `json:"growthPct" yaml:"growthPct"`
	GrowthLabel   string  `json:"growthLabel,omitempty" yaml:"growthLabel,omitempty"`
	AvgYieldPct   float64 `json:"avgYieldPct" yaml:"avgYieldPct"`
	AllocationPct float64 `json:"allocationPct" yaml:"allocationPct"`
}

// State is the live portfolio collection.
type State struct {
	Entries []Entry `json:"entries" yaml:"entries"`
}

// NewState copies entries into a new State.
func NewState(entries []Entry) State {
	return State{Entries: append([]Entry(nil), entries...)}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return NewState(s.Entries)
}

// Len returns the number of entries.
func (s State) Len() int {
	return len(s.Entries)
}

// IndexOf returns the index of the entry whose ticker matches
// case-insensitively, or -1.
func (s State) IndexOf(ticker string) int {
	want := strings.ToUpper(strings.TrimSpace(ticker))
	for i, entry := range s.Entries {
		if strings.ToUpper(entry.Ticker) == want {
			return i
		}
	}
	return -1
}

// AllocationTotal sums the allocations in exact decimal arithmetic.
// Non-finite and negative allocations count as 0.
func (s State) AllocationTotal() decimal.Decimal {
	return sumDecimal(allocations(s.Entries))
}

// NormalizeTicker trims and uppercases a ticker and drops every character
// outside A-Z, 0-9, '.' and '-'.
func NormalizeTicker(ticker string) string {
	upper := strings.ToUpper(strings.TrimSpace(ticker))
	var builder strings.Builder
	for _, r := range upper {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// allocationValue reads an allocation as a decimal, mapping non-finite and
// negative values to 0.
func allocationValue(pct float64) decimal.Decimal {
	if math.IsNaN(pct) || math.IsInf(pct, 0) || pct <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(pct)
}

func allocations(entries []Entry) []decimal.Decimal {
	values := make([]decimal.Decimal, len(entries))
	for i, entry := range entries {
		values[i] = allocationValue(entry.AllocationPct)
	}
	return values
}

func sumDecimal(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
