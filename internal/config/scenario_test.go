package config

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/freedom-forecast/pkg/portfolio"
)

func testCommon() Common {
	return Common{
		CurrentAsset:        5000,
		TargetExpense:       300,
		MonthlyContribution: 200,
		SelectedPeriod:      "2030",
		Portfolio: []portfolio.Entry{
			{Ticker: "SCHD", GrowthPct: 13.97, GrowthLabel: "10Y CAGR", AvgYieldPct: 3.5, AllocationPct: 60},
			{Ticker: "O", GrowthPct: 6.53, GrowthLabel: "10Y CAGR", AvgYieldPct: 5.5, AllocationPct: 40},
		},
	}
}

func allocationsOf(state portfolio.State) []float64 {
	values := make([]float64, 0, state.Len())
	for _, entry := range state.Entries {
		values = append(values, entry.AllocationPct)
	}
	return values
}

func equalAllocations(got, expected []float64) bool {
	if len(got) != len(expected) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-expected[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestScenarioInputs(t *testing.T) {
	common := testCommon()

	asset, expense, contribution := Scenario{}.Inputs(common)
	if asset != 5000 || expense != 300 || contribution != 200 {
		t.Errorf("inherited inputs = %v, %v, %v", asset, expense, contribution)
	}

	zero, lower := 0.0, 150.0
	asset, expense, contribution = Scenario{CurrentAsset: &zero, TargetExpense: &lower}.Inputs(common)
	if asset != 0 || expense != 150 || contribution != 200 {
		t.Errorf("overridden inputs = %v, %v, %v", asset, expense, contribution)
	}
}

func TestScenarioSelectedPeriodOr(t *testing.T) {
	common := testCommon()

	if got := (Scenario{}).SelectedPeriodOr(common); got != "2030" {
		t.Errorf("SelectedPeriodOr() = %q, expected inherited 2030", got)
	}
	if got := (Scenario{SelectedPeriod: "2032.5"}).SelectedPeriodOr(common); got != "2032.5" {
		t.Errorf("SelectedPeriodOr() = %q, expected 2032.5", got)
	}
}

func TestScenarioPortfolioState(t *testing.T) {
	tests := []struct {
		name        string
		scenario    Scenario
		expected    []float64
		expectNotes int
	}{
		{
			name:        "No adjustments",
			scenario:    Scenario{Name: "plain"},
			expected:    []float64{60, 40},
			expectNotes: 0,
		},
		{
			name: "Set allocation",
			scenario: Scenario{Name: "set", Adjustments: []Adjustment{
				{Action: "set", Ticker: "o", AllocationPct: 50},
			}},
			expected:    []float64{50, 50},
			expectNotes: 1,
		},
		{
			name: "Add ticker",
			scenario: Scenario{Name: "add", Adjustments: []Adjustment{
				{Action: "Add", Ticker: "jepi", AllocationPct: 20, GrowthPct: 12.14, AvgYieldPct: 8},
			}},
			expected:    []float64{48, 32, 20},
			expectNotes: 1,
		},
		{
			name: "Remove ticker",
			scenario: Scenario{Name: "remove", Adjustments: []Adjustment{
				{Action: "remove", Ticker: "O"},
			}},
			expected:    []float64{100},
			expectNotes: 1,
		},
		{
			name: "Own portfolio",
			scenario: Scenario{Name: "own", Portfolio: []portfolio.Entry{
				{Ticker: "JEPQ", AvgYieldPct: 9, AllocationPct: 100},
			}},
			expected:    []float64{100},
			expectNotes: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, notes, err := tt.scenario.PortfolioState(testCommon())
			if err != nil {
				t.Fatalf("PortfolioState() error = %v", err)
			}
			if got := allocationsOf(state); !equalAllocations(got, tt.expected) {
				t.Errorf("allocations = %v, expected %v", got, tt.expected)
			}
			if len(notes) != tt.expectNotes {
				t.Errorf("notes = %v, expected %d", notes, tt.expectNotes)
			}
		})
	}
}

func TestScenarioPortfolioStateDoesNotMutateCommon(t *testing.T) {
	common := testCommon()
	scenario := Scenario{Adjustments: []Adjustment{{Action: "set", Ticker: "SCHD", AllocationPct: 10}}}

	if _, _, err := scenario.PortfolioState(common); err != nil {
		t.Fatalf("PortfolioState() error = %v", err)
	}
	if common.Portfolio[0].AllocationPct != 60 {
		t.Errorf("common portfolio was mutated: %+v", common.Portfolio)
	}
}

func TestAdjustmentApplyErrors(t *testing.T) {
	state := portfolio.NewState(testCommon().Portfolio)

	tests := []struct {
		name       string
		adjustment Adjustment
		expected   error
	}{
		{
			name:       "Set unknown ticker",
			adjustment: Adjustment{Action: "set", Ticker: "VOO", AllocationPct: 10},
			expected:   ErrUnknownTicker,
		},
		{
			name:       "Remove unknown ticker",
			adjustment: Adjustment{Action: "remove", Ticker: "VOO"},
			expected:   ErrUnknownTicker,
		},
		{
			name:       "Unknown action",
			adjustment: Adjustment{Action: "swap", Ticker: "O"},
			expected:   ErrUnknownAction,
		},
		{
			name:       "Add without ticker",
			adjustment: Adjustment{Action: "add", Ticker: "  "},
			expected:   portfolio.ErrEmptyTicker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.adjustment.Apply(state)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Apply() error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestScenarioPortfolioStateWrapsErrors(t *testing.T) {
	scenario := Scenario{Name: "broken", Adjustments: []Adjustment{
		{Action: "set", Ticker: "SCHD", AllocationPct: 70},
		{Action: "remove", Ticker: "VOO"},
	}}

	state, notes, err := scenario.PortfolioState(testCommon())
	if !errors.Is(err, ErrUnknownTicker) {
		t.Fatalf("expected ErrUnknownTicker, got %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("expected the first adjustment to be noted, got %v", notes)
	}
	if got := allocationsOf(state); !equalAllocations(got, []float64{70, 30}) {
		t.Errorf("state should reflect applied adjustments, got %v", got)
	}
}

func TestAdjustmentString(t *testing.T) {
	tests := []struct {
		adjustment Adjustment
		expected   string
	}{
		{Adjustment{Action: "set", Ticker: "schd", AllocationPct: 55}, "set SCHD to 55.0%"},
		{Adjustment{Action: "add", Ticker: "jepq", AllocationPct: 12.5}, "add JEPQ at 12.5%"},
		{Adjustment{Action: "remove", Ticker: "o"}, "remove O"},
	}

	for _, tt := range tests {
		if got := tt.adjustment.String(); got != tt.expected {
			t.Errorf("String() = %q, expected %q", got, tt.expected)
		}
	}
}
