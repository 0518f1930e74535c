package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/freedom-forecast/pkg/portfolio"
)

// Adjustment actions.
const (
	ActionSet    = "set"
	ActionAdd    = "add"
	ActionRemove = "remove"
)

var (
	// ErrUnknownAction is returned for an adjustment action other than set, add or remove.
	ErrUnknownAction = errors.New("unknown adjustment action")
	// ErrUnknownTicker is returned when an adjustment names a ticker not in the portfolio.
	ErrUnknownTicker = errors.New("ticker not in portfolio")
)

// Scenario is a named variation on the common inputs. Nil overrides and an
// empty portfolio inherit from Common.
type Scenario struct {
	Name                string            `yaml:"name"`
	Active              bool              `yaml:"active"`
	CurrentAsset        *float64          `yaml:"currentAsset,omitempty"`
	TargetExpense       *float64          `yaml:"targetExpense,omitempty"`
	MonthlyContribution *float64          `yaml:"monthlyContribution,omitempty"`
	SelectedPeriod      string            `yaml:"selectedPeriod,omitempty"`
	Portfolio           []portfolio.Entry `yaml:"portfolio,omitempty"`
	Adjustments         []Adjustment      `yaml:"adjustments,omitempty"`
	Optimizer           *OptimizerConfig  `yaml:"optimizer,omitempty"`
}

// Adjustment is one portfolio edit applied through the allocation normalizer.
type Adjustment struct {
	Action        string  `yaml:"action"`
	Ticker        string  `yaml:"ticker"`
	AllocationPct float64 `yaml:"allocationPct,omitempty"`
	GrowthPct     float64 `yaml:"growthPct,omitempty"`
	GrowthLabel   string  `yaml:"growthLabel,omitempty"`
	AvgYieldPct   float64 `yaml:"avgYieldPct,omitempty"`
}

// Inputs returns the monetary inputs of the scenario.
func (s Scenario) Inputs(common Common) (currentAsset, targetExpense, monthlyContribution float64) {
	currentAsset = common.CurrentAsset
	if s.CurrentAsset != nil {
		currentAsset = *s.CurrentAsset
	}
	targetExpense = common.TargetExpense
	if s.TargetExpense != nil {
		targetExpense = *s.TargetExpense
	}
	monthlyContribution = common.MonthlyContribution
	if s.MonthlyContribution != nil {
		monthlyContribution = *s.MonthlyContribution
	}
	return currentAsset, targetExpense, monthlyContribution
}

// SelectedPeriodOr returns the scenario's selected period, or the common one.
func (s Scenario) SelectedPeriodOr(common Common) string {
	if s.SelectedPeriod != "" {
		return s.SelectedPeriod
	}
	return common.SelectedPeriod
}

// PortfolioState builds the scenario portfolio and applies its adjustments in
// order. It returns one note per applied adjustment.
func (s Scenario) PortfolioState(common Common) (portfolio.State, []string, error) {
	entries := common.Portfolio
	if len(s.Portfolio) > 0 {
		entries = s.Portfolio
	}
	state := portfolio.NewState(entries)

	var notes []string
	for i, adjustment := range s.Adjustments {
		next, err := adjustment.Apply(state)
		if err != nil {
			return state, notes, fmt.Errorf("scenario %s adjustment %d: %w", s.Name, i+1, err)
		}
		state = next
		notes = append(notes, adjustment.String())
	}
	return state, notes, nil
}

// Apply performs the adjustment on state.
func (a Adjustment) Apply(state portfolio.State) (portfolio.State, error) {
	switch strings.ToLower(strings.TrimSpace(a.Action)) {
	case ActionSet:
		index := state.IndexOf(a.Ticker)
		if index < 0 {
			return state, fmt.Errorf("%w: %s", ErrUnknownTicker, a.Ticker)
		}
		return portfolio.ApplyAllocationChange(state, index, a.AllocationPct), nil
	case ActionAdd:
		return portfolio.Upsert(state, portfolio.Entry{
			Ticker:        a.Ticker,
			GrowthPct:     a.GrowthPct,
			GrowthLabel:   a.GrowthLabel,
			AvgYieldPct:   a.AvgYieldPct,
			AllocationPct: a.AllocationPct,
		})
	case ActionRemove:
		index := state.IndexOf(a.Ticker)
		if index < 0 {
			return state, fmt.Errorf("%w: %s", ErrUnknownTicker, a.Ticker)
		}
		return portfolio.ApplyRemoval(state, index), nil
	default:
		return state, fmt.Errorf("%w: %q", ErrUnknownAction, a.Action)
	}
}

// String describes the adjustment.
func (a Adjustment) String() string {
	ticker := strings.ToUpper(strings.TrimSpace(a.Ticker))
	switch strings.ToLower(strings.TrimSpace(a.Action)) {
	case ActionSet:
		return fmt.Sprintf("set %s to %.1f%%", ticker, a.AllocationPct)
	case ActionAdd:
		return fmt.Sprintf("add %s at %.1f%%", ticker, a.AllocationPct)
	case ActionRemove:
		return fmt.Sprintf("remove %s", ticker)
	default:
		return fmt.Sprintf("%s %s", a.Action, ticker)
	}
}
