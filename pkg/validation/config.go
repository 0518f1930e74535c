package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/freedom-forecast/pkg/constants"
)

// allocationSumTolerance is the slack allowed before an allocation sum
// other than 100 is reported.
const allocationSumTolerance = 0.1

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	Common    CommonConfig
	Scenarios []ScenarioConfig
}

type CommonConfig struct {
	HorizonYears        int
	CurrentAsset        float64
	TargetExpense       float64
	MonthlyContribution float64
	SelectedPeriod      string
	Portfolio           []EntryConfig
}

type ScenarioConfig struct {
	Name                string
	Active              bool
	CurrentAsset        *float64
	TargetExpense       *float64
	MonthlyContribution *float64
	SelectedPeriod      string
	Portfolio           []EntryConfig
	Actions             []string
}

type EntryConfig struct {
	Ticker        string
	AllocationPct float64
	AvgYieldPct   float64
}

// ValidatePortfolio checks a portfolio for missing or duplicate tickers,
// out-of-range allocations, an allocation sum other than 100 and a zero
// weighted yield.
func ValidatePortfolio(name string, entries []EntryConfig) []string {
	var warnings []string
	if len(entries) == 0 {
		return warnings
	}

	seen := make(map[string]bool)
	sum := 0.0
	weightedYield := 0.0
	for i, entry := range entries {
		ticker := strings.ToUpper(strings.TrimSpace(entry.Ticker))
		if ticker == "" {
			warnings = append(warnings, fmt.Sprintf("%s entry %d has no ticker", name, i+1))
		} else if seen[ticker] {
			warnings = append(warnings, fmt.Sprintf("%s lists ticker %s more than once", name, ticker))
		}
		seen[ticker] = true

		if math.IsNaN(entry.AllocationPct) || entry.AllocationPct < 0 || entry.AllocationPct > constants.AllocationTotal {
			warnings = append(warnings, fmt.Sprintf("%s ticker %s allocation %.1f%% is outside 0-100%% and will be treated as 0",
				name, ticker, entry.AllocationPct))
			continue
		}
		sum += entry.AllocationPct
		weightedYield += entry.AllocationPct * entry.AvgYieldPct
	}

	if math.Abs(sum-constants.AllocationTotal) > allocationSumTolerance {
		warnings = append(warnings, fmt.Sprintf("%s allocations sum to %.1f%%, not 100%%; weights are applied relative to each other",
			name, sum))
	}
	if weightedYield == 0 {
		warnings = append(warnings, fmt.Sprintf("%s has a weighted dividend yield of 0%% - freedom cannot be computed", name))
	}
	return warnings
}

// ValidateInputs checks the monetary inputs, which are coerced to 0 when negative.
func ValidateInputs(name string, currentAsset, targetExpense, monthlyContribution float64) []string {
	var warnings []string
	for _, field := range []struct {
		label string
		value float64
	}{
		{"current asset", currentAsset},
		{"target expense", targetExpense},
		{"monthly contribution", monthlyContribution},
	} {
		if math.IsNaN(field.value) || math.IsInf(field.value, 0) || field.value < 0 {
			warnings = append(warnings, fmt.Sprintf("%s %s %v is invalid and will be treated as 0", name, field.label, field.value))
		}
	}
	if targetExpense == 0 {
		warnings = append(warnings, fmt.Sprintf("%s target expense is 0 - freedom cannot be computed", name))
	}
	return warnings
}

// ValidateSelectedPeriod checks that a selected period parses as a year.
func ValidateSelectedPeriod(name, period string) []string {
	if strings.TrimSpace(period) == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(period), 64); err != nil {
		return []string{fmt.Sprintf("%s selected period %q is not a year - the first period will be selected", name, period)}
	}
	return nil
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.Common.HorizonYears <= 0 {
		warnings = append(warnings, fmt.Sprintf("Horizon of %d years is not positive - the default of %d years applies",
			cv.Common.HorizonYears, constants.MaxFreedomYears))
	}
	warnings = append(warnings, ValidatePortfolio("Common portfolio", cv.Common.Portfolio)...)
	warnings = append(warnings, ValidateSelectedPeriod("Common", cv.Common.SelectedPeriod)...)

	active := 0
	for _, scenario := range cv.Scenarios {
		if !scenario.Active {
			continue
		}
		active++
		label := fmt.Sprintf("Scenario '%s'", scenario.Name)

		currentAsset, targetExpense, monthlyContribution := cv.Common.CurrentAsset, cv.Common.TargetExpense, cv.Common.MonthlyContribution
		if scenario.CurrentAsset != nil {
			currentAsset = *scenario.CurrentAsset
		}
		if scenario.TargetExpense != nil {
			targetExpense = *scenario.TargetExpense
		}
		if scenario.MonthlyContribution != nil {
			monthlyContribution = *scenario.MonthlyContribution
		}
		warnings = append(warnings, ValidateInputs(label, currentAsset, targetExpense, monthlyContribution)...)
		warnings = append(warnings, ValidatePortfolio(label+" portfolio", scenario.Portfolio)...)
		warnings = append(warnings, ValidateSelectedPeriod(label, scenario.SelectedPeriod)...)

		for i, action := range scenario.Actions {
			switch strings.ToLower(strings.TrimSpace(action)) {
			case "set", "add", "remove":
			default:
				warnings = append(warnings, fmt.Sprintf("%s adjustment %d has unknown action %q", label, i+1, action))
			}
		}
	}

	if active == 0 {
		warnings = append(warnings, "No active scenarios - nothing will be forecast")
	}
	return warnings
}
