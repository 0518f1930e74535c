// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/iwvelando/freedom-forecast/internal/forecast"
	"github.com/iwvelando/freedom-forecast/pkg/format"
	"github.com/iwvelando/freedom-forecast/pkg/optimization"
	"github.com/iwvelando/freedom-forecast/pkg/portfolio"
	"github.com/iwvelando/freedom-forecast/pkg/projection"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []forecast.Forecast) {
	for _, result := range results {
		fmt.Printf("--- Results for scenario %s ---\n", result.Name)
		printPortfolio(result.Portfolio, result.Metrics)
		printSummary(result.Projection)

		halfYear := result.Projection.Summary.HalfYearMode
		fmt.Printf("Period  | Asset      | Dividend   | Expense    | Survival\n")
		fmt.Printf("______  | _____      | ________   | _______    | ________\n")
		for _, sample := range result.Projection.Series.Samples {
			survival := projection.ComputeSurvival(sample)
			fmt.Printf("%-7s | %-10s | %-10s | %-10s | %.1f (%s)\n",
				format.PeriodLabel(sample.Period, halfYear),
				format.Man(sample.Asset),
				format.Man(sample.Dividend),
				format.Man(sample.Expense),
				survival.Index, survival.Bucket)
		}
		if len(result.Notes) > 0 {
			fmt.Printf("Notes: %s\n", strings.Join(result.Notes, "; "))
		}
		printOptimizations(result.Optimizations)
		if len(results) > 1 {
			fmt.Printf("\n")
		}
	}
}

func printPortfolio(state portfolio.State, metrics portfolio.Metrics) {
	fmt.Printf("Ticker | Allocation | Avg yield | Growth\n")
	for _, entry := range state.Entries {
		growth := fmt.Sprintf("%.2f%%", entry.GrowthPct)
		if entry.GrowthLabel != "" {
			growth = fmt.Sprintf("%s (%s)", growth, entry.GrowthLabel)
		}
		fmt.Printf("%-6s | %9.1f%% | %8.2f%% | %s\n", entry.Ticker, entry.AllocationPct, entry.AvgYieldPct, growth)
	}
	fmt.Printf("Weighted yield %.2f%% | Weighted growth %.2f%%\n", metrics.WeightedYield, metrics.WeightedGrowth)
}

func printSummary(p projection.Projection) {
	summary := p.Summary
	switch {
	case !p.Freedom.Computable:
		fmt.Printf("Freedom year: not computable (%s)\n", summary.Countdown)
	case summary.FreedomYear == nil:
		fmt.Printf("Freedom year: not reached by %d (%s)\n", summary.HorizonYear, summary.Countdown)
	default:
		fmt.Printf("Freedom year: %d (%s) | Asset at freedom: %s\n",
			*summary.FreedomYear, summary.Countdown, format.Man(summary.AssetAtFreedom))
	}
	fmt.Printf("Selected period %s: survival index %.1f (%s), gap %s만\n",
		format.PeriodLabel(p.Selected.Period, summary.HalfYearMode),
		p.Selected.Index, p.Selected.Bucket, format.SignedNumber(p.Selected.Gap))
}

func printOptimizations(summaries []optimization.Summary) {
	if len(summaries) == 0 {
		return
	}
	fmt.Printf("Optimization adjustments:\n")
	for _, summary := range summaries {
		status := "converged"
		if !summary.Converged {
			status = "not converged"
		}
		fmt.Printf("  %s (%s): %s -> %s for freedom by %d, %s after %d iterations\n",
			summary.Scenario, summary.Field, summary.OriginalDisplay, summary.ValueDisplay,
			summary.TargetYear, status, summary.Iterations)
		for _, note := range summary.Notes {
			fmt.Printf("    %s\n", note)
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []forecast.Forecast) {
	fmt.Print(CsvString(results))
}

// CsvString returns the comma-separated value representation of the results,
// one row per scenario and period. Scenario notes go on the first row of
// each scenario.
func CsvString(results []forecast.Forecast) string {
	var builder strings.Builder
	builder.WriteString(`"scenario","period","asset","dividend","expense","survival index","bucket","notes"`)
	builder.WriteString("\n")
	for _, result := range results {
		for i, sample := range result.Projection.Series.Samples {
			survival := projection.ComputeSurvival(sample)
			notes := ""
			if i == 0 {
				notes = strings.Join(result.Notes, ",")
			}
			fmt.Fprintf(&builder, `"%s","%s","%.0f","%.0f","%.0f","%.1f","%s","%s"`+"\n",
				csvEscape(result.Name), sample.Period, sample.Asset, sample.Dividend, sample.Expense,
				survival.Index, survival.Bucket, csvEscape(notes))
		}
	}
	return builder.String()
}

// csvEscape doubles embedded quotes for a field written inside quotes.
func csvEscape(field string) string {
	return strings.ReplaceAll(field, `"`, `""`)
}

// JSONFormat outputs the results as indented JSON.
func JSONFormat(results []forecast.Forecast) error {
	if results == nil {
		results = []forecast.Forecast{}
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results as JSON: %w", err)
	}
	return nil
}
