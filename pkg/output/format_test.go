package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/iwvelando/freedom-forecast/internal/forecast"
	"github.com/iwvelando/freedom-forecast/pkg/optimization"
	"github.com/iwvelando/freedom-forecast/pkg/portfolio"
	"github.com/iwvelando/freedom-forecast/pkg/projection"
)

func testForecast(name string, targetExpense float64) forecast.Forecast {
	state := portfolio.NewState([]portfolio.Entry{
		{Ticker: "FLAT", GrowthPct: 0, GrowthLabel: "Manual", AvgYieldPct: 12, AllocationPct: 100},
	})
	metrics := state.Metrics()
	inputs := projection.NewInputs(10000, targetExpense, 150, metrics)
	return forecast.Forecast{
		Name:       name,
		StartYear:  2026,
		Portfolio:  state,
		Metrics:    metrics,
		Projection: projection.Project(inputs, projection.Options{StartYear: 2026, SelectedPeriod: "2030"}),
		Notes:      []string{"set FLAT to 100.0%"},
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrettyFormat(t *testing.T) {
	results := []forecast.Forecast{testForecast("Test Scenario", 250)}

	output := captureStdout(t, func() { PrettyFormat(results) })

	expected := []string{
		"--- Results for scenario Test Scenario ---",
		"Ticker | Allocation | Avg yield | Growth",
		"FLAT   |     100.0% |    12.00% | 0.00% (Manual)",
		"Weighted yield 12.00% | Weighted growth 0.00%",
		"Freedom year: 2035 (D-9) | Asset at freedom: 2.6억",
		"Selected period 2030/Q1: survival index 68.8 (danger), gap -78만",
		"Period  | Asset      | Dividend   | Expense    | Survival",
		"2026/Q1 | 1.0억",
		"2026/Q3 | 1.1억",
		"2035/Q1 | 2.6억",
		"Notes: set FLAT to 100.0%",
	}
	for _, element := range expected {
		if !strings.Contains(output, element) {
			t.Errorf("PrettyFormat missing %q\n%s", element, output)
		}
	}
}

func TestPrettyFormatNotReached(t *testing.T) {
	result := testForecast("Slow", 250)
	result.Projection = projection.Project(
		projection.Inputs{CurrentAsset: 100, TargetExpense: 250, DividendYieldPct: 1},
		projection.Options{StartYear: 2026},
	)

	output := captureStdout(t, func() { PrettyFormat([]forecast.Forecast{result}) })

	if !strings.Contains(output, "Freedom year: not reached by 2086 (D-60+)") {
		t.Errorf("PrettyFormat missing not-reached summary\n%s", output)
	}
	if !strings.Contains(output, "2086    | ") {
		t.Errorf("PrettyFormat should label whole-year periods by year\n%s", output)
	}
}

func TestPrettyFormatNotComputable(t *testing.T) {
	results := []forecast.Forecast{testForecast("No expense", 0)}

	output := captureStdout(t, func() { PrettyFormat(results) })

	if !strings.Contains(output, "Freedom year: not computable (—)") {
		t.Errorf("PrettyFormat missing not-computable summary\n%s", output)
	}
}

func TestPrettyFormatOptimizationSummary(t *testing.T) {
	result := testForecast("Scenario A", 250)
	result.Optimizations = []optimization.Summary{
		{
			Scenario:        "Scenario A",
			Field:           "monthlyContribution",
			TargetYear:      2030,
			OriginalDisplay: "150만",
			ValueDisplay:    "313만",
			Iterations:      14,
			Converged:       true,
		},
		{
			Scenario:        "Scenario A",
			Field:           "targetExpense",
			TargetYear:      2027,
			OriginalDisplay: "250만",
			ValueDisplay:    "1만",
			Notes:           []string{"unable to reach freedom by 2027 within bounds 1만 to 1,000만"},
		},
	}

	output := captureStdout(t, func() { PrettyFormat([]forecast.Forecast{result}) })

	expected := []string{
		"Optimization adjustments:",
		"Scenario A (monthlyContribution): 150만 -> 313만 for freedom by 2030, converged after 14 iterations",
		"Scenario A (targetExpense): 250만 -> 1만 for freedom by 2027, not converged after 0 iterations",
		"    unable to reach freedom by 2027",
	}
	for _, element := range expected {
		if !strings.Contains(output, element) {
			t.Errorf("PrettyFormat missing %q\n%s", element, output)
		}
	}
}

func TestPrettyFormatEmptyResults(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("PrettyFormat panicked with empty results: %v", r)
		}
	}()

	output := captureStdout(t, func() { PrettyFormat([]forecast.Forecast{}) })
	if output != "" {
		t.Errorf("expected no output, got %q", output)
	}
}

func TestCsvFormat(t *testing.T) {
	results := []forecast.Forecast{testForecast("Scenario A", 250), testForecast("Scenario B", 125)}

	output := captureStdout(t, func() { CsvFormat(results) })
	lines := strings.Split(strings.TrimSpace(output), "\n")

	expectedHeader := `"scenario","period","asset","dividend","expense","survival index","bucket","notes"`
	if lines[0] != expectedHeader {
		t.Errorf("CsvFormat header = %s, expected %s", lines[0], expectedHeader)
	}

	rowsA := len(results[0].Projection.Series.Samples)
	rowsB := len(results[1].Projection.Series.Samples)
	if len(lines) != 1+rowsA+rowsB {
		t.Errorf("CsvFormat produced %d lines, expected %d", len(lines), 1+rowsA+rowsB)
	}

	expectedRows := []string{
		`"Scenario A","2026","10000","100","250","40.0","danger","set FLAT to 100.0%"`,
		`"Scenario A","2026.5","10900","109","250","43.6","danger",""`,
		`"Scenario A","2035","26200","262","250","104.8","stable",""`,
		`"Scenario B","2026","10000","100","125","80.0","caution","set FLAT to 100.0%"`,
	}
	for _, row := range expectedRows {
		if !strings.Contains(output, row) {
			t.Errorf("CsvFormat missing row %s", row)
		}
	}
}

func TestCsvStringEscapesQuotes(t *testing.T) {
	result := testForecast(`Plan "B"`, 250)
	result.Notes = []string{`add "VOO" at 10.0%`, "second"}

	out := CsvString([]forecast.Forecast{result})

	if !strings.Contains(out, `"Plan ""B""","2026","10000"`) {
		t.Errorf("scenario name not escaped:\n%s", out)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if len(records) != result.Projection.Series.Len()+1 {
		t.Fatalf("expected %d records, got %d", result.Projection.Series.Len()+1, len(records))
	}
	first := records[1]
	if first[0] != `Plan "B"` {
		t.Errorf("scenario field = %q", first[0])
	}
	if first[7] != `add "VOO" at 10.0%,second` {
		t.Errorf("notes field = %q", first[7])
	}
}

func TestCsvStringMatchesCsvFormat(t *testing.T) {
	results := []forecast.Forecast{testForecast("Scenario A", 250)}

	expected := CsvString(results)
	output := captureStdout(t, func() { CsvFormat(results) })

	if expected != output {
		t.Fatalf("CsvString and CsvFormat output mismatch\nCsvString:\n%s\nCsvFormat:\n%s", expected, output)
	}
}

func TestCsvFormatEmptyResults(t *testing.T) {
	output := CsvString(nil)
	if strings.Count(output, "\n") != 1 {
		t.Errorf("expected only the header, got %q", output)
	}
}

func TestJSONFormat(t *testing.T) {
	results := []forecast.Forecast{testForecast("Scenario A", 250)}

	var err error
	output := captureStdout(t, func() { err = JSONFormat(results) })
	if err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("JSONFormat output is not valid JSON: %v\n%s", err, output)
	}
	if len(decoded) != 1 || decoded[0]["name"] != "Scenario A" {
		t.Errorf("unexpected decoded output: %v", decoded)
	}
	if !strings.Contains(output, `"countdown": "D-9"`) {
		t.Errorf("JSONFormat missing countdown\n%s", output)
	}
	if !strings.Contains(output, `"period": "2026.5"`) {
		t.Errorf("JSONFormat should encode periods as text\n%s", output)
	}
}

func TestJSONFormatEmptyResults(t *testing.T) {
	output := captureStdout(t, func() {
		if err := JSONFormat(nil); err != nil {
			t.Errorf("JSONFormat() error = %v", err)
		}
	})
	if strings.TrimSpace(output) != "[]" {
		t.Errorf("expected an empty JSON array, got %q", output)
	}
}
