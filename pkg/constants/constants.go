// Package constants provides shared constants for the freedom-forecast application.
package constants

import "time"

// Projection constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12
	// MaxFreedomYears is the search horizon for the freedom period, in years
	MaxFreedomYears = 60
	// HalfYearThresholdYears is the longest duration still sampled in half-year steps
	HalfYearThresholdYears = 10
	// HalfYearStep is the step size, in years, of half-year sampling
	HalfYearStep = 0.5
	// FullYearStep is the step size, in years, of whole-year sampling
	FullYearStep = 1.0
	// FloatTolerance is the tolerance under which a stepped growth factor counts as 1
	FloatTolerance = 1e-9
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Allocation constants
const (
	// AllocationTotal is the value every normalized portfolio sums to
	AllocationTotal = 100
	// AllocationDecimalPlaces is the precision allocations are rounded to
	AllocationDecimalPlaces = 1
)

// Survival index constants
const (
	// SurvivalIndexMax caps the survival index percentage
	SurvivalIndexMax = 999.0
	// SurvivalCautionThreshold is the lowest index outside the danger bucket
	SurvivalCautionThreshold = 70.0
	// SurvivalStableThreshold is the lowest index where dividends cover expenses
	SurvivalStableThreshold = 100.0
	// SurvivalSurplusThreshold is the lowest index in the surplus bucket
	SurvivalSurplusThreshold = 130.0
)

// Recommended inputs, in the fixed monetary unit (만원)
const (
	// RecommendedCurrentAsset is the default current asset value
	RecommendedCurrentAsset = 10000.0
	// RecommendedTargetExpense is the default monthly target expense
	RecommendedTargetExpense = 250.0
	// RecommendedMonthlyContribution is the default monthly contribution
	RecommendedMonthlyContribution = 150.0
	// ManualGrowthLabel labels growth rates entered by hand
	ManualGrowthLabel = "Manual"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"
	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
	// DefaultScenarioName names the implicit scenario of a config without scenarios
	DefaultScenarioName = "baseline"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"
	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
	// DefaultMetricsPath is where the Prometheus metrics are served
	DefaultMetricsPath = "/metrics"
	// DefaultReadHeaderTimeout bounds how long the server waits for request headers
	DefaultReadHeaderTimeout = 10 * time.Second
	// MetricsNamespace prefixes every exported metric name
	MetricsNamespace = "freedom_forecast"
)
