package config

import (
	"fmt"
	"strings"
)

const (
	OptimizerFieldMonthlyContribution = "monthlyContribution"
	OptimizerFieldTargetExpense       = "targetExpense"

	OptimizerKindFreedomBy = "freedom_by"

	defaultTolerance     = 0.1
	defaultMaxIterations = 50
)

// OptimizerConfig defines a single-input goal search: find the value of Field
// that still reaches freedom by TargetYear. Contributions are minimized and
// expenses maximized.
type OptimizerConfig struct {
	Field         string   `yaml:"field,omitempty"`
	Kind          string   `yaml:"kind,omitempty"`
	TargetYear    int      `yaml:"targetYear"`
	Min           *float64 `yaml:"min,omitempty"`
	Max           *float64 `yaml:"max,omitempty"`
	Tolerance     float64  `yaml:"tolerance,omitempty"`
	MaxIterations int      `yaml:"maxIterations,omitempty"`
}

// CanonicalOptimizerField returns the canonical identifier for an optimizer field.
func CanonicalOptimizerField(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "", "monthlycontribution", "monthly_contribution", "contribution":
		return OptimizerFieldMonthlyContribution
	case "targetexpense", "target_expense", "expense":
		return OptimizerFieldTargetExpense
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize applies defaults and canonical values before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Field = CanonicalOptimizerField(o.Field)

	o.Kind = strings.ToLower(strings.TrimSpace(o.Kind))
	if o.Kind == "" {
		o.Kind = OptimizerKindFreedomBy
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	switch o.Field {
	case OptimizerFieldMonthlyContribution, OptimizerFieldTargetExpense:
	default:
		return fmt.Errorf("optimizer field %q is not supported", o.Field)
	}
	if o.Kind != OptimizerKindFreedomBy {
		return fmt.Errorf("optimizer kind %q is not supported", o.Kind)
	}
	if o.TargetYear <= 0 {
		return fmt.Errorf("optimizer requires a target year")
	}
	if o.Min == nil {
		return fmt.Errorf("optimizer requires a minimum bound")
	}
	if o.Max == nil {
		return fmt.Errorf("optimizer requires a maximum bound")
	}
	if *o.Min < 0 {
		return fmt.Errorf("optimizer minimum %.2f cannot be negative", *o.Min)
	}
	// A zero expense has no freedom year at all.
	if o.Field == OptimizerFieldTargetExpense && *o.Min == 0 {
		return fmt.Errorf("optimizer minimum for %s must be positive", o.Field)
	}
	if *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	return nil
}
