// Package optimizer searches a single scenario input for the value that still
// reaches financial freedom by a target year.
package optimizer

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/freedom-forecast/internal/config"
	"github.com/iwvelando/freedom-forecast/internal/forecast"
	"github.com/iwvelando/freedom-forecast/pkg/format"
	"github.com/iwvelando/freedom-forecast/pkg/optimization"
	"go.uber.org/zap"
)

type Runner struct {
	logger    *zap.Logger
	conf      *config.Configuration
	fixedTime time.Time
}

type scenarioTarget struct {
	scenarioIndex int
	scenarioName  string
	cfg           *config.OptimizerConfig
	field         string
	original      float64
}

type evaluation struct {
	value       float64
	freedomYear *int
}

func (e evaluation) feasible(targetYear int) bool {
	return e.freedomYear != nil && *e.freedomYear <= targetYear
}

// Result summarizes optimizer adjustments keyed by scenario name.
type Result struct {
	Summaries map[string][]optimization.Summary
}

// Empty indicates whether any optimizer adjustments were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches optimizer summaries to the provided forecast results.
func (r Result) Apply(forecasts []forecast.Forecast) {
	if len(r.Summaries) == 0 {
		return
	}
	for i := range forecasts {
		summaries, ok := r.Summaries[forecasts[i].Name]
		if !ok {
			continue
		}
		forecasts[i].Optimizations = append(forecasts[i].Optimizations, summaries...)
	}
}

// HasDirectives reports whether any active scenario carries an optimizer.
func HasDirectives(conf *config.Configuration) bool {
	if conf == nil {
		return false
	}
	for _, scenario := range conf.Scenarios {
		if scenario.Active && scenario.Optimizer != nil {
			return true
		}
	}
	return false
}

// NewRunner constructs a Runner for the provided configuration. now resolves
// the start year when the configuration does not pin one.
func NewRunner(logger *zap.Logger, conf *config.Configuration, now time.Time) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, conf: conf, fixedTime: now}, nil
}

// Run executes all optimizer directives and mutates the configuration in
// place: each optimized scenario gets an override holding the found value.
func (r *Runner) Run() (*Result, error) {
	targets, err := r.collectTargets()
	if err != nil {
		return nil, err
	}

	summaries := make(map[string][]optimization.Summary)
	for _, target := range targets {
		summary, err := r.optimizeScenario(target)
		if err != nil {
			return nil, err
		}
		summaries[target.scenarioName] = append(summaries[target.scenarioName], summary)

		r.logger.Info("optimizer adjusted scenario input",
			zap.String("op", "optimizer.Run"),
			zap.String("scenario", target.scenarioName),
			zap.String("field", target.field),
			zap.Int("targetYear", summary.TargetYear),
			zap.Float64("original", summary.Original),
			zap.Float64("optimized", summary.Value),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}

	return &Result{Summaries: summaries}, nil
}

func (r *Runner) collectTargets() ([]scenarioTarget, error) {
	var targets []scenarioTarget
	for i := range r.conf.Scenarios {
		scenario := &r.conf.Scenarios[i]
		if !scenario.Active || scenario.Optimizer == nil {
			continue
		}
		if err := scenario.Optimizer.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}

		_, expense, contribution := scenario.Inputs(r.conf.Common)
		original := contribution
		if scenario.Optimizer.Field == config.OptimizerFieldTargetExpense {
			original = expense
		}
		targets = append(targets, scenarioTarget{
			scenarioIndex: i,
			scenarioName:  scenario.Name,
			cfg:           scenario.Optimizer,
			field:         scenario.Optimizer.Field,
			original:      original,
		})
	}
	return targets, nil
}

// optimizeScenario bisects the bounds. Freedom comes no later as the
// contribution rises and no earlier as the expense rises, so the search keeps
// a feasible end and an infeasible end and closes them to the tolerance.
func (r *Runner) optimizeScenario(target scenarioTarget) (optimization.Summary, error) {
	cfg := target.cfg
	minVal, maxVal := *cfg.Min, *cfg.Max

	lowerEval, err := r.evaluate(target, minVal)
	if err != nil {
		return optimization.Summary{}, err
	}
	upperEval, err := r.evaluate(target, maxVal)
	if err != nil {
		return optimization.Summary{}, err
	}

	// best is the bound that favors freedom, worst the one that resists it.
	best, worst := upperEval, lowerEval
	if target.field == config.OptimizerFieldTargetExpense {
		best, worst = lowerEval, upperEval
	}

	summary := optimization.Summary{
		Scenario:   target.scenarioName,
		Field:      target.field,
		TargetYear: cfg.TargetYear,
		Original:   target.original,
	}

	var final evaluation
	switch {
	case !best.feasible(cfg.TargetYear):
		final = best
		summary.Notes = []string{fmt.Sprintf(
			"unable to reach freedom by %d within bounds %s to %s",
			cfg.TargetYear, format.Man(minVal), format.Man(maxVal),
		)}
	case worst.feasible(cfg.TargetYear):
		final = worst
		summary.Converged = true
	default:
		feasible, infeasible := best, worst
		for summary.Iterations < cfg.MaxIterations && math.Abs(feasible.value-infeasible.value) > cfg.Tolerance {
			mid, err := r.evaluate(target, infeasible.value+(feasible.value-infeasible.value)/2)
			if err != nil {
				return optimization.Summary{}, err
			}
			summary.Iterations++
			if mid.feasible(cfg.TargetYear) {
				feasible = mid
			} else {
				infeasible = mid
			}
		}
		final = feasible
		summary.Converged = true
	}

	r.setValue(target, final.value)
	summary.Value = final.value
	summary.FreedomYear = final.freedomYear
	summary.OriginalDisplay = format.Man(target.original)
	summary.ValueDisplay = format.Man(final.value)
	return summary, nil
}

// evaluate forecasts the target scenario alone with the field set to value.
func (r *Runner) evaluate(target scenarioTarget, value float64) (evaluation, error) {
	scenario := r.conf.Scenarios[target.scenarioIndex]
	setField(&scenario, target.field, value)

	trial := *r.conf
	trial.Scenarios = []config.Scenario{scenario}
	results, err := forecast.GetForecastWithFixedTime(zap.NewNop(), trial, r.fixedTime)
	if err != nil {
		return evaluation{}, fmt.Errorf("optimizer forecast for scenario %s failed: %w", target.scenarioName, err)
	}
	if len(results) != 1 {
		return evaluation{}, fmt.Errorf("optimizer expected one forecast for scenario %s, got %d", target.scenarioName, len(results))
	}

	return evaluation{value: value, freedomYear: results[0].Projection.Summary.FreedomYear}, nil
}

func (r *Runner) setValue(target scenarioTarget, value float64) {
	setField(&r.conf.Scenarios[target.scenarioIndex], target.field, value)
}

func setField(scenario *config.Scenario, field string, value float64) {
	v := value
	switch field {
	case config.OptimizerFieldTargetExpense:
		scenario.TargetExpense = &v
	default:
		scenario.MonthlyContribution = &v
	}
}
