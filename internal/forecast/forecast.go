// Package forecast defines the data structures related to a given forecast and
// includes functions for computing the forecasts.
package forecast

import (
	"fmt"
	"time"

	"github.com/iwvelando/freedom-forecast/internal/config"
	"github.com/iwvelando/freedom-forecast/pkg/optimization"
	"github.com/iwvelando/freedom-forecast/pkg/portfolio"
	"github.com/iwvelando/freedom-forecast/pkg/projection"
	"go.uber.org/zap"
)

// Forecast holds all information related to a specific forecast.
type Forecast struct {
	Name          string                 `json:"name"`
	StartYear     int                    `json:"startYear"`
	Portfolio     portfolio.State        `json:"portfolio"`
	Metrics       portfolio.Metrics      `json:"metrics"`
	Projection    projection.Projection  `json:"projection"`
	Notes         []string               `json:"notes,omitempty"`
	Optimizations []optimization.Summary `json:"optimizations,omitempty"`
}

// GetForecast processes the Forecasts for all active Scenarios, starting
// from the current year unless the configuration pins a start year.
func GetForecast(logger *zap.Logger, conf config.Configuration) ([]Forecast, error) {
	return GetForecastWithFixedTime(logger, conf, time.Now())
}

// GetForecastWithFixedTime is GetForecast with an explicit clock, for
// reproducible output.
func GetForecastWithFixedTime(logger *zap.Logger, conf config.Configuration, now time.Time) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	startYear := conf.Common.EffectiveStartYear(now)
	var results []Forecast
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "forecast.GetForecast"),
			)
			continue
		}

		result, err := scenarioForecast(conf.Common, scenario, startYear)
		if err != nil {
			return results, err
		}

		summary := result.Projection.Summary
		logger.Debug("computed scenario forecast",
			zap.String("op", "forecast.GetForecast"),
			zap.String("scenario", scenario.Name),
			zap.Float64("weightedYield", result.Metrics.WeightedYield),
			zap.Float64("weightedGrowth", result.Metrics.WeightedGrowth),
			zap.Bool("computable", result.Projection.Freedom.Computable),
			zap.Bool("reached", result.Projection.Freedom.Reached),
			zap.String("countdown", summary.Countdown),
			zap.Int("samples", result.Projection.Series.Len()),
		)
		results = append(results, result)
	}

	return results, nil
}

func scenarioForecast(common config.Common, scenario config.Scenario, startYear int) (Forecast, error) {
	state, notes, err := scenario.PortfolioState(common)
	if err != nil {
		return Forecast{}, err
	}

	metrics := state.Metrics()
	currentAsset, targetExpense, monthlyContribution := scenario.Inputs(common)
	inputs := projection.NewInputs(currentAsset, targetExpense, monthlyContribution, metrics)

	result := Forecast{
		Name:      scenario.Name,
		StartYear: startYear,
		Portfolio: state,
		Metrics:   metrics,
		Projection: projection.Project(inputs, projection.Options{
			StartYear:      startYear,
			Horizon:        common.HorizonYears,
			SelectedPeriod: scenario.SelectedPeriodOr(common),
		}),
		Notes: notes,
	}

	switch {
	case !result.Projection.Freedom.Computable:
		result.Notes = append(result.Notes, "freedom cannot be computed: target expense and weighted dividend yield must both be non-zero")
	case !result.Projection.Freedom.Reached:
		result.Notes = append(result.Notes, fmt.Sprintf("freedom not reached within %d years", result.Projection.Freedom.HorizonPeriodIndex))
	}
	return result, nil
}
