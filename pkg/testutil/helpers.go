// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/freedom-forecast/internal/forecast"
	"github.com/iwvelando/freedom-forecast/pkg/projection"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the forecast if found, nil otherwise.
func FindScenario(results []forecast.Forecast, name string) *forecast.Forecast {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// SampleAt returns the projected sample of result for the given period.
func SampleAt(result *forecast.Forecast, period projection.PeriodKey) (projection.Sample, bool) {
	if result == nil {
		return projection.Sample{}, false
	}
	return result.Projection.Series.Find(period)
}
