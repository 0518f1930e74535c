package projection

import (
	"fmt"
	"strings"
)

// notComputableCountdown is shown when no freedom period can be defined.
const notComputableCountdown = "—"

// Options control a projection run.
type Options struct {
	// StartYear is the calendar year of period 0.
	StartYear int
	// Horizon is the search horizon in years; <= 0 uses the default.
	Horizon int
	// SelectedPeriod picks the sample scored for survival; empty or unknown
	// selects period 0.
	SelectedPeriod string
}

// Projection bundles every derived output of one input snapshot.
type Projection struct {
	Inputs   Inputs        `json:"inputs"`
	Freedom  FreedomResult `json:"freedom"`
	Series   Series        `json:"series"`
	Selected Survival      `json:"selected"`
	Summary  Summary       `json:"summary"`
}

// Summary holds the headline figures of a projection.
type Summary struct {
	FreedomYear    *int    `json:"freedomYear"`
	HorizonYear    int     `json:"horizonYear"`
	YearsToFreedom *int    `json:"yearsToFreedom"`
	Countdown      string  `json:"countdown"`
	AssetAtFreedom float64 `json:"assetAtFreedom"`
	HalfYearMode   bool    `json:"halfYearMode"`
	ReferenceYears []int   `json:"referenceYears"`
}

// Project searches for the freedom period, generates the series up to it and
// scores the selected period.
func Project(in Inputs, opts Options) Projection {
	in = in.Sanitized()
	freedom := SearchFreedom(in, opts.Horizon)
	series := GenerateSeries(in, freedom, opts.StartYear)

	var selected Survival
	if strings.TrimSpace(opts.SelectedPeriod) == "" {
		selected = ComputeSurvival(series.Select(PeriodKey(opts.StartYear)))
	} else {
		selected = ComputeSurvival(series.SelectLabel(opts.SelectedPeriod))
	}

	return Projection{
		Inputs:   in,
		Freedom:  freedom,
		Series:   series,
		Selected: selected,
		Summary:  Summarize(freedom, series),
	}
}

// Summarize derives the headline figures from a search result and its series.
func Summarize(freedom FreedomResult, series Series) Summary {
	summary := Summary{
		HorizonYear:    freedom.HorizonYear(series.StartYear),
		HalfYearMode:   series.HalfYearMode(),
		ReferenceYears: series.ReferenceYears(),
		AssetAtFreedom: series.Last().Asset,
	}

	switch {
	case !freedom.Computable:
		summary.Countdown = notComputableCountdown
	case !freedom.Reached:
		summary.Countdown = fmt.Sprintf("D-%d+", freedom.HorizonPeriodIndex)
	default:
		year, _ := freedom.FreedomYear(series.StartYear)
		years := year - series.StartYear
		summary.FreedomYear = &year
		summary.YearsToFreedom = &years
		summary.Countdown = fmt.Sprintf("D-%d", years)
		if sample, ok := series.Find(PeriodKey(year)); ok {
			summary.AssetAtFreedom = sample.Asset
		}
	}
	return summary
}
