package projection

import (
	"math"

	"github.com/iwvelando/freedom-forecast/pkg/constants"
	"github.com/iwvelando/freedom-forecast/pkg/mathutil"
)

// Sample is one point of the projection series. Asset and Dividend are
// rounded to whole units.
type Sample struct {
	Period   PeriodKey `json:"period"`
	Asset    float64   `json:"asset"`
	Dividend float64   `json:"dividend"`
	Expense  float64   `json:"expense"`
}

// Series is the ordered projection from now (index 0) to the end period.
type Series struct {
	StartYear int      `json:"startYear"`
	Step      float64  `json:"step"`
	Samples   []Sample `json:"samples"`
}

// StepFor returns the sampling step, in years, for a projection lasting
// durationYears: half years up to the threshold, whole years beyond it.
func StepFor(durationYears int) float64 {
	if durationYears <= constants.HalfYearThresholdYears {
		return constants.HalfYearStep
	}
	return constants.FullYearStep
}

// GenerateSeries samples the projection from startYear to the end period of
// result. Each step compounds by (1+r)^step and adds the contribution for
// the step length. Values that overflow saturate at the largest finite float.
func GenerateSeries(in Inputs, result FreedomResult, startYear int) Series {
	in = in.Sanitized()
	duration := result.EndPeriodIndex()
	if duration < 0 {
		duration = 0
	}
	step := StepFor(duration)
	steps := int(mathutil.RoundHalfUp(float64(duration) / step))

	r := in.GrowthPct / constants.PercentageMultiplier
	g := math.Pow(1+r, step)
	contribStep := in.AnnualContribution() * step

	assetAtStep := func(i int) float64 {
		if mathutil.NearlyEqual(g, 1) {
			return in.CurrentAsset + contribStep*float64(i)
		}
		gi := math.Pow(g, float64(i))
		return in.CurrentAsset*gi + contribStep*((gi-1)/(g-1))
	}

	samples := make([]Sample, steps+1)
	for i := range samples {
		asset := assetAtStep(i)
		samples[i] = Sample{
			Period:   PeriodKey(float64(startYear) + float64(i)*step),
			Asset:    mathutil.Saturate(mathutil.RoundHalfUp(asset)),
			Dividend: mathutil.Saturate(mathutil.RoundHalfUp(in.MonthlyDividend(asset))),
			Expense:  in.TargetExpense,
		}
	}

	return Series{StartYear: startYear, Step: step, Samples: samples}
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Samples)
}

// Find returns the sample for key.
func (s Series) Find(key PeriodKey) (Sample, bool) {
	for _, sample := range s.Samples {
		if sample.Period.Equal(key) {
			return sample, true
		}
	}
	return Sample{}, false
}

// Select returns the sample for key, falling back to the first sample when
// key is not part of the series. An empty series yields a zero Sample.
func (s Series) Select(key PeriodKey) Sample {
	if sample, ok := s.Find(key); ok {
		return sample
	}
	return s.first()
}

// SelectLabel is Select for a textual key; unparsable text selects the
// first sample.
func (s Series) SelectLabel(text string) Sample {
	key, err := ParsePeriodKey(text)
	if err != nil {
		return s.first()
	}
	return s.Select(key)
}

func (s Series) first() Sample {
	if len(s.Samples) == 0 {
		return Sample{Period: PeriodKey(s.StartYear)}
	}
	return s.Samples[0]
}

// Last returns the final sample, or a zero Sample for an empty series.
func (s Series) Last() Sample {
	if len(s.Samples) == 0 {
		return Sample{}
	}
	return s.Samples[len(s.Samples)-1]
}

// HalfYearMode reports whether consecutive samples are half a year apart.
func (s Series) HalfYearMode() bool {
	if len(s.Samples) < 2 {
		return false
	}
	delta := float64(s.Samples[1].Period - s.Samples[0].Period)
	return math.Abs(delta-constants.HalfYearStep) < periodMatchTolerance
}

// ReferenceYears lists the years a chart marks: every year in half-year
// mode, otherwise multiples of five plus the first and last years.
func (s Series) ReferenceYears() []int {
	if len(s.Samples) == 0 {
		return nil
	}
	first := int(math.Floor(float64(s.Samples[0].Period)))
	last := int(math.Ceil(float64(s.Last().Period)))
	halfYear := s.HalfYearMode()

	var years []int
	for y := first; y <= last; y++ {
		if halfYear || y%5 == 0 || y == first || y == last {
			years = append(years, y)
		}
	}
	return years
}
