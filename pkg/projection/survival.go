package projection

import (
	"math"

	"github.com/iwvelando/freedom-forecast/pkg/constants"
	"github.com/iwvelando/freedom-forecast/pkg/mathutil"
)

// Bucket is the qualitative reading of a survival index.
type Bucket string

// Survival buckets, from worst to best.
const (
	BucketDanger  Bucket = "danger"
	BucketCaution Bucket = "caution"
	BucketStable  Bucket = "stable"
	BucketSurplus Bucket = "surplus"
	BucketUnknown Bucket = "unknown"
)

// Survival describes how well the dividend of one period covers its expense.
type Survival struct {
	Period PeriodKey `json:"period"`
	Index  float64   `json:"index"`
	Bucket Bucket    `json:"bucket"`
	Gap    float64   `json:"gap"`
}

// SurvivalIndex is dividend/expense as a percentage bounded to [0,999].
// A zero or missing expense gives 0.
func SurvivalIndex(dividend, expense float64) float64 {
	if expense == 0 || math.IsNaN(expense) {
		return 0
	}
	raw := dividend / expense * constants.PercentageMultiplier
	return mathutil.Clamp(raw, 0, constants.SurvivalIndexMax)
}

// BucketFor classifies a survival index.
func BucketFor(index float64) Bucket {
	switch {
	case math.IsNaN(index) || math.IsInf(index, 0):
		return BucketUnknown
	case index < constants.SurvivalCautionThreshold:
		return BucketDanger
	case index < constants.SurvivalStableThreshold:
		return BucketCaution
	case index < constants.SurvivalSurplusThreshold:
		return BucketStable
	default:
		return BucketSurplus
	}
}

// ComputeSurvival scores a single sample.
func ComputeSurvival(sample Sample) Survival {
	index := SurvivalIndex(sample.Dividend, sample.Expense)
	return Survival{
		Period: sample.Period,
		Index:  index,
		Bucket: BucketFor(index),
		Gap:    mathutil.Saturate(sample.Dividend - sample.Expense),
	}
}

// Survival scores the sample selected by key, see Series.Select.
func (s Series) Survival(key PeriodKey) Survival {
	return ComputeSurvival(s.Select(key))
}
