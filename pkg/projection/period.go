package projection

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/freedom-forecast/pkg/mathutil"
)

// PeriodKey identifies a sample: a calendar year, or a year plus 0.5 for the
// half-year mark.
type PeriodKey float64

// periodMatchTolerance is how close two keys must be to name the same sample.
const periodMatchTolerance = 1e-6

// ParsePeriodKey reads a key as produced by PeriodKey.String.
func ParsePeriodKey(text string) (PeriodKey, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", text, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid period %q: not finite", text)
	}
	return PeriodKey(value), nil
}

// String formats the key as a plain integer when it is a whole year and as a
// one-decimal value otherwise, e.g. "2026" and "2026.5".
func (k PeriodKey) String() string {
	rounded := mathutil.Round1(float64(k))
	if mathutil.NearlyEqual(rounded, math.Round(rounded)) {
		return strconv.Itoa(int(math.Round(rounded)))
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Year is the calendar year the key falls in.
func (k PeriodKey) Year() int {
	return int(math.Floor(float64(k)))
}

// IsHalfYear reports whether the key is a mid-year mark.
func (k PeriodKey) IsHalfYear() bool {
	return float64(k)-math.Floor(float64(k)) >= 0.4
}

// Equal reports whether two keys name the same period.
func (k PeriodKey) Equal(other PeriodKey) bool {
	return math.Abs(float64(k-other)) < periodMatchTolerance
}

// MarshalText encodes the key in its String form.
func (k PeriodKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a key written by MarshalText.
func (k *PeriodKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriodKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
