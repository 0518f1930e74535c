// Package format renders amounts and periods for display.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/freedom-forecast/pkg/mathutil"
	"github.com/iwvelando/freedom-forecast/pkg/projection"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// manPerEok is the number of 만 (10^4) units in one 억 (10^8).
const manPerEok = 10000

// Number rounds amount to a whole number and adds thousands separators (e.g., "-1,234").
func Number(amount float64) string {
	rounded := mathutil.RoundHalfUp(mathutil.Finite(amount))
	formatted := message.NewPrinter(language.English).Sprintf("%d", int64(math.Abs(rounded)))
	if rounded < 0 {
		return "-" + formatted
	}
	return formatted
}

// Man formats an amount held in 만 units: one decimal of 억 from 10,000 up
// (e.g., "1.5억"), otherwise the whole 만 amount (e.g., "2,500만").
func Man(amount float64) string {
	amount = mathutil.Finite(amount)
	if math.Abs(amount) >= manPerEok {
		return fmt.Sprintf("%.1f억", amount/manPerEok)
	}
	return Number(amount) + "만"
}

// SignedNumber is Number with an explicit "+" for non-negative amounts.
func SignedNumber(amount float64) string {
	if amount >= 0 {
		return "+" + Number(amount)
	}
	return Number(amount)
}

// PeriodLabel names a period for display. In half-year mode whole years read
// "2026/Q1" and mid-year marks "2026/Q3"; otherwise only the year is shown.
func PeriodLabel(key projection.PeriodKey, halfYear bool) string {
	if !halfYear {
		return fmt.Sprintf("%d", key.Year())
	}
	if key.IsHalfYear() {
		return fmt.Sprintf("%d/Q3", key.Year())
	}
	return fmt.Sprintf("%d/Q1", key.Year())
}
