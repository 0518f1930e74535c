package format

import (
	"testing"

	"github.com/iwvelando/freedom-forecast/pkg/projection"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567.4, "1,234,567"},
		{-2500.5, "-2,500"},
		{-2500.6, "-2,501"},
		{262.5, "263"},
	}

	for _, tt := range tests {
		if result := Number(tt.input); result != tt.expected {
			t.Errorf("Number(%v) = %s, expected %s", tt.input, result, tt.expected)
		}
	}
}

func TestMan(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{250, "250만"},
		{9999, "9,999만"},
		{10000, "1.0억"},
		{26200, "2.6억"},
		{-15000, "-1.5억"},
	}

	for _, tt := range tests {
		if result := Man(tt.input); result != tt.expected {
			t.Errorf("Man(%v) = %s, expected %s", tt.input, result, tt.expected)
		}
	}
}

func TestSignedNumber(t *testing.T) {
	if result := SignedNumber(12); result != "+12" {
		t.Errorf("SignedNumber(12) = %s, expected +12", result)
	}
	if result := SignedNumber(0); result != "+0" {
		t.Errorf("SignedNumber(0) = %s, expected +0", result)
	}
	if result := SignedNumber(-1500); result != "-1,500" {
		t.Errorf("SignedNumber(-1500) = %s, expected -1,500", result)
	}
}

func TestPeriodLabel(t *testing.T) {
	tests := []struct {
		key      projection.PeriodKey
		halfYear bool
		expected string
	}{
		{2026, false, "2026"},
		{2026, true, "2026/Q1"},
		{2026.5, true, "2026/Q3"},
		{2026.5, false, "2026"},
	}

	for _, tt := range tests {
		if result := PeriodLabel(tt.key, tt.halfYear); result != tt.expected {
			t.Errorf("PeriodLabel(%v, %t) = %s, expected %s", tt.key, tt.halfYear, result, tt.expected)
		}
	}
}
