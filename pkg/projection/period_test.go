package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodKeyString(t *testing.T) {
	tests := []struct {
		key      PeriodKey
		expected string
	}{
		{2026, "2026"},
		{2026.5, "2026.5"},
		{2026.04, "2026"},
		{2026.96, "2027"},
		{0, "0"},
		{0.5, "0.5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.key.String())
	}
}

func TestParsePeriodKey(t *testing.T) {
	key, err := ParsePeriodKey(" 2030.5 ")
	require.NoError(t, err)
	assert.Equal(t, PeriodKey(2030.5), key)
	assert.True(t, key.IsHalfYear())
	assert.Equal(t, 2030, key.Year())

	key, err = ParsePeriodKey("2031")
	require.NoError(t, err)
	assert.False(t, key.IsHalfYear())

	for _, bad := range []string{"", "abc", "NaN", "Inf"} {
		_, err := ParsePeriodKey(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestPeriodKeyEqual(t *testing.T) {
	assert.True(t, PeriodKey(2026+0.5*3).Equal(2027.5))
	assert.False(t, PeriodKey(2027).Equal(2027.5))
}
