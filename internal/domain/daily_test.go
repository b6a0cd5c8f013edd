package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Valid(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, Date("2024-03-15"), d)
}

func TestParseDate_Invalid(t *testing.T) {
	for _, raw := range []string{"15/03/2024", "2024-3-5", "2024-03-15T00:00:00Z", "not a date", ""} {
		_, err := ParseDate(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrBadRequest), raw)
	}
}

func TestDate_AddDays(t *testing.T) {
	d := Date("2024-03-15")
	assert.Equal(t, Date("2024-02-14"), d.AddDays(-30))
	assert.Equal(t, Date("2024-03-16"), d.AddDays(1))
	// leap year boundary
	assert.Equal(t, Date("2024-02-29"), Date("2024-03-01").AddDays(-1))
}

func TestDailyKey(t *testing.T) {
	assert.Equal(t, "2024-03-15#book-1", DailyKey("2024-03-15", "book-1"))
}
