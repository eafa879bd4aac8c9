package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "Mon Jan 01 2024", DisplayDate("2024-01-01"))
	assert.Equal(t, "Thu Feb 29 2024", DisplayDate("2024-02-29"))
	assert.Equal(t, "Thu Jan 01 1970", DisplayDate(EpochDate))
	assert.Equal(t, "Invalid Date", DisplayDate("2024-13-01"))
	assert.Equal(t, "Invalid Date", DisplayDate(""))
}

func TestDisplayDateKeepsCalendarDay(t *testing.T) {
	for _, value := range []string{"2024-01-01", "2023-12-31", "2024-06-15"} {
		display, err := time.Parse(DisplayDateLayout, DisplayDate(value))
		require.NoError(t, err)
		assert.Equal(t, value, display.Format(DateLayout))
	}
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2024, 3, 2, 8, 0, 0, 0, loc)
	assert.Equal(t, "2024-03-01", Today(now))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())

	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
	_, err = ParseDate("01/31/2024")
	assert.Error(t, err)
}
