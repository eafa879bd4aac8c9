package types

import "time"

const (
	// DateLayout is the storage and query format for exercise dates.
	DateLayout = "2006-01-02"

	// DisplayDateLayout renders a date as "Mon Jan 01 2024".
	DisplayDateLayout = "Mon Jan 02 2006"

	// EpochDate is the default lower bound of a log query.
	EpochDate = "1970-01-01"

	invalidDisplayDate = "Invalid Date"
)

// Today returns the UTC calendar day of now in DateLayout.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// DisplayDate converts a stored YYYY-MM-DD date to its descriptive form.
// Both strings denote the same UTC calendar day.
func DisplayDate(value string) string {
	t, err := ParseDate(value)
	if err != nil {
		return invalidDisplayDate
	}
	return t.Format(DisplayDateLayout)
}
