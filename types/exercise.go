package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Exercise is a single logged workout session that belongs to a user.
type Exercise struct {
	// ID is the opaque identifier assigned by the store on creation.
	ID string `json:"id" db:"id"`

	// UserID references the owning user. The reference is checked only
	// when the exercise is created.
	UserID string `json:"userId" db:"user_id"`

	// Username is a snapshot of the owner's username taken at creation
	// time. It is never refreshed from the user record.
	Username string `json:"username" db:"username"`

	// Description is a free-form label for the session (e.g. "run").
	Description string `json:"description" db:"description"`

	// Duration is the length of the session in minutes.
	Duration Duration `json:"duration" db:"duration"`

	// Date is the calendar day of the session in YYYY-MM-DD form.
	// Comparing two dates as strings orders them chronologically.
	Date string `json:"date" db:"date"`

	// CreatedAt is the timestamp when the exercise was stored.
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// LogEntry is the projection of an Exercise returned by log queries.
type LogEntry struct {
	Description string   `json:"description" db:"description"`
	Duration    Duration `json:"duration" db:"duration"`
	Date        string   `json:"date" db:"date"`
}

// LogFilter selects the exercises of one user within an inclusive date
// range. A Limit of zero means no limit.
type LogFilter struct {
	UserID string
	From   string
	To     string
	Limit  int
}

// ExerciseLog is a user's filtered exercise history, shaped for output.
// Dates in Log are already in display form.
type ExerciseLog struct {
	UserID   string     `json:"id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

// Duration holds a number of minutes. A zero-valued Duration (Valid false)
// is the not-a-number sentinel produced when input cannot be read as an
// integer; it is stored as NULL and rendered as JSON null.
type Duration struct {
	Minutes int
	Valid   bool
}

// Stored durations must fit the 32-bit duration column.
const (
	MinDurationMinutes = math.MinInt32
	MaxDurationMinutes = math.MaxInt32
)

// Minutes returns a valid Duration of n minutes.
func Minutes(n int) Duration {
	return Duration{Minutes: n, Valid: true}
}

// ParseDuration reads the leading integer of raw. Surrounding whitespace
// and a sign are accepted, trailing garbage is ignored ("30min" is 30,
// "3.9" is 3) and a 0x prefix selects base 16. Input with no leading
// digits, including a bare 0x prefix, yields the invalid sentinel.
func ParseDuration(raw string) Duration {
	s := strings.TrimSpace(raw)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return Duration{}
	}

	n, err := strconv.ParseInt(s[:end], base, strconv.IntSize)
	if err != nil {
		return Duration{}
	}
	if negative {
		n = -n
	}
	return Minutes(int(n))
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// InRange reports whether a valid duration fits between MinDurationMinutes
// and MaxDurationMinutes. The sentinel is always in range.
func (d Duration) InRange() bool {
	return !d.Valid || (d.Minutes >= MinDurationMinutes && d.Minutes <= MaxDurationMinutes)
}

// MarshalJSON encodes the sentinel as null.
func (d Duration) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(d.Minutes)), nil
}

// UnmarshalJSON accepts an integer or null.
func (d *Duration) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Duration{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	*d = Minutes(n)
	return nil
}

// Value implements driver.Valuer.
func (d Duration) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return int64(d.Minutes), nil
}

// Scan implements sql.Scanner.
func (d *Duration) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Duration{}
	case int64:
		*d = Minutes(int(v))
	case int32:
		*d = Minutes(int(v))
	case []byte:
		n, err := strconv.Atoi(string(v))
		if err != nil {
			return fmt.Errorf("scan duration: %w", err)
		}
		*d = Minutes(n)
	default:
		return fmt.Errorf("scan duration: unsupported type %T", src)
	}
	return nil
}
