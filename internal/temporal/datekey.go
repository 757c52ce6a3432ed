package temporal

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateKey identifies a calendar day. Two DateKeys are equal iff year, month
// and day all match; time of day and timezone never participate. This is the
// property that lets a due date stored as midnight UTC compare equal to a
// "today" derived from local wall-clock time.
type DateKey struct {
	Year  int
	Month time.Month
	Day   int
}

const dateKeyLayout = "2006-01-02"

// NewDateKey builds a DateKey from explicit fields. It does not validate;
// use Valid to reject impossible month/day combinations at a boundary.
func NewDateKey(year int, month time.Month, day int) DateKey {
	return DateKey{Year: year, Month: month, Day: day}
}

// FromTime projects an instant onto its calendar day, as observed in the
// instant's own location.
func FromTime(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{Year: y, Month: m, Day: d}
}

// ParseDateKey parses a "2006-01-02" string.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		return DateKey{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Compare orders DateKeys lexicographically by (year, month, day).
// It returns -1 if k is before other, 0 if equal, +1 if after.
func (k DateKey) Compare(other DateKey) int {
	switch {
	case k.Year != other.Year:
		return sign(k.Year - other.Year)
	case k.Month != other.Month:
		return sign(int(k.Month) - int(other.Month))
	default:
		return sign(k.Day - other.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Before reports whether k is strictly before other.
func (k DateKey) Before(other DateKey) bool { return k.Compare(other) < 0 }

// After reports whether k is strictly after other.
func (k DateKey) After(other DateKey) bool { return k.Compare(other) > 0 }

// IsZero reports whether k is the zero value (no date).
func (k DateKey) IsZero() bool { return k == DateKey{} }

// Valid reports whether k names a real calendar day (e.g. rejects Feb 30).
func (k DateKey) Valid() bool {
	if k.Month < time.January || k.Month > time.December || k.Day < 1 {
		return false
	}
	return k.Day <= DaysIn(k.Year, k.Month)
}

// Time returns midnight of the day in the given location. A nil location
// means UTC. Only used where an instant is genuinely needed (ICS export);
// engine comparisons stay on DateKey.
func (k DateKey) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the day n calendar days after k (n may be negative).
// Month and year rollover follow the civil calendar.
func (k DateKey) AddDays(n int) DateKey {
	return FromTime(k.Time(time.UTC).AddDate(0, 0, n))
}

// Weekday returns the day of week (Sunday = 0).
func (k DateKey) Weekday() time.Weekday {
	return k.Time(time.UTC).Weekday()
}

// WeekdayName returns the lowercase English weekday name ("monday").
// Recurrence day sets are matched against these names.
func (k DateKey) WeekdayName() string {
	return weekdayNames[k.Weekday()]
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// IsWeekdayName reports whether s is one of the seven lowercase names.
func IsWeekdayName(s string) bool {
	for _, name := range weekdayNames {
		if s == name {
			return true
		}
	}
	return false
}

// DaysIn returns the number of days in the given month of the given year.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (k DateKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// MarshalJSON encodes the day as "2006-01-02".
func (k DateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes "2006-01-02"; an empty string yields the zero value.
func (k *DateKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*k = DateKey{}
		return nil
	}
	parsed, err := ParseDateKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
