package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"assigntrack/internal/model"
	"assigntrack/internal/schedule"
	"assigntrack/internal/temporal"
)

func dk(year int, month time.Month, day int) temporal.DateKey {
	return temporal.NewDateKey(year, month, day)
}

func dkp(year int, month time.Month, day int) *temporal.DateKey {
	k := temporal.NewDateKey(year, month, day)
	return &k
}

func TestOccursOnWeeklyRecurrence(t *testing.T) {
	// A Monday/Wednesday course starting Monday 2024-09-02, no explicit end:
	// the range closes implicitly on 2024-12-31.
	a := model.Assignment{
		Title:          "Chem lab",
		DueDate:        dkp(2024, time.September, 2),
		IsRecurring:    true,
		RecurrenceDays: []string{"monday", "wednesday"},
	}

	tests := []struct {
		name string
		day  temporal.DateKey
		want bool
	}{
		{"start day itself", dk(2024, time.September, 2), true},
		{"first wednesday", dk(2024, time.September, 4), true},
		{"thursday same week", dk(2024, time.September, 5), false},
		{"monday before start", dk(2024, time.August, 26), false},
		{"last monday of the year", dk(2024, time.December, 30), true},
		{"monday past implicit dec 31 end", dk(2025, time.January, 6), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, schedule.OccursOn(a, tc.day))
		})
	}
}

func TestOccursOnExplicitEndDateIsInclusive(t *testing.T) {
	// Wednesday 2025-01-08 is the explicit end; it still occurs.
	a := model.Assignment{
		Title:             "Winter seminar",
		DueDate:           dkp(2024, time.December, 2),
		IsRecurring:       true,
		RecurrenceDays:    []string{"wednesday"},
		RecurrenceEndDate: dkp(2025, time.January, 8),
	}

	assert.True(t, schedule.OccursOn(a, dk(2025, time.January, 8)))
	assert.True(t, schedule.OccursOn(a, dk(2025, time.January, 1)))
	assert.False(t, schedule.OccursOn(a, dk(2025, time.January, 15)))
}

func TestOccursOnDegenerateInputs(t *testing.T) {
	day := dk(2024, time.September, 4)

	nonRecurring := model.Assignment{Title: "Essay", DueDate: dkp(2024, time.September, 4)}
	assert.False(t, schedule.OccursOn(nonRecurring, day), "non-recurring never occurs")

	noDays := model.Assignment{
		Title:       "No days",
		DueDate:     dkp(2024, time.September, 2),
		IsRecurring: true,
	}
	assert.False(t, schedule.OccursOn(noDays, day), "empty day set never occurs")

	noStart := model.Assignment{
		Title:          "No start",
		IsRecurring:    true,
		RecurrenceDays: []string{"wednesday"},
	}
	assert.False(t, schedule.OccursOn(noStart, day), "missing start never occurs")

	// End before start: no occurrences anywhere, and no panic.
	inverted := model.Assignment{
		Title:             "Inverted",
		DueDate:           dkp(2024, time.September, 2),
		IsRecurring:       true,
		RecurrenceDays:    []string{"monday", "wednesday"},
		RecurrenceEndDate: dkp(2024, time.August, 1),
	}
	for d := dk(2024, time.July, 1); d.Before(dk(2024, time.October, 1)); d = d.AddDays(1) {
		assert.False(t, schedule.OccursOn(inverted, d), "day %s", d)
	}
}

func TestOccursOnNormalizesWeekdayCase(t *testing.T) {
	a := model.Assignment{
		Title:          "Sloppy input",
		DueDate:        dkp(2024, time.September, 2),
		IsRecurring:    true,
		RecurrenceDays: []string{" Monday "},
	}
	assert.True(t, schedule.OccursOn(a, dk(2024, time.September, 9)))
}

func TestRecurrenceEndDefault(t *testing.T) {
	a := model.Assignment{
		Title:          "Default end",
		DueDate:        dkp(2024, time.September, 2),
		IsRecurring:    true,
		RecurrenceDays: []string{"monday"},
	}
	assert.Equal(t, dk(2024, time.December, 31), schedule.RecurrenceEnd(a))

	a.RecurrenceEndDate = dkp(2024, time.November, 15)
	assert.Equal(t, dk(2024, time.November, 15), schedule.RecurrenceEnd(a))
}
