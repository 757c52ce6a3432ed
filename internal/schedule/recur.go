package schedule

import (
	"strings"
	"time"

	"assigntrack/internal/model"
	"assigntrack/internal/temporal"
)

// OccursOn reports whether a recurring assignment has an occurrence on the
// given day. Non-recurring assignments never occur; they match days only by
// due-date equality (see AssignmentsOn).
//
// The recurrence range is [DueDate, RecurrenceEndDate] inclusive on both
// ends. Without an explicit end date the range is bounded to December 31 of
// the start year, so a Dec–Jan course must carry an explicit end date.
//
// This is a total function: a missing due date, an empty day set, or an
// inverted range all yield false rather than an error.
func OccursOn(a model.Assignment, day temporal.DateKey) bool {
	if !a.IsRecurring || a.DueDate == nil || len(a.RecurrenceDays) == 0 {
		return false
	}

	start := *a.DueDate
	end := RecurrenceEnd(a)

	if day.Before(start) || day.After(end) {
		return false
	}

	name := day.WeekdayName()
	for _, d := range a.RecurrenceDays {
		if strings.ToLower(strings.TrimSpace(d)) == name {
			return true
		}
	}
	return false
}

// RecurrenceEnd returns the last day of a recurring assignment's range:
// the explicit end date when present, otherwise December 31 of the start
// year. Callers must ensure DueDate is non-nil.
func RecurrenceEnd(a model.Assignment) temporal.DateKey {
	if a.RecurrenceEndDate != nil {
		return *a.RecurrenceEndDate
	}
	return temporal.NewDateKey(a.DueDate.Year, time.December, 31)
}
