package schedule

import (
	"assigntrack/internal/model"
	"assigntrack/internal/temporal"
)

// Filters holds the calendar view's two independent show/hide toggles. The
// toggles partition assignments into "labs/class times" and everything else;
// both default to visible.
type Filters struct {
	ShowClassTimes  bool
	ShowAssignments bool
}

// DefaultFilters returns filters with both categories visible.
func DefaultFilters() Filters {
	return Filters{ShowClassTimes: true, ShowAssignments: true}
}

// IsLabLike reports whether an assignment belongs to the "labs/class times"
// display category: any recurring item, or a "lab" item that carries a clock
// time.
func IsLabLike(a model.Assignment) bool {
	if a.IsRecurring {
		return true
	}
	return a.Type == model.TypeLab && a.HasClockTime()
}

// visible applies the category toggles to a single assignment.
func (f Filters) visible(a model.Assignment) bool {
	if IsLabLike(a) {
		return f.ShowClassTimes
	}
	return f.ShowAssignments
}

// AssignmentsOn returns the assignments active on the given day, in input
// order. An assignment matches by due-date equality or by recurrence; an
// item satisfying both appears once. Pure function of its arguments.
func AssignmentsOn(assignments []model.Assignment, day temporal.DateKey, f Filters) []model.Assignment {
	out := make([]model.Assignment, 0)
	for _, a := range assignments {
		if !f.visible(a) {
			continue
		}
		if matchesDay(a, day) {
			out = append(out, a)
		}
	}
	return out
}

func matchesDay(a model.Assignment, day temporal.DateKey) bool {
	if a.DueDate != nil && *a.DueDate == day {
		return true
	}
	return OccursOn(a, day)
}
