package schedule

import (
	"time"

	"assigntrack/internal/model"
	"assigntrack/internal/temporal"
)

// upcomingWindowDays is the width of the "upcoming" dashboard window. The
// window is today-exclusive: due in [today+1, today+6]. Items due today have
// their own bucket, so the two never overlap.
const upcomingWindowDays = 6

// IsDueToday reports whether the assignment is due on the calendar day
// containing today. Undated assignments are never due.
func IsDueToday(a model.Assignment, today temporal.DateKey) bool {
	return a.DueDate != nil && *a.DueDate == today
}

// IsUpcoming reports whether the assignment is due within the upcoming
// window: strictly after today and at most six calendar days later.
func IsUpcoming(a model.Assignment, today temporal.DateKey) bool {
	if a.DueDate == nil {
		return false
	}
	due := *a.DueDate
	return due.After(today) && !due.After(today.AddDays(upcomingWindowDays))
}

// IsOverdue reports whether the assignment is due strictly before today and
// not completed. Completed assignments are never overdue, whatever the date.
func IsOverdue(a model.Assignment, today temporal.DateKey) bool {
	if a.Completed || a.DueDate == nil {
		return false
	}
	return a.DueDate.Before(today)
}

// InActiveTerm reports whether the assignment belongs to the term containing
// now. Items without explicit semester/year scoping are always active.
func InActiveTerm(a model.Assignment, now time.Time) bool {
	label := a.TermLabel()
	return label == "" || label == temporal.CurrentTerm(now)
}

// Buckets is the dashboard view of an assignment snapshot: the three due
// buckets plus the distinct set of course names, all in input order.
type Buckets struct {
	Today    []model.Assignment
	Upcoming []model.Assignment
	Overdue  []model.Assignment
	Courses  []string
}

// Classify partitions a snapshot into dashboard buckets relative to now,
// restricted to the active term. All comparisons use calendar-day semantics;
// never elapsed time, so DST shifts and timezone offsets cannot move an item
// between buckets within a day.
func Classify(assignments []model.Assignment, now time.Time) Buckets {
	today := temporal.FromTime(now)

	b := Buckets{
		Today:    make([]model.Assignment, 0),
		Upcoming: make([]model.Assignment, 0),
		Overdue:  make([]model.Assignment, 0),
		Courses:  make([]string, 0),
	}
	seenCourses := make(map[string]bool)

	for _, a := range assignments {
		if !InActiveTerm(a, now) {
			continue
		}
		if a.Course != "" && !seenCourses[a.Course] {
			seenCourses[a.Course] = true
			b.Courses = append(b.Courses, a.Course)
		}
		switch {
		case IsDueToday(a, today):
			b.Today = append(b.Today, a)
		case IsUpcoming(a, today):
			b.Upcoming = append(b.Upcoming, a)
		case IsOverdue(a, today):
			b.Overdue = append(b.Overdue, a)
		}
	}

	return b
}
