package model

import (
	"fmt"

	"assigntrack/internal/temporal"
)

// Known assignment type tags. Type is free-form; these are the values the
// UI offers, and "lab" is the only one the lab/class-time predicate reads.
const (
	TypeAssignment = "assignment"
	TypeLab        = "lab"
	TypeQuiz       = "quiz"
	TypeExam       = "exam"
	TypeProject    = "project"
)

// Assignment is a single tracked item as stored by the data layer. The
// scheduling code treats assignments as immutable snapshots; it only derives
// day matches and bucket classifications, never mutates them.
type Assignment struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Course string `json:"course,omitempty"`

	// DueDate is the calendar day the item is due. For recurring items it is
	// the first day of the recurrence range. Nil means undated; undated items
	// match no day and fall in no dashboard bucket.
	DueDate *temporal.DateKey `json:"due_date,omitempty"`

	// StartTime / EndTime are display-only clock times ("14:30"); they never
	// feed into matching or classification.
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	IsRecurring bool `json:"is_recurring"`

	// RecurrenceDays holds lowercase weekday names ("monday"). Present only
	// on recurring items.
	RecurrenceDays []string `json:"recurrence_days,omitempty"`

	// RecurrenceEndDate closes the recurrence range. When nil the range ends
	// on December 31 of DueDate's year, so a course spanning a year boundary
	// needs an explicit end date.
	RecurrenceEndDate *temporal.DateKey `json:"recurrence_end_date,omitempty"`

	Completed bool `json:"completed"`

	// Semester ("Spring") and Year scope the item to an academic term.
	// Items without both fields are unscoped and always considered active.
	Semester string `json:"semester,omitempty"`
	Year     int    `json:"year,omitempty"`

	// Type is a free-form tag ("lab", "quiz"); display and filtering only.
	Type string `json:"assignment_type,omitempty"`
}

// TermLabel returns the item's explicit term label ("Fall 2025"), or "" when
// the item carries no term scoping.
func (a Assignment) TermLabel() string {
	if a.Semester == "" || a.Year == 0 {
		return ""
	}
	return fmt.Sprintf("%s %d", a.Semester, a.Year)
}

// HasClockTime reports whether the item carries a start or end time of day.
func (a Assignment) HasClockTime() bool {
	return a.StartTime != "" || a.EndTime != ""
}
