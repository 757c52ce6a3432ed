package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"assigntrack/internal/model"
	"assigntrack/internal/schedule"
)

// now is a Wednesday mid-semester; its calendar day is 2025-10-01.
var now = time.Date(2025, time.October, 1, 14, 30, 0, 0, time.UTC)

var today = dk(2025, time.October, 1)

func TestIsDueToday(t *testing.T) {
	due := model.Assignment{Title: "Quiz", DueDate: dkp(2025, time.October, 1)}
	assert.True(t, schedule.IsDueToday(due, today))

	tomorrow := model.Assignment{Title: "Quiz", DueDate: dkp(2025, time.October, 2)}
	assert.False(t, schedule.IsDueToday(tomorrow, today))

	undated := model.Assignment{Title: "Quiz"}
	assert.False(t, schedule.IsDueToday(undated, today))
}

func TestIsUpcomingWindowBoundaries(t *testing.T) {
	// Pinned convention: the window is today-exclusive, [today+1, today+6].
	// An item due today belongs to the today bucket, not upcoming; an item
	// due exactly seven days out is beyond the window.
	tests := []struct {
		name   string
		offset int
		want   bool
	}{
		{"due today", 0, false},
		{"due tomorrow", 1, true},
		{"due in six days", 6, true},
		{"due in seven days", 7, false},
		{"due yesterday", -1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			due := today.AddDays(tc.offset)
			a := model.Assignment{Title: "Item", DueDate: &due}
			assert.Equal(t, tc.want, schedule.IsUpcoming(a, today))
		})
	}

	assert.False(t, schedule.IsUpcoming(model.Assignment{Title: "Undated"}, today))
}

func TestIsOverdue(t *testing.T) {
	past := model.Assignment{Title: "Late", DueDate: dkp(2025, time.September, 30)}
	assert.True(t, schedule.IsOverdue(past, today))

	// Completed assignments are never overdue, even a month past due.
	done := model.Assignment{Title: "Done", DueDate: dkp(2025, time.September, 1), Completed: true}
	assert.False(t, schedule.IsOverdue(done, today))

	dueToday := model.Assignment{Title: "Today", DueDate: dkp(2025, time.October, 1)}
	assert.False(t, schedule.IsOverdue(dueToday, today))

	undated := model.Assignment{Title: "Undated"}
	assert.False(t, schedule.IsOverdue(undated, today))
}

func TestInActiveTerm(t *testing.T) {
	scoped := model.Assignment{Title: "Scoped", Semester: "Fall", Year: 2025}
	assert.True(t, schedule.InActiveTerm(scoped, now))

	lastSpring := model.Assignment{Title: "Old", Semester: "Spring", Year: 2025}
	assert.False(t, schedule.InActiveTerm(lastSpring, now))

	// No explicit term: always active.
	unscoped := model.Assignment{Title: "Unscoped"}
	assert.True(t, schedule.InActiveTerm(unscoped, now))
}

func TestClassifyBucketsAndCourses(t *testing.T) {
	list := []model.Assignment{
		{ID: "t1", Title: "Quiz", Course: "CHEM 101", DueDate: dkp(2025, time.October, 1)},
		{ID: "u1", Title: "Essay", Course: "ENGL 210", DueDate: dkp(2025, time.October, 4)},
		{ID: "o1", Title: "Problem set", Course: "CHEM 101", DueDate: dkp(2025, time.September, 29)},
		{ID: "done", Title: "Done late", Course: "MATH 120", DueDate: dkp(2025, time.September, 20), Completed: true},
		{ID: "far", Title: "Far out", Course: "MATH 120", DueDate: dkp(2025, time.November, 15)},
		{ID: "old-term", Title: "Spring quiz", Course: "HIST 300", Semester: "Spring", Year: 2025, DueDate: dkp(2025, time.October, 1)},
		{ID: "undated", Title: "Sometime"},
	}

	b := schedule.Classify(list, now)

	assert.Equal(t, []string{"t1"}, ids(b.Today))
	assert.Equal(t, []string{"u1"}, ids(b.Upcoming))
	assert.Equal(t, []string{"o1"}, ids(b.Overdue))

	// Courses: distinct, first-seen order, out-of-term items excluded.
	assert.Equal(t, []string{"CHEM 101", "ENGL 210", "MATH 120"}, b.Courses)
}

func TestClassifyIsDeterministic(t *testing.T) {
	list := []model.Assignment{
		{ID: "a", Title: "A", Course: "CS 350", DueDate: dkp(2025, time.October, 2)},
		{ID: "b", Title: "B", Course: "CS 350", DueDate: dkp(2025, time.September, 1)},
	}

	first := schedule.Classify(list, now)
	second := schedule.Classify(list, now)
	assert.Equal(t, first, second)
}

func ids(list []model.Assignment) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}
