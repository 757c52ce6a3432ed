package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"assigntrack/internal/model"
	"assigntrack/internal/store"
	"assigntrack/internal/temporal"
)

func tempStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assignments.json")
	s, err := store.Open(path)
	assert.NoError(t, err)
	return s, path
}

func dkp(year int, month time.Month, day int) *temporal.DateKey {
	k := temporal.NewDateKey(year, month, day)
	return &k
}

func TestOpenEmptyOnFirstRun(t *testing.T) {
	s, _ := tempStore(t)
	assert.Empty(t, s.List())
}

func TestAddAssignsIDAndPersists(t *testing.T) {
	s, path := tempStore(t)

	created, err := s.Add(model.Assignment{Title: "Essay", Course: "ENGL 210", DueDate: dkp(2025, time.October, 3)})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	// Reopen from disk and check the record survived.
	reopened, err := store.Open(path)
	assert.NoError(t, err)
	list := reopened.List()
	assert.Len(t, list, 1)
	assert.Equal(t, created, list[0])

	// Data file is private to the daemon user.
	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s, _ := tempStore(t)

	for _, title := range []string{"first", "second", "third"} {
		_, err := s.Add(model.Assignment{Title: title})
		assert.NoError(t, err)
	}

	list := s.List()
	assert.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "second", list[1].Title)
	assert.Equal(t, "third", list[2].Title)
}

func TestUpdateKeepsPosition(t *testing.T) {
	s, _ := tempStore(t)

	first, _ := s.Add(model.Assignment{Title: "first"})
	second, _ := s.Add(model.Assignment{Title: "second"})

	first.Completed = true
	_, err := s.Update(first)
	assert.NoError(t, err)

	list := s.List()
	assert.True(t, list[0].Completed)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestDelete(t *testing.T) {
	s, _ := tempStore(t)

	a, _ := s.Add(model.Assignment{Title: "gone"})
	assert.NoError(t, s.Delete(a.ID))
	assert.Empty(t, s.List())

	assert.ErrorIs(t, s.Delete(a.ID), store.ErrNotFound)
}

func TestGetMissing(t *testing.T) {
	s, _ := tempStore(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestValidateRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		a    model.Assignment
	}{
		{"missing title", model.Assignment{}},
		{"recurring without start", model.Assignment{
			Title: "Lab", IsRecurring: true, RecurrenceDays: []string{"monday"},
		}},
		{"recurring without days", model.Assignment{
			Title: "Lab", IsRecurring: true, DueDate: dkp(2025, time.September, 2),
		}},
		{"recurring with unknown weekday", model.Assignment{
			Title: "Lab", IsRecurring: true, DueDate: dkp(2025, time.September, 2),
			RecurrenceDays: []string{"funday"},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, store.Validate(tc.a))
		})
	}
}

func TestAddNormalizesWeekdayNames(t *testing.T) {
	s, _ := tempStore(t)

	created, err := s.Add(model.Assignment{
		Title:          "Lab",
		DueDate:        dkp(2025, time.September, 2),
		IsRecurring:    true,
		RecurrenceDays: []string{" Monday", "WEDNESDAY "},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"monday", "wednesday"}, created.RecurrenceDays)
}

func TestOpenDropsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assignments.json")
	raw := `{
	  "version": 1,
	  "assignments": [
	    {"id": "ok", "title": "Fine", "due_date": "2025-10-03"},
	    {"id": "bad", "title": "", "due_date": "2025-10-04"}
	  ]
	}`
	assert.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	s, err := store.Open(path)
	assert.NoError(t, err)

	list := s.List()
	assert.Len(t, list, 1)
	assert.Equal(t, "ok", list[0].ID)
}
