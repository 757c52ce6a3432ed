package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	appLog "assigntrack/internal/log"
	"assigntrack/internal/model"
	"assigntrack/internal/temporal"
)

// ErrNotFound is returned when an assignment id does not exist.
var ErrNotFound = errors.New("store: assignment not found")

// Store is a JSON-file-backed assignment store. It owns the mutable state;
// the scheduling code only ever sees snapshots. Insertion order is preserved
// and is the order every snapshot is returned in.
type Store struct {
	mu          sync.RWMutex
	path        string
	assignments []model.Assignment
}

// fileFormat is the on-disk shape. A version field leaves room for future
// migrations.
type fileFormat struct {
	Version     int                `json:"version"`
	Assignments []model.Assignment `json:"assignments"`
}

const fileVersion = 1

// Open loads the store at path, creating an empty one on first run.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}

	s := &Store{path: path, assignments: make([]model.Assignment, 0)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			appLog.Info("store: no data file yet, starting empty", "path", path)
			return s, nil
		}
		return nil, err
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", path, err)
	}

	// Malformed records are dropped at the boundary so they never reach the
	// scheduling code.
	kept := make([]model.Assignment, 0, len(f.Assignments))
	for _, a := range f.Assignments {
		if err := Validate(a); err != nil {
			appLog.Warn("store: dropping malformed record", "id", a.ID, "reason", err.Error())
			continue
		}
		kept = append(kept, a)
	}
	s.assignments = kept

	appLog.Info("store: loaded", "path", path, "count", len(kept))
	return s, nil
}

// Validate performs the boundary shape checks: a record failing these never
// reaches the scheduling code. Recurring items need a start day and at least
// one valid weekday name; weekday names are normalized to lowercase.
func Validate(a model.Assignment) error {
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("missing title")
	}
	if a.DueDate != nil && !a.DueDate.Valid() {
		return fmt.Errorf("invalid due date %s", a.DueDate)
	}
	if a.RecurrenceEndDate != nil && !a.RecurrenceEndDate.Valid() {
		return fmt.Errorf("invalid recurrence end date %s", a.RecurrenceEndDate)
	}
	if a.IsRecurring {
		if a.DueDate == nil {
			return errors.New("recurring item has no start day")
		}
		if len(a.RecurrenceDays) == 0 {
			return errors.New("recurring item has no recurrence days")
		}
		for _, d := range a.RecurrenceDays {
			if !temporal.IsWeekdayName(strings.ToLower(strings.TrimSpace(d))) {
				return fmt.Errorf("unknown weekday %q", d)
			}
		}
	}
	return nil
}

// normalize canonicalizes fields Validate only checks.
func normalize(a model.Assignment) model.Assignment {
	a.Title = strings.TrimSpace(a.Title)
	for i, d := range a.RecurrenceDays {
		a.RecurrenceDays[i] = strings.ToLower(strings.TrimSpace(d))
	}
	return a
}

// List returns a snapshot of all assignments in insertion order.
func (s *Store) List() []model.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Assignment, len(s.assignments))
	copy(out, s.assignments)
	return out
}

// Get returns the assignment with the given id.
func (s *Store) Get(id string) (model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Assignment{}, ErrNotFound
}

// Add validates and appends a new assignment, assigning it a fresh id, and
// persists the store.
func (s *Store) Add(a model.Assignment) (model.Assignment, error) {
	a = normalize(a)
	if err := Validate(a); err != nil {
		return model.Assignment{}, err
	}
	a.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, a)
	if err := s.saveLocked(); err != nil {
		s.assignments = s.assignments[:len(s.assignments)-1]
		return model.Assignment{}, err
	}
	return a, nil
}

// Update validates and replaces the assignment with a's id in place,
// preserving its position, and persists the store.
func (s *Store) Update(a model.Assignment) (model.Assignment, error) {
	a = normalize(a)
	if err := Validate(a); err != nil {
		return model.Assignment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.assignments {
		if existing.ID == a.ID {
			s.assignments[i] = a
			if err := s.saveLocked(); err != nil {
				s.assignments[i] = existing
				return model.Assignment{}, err
			}
			return a, nil
		}
	}
	return model.Assignment{}, ErrNotFound
}

// Delete removes the assignment with the given id and persists the store.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.assignments {
		if existing.ID == id {
			removed := s.assignments[i]
			s.assignments = append(s.assignments[:i], s.assignments[i+1:]...)
			if err := s.saveLocked(); err != nil {
				// Restore at the original position on a failed write.
				s.assignments = append(s.assignments[:i], append([]model.Assignment{removed}, s.assignments[i:]...)...)
				return err
			}
			return nil
		}
	}
	return ErrNotFound
}

// saveLocked writes the store atomically (temp file + rename, 0600), the
// same idiom the config loader uses. Callers hold s.mu.
func (s *Store) saveLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fileFormat{
		Version:     fileVersion,
		Assignments: s.assignments,
	}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".assigntrack-data-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
