package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"assigntrack/internal/config"
	"assigntrack/internal/feed"
	appLog "assigntrack/internal/log"
	"assigntrack/internal/model"
	"assigntrack/internal/schedule"
	"assigntrack/internal/store"
	"assigntrack/internal/syllabus"
	"assigntrack/internal/temporal"
)

// Server provides the HTTP API: assignment CRUD, the calendar month view,
// the dashboard buckets, the ICS export and the syllabus scanner.
type Server struct {
	cfg *config.Config
	st  *store.Store
	loc *time.Location
	mux *http.ServeMux

	// In-memory cache for the dashboard response. Classification is pure in
	// (assignments, now, filters), so the cache is invalidated on any store
	// change and on the minute tick that moves "now" across midnight.
	dashMu    sync.RWMutex
	dashCache *dashboardCache

	// now is swappable for tests.
	now func() time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, st *store.Store) *Server {
	s := &Server{
		cfg: cfg,
		st:  st,
		loc: resolveLocationOrLocal(cfg.Timezone),
		mux: http.NewServeMux(),
		now: time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health stays unauthenticated for probes.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="assigntrack", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/assignments", s.handleAssignments)
	s.mux.HandleFunc("/api/assignments/", s.handleAssignmentByID)
	s.mux.HandleFunc("/api/calendar", s.handleCalendar)
	s.mux.HandleFunc("/api/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/api/feed.ics", s.handleFeed)
	s.mux.HandleFunc("/api/syllabus/scan", s.handleSyllabusScan)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleAssignments serves the collection: list and create.
func (s *Server) handleAssignments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.st.List())
	case http.MethodPost:
		var a model.Assignment
		if err := decodeBody(r, &a); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := s.st.Add(a)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.InvalidateDashboard()
		appLog.Info("assignment created", "id", created.ID, "title", created.Title)
		writeJSON(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleAssignmentByID serves a single item: get, update, delete.
func (s *Server) handleAssignmentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/assignments/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a, err := s.st.Get(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "assignment not found")
			return
		}
		writeJSON(w, http.StatusOK, a)

	case http.MethodPut:
		var a model.Assignment
		if err := decodeBody(r, &a); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.ID = id
		updated, err := s.st.Update(a)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "assignment not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.InvalidateDashboard()
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		err := s.st.Delete(id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "assignment not found")
			return
		}
		if err != nil {
			appLog.Error("assignment delete failed", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to delete assignment")
			return
		}
		s.InvalidateDashboard()
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// calendarResponse is the JSON response shape for /api/calendar.
type calendarResponse struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Term  string     `json:"term"`
	Slots []slotDTO  `json:"slots"`
}

// slotDTO is one grid cell plus the assignments active on that day.
type slotDTO struct {
	temporal.DaySlot
	Assignments []model.Assignment `json:"assignments"`
}

// handleCalendar returns the 42-slot month grid with per-day assignments.
//
// GET /api/calendar?year=2025&month=9&labs=1&assignments=1
//   - year/month: the month being viewed (defaults to the current month)
//   - labs / assignments: category toggles, both default to visible
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	today := temporal.FromTime(s.now().In(s.loc))

	year := parseIntDefault(q.Get("year"), today.Year)
	month := time.Month(parseIntDefault(q.Get("month"), int(today.Month)))
	if month < time.January || month > time.December {
		writeError(w, http.StatusBadRequest, "month must be 1..12")
		return
	}

	filters := schedule.Filters{
		ShowClassTimes:  parseBoolDefault(q.Get("labs"), !s.cfg.Filters.HideClassTimes),
		ShowAssignments: parseBoolDefault(q.Get("assignments"), !s.cfg.Filters.HideAssignments),
	}

	snapshot := s.st.List()
	grid := temporal.MonthGrid(temporal.NewDateKey(year, month, 1))

	slots := make([]slotDTO, 0, len(grid))
	for _, slot := range grid {
		slots = append(slots, slotDTO{
			DaySlot:     slot,
			Assignments: schedule.AssignmentsOn(snapshot, slot.DateKey(), filters),
		})
	}

	writeJSON(w, http.StatusOK, calendarResponse{
		Year:  year,
		Month: month,
		Term:  temporal.TermLabel(month, year),
		Slots: slots,
	})
}

// dashboardResponse is the JSON response shape for /api/dashboard.
type dashboardResponse struct {
	Date     string             `json:"date"`
	Term     string             `json:"term"`
	Today    []model.Assignment `json:"today"`
	Upcoming []model.Assignment `json:"upcoming"`
	Overdue  []model.Assignment `json:"overdue"`
	Courses  []string           `json:"courses"`
}

// dashboardCache holds a cached dashboard response and its timestamp.
type dashboardCache struct {
	resp      dashboardResponse
	updatedAt time.Time
}

const dashboardCacheTTL = 30 * time.Second

// handleDashboard returns the today / upcoming / overdue buckets for the
// active term, plus the distinct course set and the current term label.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cacheNow := time.Now()

	s.dashMu.RLock()
	dc := s.dashCache
	s.dashMu.RUnlock()
	if dc != nil && cacheNow.Sub(dc.updatedAt) < dashboardCacheTTL {
		writeJSON(w, http.StatusOK, dc.resp)
		return
	}

	now := s.now().In(s.loc)
	buckets := schedule.Classify(s.st.List(), now)

	resp := dashboardResponse{
		Date:     temporal.FromTime(now).String(),
		Term:     temporal.CurrentTerm(now),
		Today:    buckets.Today,
		Upcoming: buckets.Upcoming,
		Overdue:  buckets.Overdue,
		Courses:  buckets.Courses,
	}

	s.dashMu.Lock()
	s.dashCache = &dashboardCache{resp: resp, updatedAt: time.Now()}
	s.dashMu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// InvalidateDashboard drops the cached dashboard response. Called on every
// store mutation and on the periodic refresh tick, since the buckets depend
// on the calendar day and must flip at midnight.
func (s *Server) InvalidateDashboard() {
	s.dashMu.Lock()
	s.dashCache = nil
	s.dashMu.Unlock()
}

// handleFeed serves the assignment calendar as an iCalendar feed, for
// subscribing from an external calendar app.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body := feed.Build(s.st.List(), s.cfg.FeedName, s.loc)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

// syllabusScanRequest is the JSON request shape for /api/syllabus/scan.
type syllabusScanRequest struct {
	Text string `json:"text"`
	// Year resolves month/day tokens with no year; zero means current year.
	Year int `json:"year,omitempty"`
}

// syllabusScanResponse is the JSON response shape for /api/syllabus/scan.
type syllabusScanResponse struct {
	Candidates []syllabus.Candidate `json:"candidates"`
}

// handleSyllabusScan scans pasted syllabus text for assignment candidates.
// Candidates are suggestions only; nothing enters the store until the user
// confirms via POST /api/assignments.
func (s *Server) handleSyllabusScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req syllabusScanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is empty")
		return
	}

	candidates := syllabus.ScanText(req.Text, req.Year)
	appLog.Info("syllabus scan", "bytes", len(req.Text), "candidates", len(candidates))

	writeJSON(w, http.StatusOK, syllabusScanResponse{Candidates: candidates})
}

// decodeBody decodes a JSON request body, rejecting unknown fields so typos
// in client payloads surface as 400s instead of silently dropped data.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid request body: " + err.Error())
	}
	return nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
