// Package syllabus scans extracted syllabus text for assignment candidates.
// The scanner is heuristic by design: it over-collects and leaves the final
// keep/edit decision to the user before anything enters the store.
package syllabus

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"assigntrack/internal/temporal"
)

// Candidate is one possible assignment found in syllabus text. DueDate is
// nil when a line looked assignment-like but carried no resolvable date.
type Candidate struct {
	Title      string            `json:"title"`
	DueDateRaw string            `json:"due_date_raw,omitempty"`
	DueDate    *temporal.DateKey `json:"due_date,omitempty"`
	Line       int               `json:"line"`
	Source     string            `json:"source"`
}

// nearbyDateWindow is how many lines back a dated line can lend its date to
// an undated assignment-like line.
const nearbyDateWindow = 3

var assignmentRE = regexp.MustCompile(`(?i)\b(` + strings.Join([]string{
	`homework`,
	`hw(?:\s*\d+)?`,
	`problem\s*set`,
	`ps\s*\d+`,
	`assignment(?:\s*\d+)?`,
	`quiz(?:\s*\d+|\s*#\s*\d+)?`,
	`exam(?:\s*\d+)?`,
	`midterm(?:\s*\d+)?`,
	`final\s*exam`,
	`project(?:\s*proposal|\s*plan|\s*deliverables|\s*\d+)?`,
	`portfolio`,
	`presentation`,
	`reading\s+responses?`,
	`discussion\s+posts?`,
	`reflection(?:\s*paper)?`,
	`lab\s*(?:work|report|assignment)?`,
	`essay(?:\s*\d+)?`,
	`paper(?:\s*\d+)?`,
}, "|") + `)\b`)

// Matches month+day variants: "Sep 2", "September 2nd", "DECEMBER 17TH".
var monthDayRE = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)[\s.]*(\d{1,2})(?:st|nd|rd|th)?\b`)

// Numeric date like "9/15" or "09-15".
var numericDateRE = regexp.MustCompile(`\b(1[0-2]|0?[1-9])[/-](3[01]|[12]?\d)\b`)

// Syllabi sometimes put a weekday before the date; the weekday is noise.
var weekdayRE = regexp.MustCompile(`(?i)\b(mon|tues?|wed(?:nesday)?|thu(?:rs)?|fri|sat|sun)(?:day)?\b`)

// Policy lines like "essays are due on Thursdays" are kept as undated
// signals for the user to pin down.
var policyRE = regexp.MustCompile(`(?i)\b(due\s+on|due\s+by|will\s+be\s+due)\b`)

// Join "word-\nnext" into "wordnext".
var hyphenJoinRE = regexp.MustCompile(`(\w)-\n(\w)`)

var spaceNormRE = regexp.MustCompile(`[ \t]+`)

var scheduleSplitRE = regexp.MustCompile(`\s{2,}`)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ScanText scans syllabus text (as extracted from a PDF or pasted by the
// user) and returns deduplicated assignment candidates. yearHint resolves
// month/day tokens that carry no year; zero means the current year.
func ScanText(text string, yearHint int) []Candidate {
	if yearHint == 0 {
		yearHint = time.Now().Year()
	}

	lines := textLines(text)
	out := make([]Candidate, 0)

	var lastDatedRaw string
	var lastDated *temporal.DateKey
	lastDatedLine := -1

	for i, ln := range lines {
		raw, key := extractDate(ln, yearHint)
		if key != nil {
			lastDatedRaw, lastDated, lastDatedLine = raw, key, i
		}

		if assignmentRE.MatchString(ln) {
			switch {
			case key != nil:
				out = append(out, Candidate{Title: ln, DueDateRaw: raw, DueDate: key, Line: i, Source: "text-line"})
			case lastDated != nil && i-lastDatedLine <= nearbyDateWindow:
				out = append(out, Candidate{Title: ln, DueDateRaw: lastDatedRaw, DueDate: lastDated, Line: i, Source: "text-line-nearby"})
			default:
				out = append(out, Candidate{Title: ln, Line: i, Source: "text-line-undated"})
			}
		}

		// Schedule-style rows: a dated segment plus assignment segments.
		parts := splitScheduleRow(ln)
		if len(parts) > 1 {
			var segRaw string
			var segKey *temporal.DateKey
			for _, p := range parts {
				if r, k := extractDate(p, yearHint); k != nil {
					segRaw, segKey = r, k
					break
				}
			}
			for _, p := range parts {
				if !assignmentRE.MatchString(p) {
					continue
				}
				switch {
				case segKey != nil:
					out = append(out, Candidate{Title: p, DueDateRaw: segRaw, DueDate: segKey, Line: i, Source: "table-row"})
				case lastDated != nil && i-lastDatedLine <= nearbyDateWindow:
					out = append(out, Candidate{Title: p, DueDateRaw: lastDatedRaw, DueDate: lastDated, Line: i, Source: "table-row-nearby"})
				default:
					out = append(out, Candidate{Title: p, Line: i, Source: "table-row-undated"})
				}
			}
		}
	}

	// Second pass: general "due on Thursdays" policy lines.
	for i, ln := range lines {
		if policyRE.MatchString(ln) && assignmentRE.MatchString(ln) {
			out = append(out, Candidate{Title: ln, Line: i, Source: "policy-line"})
		}
	}

	return dedupe(out)
}

// textLines normalizes the raw text into cleaned non-empty lines, repairing
// simple word-break hyphenation.
func textLines(text string) []string {
	text = hyphenJoinRE.ReplaceAllString(text, "$1$2")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\u00a0", " ")

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimSpace(spaceNormRE.ReplaceAllString(ln, " "))
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

// splitScheduleRow splits heavy schedule rows on vertical bars or runs of
// two or more spaces. Plain lines come back as a single element.
func splitScheduleRow(line string) []string {
	if strings.Contains(line, "|") {
		parts := strings.Split(line, "|")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	parts := scheduleSplitRE.Split(line, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) <= 1 {
		return []string{line}
	}
	return out
}

// extractDate finds the first date token in s and resolves it against the
// year hint. Weekday names in the token are ignored.
func extractDate(s string, yearHint int) (raw string, key *temporal.DateKey) {
	s = weekdayRE.ReplaceAllString(s, "")

	if m := monthDayRE.FindStringSubmatch(s); m != nil {
		month, ok := monthsByPrefix[strings.ToLower(m[1][:3])]
		if !ok {
			return "", nil
		}
		day, err := strconv.Atoi(m[2])
		if err != nil {
			return "", nil
		}
		k := temporal.NewDateKey(yearHint, month, day)
		if !k.Valid() {
			return "", nil
		}
		return m[1] + " " + m[2], &k
	}

	if m := numericDateRE.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		k := temporal.NewDateKey(yearHint, time.Month(month), day)
		if !k.Valid() {
			return "", nil
		}
		return m[1] + "/" + m[2], &k
	}

	return "", nil
}

func dedupe(items []Candidate) []Candidate {
	type dedupeKey struct {
		title string
		date  string
	}
	seen := make(map[dedupeKey]bool)
	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		k := dedupeKey{title: strings.ToLower(it.Title)}
		if it.DueDate != nil {
			k.date = it.DueDate.String()
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}
