package temporal

import (
	"fmt"
	"time"
)

// Academic term names derived from fixed month bands.
const (
	TermSpring = "Spring"
	TermSummer = "Summer"
	TermFall   = "Fall"
)

// TermName maps a month onto its academic term: January–May is Spring,
// June–August is Summer, September–December is Fall.
func TermName(month time.Month) string {
	switch {
	case month >= time.January && month <= time.May:
		return TermSpring
	case month >= time.June && month <= time.August:
		return TermSummer
	default:
		return TermFall
	}
}

// TermLabel renders the human-readable term label, e.g. "Spring 2025".
func TermLabel(month time.Month, year int) string {
	return fmt.Sprintf("%s %d", TermName(month), year)
}

// CurrentTerm returns the term label for the day containing now.
func CurrentTerm(now time.Time) string {
	key := FromTime(now)
	return TermLabel(key.Month, key.Year)
}
