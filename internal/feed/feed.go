package feed

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "assigntrack/internal/log"
	"assigntrack/internal/model"
	"assigntrack/internal/schedule"
)

// prodID identifies this application in exported calendars.
const prodID = "-//assigntrack//EN"

// Build renders an assignment snapshot as an iCalendar feed. Plain
// assignments become all-day events on their due day; recurring items become
// weekly RRULE events closed at the recurrence end. Undated items are
// skipped. loc is the zone clock times are interpreted in; nil means UTC.
func Build(assignments []model.Assignment, name string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetXWRCalName(name)

	for _, a := range assignments {
		if a.DueDate == nil {
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("%s@assigntrack", a.ID))
		ev.SetDtStampTime(time.Now().UTC())
		ev.SetSummary(eventSummary(a))
		if a.Course != "" {
			ev.SetDescription(a.Course)
		}

		start, end, timed := eventTimes(a, loc)
		if timed {
			ev.SetStartAt(start)
			ev.SetEndAt(end)
		} else {
			ev.SetAllDayStartAt(start)
			ev.SetAllDayEndAt(end)
		}

		if a.IsRecurring {
			if rule, ok := weeklyRule(a); ok {
				ev.AddRrule(rule)
			}
		}
	}

	return cal.Serialize()
}

func eventSummary(a model.Assignment) string {
	if a.Course != "" {
		return a.Course + ": " + a.Title
	}
	return a.Title
}

// eventTimes resolves the first occurrence's start/end. An assignment with a
// parseable start time yields a timed event (end defaults to one hour after
// start); otherwise an all-day event spanning the due day.
func eventTimes(a model.Assignment, loc *time.Location) (start, end time.Time, timed bool) {
	day := a.DueDate.Time(loc)

	st, err := time.Parse("15:04", a.StartTime)
	if err != nil {
		return day, day.AddDate(0, 0, 1), false
	}
	start = day.Add(time.Duration(st.Hour())*time.Hour + time.Duration(st.Minute())*time.Minute)

	if et, err := time.Parse("15:04", a.EndTime); err == nil {
		end = day.Add(time.Duration(et.Hour())*time.Hour + time.Duration(et.Minute())*time.Minute)
		if !end.After(start) {
			end = start.Add(time.Hour)
		}
	} else {
		end = start.Add(time.Hour)
	}
	return start, end, true
}

// weeklyRule builds the RRULE value for a recurring assignment. The engine
// matches occurrences itself; the rule is only for external calendar apps,
// so both must describe the same weekly day-of-week recurrence.
func weeklyRule(a model.Assignment) (string, bool) {
	days := make([]rrule.Weekday, 0, len(a.RecurrenceDays))
	for _, name := range a.RecurrenceDays {
		wd, ok := rruleWeekdays[name]
		if !ok {
			appLog.Warn("feed: skipping unknown weekday in rule", "id", a.ID, "weekday", name)
			continue
		}
		days = append(days, wd)
	}
	if len(days) == 0 {
		return "", false
	}

	until := schedule.RecurrenceEnd(a)
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: days,
		// End of the last day, so occurrences on the end day itself survive.
		Until: until.Time(time.UTC).Add(24*time.Hour - time.Second),
	}
	return opt.String(), true
}

var rruleWeekdays = map[string]rrule.Weekday{
	"sunday":    rrule.SU,
	"monday":    rrule.MO,
	"tuesday":   rrule.TU,
	"wednesday": rrule.WE,
	"thursday":  rrule.TH,
	"friday":    rrule.FR,
	"saturday":  rrule.SA,
}
