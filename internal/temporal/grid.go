package temporal

import "time"

// GridSize is the fixed number of slots in a month grid: 6 rows of 7 days.
// Consumers assume a constant-size grid, so short months are padded with
// trailing days from the next month rather than emitting fewer rows.
const GridSize = 42

// DaySlot is one cell of the month grid. Year/Month identify the month the
// cell actually belongs to, which differs from the reference month for the
// leading and trailing padding days.
type DaySlot struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Day     int        `json:"day"`
	InMonth bool       `json:"in_month"`
}

// DateKey returns the calendar day the slot represents.
func (s DaySlot) DateKey() DateKey {
	return DateKey{Year: s.Year, Month: s.Month, Day: s.Day}
}

// MonthGrid builds the 42-slot grid for the month containing ref. Weeks run
// Sunday through Saturday: the grid opens with the trailing days of the
// previous month needed to left-pad the first week, then days 1..N of the
// reference month, then leading days of the next month up to 42 slots.
func MonthGrid(ref DateKey) []DaySlot {
	year, month := ref.Year, ref.Month

	prevYear, prevMonth := year, month-1
	if month == time.January {
		prevYear, prevMonth = year-1, time.December
	}
	nextYear, nextMonth := year, month+1
	if month == time.December {
		nextYear, nextMonth = year+1, time.January
	}

	daysInMonth := DaysIn(year, month)
	daysInPrev := DaysIn(prevYear, prevMonth)
	firstWeekday := int(DateKey{Year: year, Month: month, Day: 1}.Weekday())

	grid := make([]DaySlot, 0, GridSize)

	for i := firstWeekday; i > 0; i-- {
		grid = append(grid, DaySlot{
			Year:  prevYear,
			Month: prevMonth,
			Day:   daysInPrev - i + 1,
		})
	}
	for d := 1; d <= daysInMonth; d++ {
		grid = append(grid, DaySlot{
			Year:    year,
			Month:   month,
			Day:     d,
			InMonth: true,
		})
	}
	for d := 1; len(grid) < GridSize; d++ {
		grid = append(grid, DaySlot{
			Year:  nextYear,
			Month: nextMonth,
			Day:   d,
		})
	}

	return grid
}
