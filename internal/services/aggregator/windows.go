// Package aggregator combines the versioned Sharesight endpoints for one
// portfolio into a single snapshot and resolves display values out of it.
package aggregator

import "time"

// DateFormat is the wire format for window bounds.
const DateFormat = "2006-01-02"

// DefaultFinancialYearEnd is assumed when a portfolio has no
// financial-year-end configured.
const DefaultFinancialYearEnd = "06-30"

// DateWindow is an inclusive start/end date pair in DateFormat.
type DateWindow struct {
	Start string
	End   string
}

// IsZero reports whether the window has not been computed yet.
func (w DateWindow) IsZero() bool {
	return w.Start == "" && w.End == ""
}

// DayWindow returns the single-day window containing now.
func DayWindow(now time.Time) DateWindow {
	d := now.Format(DateFormat)
	return DateWindow{Start: d, End: d}
}

// WeekWindow returns the Monday-Sunday week containing now.
func WeekWindow(now time.Time) DateWindow {
	wd := int(now.Weekday())
	if wd == 0 {
		wd = 7 // Sunday belongs to the week it ends
	}
	wd--

	start := now.AddDate(0, 0, -wd)
	end := now.AddDate(0, 0, 6-wd)
	return DateWindow{Start: start.Format(DateFormat), End: end.Format(DateFormat)}
}

// FinancialYearWindow returns the financial year containing now for the
// given "MM-DD" year end. The end year pivots on a fixed June boundary:
// January-June belongs to the year ending this calendar year, July
// onwards to the year ending next calendar year. The start date is one
// day after the previous year's end date, so the window always spans
// exactly one year.
func FinancialYearWindow(fyEnd string, now time.Time) DateWindow {
	month, day, ok := parseMonthDay(fyEnd)
	if !ok {
		month, day, _ = parseMonthDay(DefaultFinancialYearEnd)
	}

	endYear := now.Year()
	if now.Month() > time.June {
		endYear++
	}

	end := time.Date(endYear, month, day, 0, 0, 0, 0, time.UTC)
	start := time.Date(endYear-1, month, day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	return DateWindow{Start: start.Format(DateFormat), End: end.Format(DateFormat)}
}

// parseMonthDay parses an "MM-DD" string.
func parseMonthDay(s string) (time.Month, int, bool) {
	t, err := time.Parse("01-02", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Month(), t.Day(), true
}
