package aggregator

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestDayWindow(t *testing.T) {
	w := DayWindow(date(2024, time.March, 15))
	if w.Start != "2024-03-15" || w.End != "2024-03-15" {
		t.Errorf("DayWindow = %v, want both bounds 2024-03-15", w)
	}
}

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		start string
		end   string
	}{
		{"wednesday", date(2024, time.March, 13), "2024-03-11", "2024-03-17"},
		{"monday", date(2024, time.March, 11), "2024-03-11", "2024-03-17"},
		{"sunday belongs to ending week", date(2024, time.March, 17), "2024-03-11", "2024-03-17"},
		{"crosses month boundary", date(2024, time.April, 1), "2024-04-01", "2024-04-07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WeekWindow(tt.now)
			if w.Start != tt.start || w.End != tt.end {
				t.Errorf("WeekWindow(%s) = %v, want %s..%s", tt.now.Format(DateFormat), w, tt.start, tt.end)
			}
		})
	}
}

func TestFinancialYearWindow(t *testing.T) {
	tests := []struct {
		name  string
		fyEnd string
		now   time.Time
		start string
		end   string
	}{
		{"first half of year", "06-30", date(2024, time.March, 15), "2023-07-01", "2024-06-30"},
		{"second half of year", "06-30", date(2024, time.August, 1), "2024-07-01", "2025-06-30"},
		{"june itself stays in ending year", "06-30", date(2024, time.June, 30), "2023-07-01", "2024-06-30"},
		{"december year end", "12-31", date(2024, time.March, 15), "2024-01-01", "2024-12-31"},
		{"default when absent", "", date(2024, time.March, 15), "2023-07-01", "2024-06-30"},
		{"default when unparseable", "banana", date(2024, time.March, 15), "2023-07-01", "2024-06-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := FinancialYearWindow(tt.fyEnd, tt.now)
			if w.Start != tt.start || w.End != tt.end {
				t.Errorf("FinancialYearWindow(%q, %s) = %v, want %s..%s",
					tt.fyEnd, tt.now.Format(DateFormat), w, tt.start, tt.end)
			}
		})
	}
}

func TestFinancialYearWindow_SpansExactlyOneYear(t *testing.T) {
	for _, fyEnd := range []string{"06-30", "12-31", "03-31", "09-30"} {
		w := FinancialYearWindow(fyEnd, date(2024, time.May, 1))

		start, err := time.Parse(DateFormat, w.Start)
		if err != nil {
			t.Fatalf("unparseable start %q: %v", w.Start, err)
		}
		end, err := time.Parse(DateFormat, w.End)
		if err != nil {
			t.Fatalf("unparseable end %q: %v", w.End, err)
		}

		// end = start + 1 year - 1 day
		if !start.AddDate(1, 0, -1).Equal(end) {
			t.Errorf("fyEnd %s: window %s..%s does not span exactly one year", fyEnd, w.Start, w.End)
		}
	}
}
