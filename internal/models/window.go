package models

import (
	"fmt"
	"time"
)

// WholeYear is the month selector for a full-year report.
const WholeYear = -1

// Granularity is the resolution of a report.
type Granularity int

const (
	// Daily reports one value per day of a single month.
	Daily Granularity = iota
	// Monthly reports one value per month of a year.
	Monthly
)

// String returns the display name for a granularity.
func (g Granularity) String() string {
	switch g {
	case Daily:
		return "Daily"
	case Monthly:
		return "Monthly"
	default:
		return "Unknown"
	}
}

// Window selects the time range of a report: a single month of a year, or
// the whole year when Month is WholeYear.
type Window struct {
	Year  int
	Month int
}

// MonthWindow selects a single month (zero based).
func MonthWindow(year, month int) Window {
	return Window{Year: year, Month: month}
}

// YearWindow selects a whole year.
func YearWindow(year int) Window {
	return Window{Year: year, Month: WholeYear}
}

// Granularity returns Daily for a month window and Monthly otherwise.
func (w Window) Granularity() Granularity {
	if w.Month == WholeYear {
		return Monthly
	}
	return Daily
}

// Validate checks the month selector range.
func (w Window) Validate() error {
	if w.Month < WholeYear || w.Month > 11 {
		return fmt.Errorf("invalid month %d: want -1 (whole year) or 0..11", w.Month)
	}
	if w.Year < 1 {
		return fmt.Errorf("invalid year %d", w.Year)
	}
	return nil
}

// PeriodLabel returns the month abbreviation, or "Year" for a whole-year window.
func (w Window) PeriodLabel() string {
	if w.Month == WholeYear {
		return "Year"
	}
	return MonthAbbrev(w.Month)
}

// String returns a human-readable window such as "Feb 2024" or "Year 2024".
func (w Window) String() string {
	return fmt.Sprintf("%s %d", w.PeriodLabel(), w.Year)
}

// Contains reports whether the entry falls inside the window.
func (w Window) Contains(e MonthlyEntry) bool {
	if e.Year != w.Year {
		return false
	}
	return w.Month == WholeYear || e.Month == w.Month
}

// DaysIn returns the number of days of a zero-based month.
func DaysIn(year, month int) int {
	if month < 0 || month > 11 {
		return 0
	}
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthAbbrev returns the three-letter English abbreviation of a zero-based month.
func MonthAbbrev(month int) string {
	if month < 0 || month > 11 {
		return ""
	}
	return time.Month(month + 1).String()[:3]
}

// Date returns midnight UTC of the given zero-based month and day.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
}
