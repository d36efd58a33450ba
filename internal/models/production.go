// Package models defines data structures and domain types.
package models

import "slices"

// DayValue is a single stored day of a status series.
type DayValue struct {
	Day   int     `json:"day" yaml:"day"`
	Value float64 `json:"value" yaml:"value"`
}

// StatusData holds the sparse day values of each status for one month.
type StatusData map[Status][]DayValue

// MonthlyEntry holds one model's stored values for a (year, month) pair.
// Month is zero based (0 = January).
type MonthlyEntry struct {
	Year       int
	Month      int
	StatusData StatusData
}

// IsEmpty reports whether no status holds a stored day.
func (e MonthlyEntry) IsEmpty() bool {
	for _, values := range e.StatusData {
		if len(values) > 0 {
			return false
		}
	}
	return true
}

// Model is a product tracked under a production line.
type Model struct {
	Name           string
	MaxCapacity    *float64
	MonthlyEntries []MonthlyEntry
}

// Capacity returns the configured maximum capacity, or zero when unset.
func (m Model) Capacity() float64 {
	if m.MaxCapacity == nil {
		return 0
	}
	return *m.MaxCapacity
}

// Entry returns the first entry matching the year and month.
func (m Model) Entry(year, month int) (MonthlyEntry, bool) {
	for _, e := range m.MonthlyEntries {
		if e.Year == year && e.Month == month {
			return e, true
		}
	}
	return MonthlyEntry{}, false
}

// ProductionLine is a stored plant record with its models.
type ProductionLine struct {
	ID          string
	PlantName   string
	Description string
	Models      []Model
}

// Float returns a pointer to v, for MaxCapacity literals.
func Float(v float64) *float64 {
	return &v
}

// DayValuesEqual compares two sparse lists irrespective of order.
func DayValuesEqual(a, b []DayValue) bool {
	if len(a) != len(b) {
		return false
	}
	x := sortedDays(a)
	y := sortedDays(b)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// EntryEqual compares two monthly entries field by field. A status with an
// empty list is equal to an absent status.
func EntryEqual(a, b MonthlyEntry) bool {
	if a.Year != b.Year || a.Month != b.Month {
		return false
	}
	for _, s := range statusOrder {
		if !DayValuesEqual(a.StatusData[s], b.StatusData[s]) {
			return false
		}
	}
	return true
}

// EntriesEqual compares two entry lists in order.
func EntriesEqual(a, b []MonthlyEntry) bool {
	return slices.EqualFunc(a, b, EntryEqual)
}

func sortedDays(values []DayValue) []DayValue {
	out := slices.Clone(values)
	slices.SortFunc(out, func(a, b DayValue) int {
		return a.Day - b.Day
	})
	return out
}

// CloneEntries returns a deep copy of entries.
func CloneEntries(entries []MonthlyEntry) []MonthlyEntry {
	if entries == nil {
		return nil
	}
	out := make([]MonthlyEntry, len(entries))
	for i, e := range entries {
		out[i] = MonthlyEntry{Year: e.Year, Month: e.Month, StatusData: make(StatusData, len(e.StatusData))}
		for s, values := range e.StatusData {
			out[i].StatusData[s] = slices.Clone(values)
		}
	}
	return out
}
