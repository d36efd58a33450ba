// Package aggregate converts sparse day records into dense calendar series
// and monthly sums.
package aggregate

import (
	"github.com/samber/lo"

	"github.com/j-veylop/production-report-tui/internal/models"
)

// DenseDailySeries returns one value per calendar day of the month. Missing
// entries and out-of-range days read as zero.
func DenseDailySeries(model *models.Model, year, month int, status models.Status) []float64 {
	length := models.DaysIn(year, month)
	if model == nil {
		return make([]float64, length)
	}
	entry, ok := model.Entry(year, month)
	if !ok {
		return make([]float64, length)
	}
	return Densify(entry.StatusData[status], length)
}

// MonthlySum sums the stored day values of one status in a month.
func MonthlySum(model *models.Model, year, month int, status models.Status) float64 {
	if model == nil {
		return 0
	}
	entry, ok := model.Entry(year, month)
	if !ok {
		return 0
	}
	return lo.SumBy(entry.StatusData[status], func(v models.DayValue) float64 {
		return v.Value
	})
}

// YearlySeries returns the twelve monthly sums of a status.
func YearlySeries(model *models.Model, year int, status models.Status) []float64 {
	out := make([]float64, 12)
	for month := range out {
		out[month] = MonthlySum(model, year, month, status)
	}
	return out
}

// WindowSeries returns the dense daily series for a month window, or the
// monthly sums for a whole-year window.
func WindowSeries(model *models.Model, w models.Window, status models.Status) []float64 {
	if w.Granularity() == models.Monthly {
		return YearlySeries(model, w.Year, status)
	}
	return DenseDailySeries(model, w.Year, w.Month, status)
}

// Densify expands sparse values into a zero-filled array of the given length.
// Days outside 1..length are dropped; repeated days are summed, matching
// MonthlySum.
func Densify(values []models.DayValue, length int) []float64 {
	dense := make([]float64, max(length, 0))
	for _, v := range values {
		if v.Day >= 1 && v.Day <= length {
			dense[v.Day-1] += v.Value
		}
	}
	return dense
}

// Sparsify keeps the non-zero days of a dense array, in ascending day order.
func Sparsify(dense []float64) []models.DayValue {
	var out []models.DayValue
	for i, v := range dense {
		if v != 0 {
			out = append(out, models.DayValue{Day: i + 1, Value: v})
		}
	}
	return out
}

// IsZero reports whether every value is zero.
func IsZero(values []float64) bool {
	return lo.EveryBy(values, func(v float64) bool { return v == 0 })
}

// Sum adds the values of a series.
func Sum(values []float64) float64 {
	return lo.Sum(values)
}
