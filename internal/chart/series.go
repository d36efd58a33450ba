// Package chart builds the per-status series drawn for a model over a report
// window.
package chart

import (
	"fmt"

	"github.com/j-veylop/production-report-tui/internal/aggregate"
	"github.com/j-veylop/production-report-tui/internal/models"
)

// Series is one drawable status series.
type Series struct {
	Status     models.Status
	Definition models.Definition
	Values     []float64
}

// SeriesSet is the chart input for one model: axis labels plus the series
// that carry at least one non-zero value, in status order.
type SeriesSet struct {
	Labels []string
	Series []Series
}

// Empty reports whether there is nothing to draw.
func (s SeriesSet) Empty() bool {
	return len(s.Series) == 0
}

// Max returns the largest value across all series.
func (s SeriesSet) Max() float64 {
	var out float64
	for _, series := range s.Series {
		for _, v := range series.Values {
			out = max(out, v)
		}
	}
	return out
}

// Build computes the series set of a model for the window. Statuses whose
// values are all zero are left out, so a model without data yields no series.
func Build(model *models.Model, w models.Window) SeriesSet {
	set := SeriesSet{Labels: Labels(w)}
	for _, status := range models.Statuses() {
		values := aggregate.WindowSeries(model, w, status)
		if aggregate.IsZero(values) {
			continue
		}
		set.Series = append(set.Series, Series{
			Status:     status,
			Definition: status.Definition(),
			Values:     values,
		})
	}
	return set
}

// Labels returns the chart axis labels of a window: "Thu 1" per day for a
// month, or "Jan 24" per month for a year.
func Labels(w models.Window) []string {
	if w.Granularity() == models.Monthly {
		labels := make([]string, 12)
		for month := range labels {
			labels[month] = fmt.Sprintf("%s %02d", models.MonthAbbrev(month), w.Year%100)
		}
		return labels
	}
	return DayLabels(w.Year, w.Month)
}

// DayLabels returns "{weekday} {day}" for every day of a month.
func DayLabels(year, month int) []string {
	days := models.DaysIn(year, month)
	labels := make([]string, days)
	for day := 1; day <= days; day++ {
		weekday := models.Date(year, month, day).Weekday().String()[:3]
		labels[day-1] = fmt.Sprintf("%s %d", weekday, day)
	}
	return labels
}

// YAxisMax returns the y-axis cap of a model, or zero when the axis should
// scale to the data.
func YAxisMax(model *models.Model) float64 {
	if model == nil {
		return 0
	}
	if c := model.Capacity(); c > 0 {
		return c
	}
	return 0
}
