package export

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/j-veylop/production-report-tui/internal/models"
)

// Prefilter reduces every model to the entries inside the window and drops
// production lines that have no models. The input is not modified.
func Prefilter(lines []models.ProductionLine, w models.Window) []models.ProductionLine {
	return lo.FilterMap(lines, func(line models.ProductionLine, _ int) (models.ProductionLine, bool) {
		if len(line.Models) == 0 {
			return line, false
		}
		out := line
		out.Models = lo.Map(line.Models, func(m models.Model, _ int) models.Model {
			m.MonthlyEntries = lo.Filter(m.MonthlyEntries, func(e models.MonthlyEntry, _ int) bool {
				return w.Contains(e)
			})
			return m
		})
		return out, true
	})
}

// AvailableYears returns the sorted years that have at least one entry. The
// current year is offered when there is no data at all.
func AvailableYears(lines []models.ProductionLine, now time.Time) []int {
	var years []int
	for _, line := range lines {
		for _, m := range line.Models {
			for _, e := range m.MonthlyEntries {
				years = append(years, e.Year)
			}
		}
	}
	years = lo.Uniq(years)
	if len(years) == 0 {
		return []int{now.Year()}
	}
	slices.Sort(years)
	return years
}

// AvailableMonths returns models.WholeYear followed by the sorted zero-based
// months of year that have at least one entry.
func AvailableMonths(lines []models.ProductionLine, year int) []int {
	var months []int
	for _, line := range lines {
		for _, m := range line.Models {
			for _, e := range m.MonthlyEntries {
				if e.Year == year {
					months = append(months, e.Month)
				}
			}
		}
	}
	months = lo.Uniq(months)
	slices.Sort(months)
	return append([]int{models.WholeYear}, months...)
}
