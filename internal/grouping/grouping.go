// Package grouping orders production lines by plant and splits each plant's
// models into report pages.
package grouping

import (
	"slices"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/j-veylop/production-report-tui/internal/models"
)

// PlantGroup is the sorted model list of one plant.
type PlantGroup struct {
	Name   string
	Models []models.Model
}

// newCollator returns a case- and accent-insensitive English collator.
// Collators are not safe for concurrent use, so each call builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.Loose)
}

// Compare orders two names the way plants and models are sorted.
func Compare(a, b string) int {
	return newCollator().CompareString(a, b)
}

// GroupAndSort merges production lines sharing a plant name and sorts plants
// and models by name. Sorting is stable, so ties keep their input order.
func GroupAndSort(lines []models.ProductionLine) []PlantGroup {
	col := newCollator()

	var groups []PlantGroup
	index := make(map[string]int)
	for _, line := range lines {
		i, ok := index[line.PlantName]
		if !ok {
			i = len(groups)
			index[line.PlantName] = i
			groups = append(groups, PlantGroup{Name: line.PlantName})
		}
		groups[i].Models = append(groups[i].Models, line.Models...)
	}

	slices.SortStableFunc(groups, func(a, b PlantGroup) int {
		return col.CompareString(a.Name, b.Name)
	})
	for i := range groups {
		slices.SortStableFunc(groups[i].Models, func(a, b models.Model) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
	return groups
}

// Chunk splits models into consecutive pages of at most capacity models.
func Chunk(items []models.Model, capacity int) [][]models.Model {
	if len(items) == 0 {
		return nil
	}
	if capacity < 1 {
		capacity = 1
	}
	return lo.Chunk(items, capacity)
}

// PageCapacity returns how many model blocks fit on one document page.
func PageCapacity(g models.Granularity) int {
	if g == models.Monthly {
		return 6
	}
	return 3
}

// GridColumns returns the number of block columns on a document page.
func GridColumns(g models.Granularity) int {
	if g == models.Monthly {
		return 2
	}
	return 1
}
