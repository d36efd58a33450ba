// Package document renders the paginated chart-and-table report. Each page
// is drawn on an off-screen surface, rasterized and placed full width on an
// A4 PDF page.
package document

import (
	"github.com/j-veylop/production-report-tui/internal/grouping"
	"github.com/j-veylop/production-report-tui/internal/models"
)

// MIMEType is the content type of the generated document.
const MIMEType = "application/pdf"

// Page describes one document page: a plant title over a grid of model
// blocks.
type Page struct {
	Plant   string
	Index   int // zero-based page number within the plant
	Models  []models.Model
	Columns int
	Window  models.Window
}

// Layout splits every plant into pages, keeping plant order and the
// sorted model order inside each plant.
func Layout(groups []grouping.PlantGroup, w models.Window) []Page {
	g := w.Granularity()
	capacity := grouping.PageCapacity(g)
	columns := grouping.GridColumns(g)

	var pages []Page
	for _, group := range groups {
		for i, chunk := range grouping.Chunk(group.Models, capacity) {
			pages = append(pages, Page{
				Plant:   group.Name,
				Index:   i,
				Models:  chunk,
				Columns: columns,
				Window:  w,
			})
		}
	}
	return pages
}

// Rows returns the number of block rows the page grid reserves.
func (p Page) Rows() int {
	capacity := grouping.PageCapacity(p.Window.Granularity())
	columns := max(p.Columns, 1)
	return (capacity + columns - 1) / columns
}
