// Package workbook lays out the spreadsheet form of a production report:
// one sheet per plant with a header row, a merged title band per model and
// one row per status.
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/j-veylop/production-report-tui/internal/aggregate"
	"github.com/j-veylop/production-report-tui/internal/chart"
	"github.com/j-veylop/production-report-tui/internal/grouping"
	"github.com/j-veylop/production-report-tui/internal/logger"
	"github.com/j-veylop/production-report-tui/internal/models"
)

// MIMEType is the content type of the generated workbook.
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	headerFill = "8DB4E2"
	bandFill   = "C5D9F1"

	labelColumnWidth = 18
	dataColumnWidth  = 10
	headerRowHeight  = 30

	// bandRows is the height in rows of the merged model title band.
	bandRows = 2
)

// Header returns the first-row labels of a sheet for the window.
func Header(w models.Window) []string {
	if w.Granularity() == models.Daily {
		return append([]string{"STATUS/DAY"}, chart.DayLabels(w.Year, w.Month)...)
	}
	header := []string{"STATUS/MONTH"}
	for month := range 12 {
		header = append(header, models.MonthAbbrev(month))
	}
	return header
}

// BandText returns the title of a model band.
func BandText(name string) string {
	return "Model: " + name
}

type styles struct {
	header int
	band   int
	data   int
}

func border() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: centered,
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Border:    border(),
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	s.band, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: centered,
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bandFill}},
		Border:    border(),
	})
	if err != nil {
		return s, fmt.Errorf("failed to create band style: %w", err)
	}

	s.data, err = f.NewStyle(&excelize.Style{Border: border()})
	if err != nil {
		return s, fmt.Errorf("failed to create data style: %w", err)
	}
	return s, nil
}

// Build lays out one sheet per plant group. The caller owns the returned file
// and must close it.
func Build(groups []grouping.PlantGroup, w models.Window) (*excelize.File, error) {
	f := excelize.NewFile()

	st, err := newStyles(f)
	if err != nil {
		closeFile(f)
		return nil, err
	}

	seen := make(map[string]bool, len(groups))
	for _, group := range groups {
		key := strings.ToLower(group.Name)
		if seen[key] {
			closeFile(f)
			return nil, fmt.Errorf("duplicate sheet name %q", group.Name)
		}
		seen[key] = true

		if err := writeSheet(f, st, group, w, len(seen) == 1); err != nil {
			closeFile(f)
			return nil, fmt.Errorf("failed to write sheet %q: %w", group.Name, err)
		}
	}
	return f, nil
}

// Write builds the workbook and encodes it to XLSX bytes.
func Write(groups []grouping.PlantGroup, w models.Window) ([]byte, error) {
	f, err := Build(groups, w)
	if err != nil {
		return nil, err
	}
	defer closeFile(f)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func closeFile(f *excelize.File) {
	if err := f.Close(); err != nil {
		logger.Error("failed to close workbook", "error", err)
	}
}

// writeSheet lays out one plant. The first plant takes over the default sheet
// so sheet order follows plant order.
func writeSheet(f *excelize.File, st styles, group grouping.PlantGroup, w models.Window, first bool) error {
	sheet := group.Name
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := Header(w)
	lastCol := len(header)

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, lastCol, st.header); err != nil {
		return err
	}
	if err := f.SetRowHeight(sheet, 1, headerRowHeight); err != nil {
		return err
	}

	lastName, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", labelColumnWidth); err != nil {
		return err
	}
	if lastCol > 1 {
		if err := f.SetColWidth(sheet, "B", lastName, dataColumnWidth); err != nil {
			return err
		}
	}

	row := 2
	for i := range group.Models {
		next, err := writeModel(f, st, sheet, row, lastCol, &group.Models[i], w)
		if err != nil {
			return fmt.Errorf("model %q: %w", group.Models[i].Name, err)
		}
		row = next
	}
	return nil
}

// writeModel writes the title band and status rows of one model starting at
// row and returns the next free row.
func writeModel(f *excelize.File, st styles, sheet string, row, lastCol int, model *models.Model, w models.Window) (int, error) {
	topLeft, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return 0, err
	}
	bottomRight, err := excelize.CoordinatesToCellName(lastCol, row+bandRows-1)
	if err != nil {
		return 0, err
	}

	if err := f.SetCellValue(sheet, topLeft, BandText(model.Name)); err != nil {
		return 0, err
	}
	if err := f.MergeCell(sheet, topLeft, bottomRight); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheet, topLeft, bottomRight, st.band); err != nil {
		return 0, err
	}
	row += bandRows

	for _, status := range models.Statuses() {
		values := aggregate.WindowSeries(model, w, status)
		cells := make([]any, 0, len(values)+1)
		cells = append(cells, status.String())
		for _, v := range values {
			cells = append(cells, v)
		}

		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return 0, err
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return 0, err
		}
		if err := styleRow(f, sheet, row, lastCol, st.data); err != nil {
			return 0, err
		}
		row++
	}
	return row, nil
}

func styleRow(f *excelize.File, sheet string, row, lastCol, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(lastCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
