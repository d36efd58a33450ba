// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/production-report-tui/internal/chart"
	"github.com/j-veylop/production-report-tui/internal/format"
	"github.com/j-veylop/production-report-tui/internal/models"
	"github.com/j-veylop/production-report-tui/internal/ui/styles"
)

// seriesColors approximates the report palette in the terminal.
var seriesColors = map[models.Status]asciigraph.AnsiColor{
	models.StatusProduction: asciigraph.LightGreen,
	models.StatusForecast:   asciigraph.RoyalBlue,
	models.StatusCapacity:   asciigraph.DarkOrange,
	models.StatusCapacityOT: asciigraph.Gold,
}

// RenderSeriesChart plots every series of a set on one ASCII chart. The
// y-axis starts at zero and is capped at yMax when yMax is positive.
func RenderSeriesChart(set chart.SeriesSet, yMax float64, width, height int, caption string) string {
	if set.Empty() {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	data := make([][]float64, len(set.Series))
	colors := make([]asciigraph.AnsiColor, len(set.Series))
	for i, s := range set.Series {
		data[i] = s.Values
		colors[i] = seriesColors[s.Status]
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.LowerBound(0),
		asciigraph.SeriesColors(colors...),
	}
	if yMax > 0 {
		opts = append(opts, asciigraph.UpperBound(yMax))
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}

	return asciigraph.PlotMany(data, opts...)
}

// RenderSeriesLegend renders a legend for the series of a set.
func RenderSeriesLegend(set chart.SeriesSet) string {
	items := make([]LegendItem, 0, len(set.Series))
	for _, s := range set.Series {
		items = append(items, LegendItem{Label: s.Definition.Name, Color: styles.StatusColor(s.Status)})
	}
	return RenderLegend(items)
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	// Leave room for the label and the value.
	barWidth := max(width-maxLabelLen-12, 10)

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		line := fmt.Sprintf("%*s │%s %s", maxLabelLen, label, strings.Repeat("█", barLen), format.Number(v))
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		normalized = min(max(normalized, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
