package chart

import "github.com/j-veylop/production-report-tui/internal/models"

// TickStyle tunes the x-axis labels so dense axes stay legible.
type TickStyle struct {
	FontSize float64
	Rotation float64 // degrees, counter-clockwise
}

// AxisStyle returns the tick style for a window with labelCount labels.
func AxisStyle(g models.Granularity, labelCount int) TickStyle {
	if g == models.Daily {
		size := 6.0
		if labelCount > 20 {
			size = 5
		}
		return TickStyle{FontSize: size, Rotation: 90}
	}

	if labelCount > 6 {
		return TickStyle{FontSize: 6, Rotation: 90}
	}
	return TickStyle{FontSize: 8, Rotation: 45}
}

// Colors used by rendered charts.
const (
	LegendColor = "#4A4A4A"
	TickColor   = "#2C3E50"
	TitleColor  = "#1E40AF"
)

// GridColor is rgba(200,200,200,0.3).
var GridColor = [4]uint8{200, 200, 200, 77}
