package document

import (
	"context"
	"math"
	"strings"

	"github.com/fogleman/gg"

	"github.com/j-veylop/production-report-tui/internal/aggregate"
	"github.com/j-veylop/production-report-tui/internal/chart"
	"github.com/j-veylop/production-report-tui/internal/format"
	"github.com/j-veylop/production-report-tui/internal/models"
)

// Block geometry, CSS pixels unless the name says otherwise.
const (
	pagePaddingMM = 5.0
	gridGapMM     = 5.0
	blockHeightMM = 80.0

	titleSize     = 16.0
	titleGap      = 24.0
	tableFontSize = 5.0
	tablePadding  = 2.0
	nameFontSize  = 9.0
	nameTopMM     = 4.0
	nameBottomMM  = 2.0
	legendSize    = 8.0
	legendBox     = 8.0
	yTickSize     = 8.0
	lineWidth     = 2.0

	tableHeaderFill = "#F0F0F0"
	tableHeaderText = "#374151"
	tableText       = "#111827"
	tableRule       = "#E5E7EB"
	blockBorder     = "#EEEEEE"
	nameColor       = "#333333"
)

type rect struct {
	x, y, w, h float64
}

func css(v float64) float64 { return v * pxPerCSS }
func mm(v float64) float64  { return v * pxPerMM }

// drawPage paints the full page. It returns early with the context error
// when ctx is cancelled between blocks.
func drawPage(ctx context.Context, dc *gg.Context, faces *faceCache, page Page) error {
	dc.SetHexColor("#FFFFFF")
	dc.Clear()

	width := float64(dc.Width())
	pad := mm(pagePaddingMM)

	dc.SetFontFace(faces.face(true, css(titleSize)))
	dc.SetHexColor(chart.TitleColor)
	dc.DrawStringAnchored("Plant: "+page.Plant, width/2, pad, 0.5, 1)

	columns := max(page.Columns, 1)
	gridTop := pad + css(titleSize) + css(titleGap)
	gap := mm(gridGapMM)
	blockW := (width - 2*pad - float64(columns-1)*gap) / float64(columns)
	blockH := mm(blockHeightMM)

	for i := range page.Models {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, col := i/columns, i%columns
		r := rect{
			x: pad + float64(col)*(blockW+gap),
			y: gridTop + float64(row)*(blockH+gap),
			w: blockW,
			h: blockH,
		}
		drawBlock(dc, faces, &page.Models[i], page.Window, r)
	}
	return ctx.Err()
}

// drawBlock paints one model: value table, model name, then the chart.
func drawBlock(dc *gg.Context, faces *faceCache, model *models.Model, w models.Window, r rect) {
	dc.SetHexColor(blockBorder)
	dc.SetLineWidth(css(1))
	dc.DrawRectangle(r.x, r.y, r.w, r.h)
	dc.Stroke()

	tableBottom := drawTable(dc, faces, model, w, r)

	nameY := tableBottom + mm(nameTopMM)
	dc.SetFontFace(faces.face(true, css(nameFontSize)))
	dc.SetHexColor(nameColor)
	dc.DrawStringAnchored(model.Name, r.x+r.w/2, nameY, 0.5, 1)

	chartTop := nameY + css(nameFontSize) + mm(nameBottomMM)
	area := rect{x: r.x + css(4), y: chartTop, w: r.w - css(8), h: r.y + r.h - chartTop - css(4)}
	if area.h > 0 {
		drawChart(dc, faces, model, w, area)
	}
}

// drawTable paints the status/value table and returns its bottom edge.
func drawTable(dc *gg.Context, faces *faceCache, model *models.Model, w models.Window, r rect) float64 {
	labels := chart.Labels(w)
	rowH := css(tableFontSize + 2*tablePadding + 1)
	labelW := css(30)
	if w.Granularity() == models.Monthly {
		labelW = css(34)
	}
	colW := (r.w - labelW) / float64(max(len(labels), 1))

	dc.SetHexColor(tableHeaderFill)
	dc.DrawRectangle(r.x, r.y, r.w, rowH)
	dc.Fill()

	dc.SetFontFace(faces.face(true, css(tableFontSize)))
	dc.SetHexColor(tableHeaderText)
	dc.DrawStringAnchored(strings.ToUpper("Status"), r.x+css(tablePadding), r.y+rowH/2, 0, 0.35)
	for i, label := range labels {
		dc.DrawStringAnchored(label, r.x+labelW+colW*(float64(i)+0.5), r.y+rowH/2, 0.5, 0.35)
	}

	dc.SetHexColor(tableRule)
	dc.SetLineWidth(css(1))
	dc.DrawLine(r.x, r.y+rowH, r.x+r.w, r.y+rowH)
	dc.Stroke()

	y := r.y + rowH
	for _, status := range models.Statuses() {
		values := aggregate.WindowSeries(model, w, status)

		dc.SetFontFace(faces.face(false, css(tableFontSize)))
		dc.SetHexColor(tableText)
		dc.DrawStringAnchored(status.String(), r.x+css(tablePadding), y+rowH/2, 0, 0.35)

		dc.SetHexColor(tableHeaderText)
		for i, v := range values {
			dc.DrawStringAnchored(format.Number(v), r.x+labelW+colW*(float64(i)+0.5), y+rowH/2, 0.5, 0.35)
		}
		y += rowH
	}
	return y
}

// drawChart paints the overlaid bar and line chart of a model into area.
func drawChart(dc *gg.Context, faces *faceCache, model *models.Model, w models.Window, area rect) {
	set := chart.Build(model, w)
	tick := chart.AxisStyle(w.Granularity(), len(set.Labels))

	top := chart.YAxisMax(model)
	if top <= 0 {
		top = niceMax(set.Max())
	}
	ticks := yTicks(top)

	// Legend strip at the bottom.
	legendH := css(legendSize) * 2
	drawLegend(dc, faces, set, rect{x: area.x, y: area.y + area.h - legendH, w: area.w, h: legendH})

	// Space for rotated x labels and y tick text.
	xFace := faces.face(true, css(tick.FontSize))
	dc.SetFontFace(xFace)
	var longest float64
	for _, l := range set.Labels {
		lw, _ := dc.MeasureString(l)
		longest = math.Max(longest, lw)
	}
	rad := gg.Radians(tick.Rotation)
	xLabelH := longest*math.Sin(rad) + css(tick.FontSize)*math.Cos(rad) + css(4)

	dc.SetFontFace(faces.face(false, css(yTickSize)))
	var yLabelW float64
	for _, t := range ticks {
		lw, _ := dc.MeasureString(format.Number(t))
		yLabelW = math.Max(yLabelW, lw)
	}
	yLabelW += css(4)

	plot := rect{
		x: area.x + yLabelW,
		y: area.y + css(yTickSize)/2,
		w: area.w - yLabelW,
		h: area.h - legendH - xLabelH - css(yTickSize)/2,
	}
	if plot.w <= 0 || plot.h <= 0 {
		return
	}

	yPos := func(v float64) float64 {
		return plot.y + plot.h - (v/top)*plot.h
	}

	// Horizontal grid and y tick labels.
	dc.SetLineWidth(css(1))
	for _, t := range ticks {
		y := yPos(t)
		dc.SetRGBA255(int(chart.GridColor[0]), int(chart.GridColor[1]), int(chart.GridColor[2]), int(chart.GridColor[3]))
		dc.DrawLine(plot.x, y, plot.x+plot.w, y)
		dc.Stroke()
		dc.SetHexColor(chart.LegendColor)
		dc.DrawStringAnchored(format.Number(t), plot.x-css(3), y, 1, 0.35)
	}

	n := max(len(set.Labels), 1)
	catW := plot.w / float64(n)

	dc.Push()
	dc.DrawRectangle(plot.x, plot.y, plot.w, plot.h)
	dc.Clip()
	drawSeries(dc, set, plot, catW, yPos)
	dc.ResetClip()
	dc.Pop()

	// X tick labels, right-aligned to the category centre then rotated.
	dc.SetFontFace(xFace)
	dc.SetHexColor(chart.TickColor)
	for i, label := range set.Labels {
		x := plot.x + catW*(float64(i)+0.5)
		y := plot.y + plot.h + css(3)
		dc.Push()
		dc.RotateAbout(-rad, x, y)
		dc.DrawStringAnchored(label, x, y, 1, 0.5)
		dc.Pop()
	}
}

// drawSeries draws higher draw orders first so lower orders end up on top.
func drawSeries(dc *gg.Context, set chart.SeriesSet, plot rect, catW float64, yPos func(float64) float64) {
	var bars []chart.Series
	for _, s := range set.Series {
		if s.Definition.Kind == models.ChartBar {
			bars = append(bars, s)
		}
	}

	for i := len(set.Series) - 1; i >= 0; i-- {
		s := set.Series[i]
		switch s.Definition.Kind {
		case models.ChartBar:
			slot := 0
			for j, b := range bars {
				if b.Status == s.Status {
					slot = j
				}
			}
			drawBars(dc, s, slot, len(bars), plot, catW, yPos)
		case models.ChartLine:
			drawLine(dc, s, plot, catW, yPos)
		}
	}
}

func drawBars(dc *gg.Context, s chart.Series, slot, slots int, plot rect, catW float64, yPos func(float64) float64) {
	groupW := catW * s.Definition.CategoryPercentage
	slotW := groupW / float64(slots)
	barW := slotW * s.Definition.BarPercentage

	dc.SetHexColor(s.Definition.Color)
	base := plot.y + plot.h
	for i, v := range s.Values {
		if v <= 0 {
			continue
		}
		x := plot.x + catW*float64(i) + (catW-groupW)/2 + slotW*float64(slot) + (slotW-barW)/2
		y := yPos(v)
		dc.DrawRectangle(x, y, barW, base-y)
		dc.Fill()
	}
}

// drawLine draws a series as a cubic curve whose control points follow the
// neighbouring points scaled by the series tension.
func drawLine(dc *gg.Context, s chart.Series, plot rect, catW float64, yPos func(float64) float64) {
	pts := make([]gg.Point, len(s.Values))
	for i, v := range s.Values {
		pts[i] = gg.Point{X: plot.x + catW*(float64(i)+0.5), Y: yPos(v)}
	}
	if len(pts) == 0 {
		return
	}

	t := s.Definition.LineTension
	dc.SetHexColor(s.Definition.Color)
	dc.SetLineWidth(css(lineWidth))
	dc.MoveTo(pts[0].X, pts[0].Y)
	for i := 0; i < len(pts)-1; i++ {
		prev := pts[max(i-1, 0)]
		next := pts[min(i+2, len(pts)-1)]
		c1 := gg.Point{X: pts[i].X + t*(pts[i+1].X-prev.X), Y: pts[i].Y + t*(pts[i+1].Y-prev.Y)}
		c2 := gg.Point{X: pts[i+1].X - t*(next.X-pts[i].X), Y: pts[i+1].Y - t*(next.Y-pts[i].Y)}
		dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pts[i+1].X, pts[i+1].Y)
	}
	dc.Stroke()

	radius := css(s.Definition.PointRadius)
	for _, p := range pts {
		dc.DrawCircle(p.X, p.Y, radius)
		dc.Fill()
	}
}

func drawLegend(dc *gg.Context, faces *faceCache, set chart.SeriesSet, r rect) {
	if set.Empty() {
		return
	}
	dc.SetFontFace(faces.face(false, css(legendSize)))

	box := css(legendBox)
	spacing := css(10)
	widths := make([]float64, len(set.Series))
	var total float64
	for i, s := range set.Series {
		lw, _ := dc.MeasureString(s.Definition.Name)
		widths[i] = box + css(4) + lw
		total += widths[i]
	}
	total += spacing * float64(len(set.Series)-1)

	x := r.x + (r.w-total)/2
	cy := r.y + r.h/2
	for i, s := range set.Series {
		dc.SetHexColor(s.Definition.Color)
		dc.DrawRectangle(x, cy-box/2, box, box)
		dc.Fill()
		dc.SetHexColor(chart.LegendColor)
		dc.DrawStringAnchored(s.Definition.Name, x+box+css(4), cy, 0, 0.35)
		x += widths[i] + spacing
	}
}

// niceMax rounds v up to a readable axis maximum; an empty chart gets 0..1.
func niceMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	step := niceStep(v / 5)
	return math.Ceil(v/step) * step
}

func niceStep(raw float64) float64 {
	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if raw <= m*magnitude {
			return m * magnitude
		}
	}
	return 10 * magnitude
}

// yTicks returns five equal intervals from zero to top.
func yTicks(top float64) []float64 {
	const intervals = 5
	out := make([]float64, intervals+1)
	for i := range out {
		out[i] = top * float64(i) / intervals
	}
	return out
}
