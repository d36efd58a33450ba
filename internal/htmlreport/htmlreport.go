// Package htmlreport renders the interactive variant of the report: one
// self-contained HTML page with an ECharts bar and line chart per model.
package htmlreport

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/j-veylop/production-report-tui/internal/chart"
	"github.com/j-veylop/production-report-tui/internal/grouping"
	"github.com/j-veylop/production-report-tui/internal/models"
)

// MIMEType is the content type of the generated page.
const MIMEType = "text/html; charset=utf-8"

const (
	chartWidth  = "1000px"
	chartHeight = "420px"
)

// Build assembles the page. Charts follow plant order and the sorted model
// order inside each plant.
func Build(groups []grouping.PlantGroup, w models.Window, title string) *components.Page {
	page := components.NewPage()
	page.PageTitle = title

	for _, group := range groups {
		for i := range group.Models {
			page.AddCharts(modelChart(group.Name, &group.Models[i], w))
		}
	}
	return page
}

// Write renders the page to bytes.
func Write(groups []grouping.PlantGroup, w models.Window, title string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Build(groups, w, title).Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render html report: %w", err)
	}
	return buf.Bytes(), nil
}

func modelChart(plant string, model *models.Model, w models.Window) *charts.Bar {
	set := chart.Build(model, w)

	yAxis := opts.YAxis{
		Type:      "value",
		Min:       0,
		AxisLabel: &opts.AxisLabel{Color: chart.LegendColor},
		SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
	}
	if capacity := chart.YAxisMax(model); capacity > 0 {
		yAxis.Max = capacity
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      "Plant: " + plant,
			Subtitle:   fmt.Sprintf("Model: %s (%s)", model.Name, w),
			TitleStyle: &opts.TextStyle{Color: chart.TitleColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Bottom:    "0",
			TextStyle: &opts.TextStyle{Color: chart.LegendColor},
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Color: chart.TickColor},
		}),
		charts.WithYAxisOpts(yAxis),
	)
	bar.SetXAxis(set.Labels)

	line := charts.NewLine()
	line.SetXAxis(set.Labels)

	for _, s := range set.Series {
		def := s.Definition
		switch def.Kind {
		case models.ChartBar:
			bar.AddSeries(def.Name, barData(s.Values),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: def.Color}),
			)
		case models.ChartLine:
			line.AddSeries(def.Name, lineData(s.Values),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: def.Color}),
				charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(def.LineTension > 0)}),
			)
		}
	}

	// Lines are layered over the bars.
	bar.Overlap(line)
	return bar
}

func barData(values []float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}
