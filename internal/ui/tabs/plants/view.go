package plants

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/production-report-tui/internal/aggregate"
	"github.com/j-veylop/production-report-tui/internal/chart"
	"github.com/j-veylop/production-report-tui/internal/format"
	"github.com/j-veylop/production-report-tui/internal/models"
	"github.com/j-veylop/production-report-tui/internal/ui/components"
	"github.com/j-veylop/production-report-tui/internal/ui/styles"
)

// View renders the plants tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	cardWidth := max(m.width-6, 40)
	rows := m.rows()

	var content string
	if len(rows) == 0 {
		content = m.renderEmpty(cardWidth)
	} else {
		listWidth := min(max(cardWidth/3, 28), 40)
		list := m.renderList(rows, listWidth)
		preview := m.renderPreview(rows[min(m.cursor, len(rows)-1)], max(cardWidth-listWidth-2, 30))
		content = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", preview)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, m.renderTitle(), content))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Production Lines")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf(
		"%d plants, %d models, previewing %s",
		m.state.GetLineCount(), m.state.GetModelCount(), m.window,
	))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderEmpty(width int) string {
	icon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
	rows := []string{
		styles.CardTitleStyle.Render("Production Lines"),
		fmt.Sprintf("  %s %s", icon, styles.HelpStyle.Render("No production lines yet")),
		"",
		styles.InfoTextStyle.Render("  ╰─▶ Import a plan with: prt import <file>"),
	}
	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderList renders models grouped under their plant headers.
func (m *Model) renderList(rows []row, width int) string {
	var out []string
	for i, r := range rows {
		if i == 0 || r.plant != rows[i-1].plant {
			if i > 0 {
				out = append(out, "")
			}
			out = append(out, styles.PlantHeaderStyle.Render(r.plant))
		}

		name := truncate(r.name, width-8)
		if i == m.cursor {
			out = append(out, styles.SelectedListItemStyle.Render("▸ "+name))
		} else {
			out = append(out, styles.ListItemStyle.Render(name))
		}
	}
	return styles.ListPanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, out...))
}

func (m *Model) renderPreview(r row, width int) string {
	lines := m.state.GetLines()
	model := lines[r.line].Models[r.model]

	var out []string
	out = append(out,
		styles.CardTitleStyle.Render("Plant: "+r.plant),
		styles.SubTitleStyle.Render(fmt.Sprintf("Model: %s (%s)", r.name, m.window)),
		"",
	)

	set := chart.Build(&model, m.window)
	out = append(out,
		components.RenderSeriesChart(set, chart.YAxisMax(&model), max(width-20, 20), 10, m.window.String()),
		components.RenderSeriesLegend(set),
		"",
	)

	out = append(out, m.renderTotals(&model)...)
	out = append(out, "", m.renderUtilization(&model, width))

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, out...))
}

// renderTotals lists the window sum of every status.
func (m *Model) renderTotals(model *models.Model) []string {
	var out []string
	for _, s := range models.Statuses() {
		total := aggregate.Sum(aggregate.WindowSeries(model, m.window, s))
		label := styles.StatusStyle(s).Render(fmt.Sprintf("%-16s", s.Definition().Name))
		out = append(out, fmt.Sprintf("  %s %12s", label, format.Number(total)))
	}
	return out
}

// renderUtilization compares the produced total with the configured
// capacity over every day of the window.
func (m *Model) renderUtilization(model *models.Model, width int) string {
	produced := aggregate.Sum(aggregate.WindowSeries(model, m.window, models.StatusProduction))
	percent := components.Utilization(produced, model.Capacity()*float64(windowDays(m.window)))
	return m.bar.View(percent, "Utilization", width-4)
}

func windowDays(w models.Window) int {
	if w.Month != models.WholeYear {
		return models.DaysIn(w.Year, w.Month)
	}
	days := 0
	for month := range 12 {
		days += models.DaysIn(w.Year, month)
	}
	return days
}

func truncate(s string, n int) string {
	if n <= 3 || len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
