package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/production-report-tui/internal/aggregate"
	"github.com/j-veylop/production-report-tui/internal/editing"
	"github.com/j-veylop/production-report-tui/internal/format"
	"github.com/j-veylop/production-report-tui/internal/models"
	"github.com/j-veylop/production-report-tui/internal/ui/styles"
)

// View renders the editor tab.
func (m *Model) View() string {
	var content string
	if m.session == nil {
		content = m.renderEmpty()
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.renderTitle(),
			m.renderGrid(),
			"",
			m.renderFooter(),
		)
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty() string {
	rows := []string{
		styles.TitleStyle.Render("Editor"),
		styles.HelpStyle.Render("No model selected"),
		"",
		styles.InfoTextStyle.Render("  ╰─▶ Pick a model on the Plants tab and press e"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render(fmt.Sprintf("%s / %s", m.plant, m.session.Model()))

	mode := styles.HelpStyle.Render("viewing")
	if m.session.State() == editing.Editing {
		mode = styles.WarningTextStyle.Render("editing")
	}

	days := m.visibleDays()
	last := min(m.offset+days, m.session.Days())
	subtitle := fmt.Sprintf("%s  %s  %s",
		styles.SubTitleStyle.Render(m.session.Window().String()),
		mode,
		styles.HelpStyle.Render(fmt.Sprintf("days %d-%d of %d", m.offset+1, last, m.session.Days())),
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderGrid renders the status rows over the visible day columns.
func (m *Model) renderGrid() string {
	days := m.visibleDays()
	first := m.offset + 1
	last := min(m.offset+days, m.session.Days())

	header := []string{lipgloss.NewStyle().Width(labelWidth).Render("")}
	for day := first; day <= last; day++ {
		header = append(header, styles.TableHeaderStyle.Width(cellWidth).Align(lipgloss.Right).Render(fmt.Sprint(day)))
	}
	header = append(header, styles.TableHeaderStyle.Width(12).Align(lipgloss.Right).Render("Total"))

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	active, cellEditing := m.session.Active()

	for i, status := range models.Statuses() {
		cells := []string{styles.StatusStyle(status).Width(labelWidth).Render(status.Definition().Name)}

		values := make([]float64, 0, m.session.Days())
		for day := 1; day <= m.session.Days(); day++ {
			values = append(values, m.session.Value(status, day))
		}

		for day := first; day <= last; day++ {
			cursor := i == m.status && day == m.day
			cells = append(cells, m.renderCell(status, day, cursor, cellEditing && active == editing.Cell{Status: status, Day: day}))
		}

		cells = append(cells, lipgloss.NewStyle().Width(12).Align(lipgloss.Right).Render(format.Number(aggregate.Sum(values))))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return strings.Join(rows, "\n")
}

func (m *Model) renderCell(status models.Status, day int, cursor, active bool) string {
	if active {
		return styles.GridEditingStyle.Width(cellWidth).Render(m.input.View())
	}

	text := format.Cell(m.session.Value(status, day))
	switch {
	case cursor:
		return styles.GridCursorStyle.Width(cellWidth).Render(text)
	case m.isFuture(day):
		return styles.GridLockedStyle.Width(cellWidth).Render("·")
	default:
		return styles.GridCellStyle.Width(cellWidth).Render(text)
	}
}

func (m *Model) renderFooter() string {
	var parts []string

	status := models.Statuses()[m.status]
	parts = append(parts, styles.HelpStyle.Render(fmt.Sprintf("%s, day %d", status.Definition().Name, m.day)))

	if m.session.Dirty() {
		parts = append(parts, styles.WarningTextStyle.Render("● unsaved changes"))
	}
	if m.message != "" {
		parts = append(parts, styles.InfoTextStyle.Render(m.message))
	}
	if m.err != nil {
		parts = append(parts, styles.ErrorTextStyle.Render("✗ "+m.err.Error()))
	}

	return strings.Join(parts, "  ")
}
