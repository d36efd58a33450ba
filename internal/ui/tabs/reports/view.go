package reports

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/production-report-tui/internal/export"
	"github.com/j-veylop/production-report-tui/internal/models"
	"github.com/j-veylop/production-report-tui/internal/ui/styles"
)

// View renders the export tab.
func (m *Model) View() string {
	m.clampSelection()
	cardWidth := max(m.width-6, 40)

	sections := []string{
		styles.TitleStyle.Render("Export Report"),
		styles.CardStyle.Width(cardWidth).Render(m.renderForm()),
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, styles.CardStyle.Width(cardWidth).Render(status))
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderForm() string {
	var rows []string

	rows = append(rows,
		renderSelector(m.focus == fieldYear, "Year", m.years(), m.year, func(y int) string { return fmt.Sprint(y) }),
		renderSelector(m.focus == fieldMonth, "Period", m.months(), m.month, monthLabel),
		renderSelector(m.focus == fieldFormat, "Format", export.Formats(), m.format, formatLabel),
		"",
		styles.HelpStyle.Render("File: ")+m.filename(),
	)

	if m.cfg != nil {
		rows = append(rows, styles.HelpStyle.Render("Into: ")+m.cfg.ExportDir)
	}

	rows = append(rows, "", m.renderButton())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderSelector renders one option group with the current value
// highlighted.
func renderSelector[T comparable](focused bool, label string, options []T, current T, show func(T) string) string {
	title := styles.ProgressLabelStyle.Width(10).Render("  " + label)
	if focused {
		title = styles.SelectedListItemStyle.Width(10).Render("▸ " + label)
	}

	parts := []string{title}
	for _, o := range options {
		style := styles.ButtonInactiveStyle
		if o == current {
			style = styles.ButtonActiveStyle
		}
		parts = append(parts, style.Render(show(o)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) renderButton() string {
	switch {
	case !m.canExport():
		return styles.ButtonDisabledStyle.Render("Export") + " " +
			styles.WarningTextStyle.Render(fmt.Sprintf("role %s cannot export", m.cfg.Role))
	case m.state.IsExporting():
		return styles.ButtonDisabledStyle.Render("Export") + " " + m.spinner.ViewWithLabel()
	default:
		return styles.ButtonActiveStyle.Render("Export")
	}
}

func (m *Model) renderStatus() string {
	if m.last == nil {
		return ""
	}
	at := m.last.at.Format("15:04:05")
	if m.last.err != nil {
		return styles.ErrorTextStyle.Render(fmt.Sprintf("✗ %s export failed at %s: %v",
			formatLabel(m.last.format), at, m.last.err))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.SuccessTextStyle.Render(fmt.Sprintf("✓ %s export finished at %s",
			formatLabel(m.last.format), at)),
		styles.HelpStyle.Render(filepath.Base(m.last.path)),
	)
}

func formatLabel(f export.Format) string {
	return strings.ToUpper(string(f))
}

func monthLabel(month int) string {
	if month == models.WholeYear {
		return "Whole year"
	}
	return models.MonthAbbrev(month)
}
