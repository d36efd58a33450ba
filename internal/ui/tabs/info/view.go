package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/production-report-tui/internal/format"
	"github.com/j-veylop/production-report-tui/internal/ui/styles"
	"github.com/j-veylop/production-report-tui/internal/version"
)

// activityRows maps counter families to their labels on the activity card.
var activityRows = []struct {
	name  string
	label string
}{
	{"exports_total", "Exports"},
	{"pages_rendered_total", "Pages Rendered"},
	{"edit_commits_total", "Edits Saved"},
}

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
	}
	if m.metrics != nil {
		sections = append(sections, m.renderActivityCard())
	}
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

// renderConfigCard renders the configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	if m.config != nil {
		metricsAddr := m.config.MetricsAddr
		if metricsAddr == "" {
			metricsAddr = "disabled"
		}
		notifications := "off"
		if m.config.Notifications {
			notifications = "on"
		}
		envFile := m.config.EnvFile
		if envFile == "" {
			envFile = "none"
		}

		rows = append(rows,
			m.renderConfigRow("Database", m.config.DatabasePath),
			m.renderConfigRow("Export Directory", m.config.ExportDir),
			m.renderConfigRow("Product", m.config.Product),
			m.renderConfigRow("Role", m.config.Role.String()),
			m.renderConfigRow("Render Timeout", m.config.RenderTimeout.String()),
			m.renderConfigRow("Metrics", metricsAddr),
			m.renderConfigRow("Notifications", notifications),
			m.renderConfigRow("Env File", envFile),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderActivityCard renders the session counters.
func (m *Model) renderActivityCard() string {
	rows := []string{styles.CardTitleStyle.Render("Session Activity")}

	totals, err := m.metrics.Totals()
	if err != nil {
		rows = append(rows, styles.ErrorTextStyle.Render(err.Error()))
	} else {
		for _, r := range activityRows {
			rows = append(rows, m.renderConfigRow(r.label, format.Number(totals[r.name])))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About Production Report"))

	commit := version.GetCommit()
	if len(commit) > 12 {
		commit = commit[:12]
	}

	rows = append(rows,
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", commit),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
		"",
	)

	counts := []string{
		fmt.Sprintf("Plants: %s", styles.InfoTextStyle.Render(fmt.Sprint(m.state.GetLineCount()))),
		fmt.Sprintf("Models: %s", styles.InfoTextStyle.Render(fmt.Sprint(m.state.GetModelCount()))),
	}
	rows = append(rows, strings.Join(counts, "   "))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
