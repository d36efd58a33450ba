package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/production-report-tui/internal/ui/styles"
)

// UtilizationBar renders production against capacity as a progress bar.
type UtilizationBar struct {
	progress progress.Model
}

// NewUtilizationBar creates a bar with a low to high gradient.
func NewUtilizationBar() UtilizationBar {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#51cf66"),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return UtilizationBar{progress: p}
}

// Utilization returns produced as a percentage of capacity, or -1 when
// capacity is not positive.
func Utilization(produced, capacity float64) float64 {
	if capacity <= 0 {
		return -1
	}
	return produced / capacity * 100
}

// View renders the bar with a label and percentage. A negative percent
// means there is no capacity to compare against.
func (u UtilizationBar) View(percent float64, label string, width int) string {
	labelStr := styles.ProgressLabelStyle.Width(15).Render(label)

	// Reserve space for label and percentage
	u.progress.Width = max(width-30, 10)

	if percent < 0 {
		return lipgloss.JoinHorizontal(lipgloss.Center,
			labelStr,
			styles.HelpStyle.Render("no capacity set"),
		)
	}

	bar := u.progress.ViewAs(min(percent, 100) / 100)
	percentStr := styles.UtilizationStyle(percent).Width(6).Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}
