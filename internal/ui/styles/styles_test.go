package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/production-report-tui/internal/models"
)

func TestUtilizationStyle(t *testing.T) {
	tests := []struct {
		percent float64
		want    lipgloss.TerminalColor
	}{
		{120, Error},
		{100, Success},
		{80, Success},
		{79.9, Warning},
		{50, Warning},
		{10, TextMuted},
	}
	for _, tt := range tests {
		if got := UtilizationStyle(tt.percent).GetForeground(); got != tt.want {
			t.Errorf("UtilizationStyle(%v) foreground = %v, want %v", tt.percent, got, tt.want)
		}
	}
}

func TestStatusColor(t *testing.T) {
	for _, s := range models.Statuses() {
		if got := string(StatusColor(s)); got != s.Definition().Color {
			t.Errorf("StatusColor(%v) = %q, want %q", s, got, s.Definition().Color)
		}
	}
}
