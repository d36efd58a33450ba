package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/production-report-tui/internal/ui/styles"
)

var spinnerLabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary)

// LoadingSpinner is a labelled spinner. Once started it also shows how long
// the tracked work has been running.
type LoadingSpinner struct {
	model   spinner.Model
	label   string
	started time.Time
	now     func() time.Time
}

// NewSpinner creates a new loading spinner with the given label.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingSpinner{model: s, label: label, now: time.Now}
}

// Init returns the first tick.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.model.Tick
}

// Tick returns the tick command for the spinner.
func (l LoadingSpinner) Tick() tea.Cmd {
	return l.model.Tick
}

// Update advances the animation on ticks addressed to this spinner.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.model, cmd = l.model.Update(msg)
	return l, cmd
}

// Start records the start of the tracked work.
func (l *LoadingSpinner) Start() {
	l.started = l.now()
}

// Stop clears the start time.
func (l *LoadingSpinner) Stop() {
	l.started = time.Time{}
}

// Elapsed returns the time since Start, truncated to seconds, or zero when
// the spinner is not started.
func (l LoadingSpinner) Elapsed() time.Duration {
	if l.started.IsZero() {
		return 0
	}
	return l.now().Sub(l.started).Truncate(time.Second)
}

// View renders the spinner frame alone.
func (l LoadingSpinner) View() string {
	return l.model.View()
}

// ViewWithLabel renders the frame, the label and the elapsed time.
func (l LoadingSpinner) ViewWithLabel() string {
	text := l.label
	if !l.started.IsZero() {
		text = fmt.Sprintf("%s (%s)", text, l.Elapsed())
	}
	return l.model.View() + " " + spinnerLabelStyle.Render(text)
}

// SetLabel updates the spinner's label.
func (l *LoadingSpinner) SetLabel(label string) {
	l.label = label
}

// Label returns the current label.
func (l LoadingSpinner) Label() string {
	return l.label
}

// RenderSpinnerCentered renders a spinner centered in a given width and height.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.ViewWithLabel(), width, height)
}
