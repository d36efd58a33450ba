// Package reports provides the report export tab.
package reports

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/production-report-tui/internal/app"
	"github.com/j-veylop/production-report-tui/internal/config"
	"github.com/j-veylop/production-report-tui/internal/export"
	"github.com/j-veylop/production-report-tui/internal/models"
	"github.com/j-veylop/production-report-tui/internal/ui/components"
)

// field is one selector of the export form.
type field int

const (
	fieldYear field = iota
	fieldMonth
	fieldFormat
	fieldCount
)

// keyMap defines the key bindings specific to the export tab.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Export key.Binding
}

// defaultKeyMap returns the default key bindings for the export tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "prev field"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "next field"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "prev value"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "next value"),
		),
		Export: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter", "export"),
		),
	}
}

// result is the outcome of the last export.
type result struct {
	format export.Format
	path   string
	err    error
	at     time.Time
}

// Model represents the export tab state.
type Model struct {
	state   *app.State
	cfg     *config.Config
	keys    keyMap
	spinner components.LoadingSpinner
	now     func() time.Time

	focus  field
	year   int
	month  int
	format export.Format

	last   *result
	width  int
	height int
}

// New creates a new export model.
func New(state *app.State, cfg *config.Config) *Model {
	now := time.Now()
	return &Model{
		state:   state,
		cfg:     cfg,
		keys:    defaultKeyMap(),
		spinner: components.NewSpinner("Rendering report..."),
		now:     time.Now,
		year:    now.Year(),
		month:   models.WholeYear,
		format:  export.FormatPDF,
	}
}

// Init initializes the export tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	case app.ExportRequestMsg:
		// The app marks the export as running before forwarding the request.
		if m.state.IsExporting() {
			m.spinner.Start()
			return m, m.spinner.Tick()
		}
	case app.ExportResultMsg:
		m.spinner.Stop()
		m.last = &result{format: msg.Format, path: msg.Path, err: msg.Err, at: m.now()}
	case app.LinesLoadedMsg, app.ServiceEventMsg:
		m.clampSelection()
	case spinner.TickMsg:
		if !m.state.IsExporting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.focus = (m.focus - 1 + fieldCount) % fieldCount
	case key.Matches(msg, m.keys.Down):
		m.focus = (m.focus + 1) % fieldCount
	case key.Matches(msg, m.keys.Left):
		m.step(-1)
	case key.Matches(msg, m.keys.Right):
		m.step(1)
	case key.Matches(msg, m.keys.Export):
		return m.requestExport()
	}
	return nil
}

// requestExport asks the app to run the export for the selected window.
func (m *Model) requestExport() tea.Cmd {
	if !m.canExport() || m.state.IsExporting() {
		return nil
	}
	m.clampSelection()
	return app.Send(app.ExportRequestMsg{Window: m.window(), Format: m.format})
}

func (m *Model) canExport() bool {
	return m.cfg == nil || m.cfg.Role.CanExport()
}

// step moves the focused selector through its options.
func (m *Model) step(delta int) {
	m.clampSelection()
	switch m.focus {
	case fieldYear:
		m.year = cycle(m.years(), m.year, delta)
		m.clampSelection()
	case fieldMonth:
		m.month = cycle(m.months(), m.month, delta)
	case fieldFormat:
		m.format = cycle(export.Formats(), m.format, delta)
	}
}

func (m *Model) years() []int {
	return export.AvailableYears(m.state.GetLines(), m.now())
}

func (m *Model) months() []int {
	return export.AvailableMonths(m.state.GetLines(), m.year)
}

// clampSelection keeps year and month on available options.
func (m *Model) clampSelection() {
	years := m.years()
	if !slices.Contains(years, m.year) {
		m.year = years[len(years)-1]
	}
	if !slices.Contains(m.months(), m.month) {
		m.month = models.WholeYear
	}
}

func (m *Model) window() models.Window {
	return models.Window{Year: m.year, Month: m.month}
}

func (m *Model) filename() string {
	product := ""
	if m.cfg != nil {
		product = m.cfg.Product
	}
	return export.Filename(product, m.window(), m.format)
}

// cycle returns the option delta steps away from current, wrapping around.
// An unknown current value selects the first option.
func cycle[T comparable](options []T, current T, delta int) T {
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	n := len(options)
	return options[((i+delta)%n+n)%n]
}

// SetSize sets the available size for the export tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Export}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Left, m.keys.Right},
		{m.keys.Export},
	}
}
