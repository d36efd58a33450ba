// Package plants provides the production line overview tab.
package plants

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/production-report-tui/internal/app"
	"github.com/j-veylop/production-report-tui/internal/grouping"
	"github.com/j-veylop/production-report-tui/internal/models"
	"github.com/j-veylop/production-report-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the plants tab.
type keyMap struct {
	Next         key.Binding
	Prev         key.Binding
	First        key.Binding
	Last         key.Binding
	ToggleWindow key.Binding
	PrevPeriod   key.Binding
	NextPeriod   key.Binding
	Edit         key.Binding
}

// defaultKeyMap returns the default key bindings for the plants tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next model"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev model"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first model"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last model"),
		),
		ToggleWindow: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "month/year view"),
		),
		PrevPeriod: key.NewBinding(
			key.WithKeys("[", "left", "h"),
			key.WithHelp("[", "prev period"),
		),
		NextPeriod: key.NewBinding(
			key.WithKeys("]", "right", "l"),
			key.WithHelp("]", "next period"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit month"),
		),
	}
}

// row is one model of the list, pointing back into the state lines.
type row struct {
	line  int
	model int
	plant string
	name  string
}

// Model represents the plants tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	bar      components.UtilizationBar
	now      func() time.Time
	window   models.Window
	cursor   int
	width    int
	height   int
}

// New creates a new plants model previewing the current month.
func New(state *app.State) *Model {
	now := time.Now()
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading production lines..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		bar:      components.NewUtilizationBar(),
		now:      time.Now,
		window:   models.MonthWindow(now.Year(), int(now.Month())-1),
	}
}

// Init initializes the plants tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	case app.LinesLoadedMsg, app.ServiceEventMsg:
		m.syncCursor()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	rows := m.rows()
	count := len(rows)

	switch {
	case key.Matches(msg, m.keys.Next):
		if count > 0 {
			m.cursor = (m.cursor + 1) % count
		}
	case key.Matches(msg, m.keys.Prev):
		if count > 0 {
			m.cursor = (m.cursor - 1 + count) % count
		}
	case key.Matches(msg, m.keys.First):
		m.cursor = 0
	case key.Matches(msg, m.keys.Last):
		m.cursor = max(count-1, 0)
	case key.Matches(msg, m.keys.ToggleWindow):
		m.toggleWindow()
		return nil
	case key.Matches(msg, m.keys.PrevPeriod):
		m.window = shift(m.window, -1)
		return nil
	case key.Matches(msg, m.keys.NextPeriod):
		m.window = shift(m.window, 1)
		return nil
	case key.Matches(msg, m.keys.Edit):
		return m.editSelected(rows)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	if m.cursor < count {
		m.state.Select(rows[m.cursor].line, rows[m.cursor].model)
	}
	return nil
}

// editSelected opens the selected model in the editor for the previewed
// month, or for the current month of the previewed year.
func (m *Model) editSelected(rows []row) tea.Cmd {
	if m.cursor >= len(rows) {
		return nil
	}
	r := rows[m.cursor]
	lines := m.state.GetLines()
	line := lines[r.line]

	month := m.window.Month
	if month == models.WholeYear {
		month = 0
		if now := m.now(); now.Year() == m.window.Year {
			month = int(now.Month()) - 1
		}
	}

	return app.Send(app.EditModelMsg{
		LineID:    line.ID,
		PlantName: line.PlantName,
		Model:     line.Models[r.model],
		Year:      m.window.Year,
		Month:     month,
	})
}

func (m *Model) toggleWindow() {
	if m.window.Month == models.WholeYear {
		month := 0
		if now := m.now(); now.Year() == m.window.Year {
			month = int(now.Month()) - 1
		}
		m.window = models.MonthWindow(m.window.Year, month)
		return
	}
	m.window = models.YearWindow(m.window.Year)
}

// shift moves a window by delta months, or delta years for a year window.
func shift(w models.Window, delta int) models.Window {
	if w.Month == models.WholeYear {
		return models.YearWindow(max(w.Year+delta, 1))
	}
	month := w.Month + delta
	year := w.Year
	for month < 0 {
		month += 12
		year--
	}
	for month > 11 {
		month -= 12
		year++
	}
	if year < 1 {
		return w
	}
	return models.MonthWindow(year, month)
}

// rows lists every model sorted by plant and model name.
func (m *Model) rows() []row {
	lines := m.state.GetLines()
	var out []row
	for i := range lines {
		for j := range lines[i].Models {
			out = append(out, row{
				line:  i,
				model: j,
				plant: lines[i].PlantName,
				name:  lines[i].Models[j].Name,
			})
		}
	}
	slices.SortStableFunc(out, func(a, b row) int {
		if c := grouping.Compare(a.plant, b.plant); c != 0 {
			return c
		}
		return grouping.Compare(a.name, b.name)
	})
	return out
}

func (m *Model) syncCursor() {
	rows := m.rows()
	if m.cursor >= len(rows) {
		m.cursor = max(len(rows)-1, 0)
	}
}

// SetSize sets the available size for the plants tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Next,
		m.keys.Prev,
		m.keys.ToggleWindow,
		m.keys.PrevPeriod,
		m.keys.NextPeriod,
		m.keys.Edit,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Next, m.keys.Prev},
		{m.keys.First, m.keys.Last},
		{m.keys.ToggleWindow, m.keys.PrevPeriod, m.keys.NextPeriod},
		{m.keys.Edit},
	}
}
