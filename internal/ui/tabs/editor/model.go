// Package editor provides the month grid editor tab.
package editor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/production-report-tui/internal/app"
	"github.com/j-veylop/production-report-tui/internal/editing"
	"github.com/j-veylop/production-report-tui/internal/format"
	"github.com/j-veylop/production-report-tui/internal/models"
)

const (
	labelWidth = 18
	cellWidth  = 8
)

// keyMap defines the key bindings specific to the editor tab.
type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Begin     key.Binding
	Select    key.Binding
	Save      key.Binding
	Cancel    key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Confirm   key.Binding
	LeaveCell key.Binding
}

// defaultKeyMap returns the default key bindings for the editor tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "prev status"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "next status"),
		),
		Begin: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "start editing"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit cell"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x", "esc"),
			key.WithHelp("x/esc", "discard"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next month"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "tab"),
			key.WithHelp("enter", "confirm value"),
		),
		LeaveCell: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave cell"),
		),
	}
}

// Model represents the editor tab state.
type Model struct {
	state   *app.State
	role    models.Role
	keys    keyMap
	input   textinput.Model
	now     func() time.Time
	session *editing.Session

	lineID string
	plant  string

	status int
	day    int
	offset int

	saving  bool
	message string
	err     error

	width  int
	height int
}

// New creates a new editor model for the given role.
func New(state *app.State, role models.Role) *Model {
	input := textinput.New()
	input.Placeholder = "0"
	input.CharLimit = 16
	input.Width = cellWidth

	return &Model{
		state: state,
		role:  role,
		keys:  defaultKeyMap(),
		input: input,
		now:   time.Now,
		day:   1,
	}
}

// Init initializes the editor tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Capturing reports whether a cell input or a pending save has the keyboard.
func (m *Model) Capturing() bool {
	return m.saving || m.session != nil && m.session.CellState() == editing.CellEditing
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.EditModelMsg:
		m.open(msg.LineID, msg.PlantName, msg.Model, msg.Year, msg.Month)
	case app.EditCommittedMsg:
		m.committed(msg)
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}
	return m, nil
}

// open starts a viewing session on a model month and points the cursor at
// today when the month is the current one.
func (m *Model) open(lineID, plant string, model models.Model, year, month int) {
	m.lineID = lineID
	m.plant = plant
	m.session = editing.NewSession(model, year, month)
	m.err = nil
	m.message = ""
	m.saving = false
	m.input.Blur()

	m.day = 1
	if now := m.now(); now.Year() == year && int(now.Month())-1 == month {
		m.day = now.Day()
	}
	m.offset = 0
	m.scrollToCursor()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.session == nil || m.saving {
		return nil
	}

	if m.Capturing() {
		return m.handleCellKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveDay(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveDay(1)
	case key.Matches(msg, m.keys.Up):
		m.status = (m.status - 1 + len(models.Statuses())) % len(models.Statuses())
	case key.Matches(msg, m.keys.Down):
		m.status = (m.status + 1) % len(models.Statuses())
	case m.session.State() == editing.Viewing:
		return m.handleViewingKey(msg)
	default:
		return m.handleEditingKey(msg)
	}
	return nil
}

func (m *Model) handleViewingKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Begin):
		if !m.role.CanEdit() {
			m.err = fmt.Errorf("role %s cannot edit daily values", m.role)
			return nil
		}
		m.session.Begin()
		m.err = nil
		m.message = ""
	case key.Matches(msg, m.keys.PrevMonth):
		m.changeMonth(-1)
	case key.Matches(msg, m.keys.NextMonth):
		m.changeMonth(1)
	}
	return nil
}

func (m *Model) handleEditingKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Select):
		status := models.Statuses()[m.status]
		if err := m.session.SelectCell(status, m.day, m.now()); err != nil {
			m.err = err
			return nil
		}
		m.err = nil
		m.input.SetValue(inputValue(m.session.Value(status, m.day)))
		m.input.CursorEnd()
		return m.input.Focus()
	case key.Matches(msg, m.keys.Save):
		result, err := m.session.Prepare()
		if err != nil {
			m.err = err
			return nil
		}
		m.saving = true
		m.err = nil
		m.message = "Saving..."
		return app.Send(app.CommitEditMsg{LineID: m.lineID, Result: result})
	case key.Matches(msg, m.keys.Cancel):
		m.session.Cancel()
		m.err = nil
		m.message = "Changes discarded"
	}
	return nil
}

func (m *Model) handleCellKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if err := m.session.SetCell(m.input.Value()); err != nil {
			m.err = err
			return nil
		}
		m.err = nil
		m.session.FinishCell()
		m.input.Blur()
		return nil
	case key.Matches(msg, m.keys.LeaveCell):
		m.err = nil
		m.session.FinishCell()
		m.input.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) moveDay(delta int) {
	days := m.session.Days()
	m.day = (m.day-1+delta+days)%days + 1
	m.scrollToCursor()
}

// changeMonth reloads the session model from the state for another month.
func (m *Model) changeMonth(delta int) {
	w := m.session.Window()
	month := w.Month + delta
	year := w.Year
	switch {
	case month < 0:
		month, year = 11, year-1
	case month > 11:
		month, year = 0, year+1
	}

	model, ok := m.findModel(m.session.Model())
	if !ok {
		m.err = fmt.Errorf("model %q is no longer available", m.session.Model())
		return
	}
	m.open(m.lineID, m.plant, model, year, month)
}

func (m *Model) findModel(name string) (models.Model, bool) {
	for _, line := range m.state.GetLines() {
		if line.ID != m.lineID {
			continue
		}
		for _, model := range line.Models {
			if model.Name == name {
				return model, true
			}
		}
	}
	return models.Model{}, false
}

// visibleDays returns how many day columns fit the width.
func (m *Model) visibleDays() int {
	if m.session == nil {
		return 0
	}
	n := (m.width - labelWidth - 8) / cellWidth
	return min(max(n, 1), m.session.Days())
}

func (m *Model) scrollToCursor() {
	visible := m.visibleDays()
	if visible == 0 {
		return
	}
	if m.day-1 < m.offset {
		m.offset = m.day - 1
	}
	if m.day-1 >= m.offset+visible {
		m.offset = m.day - visible
	}
}

// SetSize sets the available size for the editor tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scrollToCursor()
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	switch {
	case m.Capturing():
		return []key.Binding{m.keys.Confirm, m.keys.LeaveCell}
	case m.session != nil && m.session.State() == editing.Editing:
		return []key.Binding{m.keys.Left, m.keys.Right, m.keys.Select, m.keys.Save, m.keys.Cancel}
	default:
		return []key.Binding{m.keys.Left, m.keys.Right, m.keys.Begin, m.keys.PrevMonth, m.keys.NextMonth}
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Left, m.keys.Right, m.keys.Up, m.keys.Down},
		{m.keys.Begin, m.keys.Select, m.keys.Save, m.keys.Cancel},
		{m.keys.PrevMonth, m.keys.NextMonth},
		{m.keys.Confirm, m.keys.LeaveCell},
	}
}

func inputValue(v float64) string {
	if v == 0 {
		return ""
	}
	return format.Number(v)
}

// committed finishes a save. A failed save leaves the session editing with
// its changes so it can be saved again.
func (m *Model) committed(msg app.EditCommittedMsg) {
	if m.session == nil || msg.LineID != m.lineID ||
		msg.Result.Model != m.session.Model() || msg.Result.Window != m.session.Window() {
		return
	}
	m.saving = false
	if msg.Err != nil {
		m.err = msg.Err
		m.message = ""
		return
	}
	m.session.Applied(msg.Result)
	m.err = nil
	m.message = commitMessage(msg.Result)
}

func commitMessage(r editing.CommitResult) string {
	switch {
	case !r.Changed:
		return "No changes to save"
	case r.Deleted:
		return "Month cleared"
	default:
		return "Saved"
	}
}

// isFuture reports whether a day of the session month lies after today.
func (m *Model) isFuture(day int) bool {
	w := m.session.Window()
	y, mo, d := m.now().Date()
	return models.Date(w.Year, w.Month, day).After(time.Date(y, mo, d, 0, 0, 0, 0, time.UTC))
}
