// Package editing implements the month grid edit workflow of one model:
// begin, edit cells, then commit the grid back into sparse monthly entries
// or cancel it.
package editing

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/production-report-tui/internal/aggregate"
	"github.com/j-veylop/production-report-tui/internal/models"
)

var (
	// ErrFutureDate is returned when a cell after today is selected.
	ErrFutureDate = errors.New("cannot edit data for future dates")

	// ErrNotEditing is returned when an operation needs an edit in progress.
	ErrNotEditing = errors.New("not editing")

	// ErrInvalidValue is returned for cell input that is not a whole number.
	ErrInvalidValue = errors.New("invalid cell value")
)

// State is the session state.
type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "Editing"
	}
	return "Viewing"
}

// CellState is the state of the selected cell while editing.
type CellState int

const (
	Display CellState = iota
	CellEditing
)

// Cell addresses one day of one status.
type Cell struct {
	Status models.Status
	Day    int
}

// CommitResult is a prepared commit: the model entries with the edited
// month merged in. It does not share memory with the session.
type CommitResult struct {
	Model   string
	Window  models.Window
	Entries []models.MonthlyEntry
	Changed bool
	Deleted bool
}

// Session edits the (year, month) grid of one model. It is not safe for
// concurrent use.
type Session struct {
	model string
	year  int
	month int
	days  int

	entries  []models.MonthlyEntry
	original map[models.Status][]float64
	grid     map[models.Status][]float64

	state     State
	cellState CellState
	active    Cell
}

// NewSession opens a viewing session on the month of model.
func NewSession(model models.Model, year, month int) *Session {
	s := &Session{
		model:   model.Name,
		year:    year,
		month:   month,
		days:    models.DaysIn(year, month),
		entries: models.CloneEntries(model.MonthlyEntries),
	}
	s.original = s.load(&model)
	s.grid = cloneGrid(s.original)
	return s
}

func (s *Session) load(model *models.Model) map[models.Status][]float64 {
	grid := make(map[models.Status][]float64, 4)
	for _, status := range models.Statuses() {
		grid[status] = aggregate.DenseDailySeries(model, s.year, s.month, status)
	}
	return grid
}

func cloneGrid(g map[models.Status][]float64) map[models.Status][]float64 {
	out := make(map[models.Status][]float64, len(g))
	for k, v := range g {
		out[k] = append([]float64(nil), v...)
	}
	return out
}

// Model returns the name of the edited model.
func (s *Session) Model() string { return s.model }

// Window returns the edited month.
func (s *Session) Window() models.Window { return models.MonthWindow(s.year, s.month) }

// Days returns the number of days in the edited month.
func (s *Session) Days() int { return s.days }

// State returns the session state.
func (s *Session) State() State { return s.state }

// CellState returns the state of the selected cell.
func (s *Session) CellState() CellState { return s.cellState }

// Active returns the selected cell while one is being edited.
func (s *Session) Active() (Cell, bool) {
	return s.active, s.state == Editing && s.cellState == CellEditing
}

// Value returns the current grid value of a cell, 0 when out of range.
func (s *Session) Value(status models.Status, day int) float64 {
	row := s.grid[status]
	if day < 1 || day > len(row) {
		return 0
	}
	return row[day-1]
}

// Dirty reports whether the grid differs from the stored values.
func (s *Session) Dirty() bool {
	for _, status := range models.Statuses() {
		a, b := s.grid[status], s.original[status]
		for i := range a {
			if a[i] != b[i] {
				return true
			}
		}
	}
	return false
}

// Begin switches to editing. Calling it while editing is a no-op.
func (s *Session) Begin() {
	if s.state == Editing {
		return
	}
	s.state = Editing
	s.cellState = Display
}

// SelectCell starts editing one cell. Days after today are rejected and
// leave the session unchanged.
func (s *Session) SelectCell(status models.Status, day int, today time.Time) error {
	if s.state != Editing {
		return ErrNotEditing
	}
	if !status.Valid() || day < 1 || day > s.days {
		return fmt.Errorf("cell %s day %d is outside %s", status, day, s.Window())
	}

	y, m, d := today.Date()
	if models.Date(s.year, s.month, day).After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return ErrFutureDate
	}

	s.active = Cell{Status: status, Day: day}
	s.cellState = CellEditing
	return nil
}

// SetCell parses input and stores it in the selected cell.
func (s *Session) SetCell(input string) error {
	if s.state != Editing || s.cellState != CellEditing {
		return ErrNotEditing
	}
	v, err := ParseCellInput(input)
	if err != nil {
		return err
	}
	s.grid[s.active.Status][s.active.Day-1] = v
	return nil
}

// FinishCell leaves the selected cell.
func (s *Session) FinishCell() {
	s.cellState = Display
}

// Cancel discards every change and returns to viewing.
func (s *Session) Cancel() {
	s.grid = cloneGrid(s.original)
	s.state = Viewing
	s.cellState = Display
}

// Prepare converts the grid back into a sparse entry and merges it into a
// copy of the model entries. The session is not modified, so a commit that
// fails to persist can be retried. An unchanged grid reports Changed false;
// a grid that is zero everywhere removes the month entry.
func (s *Session) Prepare() (CommitResult, error) {
	if s.state != Editing {
		return CommitResult{}, ErrNotEditing
	}

	next := models.MonthlyEntry{Year: s.year, Month: s.month, StatusData: models.StatusData{}}
	for _, status := range models.Statuses() {
		if values := aggregate.Sparsify(s.grid[status]); len(values) > 0 {
			next.StatusData[status] = values
		}
	}

	entries := models.CloneEntries(s.entries)
	result := CommitResult{Model: s.model, Window: s.Window()}

	idx := s.entryIndex()
	prev := models.MonthlyEntry{Year: s.year, Month: s.month, StatusData: models.StatusData{}}
	if idx >= 0 {
		prev = entries[idx]
	}
	if models.EntryEqual(prev, next) {
		result.Entries = entries
		return result, nil
	}

	result.Changed = true
	switch {
	case next.IsEmpty():
		if idx >= 0 {
			entries = slices.Delete(entries, idx, idx+1)
		}
		result.Deleted = true
	case idx >= 0:
		entries[idx] = next
	default:
		entries = append(entries, next)
	}
	result.Entries = entries
	return result, nil
}

// Applied records a persisted commit: the committed entries become the
// stored values and the session returns to viewing.
func (s *Session) Applied(result CommitResult) {
	s.entries = models.CloneEntries(result.Entries)
	s.original = cloneGrid(s.grid)
	s.state = Viewing
	s.cellState = Display
}

// Commit prepares and applies a commit in one step, for callers that keep
// the entries in memory only.
func (s *Session) Commit() (CommitResult, error) {
	result, err := s.Prepare()
	if err != nil {
		return result, err
	}
	s.Applied(result)
	return result, nil
}

// entryIndex returns the index of the first entry for the edited month.
func (s *Session) entryIndex() int {
	for i, e := range s.entries {
		if e.Year == s.year && e.Month == s.month {
			return i
		}
	}
	return -1
}

// ParseCellInput accepts digits with optional thousands commas. Blank input
// clears the cell.
func ParseCellInput(input string) (float64, error) {
	v := strings.ReplaceAll(strings.TrimSpace(input), ",", "")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, input)
	}
	return float64(n), nil
}
