package plants

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/production-report-tui/internal/app"
	"github.com/j-veylop/production-report-tui/internal/models"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testLines() []models.ProductionLine {
	return []models.ProductionLine{
		{
			ID:        "2",
			PlantName: "Line B",
			Models:    []models.Model{{Name: "Z"}},
		},
		{
			ID:        "1",
			PlantName: "Line A",
			Models: []models.Model{
				{Name: "Y"},
				{
					Name:        "X",
					MaxCapacity: models.Float(100),
					MonthlyEntries: []models.MonthlyEntry{{
						Year:  2024,
						Month: 1,
						StatusData: models.StatusData{
							models.StatusProduction: {{Day: 1, Value: 2000}},
						},
					}},
				},
			},
		},
	}
}

func newTestModel(t *testing.T) (*Model, *app.State) {
	t.Helper()
	state := app.NewState()
	state.SetLoading(app.ResourceInitial, false)
	state.SetLines(testLines())

	m := New(state)
	m.now = func() time.Time { return time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC) }
	m.window = models.MonthWindow(2024, 1)
	return m, state
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init should start the spinner")
	}
}

func TestModel_Rows(t *testing.T) {
	m, _ := newTestModel(t)

	var got []string
	for _, r := range m.rows() {
		got = append(got, r.plant+"/"+r.name)
	}
	want := "Line A/X,Line A/Y,Line B/Z"
	if strings.Join(got, ",") != want {
		t.Errorf("rows = %v, want %s", got, want)
	}
}

func TestModel_Navigation(t *testing.T) {
	m, state := newTestModel(t)

	tests := []struct {
		key        string
		wantCursor int
		wantModel  string
	}{
		{"j", 1, "Y"},
		{"j", 2, "Z"},
		{"j", 0, "X"},
		{"k", 2, "Z"},
		{"g", 0, "X"},
		{"G", 2, "Z"},
	}

	for _, tt := range tests {
		m.Update(runes(tt.key))
		if m.cursor != tt.wantCursor {
			t.Fatalf("after %q cursor = %d, want %d", tt.key, m.cursor, tt.wantCursor)
		}
		_, model, ok := state.Selected()
		if !ok || model.Name != tt.wantModel {
			t.Errorf("after %q selected = %q, want %q", tt.key, model.Name, tt.wantModel)
		}
	}
}

func TestModel_ToggleWindow(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runes("m"))
	if m.window != models.YearWindow(2024) {
		t.Errorf("window = %v, want Year 2024", m.window)
	}

	m.Update(runes("m"))
	if m.window != models.MonthWindow(2024, 1) {
		t.Errorf("window = %v, want Feb 2024", m.window)
	}

	m.window = models.YearWindow(2022)
	m.Update(runes("m"))
	if m.window != models.MonthWindow(2022, 0) {
		t.Errorf("window = %v, want Jan 2022", m.window)
	}
}

func TestShift(t *testing.T) {
	tests := []struct {
		name  string
		in    models.Window
		delta int
		want  models.Window
	}{
		{"next month", models.MonthWindow(2024, 1), 1, models.MonthWindow(2024, 2)},
		{"back over January", models.MonthWindow(2024, 0), -1, models.MonthWindow(2023, 11)},
		{"forward over December", models.MonthWindow(2023, 11), 1, models.MonthWindow(2024, 0)},
		{"next year", models.YearWindow(2024), 1, models.YearWindow(2025)},
		{"prev year", models.YearWindow(2024), -1, models.YearWindow(2023)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shift(tt.in, tt.delta); got != tt.want {
				t.Errorf("shift(%v, %d) = %v, want %v", tt.in, tt.delta, got, tt.want)
			}
		})
	}
}

func TestModel_Edit(t *testing.T) {
	tests := []struct {
		name      string
		window    models.Window
		wantYear  int
		wantMonth int
	}{
		{"month window", models.MonthWindow(2024, 1), 2024, 1},
		{"current year", models.YearWindow(2024), 2024, 1},
		{"past year", models.YearWindow(2023), 2023, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m.window = tt.window

			_, cmd := m.Update(runes("e"))
			if cmd == nil {
				t.Fatal("edit should return a command")
			}
			msg, ok := cmd().(app.EditModelMsg)
			if !ok {
				t.Fatalf("Expected EditModelMsg, got %T", cmd())
			}
			if msg.LineID != "1" || msg.PlantName != "Line A" || msg.Model.Name != "X" {
				t.Errorf("msg = %+v", msg)
			}
			if msg.Year != tt.wantYear || msg.Month != tt.wantMonth {
				t.Errorf("period = %d/%d, want %d/%d", msg.Year, msg.Month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestModel_EditWithoutLines(t *testing.T) {
	state := app.NewState()
	state.SetLoading(app.ResourceInitial, false)
	m := New(state)

	if _, cmd := m.Update(runes("e")); cmd != nil {
		t.Error("edit without lines should not return a command")
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	m.SetSize(120, 60)

	view := m.View()
	for _, want := range []string{"Line A", "Line B", "Plant: Line A", "Model: X (Feb 2024)", "Production", "2,000"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	state := app.NewState()
	state.SetLoading(app.ResourceInitial, false)
	m := New(state)
	m.SetSize(100, 30)

	if view := m.View(); !strings.Contains(view, "No production lines yet") {
		t.Error("empty view should explain that there are no lines")
	}
}

func TestModel_ViewLoading(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 24)

	if view := m.View(); !strings.Contains(view, "Loading production lines") {
		t.Error("loading view should show the spinner label")
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestModel(t)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp should not be empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp should not be empty")
	}
}
