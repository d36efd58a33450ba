package models

import "testing"

func TestStatuses_Order(t *testing.T) {
	want := []string{"Production", "Forecast", "Capacity", "Capacity + OT"}
	got := Statuses()
	if len(got) != len(want) {
		t.Fatalf("Statuses() returned %d entries, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.String() != want[i] {
			t.Errorf("Statuses()[%d] = %q, want %q", i, s.String(), want[i])
		}
		if s.Definition().DrawOrder != i+1 {
			t.Errorf("%s draw order = %d, want %d", s, s.Definition().DrawOrder, i+1)
		}
	}
}

func TestStatus_Definition(t *testing.T) {
	tests := []struct {
		status Status
		kind   ChartKind
		color  string
	}{
		{StatusProduction, ChartBar, "#C6E0B3"},
		{StatusForecast, ChartBar, "#4574C4"},
		{StatusCapacity, ChartLine, "#F07730"},
		{StatusCapacityOT, ChartLine, "#FABC02"},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			def := tt.status.Definition()
			if def.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", def.Kind, tt.kind)
			}
			if def.Color != tt.color {
				t.Errorf("Color = %s, want %s", def.Color, tt.color)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
		ok    bool
	}{
		{"Production", StatusProduction, true},
		{" capacity + ot ", StatusCapacityOT, true},
		{"FORECAST", StatusForecast, true},
		{"Scrap", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseStatus(tt.input)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("ParseStatus(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestModel_Entry_FirstMatchWins(t *testing.T) {
	m := Model{
		Name: "X",
		MonthlyEntries: []MonthlyEntry{
			{Year: 2024, Month: 1, StatusData: StatusData{StatusProduction: {{Day: 1, Value: 1}}}},
			{Year: 2024, Month: 1, StatusData: StatusData{StatusProduction: {{Day: 1, Value: 2}}}},
		},
	}

	e, ok := m.Entry(2024, 1)
	if !ok {
		t.Fatal("expected entry for Feb 2024")
	}
	if e.StatusData[StatusProduction][0].Value != 1 {
		t.Errorf("expected first entry to win, got value %v", e.StatusData[StatusProduction][0].Value)
	}

	if _, ok := m.Entry(2023, 1); ok {
		t.Error("expected no entry for Feb 2023")
	}
}

func TestModel_Capacity(t *testing.T) {
	if got := (Model{}).Capacity(); got != 0 {
		t.Errorf("unset capacity = %v, want 0", got)
	}
	if got := (Model{MaxCapacity: Float(120)}).Capacity(); got != 120 {
		t.Errorf("capacity = %v, want 120", got)
	}
}

func TestEntryEqual(t *testing.T) {
	base := MonthlyEntry{
		Year:  2024,
		Month: 3,
		StatusData: StatusData{
			StatusProduction: {{Day: 2, Value: 5}, {Day: 1, Value: 3}},
		},
	}

	tests := []struct {
		name  string
		other MonthlyEntry
		want  bool
	}{
		{
			name: "same values different order",
			other: MonthlyEntry{Year: 2024, Month: 3, StatusData: StatusData{
				StatusProduction: {{Day: 1, Value: 3}, {Day: 2, Value: 5}},
			}},
			want: true,
		},
		{
			name: "empty status equals absent status",
			other: MonthlyEntry{Year: 2024, Month: 3, StatusData: StatusData{
				StatusProduction: {{Day: 1, Value: 3}, {Day: 2, Value: 5}},
				StatusForecast:   {},
			}},
			want: true,
		},
		{
			name: "different value",
			other: MonthlyEntry{Year: 2024, Month: 3, StatusData: StatusData{
				StatusProduction: {{Day: 1, Value: 3}, {Day: 2, Value: 6}},
			}},
			want: false,
		},
		{
			name:  "different month",
			other: MonthlyEntry{Year: 2024, Month: 4, StatusData: base.StatusData},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntryEqual(base, tt.other); got != tt.want {
				t.Errorf("EntryEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCloneEntries_IsDeep(t *testing.T) {
	orig := []MonthlyEntry{{
		Year:       2024,
		Month:      0,
		StatusData: StatusData{StatusForecast: {{Day: 3, Value: 10}}},
	}}

	clone := CloneEntries(orig)
	clone[0].StatusData[StatusForecast][0].Value = 99
	clone[0].StatusData[StatusCapacity] = []DayValue{{Day: 1, Value: 1}}

	if orig[0].StatusData[StatusForecast][0].Value != 10 {
		t.Error("mutating clone changed original values")
	}
	if _, ok := orig[0].StatusData[StatusCapacity]; ok {
		t.Error("mutating clone changed original map")
	}
	if !EntriesEqual(orig, CloneEntries(orig)) {
		t.Error("clone should equal original")
	}
}

func TestMonthlyEntry_IsEmpty(t *testing.T) {
	if !(MonthlyEntry{}).IsEmpty() {
		t.Error("zero entry should be empty")
	}
	e := MonthlyEntry{StatusData: StatusData{StatusProduction: {}}}
	if !e.IsEmpty() {
		t.Error("entry with only empty lists should be empty")
	}
	e.StatusData[StatusCapacity] = []DayValue{{Day: 1, Value: 4}}
	if e.IsEmpty() {
		t.Error("entry with values should not be empty")
	}
}
