package main

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/j-veylop/production-report-tui/internal/models"
)

func TestWindowFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		want    models.Window
		wantErr bool
	}{
		{"whole year", 2024, 0, models.YearWindow(2024), false},
		{"february", 2024, 2, models.MonthWindow(2024, 1), false},
		{"december", 2024, 12, models.MonthWindow(2024, 11), false},
		{"default year", 0, 1, models.MonthWindow(2030, 0), false},
		{"month too large", 2024, 13, models.Window{}, true},
		{"negative month", 2024, -1, models.Window{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := windowFromFlags(tt.year, tt.month, 2030)
			if (err != nil) != tt.wantErr {
				t.Fatalf("windowFromFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("windowFromFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeDates struct {
	years  []int
	months map[int][]int
	err    error
}

func (f fakeDates) AvailableYears(context.Context) ([]int, error) {
	return f.years, f.err
}

func (f fakeDates) AvailableMonths(_ context.Context, year int) ([]int, error) {
	return f.months[year], nil
}

func TestCollectDates(t *testing.T) {
	src := fakeDates{
		years: []int{2023, 2024},
		months: map[int][]int{
			2023: {models.WholeYear, 11},
			2024: {models.WholeYear, 0, 1},
		},
	}

	out, err := collectDates(context.Background(), src)
	if err != nil {
		t.Fatalf("collectDates() error = %v", err)
	}
	if !slices.Equal(out.Years, []int{2023, 2024}) {
		t.Errorf("Years = %v", out.Years)
	}
	if got := out.Months[2024]; !slices.Equal(got, []string{"Jan", "Feb"}) {
		t.Errorf("Months[2024] = %v, want [Jan Feb]", got)
	}
	if got := out.Months[2023]; !slices.Equal(got, []string{"Dec"}) {
		t.Errorf("Months[2023] = %v, want [Dec]", got)
	}

	boom := errors.New("boom")
	if _, err := collectDates(context.Background(), fakeDates{err: boom}); !errors.Is(err, boom) {
		t.Errorf("collectDates() error = %v, want boom", err)
	}
}

func TestRootCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"tui", "export", "import", "dates", "version"} {
		if !slices.Contains(names, want) {
			t.Errorf("root command is missing %q", want)
		}
	}
}
