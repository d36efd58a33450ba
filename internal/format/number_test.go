package format

import "testing"

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{1234.5, "1,234.5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Number(tt.in); got != tt.want {
				t.Errorf("Number(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCell(t *testing.T) {
	if got := Cell(0); got != "0" {
		t.Errorf("Cell(0) = %q, want 0", got)
	}
	if got := Cell(25000); got != "25,000" {
		t.Errorf("Cell(25000) = %q, want 25,000", got)
	}
}
