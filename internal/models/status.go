package models

import "strings"

// ChartKind selects how a status series is drawn.
type ChartKind int

const (
	// ChartBar draws the series as grouped bars.
	ChartBar ChartKind = iota
	// ChartLine draws the series as a line over the bars.
	ChartLine
)

// String returns the chart kind name.
func (k ChartKind) String() string {
	switch k {
	case ChartBar:
		return "bar"
	case ChartLine:
		return "line"
	default:
		return "unknown"
	}
}

// Status is one of the tracked metric kinds.
type Status int

const (
	// StatusProduction is the actual produced quantity.
	StatusProduction Status = iota
	// StatusForecast is the planned quantity.
	StatusForecast
	// StatusCapacity is the regular-shift capacity.
	StatusCapacity
	// StatusCapacityOT is the capacity including overtime.
	StatusCapacityOT
)

// Definition carries the rendering attributes of a status.
type Definition struct {
	Name               string
	Kind               ChartKind
	Color              string
	DrawOrder          int
	BarPercentage      float64
	CategoryPercentage float64
	LineTension        float64
	PointRadius        float64
}

var statusOrder = [...]Status{
	StatusProduction,
	StatusForecast,
	StatusCapacity,
	StatusCapacityOT,
}

// Statuses returns every status in its declared order.
func Statuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder[:])
	return out
}

// Definition returns the rendering attributes of s.
func (s Status) Definition() Definition {
	switch s {
	case StatusProduction:
		return Definition{
			Name:               "Production",
			Kind:               ChartBar,
			Color:              "#C6E0B3",
			DrawOrder:          1,
			BarPercentage:      0.8,
			CategoryPercentage: 0.8,
		}
	case StatusForecast:
		return Definition{
			Name:               "Forecast",
			Kind:               ChartBar,
			Color:              "#4574C4",
			DrawOrder:          2,
			BarPercentage:      0.8,
			CategoryPercentage: 0.8,
		}
	case StatusCapacity:
		return Definition{
			Name:        "Capacity",
			Kind:        ChartLine,
			Color:       "#F07730",
			DrawOrder:   3,
			LineTension: 0.1,
			PointRadius: 1.6,
		}
	case StatusCapacityOT:
		return Definition{
			Name:        "Capacity + OT",
			Kind:        ChartLine,
			Color:       "#FABC02",
			DrawOrder:   4,
			LineTension: 0.1,
			PointRadius: 1.6,
		}
	default:
		return Definition{Name: "Unknown"}
	}
}

// String returns the display name of the status.
func (s Status) String() string {
	return s.Definition().Name
}

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool {
	return s >= StatusProduction && s <= StatusCapacityOT
}

// ParseStatus maps a display name back to its status. Matching ignores
// case and surrounding whitespace.
func ParseStatus(name string) (Status, bool) {
	name = strings.TrimSpace(name)
	for _, s := range statusOrder {
		if strings.EqualFold(s.Definition().Name, name) {
			return s, true
		}
	}
	return 0, false
}
