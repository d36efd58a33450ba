// Package snapshot loads production lines from JSON or YAML documents.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/j-veylop/production-report-tui/internal/models"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// Document is the on-disk layout of a snapshot.
type Document struct {
	ProductionLines []Line `json:"production_lines" yaml:"production_lines"`
}

// Line is one production line of a snapshot.
type Line struct {
	ID          string  `json:"id,omitempty" yaml:"id,omitempty"`
	PlantName   string  `json:"plant_name" yaml:"plant_name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Models      []Model `json:"models" yaml:"models"`
}

// Model is one model of a snapshot line.
type Model struct {
	Name           string   `json:"name" yaml:"name"`
	MaxCapacity    *float64 `json:"max_capacity,omitempty" yaml:"max_capacity,omitempty"`
	MonthlyEntries []Entry  `json:"monthly_entries,omitempty" yaml:"monthly_entries,omitempty"`
}

// Entry is one month of a snapshot model. Status data is keyed by the
// status display name.
type Entry struct {
	Year       int                          `json:"year" yaml:"year"`
	Month      int                          `json:"month" yaml:"month"`
	StatusData map[string][]models.DayValue `json:"status_data" yaml:"status_data"`
}

// Format is a snapshot encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads and converts a snapshot file.
func LoadFile(path string) ([]models.ProductionLine, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(bytes.NewReader(data), format)
}

// Decode parses a snapshot and converts it to production lines.
func Decode(r io.Reader, format Format) ([]models.ProductionLine, error) {
	var doc Document
	switch format {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse json snapshot: %w", err)
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse yaml snapshot: %w", err)
		}
	default:
		return nil, ErrUnsupportedFormat
	}
	return doc.Lines()
}

// Lines validates the document and converts it. Lines without an id get a
// new UUID.
func (d Document) Lines() ([]models.ProductionLine, error) {
	out := make([]models.ProductionLine, 0, len(d.ProductionLines))
	for i, l := range d.ProductionLines {
		line, err := l.convert()
		if err != nil {
			return nil, fmt.Errorf("production line %d: %w", i+1, err)
		}
		out = append(out, line)
	}
	return out, nil
}

func (l Line) convert() (models.ProductionLine, error) {
	plant := strings.TrimSpace(l.PlantName)
	if plant == "" {
		return models.ProductionLine{}, errors.New("plant name is required")
	}

	id := l.ID
	if id == "" {
		id = uuid.NewString()
	}

	line := models.ProductionLine{
		ID:          id,
		PlantName:   plant,
		Description: l.Description,
		Models:      make([]models.Model, 0, len(l.Models)),
	}

	seen := make(map[string]bool, len(l.Models))
	for _, m := range l.Models {
		model, err := m.convert()
		if err != nil {
			return models.ProductionLine{}, fmt.Errorf("plant %q: %w", plant, err)
		}
		if seen[model.Name] {
			return models.ProductionLine{}, fmt.Errorf("plant %q: duplicate model %q", plant, model.Name)
		}
		seen[model.Name] = true
		line.Models = append(line.Models, model)
	}
	return line, nil
}

func (m Model) convert() (models.Model, error) {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return models.Model{}, errors.New("model name is required")
	}
	if m.MaxCapacity != nil && *m.MaxCapacity < 0 {
		return models.Model{}, fmt.Errorf("model %q: max capacity must be non-negative", name)
	}

	model := models.Model{Name: name}
	if m.MaxCapacity != nil {
		model.MaxCapacity = models.Float(*m.MaxCapacity)
	}
	for _, e := range m.MonthlyEntries {
		entry, err := e.convert()
		if err != nil {
			return models.Model{}, fmt.Errorf("model %q: %w", name, err)
		}
		model.MonthlyEntries = append(model.MonthlyEntries, entry)
	}
	return model, nil
}

func (e Entry) convert() (models.MonthlyEntry, error) {
	w := models.MonthWindow(e.Year, e.Month)
	if err := w.Validate(); err != nil || e.Month == models.WholeYear {
		return models.MonthlyEntry{}, fmt.Errorf("invalid month %d/%d", e.Year, e.Month)
	}

	days := models.DaysIn(e.Year, e.Month)
	entry := models.MonthlyEntry{Year: e.Year, Month: e.Month, StatusData: models.StatusData{}}
	for name, values := range e.StatusData {
		status, ok := models.ParseStatus(name)
		if !ok {
			return models.MonthlyEntry{}, fmt.Errorf("%s: unknown status %q", w, name)
		}
		for _, v := range values {
			if v.Day < 1 || v.Day > days {
				return models.MonthlyEntry{}, fmt.Errorf("%s: day %d out of range", w, v.Day)
			}
			if v.Value == 0 {
				continue
			}
			entry.StatusData[status] = append(entry.StatusData[status], v)
		}
	}
	return entry, nil
}
