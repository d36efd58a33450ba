// Package export drives a report from production lines to a named binary
// artifact: it filters the input to the report window, groups and sorts
// it, then hands it to the workbook, document or HTML backend.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/j-veylop/production-report-tui/internal/document"
	"github.com/j-veylop/production-report-tui/internal/grouping"
	"github.com/j-veylop/production-report-tui/internal/htmlreport"
	"github.com/j-veylop/production-report-tui/internal/logger"
	"github.com/j-veylop/production-report-tui/internal/metrics"
	"github.com/j-veylop/production-report-tui/internal/models"
	"github.com/j-veylop/production-report-tui/internal/workbook"
)

var (
	// ErrNoData is returned when nothing is left to report after filtering.
	ErrNoData = errors.New("no production data")

	// ErrForbidden is returned when the configured role may not export.
	ErrForbidden = errors.New("role is not allowed to export reports")
)

// DefaultProduct prefixes artifact filenames when no product is set.
const DefaultProduct = "NZT"

// Format selects the artifact type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatPDF, FormatXLSX, FormatHTML}
}

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatPDF, FormatXLSX, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// MIMEType returns the content type of the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return document.MIMEType
	case FormatXLSX:
		return workbook.MIMEType
	case FormatHTML:
		return htmlreport.MIMEType
	default:
		return "application/octet-stream"
	}
}

// Artifact is a finished export.
type Artifact struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Filename returns "{product}_Production_Report_{Mon|Year}_{year}.{ext}".
func Filename(product string, w models.Window, f Format) string {
	if product == "" {
		product = DefaultProduct
	}
	return fmt.Sprintf("%s_Production_Report_%s_%d.%s", product, w.PeriodLabel(), w.Year, f)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProduct sets the filename prefix.
func WithProduct(product string) Option {
	return func(o *Orchestrator) {
		if product != "" {
			o.product = product
		}
	}
}

// WithRole sets the role checked before every export.
func WithRole(role models.Role) Option {
	return func(o *Orchestrator) {
		o.role = role
	}
}

// WithRenderTimeout bounds the drawing of one document page.
func WithRenderTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.renderOpts = append(o.renderOpts, document.WithTimeout(d))
	}
}

// WithSurfaceFactory replaces the document drawing surface.
func WithSurfaceFactory(f document.SurfaceFactory) Option {
	return func(o *Orchestrator) {
		o.renderOpts = append(o.renderOpts, document.WithSurfaceFactory(f))
	}
}

// WithMetrics records export counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// Orchestrator runs exports. It holds no per-export state, so one value may
// serve any number of sequential exports.
type Orchestrator struct {
	product    string
	role       models.Role
	metrics    *metrics.Metrics
	renderOpts []document.Option
	renderer   *document.Renderer
}

// New creates an Orchestrator. The default role is admin.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		product: DefaultProduct,
		role:    models.RoleAdmin,
	}
	for _, opt := range opts {
		opt(o)
	}
	renderOpts := append([]document.Option{
		document.WithPageHook(func(document.Page) { o.metrics.PageRendered() }),
	}, o.renderOpts...)
	o.renderer = document.NewRenderer(renderOpts...)
	return o
}

// Export produces the artifact of format f for the window.
func (o *Orchestrator) Export(ctx context.Context, lines []models.ProductionLine, w models.Window, f Format) (Artifact, error) {
	start := time.Now()
	artifact, err := o.export(ctx, lines, w, f)
	if !errors.Is(err, ErrForbidden) {
		o.metrics.ExportFinished(string(f), time.Since(start), err)
	}
	if err != nil {
		logger.Error("Export failed", "format", f, "window", w.String(), "error", err)
		return Artifact{}, err
	}
	logger.Info("Export finished", "file", artifact.Filename, "bytes", len(artifact.Data))
	return artifact, nil
}

func (o *Orchestrator) export(ctx context.Context, lines []models.ProductionLine, w models.Window, f Format) (Artifact, error) {
	if !o.role.CanExport() {
		return Artifact{}, ErrForbidden
	}
	if err := w.Validate(); err != nil {
		return Artifact{}, err
	}
	if _, err := ParseFormat(string(f)); err != nil {
		return Artifact{}, err
	}

	filtered := Prefilter(lines, w)
	if len(filtered) == 0 {
		return Artifact{}, ErrNoData
	}
	groups := grouping.GroupAndSort(filtered)

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatPDF:
		data, err = o.renderer.Render(ctx, document.Layout(groups, w))
	case FormatXLSX:
		data, err = workbook.Write(groups, w)
	case FormatHTML:
		title := fmt.Sprintf("%s Production Report %s", o.product, w)
		data, err = htmlreport.Write(groups, w, title)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to export %s: %w", f, err)
	}

	return Artifact{
		Filename: Filename(o.product, w, f),
		MIMEType: f.MIMEType(),
		Data:     data,
	}, nil
}
