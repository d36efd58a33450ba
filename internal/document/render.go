package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/j-veylop/production-report-tui/internal/logger"
)

// DefaultTimeout bounds the drawing of a single page.
const DefaultTimeout = 10 * time.Second

// ErrNoPages is returned when Render is called without pages.
var ErrNoPages = errors.New("no pages to render")

// PageError reports the page whose rendering aborted the export.
type PageError struct {
	Plant string
	Index int
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("render page %d of plant %q: %v", e.Index+1, e.Plant, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout sets the per-page drawing timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithSurfaceFactory replaces the canvas surface.
func WithSurfaceFactory(f SurfaceFactory) Option {
	return func(r *Renderer) {
		if f != nil {
			r.newSurface = f
		}
	}
}

// WithPageHook registers a callback run after every page placed in the
// document.
func WithPageHook(fn func(Page)) Option {
	return func(r *Renderer) {
		r.onPage = fn
	}
}

// Renderer turns laid out pages into a PDF.
type Renderer struct {
	timeout    time.Duration
	newSurface SurfaceFactory
	onPage     func(Page)
}

// NewRenderer creates a Renderer drawing on a CanvasSurface by default.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		timeout:    DefaultTimeout,
		newSurface: NewCanvasSurfaceFactory(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws pages one after another on a single surface and returns the
// PDF bytes. Any page failure aborts the whole document.
func (r *Renderer) Render(ctx context.Context, pages []Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	surface, err := r.newSurface()
	if err != nil {
		return nil, fmt.Errorf("failed to create surface: %w", err)
	}
	defer func() {
		if cerr := surface.Close(); cerr != nil {
			logger.Error("Failed to close surface", "error", cerr)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreator("production-report-tui", true)

	for i, page := range pages {
		if err := r.renderPage(ctx, surface, pdf, i, page); err != nil {
			return nil, &PageError{Plant: page.Plant, Index: page.Index, Err: err}
		}
		if r.onPage != nil {
			r.onPage(page)
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return out.Bytes(), nil
}

func (r *Renderer) renderPage(ctx context.Context, surface Surface, pdf *fpdf.Fpdf, seq int, page Page) error {
	pageCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-surface.Compose(pageCtx, page):
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrRenderTimeout
	}

	img, err := surface.Snapshot()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode page image: %w", err)
	}

	name := fmt.Sprintf("page-%d", seq)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.AddPage()
	pdf.RegisterImageOptionsReader(name, opts, &buf)

	// Full width; height follows the aspect ratio of the snapshot.
	pdf.ImageOptions(name, 0, 0, pageWidthMM, 0, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to place page image: %w", err)
	}
	return nil
}
