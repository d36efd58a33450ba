package document

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"sync/atomic"
	"testing"
	"time"

	"github.com/j-veylop/production-report-tui/internal/grouping"
	"github.com/j-veylop/production-report-tui/internal/models"
)

func modelsNamed(names ...string) []models.Model {
	out := make([]models.Model, len(names))
	for i, n := range names {
		out[i] = models.Model{Name: n}
	}
	return out
}

func TestLayout(t *testing.T) {
	groups := []grouping.PlantGroup{
		{Name: "Alpha", Models: modelsNamed("a", "b", "c", "d", "e", "f", "g")},
		{Name: "Beta", Models: modelsNamed("x")},
	}

	tests := []struct {
		name      string
		window    models.Window
		wantPages int
		wantCols  int
		firstSize int
	}{
		{name: "daily", window: models.MonthWindow(2024, 1), wantPages: 4, wantCols: 1, firstSize: 3},
		{name: "yearly", window: models.YearWindow(2024), wantPages: 3, wantCols: 2, firstSize: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := Layout(groups, tt.window)
			if len(pages) != tt.wantPages {
				t.Fatalf("Layout() pages = %d, want %d", len(pages), tt.wantPages)
			}
			if pages[0].Columns != tt.wantCols {
				t.Errorf("Columns = %d, want %d", pages[0].Columns, tt.wantCols)
			}
			if len(pages[0].Models) != tt.firstSize {
				t.Errorf("first page models = %d, want %d", len(pages[0].Models), tt.firstSize)
			}
			last := pages[len(pages)-1]
			if last.Plant != "Beta" || last.Index != 0 {
				t.Errorf("last page = %s/%d, want Beta/0", last.Plant, last.Index)
			}
			if pages[1].Plant != "Alpha" || pages[1].Index != 1 {
				t.Errorf("second page = %s/%d, want Alpha/1", pages[1].Plant, pages[1].Index)
			}
		})
	}
}

func TestPage_Rows(t *testing.T) {
	if got := (Page{Columns: 1, Window: models.MonthWindow(2024, 0)}).Rows(); got != 3 {
		t.Errorf("daily Rows() = %d, want 3", got)
	}
	if got := (Page{Columns: 2, Window: models.YearWindow(2024)}).Rows(); got != 3 {
		t.Errorf("yearly Rows() = %d, want 3", got)
	}
}

// fakeSurface lets tests control how a page completes.
type fakeSurface struct {
	result  func(page Page) (bool, error) // whether to signal, and the error to send
	closed  atomic.Int32
	compose atomic.Int32
}

func (f *fakeSurface) Compose(_ context.Context, page Page) <-chan error {
	f.compose.Add(1)
	done := make(chan error, 1)
	if send, err := f.result(page); send {
		done <- err
		close(done)
	}
	return done
}

func (f *fakeSurface) Snapshot() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 21, 29))
	img.Set(0, 0, color.Black)
	return img, nil
}

func (f *fakeSurface) Close() error {
	f.closed.Add(1)
	return nil
}

func factoryFor(s Surface) SurfaceFactory {
	return func() (Surface, error) { return s, nil }
}

func testPages(n int) []Page {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = Page{Plant: "Alpha", Index: i, Columns: 1, Window: models.MonthWindow(2024, 1)}
	}
	return pages
}

func TestRender_Success(t *testing.T) {
	surface := &fakeSurface{result: func(Page) (bool, error) { return true, nil }}
	var hooked int
	r := NewRenderer(WithSurfaceFactory(factoryFor(surface)), WithPageHook(func(Page) { hooked++ }))

	out, err := r.Render(context.Background(), testPages(3))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF")
	}
	if hooked != 3 {
		t.Errorf("page hook calls = %d, want 3", hooked)
	}
	if surface.compose.Load() != 3 {
		t.Errorf("Compose calls = %d, want 3", surface.compose.Load())
	}
	if surface.closed.Load() != 1 {
		t.Errorf("Close calls = %d, want 1", surface.closed.Load())
	}
}

func TestRender_NoPages(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(context.Background(), nil); !errors.Is(err, ErrNoPages) {
		t.Errorf("Render(nil) error = %v, want ErrNoPages", err)
	}
}

func TestRender_Timeout(t *testing.T) {
	surface := &fakeSurface{result: func(Page) (bool, error) { return false, nil }}
	r := NewRenderer(WithSurfaceFactory(factoryFor(surface)), WithTimeout(20*time.Millisecond))

	_, err := r.Render(context.Background(), testPages(2))
	if !errors.Is(err, ErrRenderTimeout) {
		t.Fatalf("Render() error = %v, want ErrRenderTimeout", err)
	}
	var pe *PageError
	if !errors.As(err, &pe) || pe.Index != 0 {
		t.Errorf("Render() error = %v, want PageError for page 0", err)
	}
	if surface.closed.Load() != 1 {
		t.Errorf("surface was not closed")
	}
}

func TestRender_PageFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	surface := &fakeSurface{result: func(p Page) (bool, error) {
		if p.Index == 1 {
			return true, boom
		}
		return true, nil
	}}
	var hooked int
	r := NewRenderer(WithSurfaceFactory(factoryFor(surface)), WithPageHook(func(Page) { hooked++ }))

	out, err := r.Render(context.Background(), testPages(3))
	if !errors.Is(err, boom) {
		t.Fatalf("Render() error = %v, want boom", err)
	}
	if out != nil {
		t.Errorf("Render() returned %d bytes on failure", len(out))
	}
	var pe *PageError
	if !errors.As(err, &pe) || pe.Index != 1 || pe.Plant != "Alpha" {
		t.Errorf("PageError = %+v, want Alpha page 1", pe)
	}
	if hooked != 1 {
		t.Errorf("page hook calls = %d, want 1", hooked)
	}
	if surface.compose.Load() != 2 {
		t.Errorf("Compose calls = %d, want 2", surface.compose.Load())
	}
	if surface.closed.Load() != 1 {
		t.Errorf("surface was not closed")
	}
}

func TestRender_ContextCancelled(t *testing.T) {
	surface := &fakeSurface{result: func(Page) (bool, error) { return false, nil }}
	r := NewRenderer(WithSurfaceFactory(factoryFor(surface)), WithTimeout(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, testPages(1)); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRender_SurfaceFactoryError(t *testing.T) {
	boom := errors.New("no canvas")
	r := NewRenderer(WithSurfaceFactory(func() (Surface, error) { return nil, boom }))
	if _, err := r.Render(context.Background(), testPages(1)); !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want factory error", err)
	}
}

func capacityModel() models.Model {
	return models.Model{
		Name:        "X",
		MaxCapacity: models.Float(100),
		MonthlyEntries: []models.MonthlyEntry{{
			Year:  2024,
			Month: 1,
			StatusData: models.StatusData{
				models.StatusProduction: {{Day: 1, Value: 50}, {Day: 2, Value: 70}},
				models.StatusCapacity:   {{Day: 1, Value: 90}},
			},
		}},
	}
}

func TestCanvasSurface_ComposeAndSnapshot(t *testing.T) {
	s, err := NewCanvasSurface()
	if err != nil {
		t.Fatalf("NewCanvasSurface() error = %v", err)
	}
	defer s.Close()

	if _, err := s.Snapshot(); !errors.Is(err, ErrNotComposed) {
		t.Errorf("Snapshot() before Compose error = %v, want ErrNotComposed", err)
	}

	page := Page{Plant: "Alpha", Models: []models.Model{capacityModel()}, Columns: 1, Window: models.MonthWindow(2024, 1)}
	if err := <-s.Compose(context.Background(), page); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	img, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	w, h := CanvasSize()
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Errorf("snapshot size = %v, want %dx%d", img.Bounds().Size(), w, h)
	}

	var inked int
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x += 7 {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || b != 0xffff {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Error("snapshot is blank")
	}
}

func TestCanvasSurface_CancelledCompose(t *testing.T) {
	s, err := NewCanvasSurface()
	if err != nil {
		t.Fatalf("NewCanvasSurface() error = %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	page := Page{Plant: "Alpha", Models: []models.Model{capacityModel()}, Columns: 1, Window: models.MonthWindow(2024, 1)}
	if err := <-s.Compose(ctx, page); !errors.Is(err, context.Canceled) {
		t.Errorf("Compose() error = %v, want context.Canceled", err)
	}
	if _, err := s.Snapshot(); !errors.Is(err, ErrNotComposed) {
		t.Errorf("Snapshot() error = %v, want ErrNotComposed", err)
	}
}

func TestCanvasSurface_Close(t *testing.T) {
	s, err := NewCanvasSurface()
	if err != nil {
		t.Fatalf("NewCanvasSurface() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := <-s.Compose(context.Background(), Page{}); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("Compose() after Close error = %v, want ErrSurfaceClosed", err)
	}
	if _, err := s.Snapshot(); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("Snapshot() after Close error = %v, want ErrSurfaceClosed", err)
	}
}

func TestRender_CanvasEndToEnd(t *testing.T) {
	groups := []grouping.PlantGroup{{Name: "Alpha", Models: []models.Model{capacityModel()}}}
	pages := Layout(groups, models.YearWindow(2024))

	out, err := NewRenderer().Render(context.Background(), pages)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestNiceMax(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{7, 8},
		{100, 100},
		{123, 125},
	}
	for _, tt := range tests {
		if got := niceMax(tt.in); got != tt.want {
			t.Errorf("niceMax(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
