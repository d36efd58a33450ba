package document

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/fogleman/gg"
)

// Canvas geometry. The surface is an A4 sheet at two device pixels per CSS
// pixel, so sizes below are given in CSS pixels or millimetres and scaled.
const (
	pxPerCSS = 2.0
	pxPerMM  = pxPerCSS * 96 / 25.4

	pageWidthMM  = 210.0
	pageHeightMM = 297.0
)

// CanvasSize returns the pixel size of a CanvasSurface.
func CanvasSize() (width, height int) {
	return int(math.Round(pageWidthMM * pxPerMM)), int(math.Round(pageHeightMM * pxPerMM))
}

// CanvasSurface draws pages with fogleman/gg into an in-memory RGBA image.
// Drawing runs on its own goroutine and completion is reported on the
// channel returned by Compose.
type CanvasSurface struct {
	mu     sync.Mutex
	dc     *gg.Context
	faces  *faceCache
	busy   bool
	ready  bool
	closed bool
	wg     sync.WaitGroup
}

// NewCanvasSurface allocates an A4 canvas.
func NewCanvasSurface() (*CanvasSurface, error) {
	faces, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	w, h := CanvasSize()
	return &CanvasSurface{dc: gg.NewContext(w, h), faces: faces}, nil
}

// NewCanvasSurfaceFactory adapts NewCanvasSurface to a SurfaceFactory.
func NewCanvasSurfaceFactory() SurfaceFactory {
	return func() (Surface, error) {
		return NewCanvasSurface()
	}
}

// Compose clears the canvas and draws page in the background.
func (s *CanvasSurface) Compose(ctx context.Context, page Page) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		done <- ErrSurfaceClosed
		close(done)
		return done
	case s.busy:
		s.mu.Unlock()
		done <- errors.New("surface is still drawing the previous page")
		close(done)
		return done
	}
	s.busy = true
	s.ready = false
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		err := drawPage(ctx, s.dc, s.faces, page)

		s.mu.Lock()
		s.busy = false
		s.ready = err == nil
		s.mu.Unlock()

		done <- err
		close(done)
	}()
	return done
}

// Snapshot returns a copy of the last completed page.
func (s *CanvasSurface) Snapshot() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSurfaceClosed
	}
	if s.busy || !s.ready {
		return nil, ErrNotComposed
	}

	src := s.dc.Image()
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}

// Close waits for any in-flight drawing and releases the canvas. It is safe
// to call more than once.
func (s *CanvasSurface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.faces.close()
	s.dc = nil
	s.ready = false
	return nil
}
