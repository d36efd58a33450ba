package document

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrRenderTimeout is returned when a surface does not finish drawing a
	// page within the configured timeout.
	ErrRenderTimeout = errors.New("page rendering timed out")

	// ErrNotComposed is returned by Snapshot before a page finished drawing.
	ErrNotComposed = errors.New("surface has no completed page")

	// ErrSurfaceClosed is returned when a closed surface is used.
	ErrSurfaceClosed = errors.New("surface is closed")
)

// Surface is an off-screen drawing target reused for every page of one
// export. Compose replaces the surface content with the page and reports
// completion on the returned channel, which yields exactly one value (nil on
// success) and is then closed.
type Surface interface {
	Compose(ctx context.Context, page Page) <-chan error
	Snapshot() (image.Image, error)
	Close() error
}

// SurfaceFactory creates the surface for one export.
type SurfaceFactory func() (Surface, error)
