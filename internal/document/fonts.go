package document

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontsOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	fontsErr  error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regular, fontsErr = truetype.Parse(goregular.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("failed to parse regular font: %w", fontsErr)
			return
		}
		bold, fontsErr = truetype.Parse(gobold.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("failed to parse bold font: %w", fontsErr)
		}
	})
	return fontsErr
}

// faceCache hands out font faces by weight and size. Faces are not safe for
// concurrent use, so each surface owns its cache.
type faceCache struct {
	faces map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size float64
}

func newFaceCache() (*faceCache, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	return &faceCache{faces: make(map[faceKey]font.Face)}, nil
}

func (c *faceCache) face(isBold bool, size float64) font.Face {
	k := faceKey{bold: isBold, size: size}
	if f, ok := c.faces[k]; ok {
		return f
	}
	src := regular
	if isBold {
		src = bold
	}
	f := truetype.NewFace(src, &truetype.Options{Size: size, Hinting: font.HintingFull})
	c.faces[k] = f
	return f
}

func (c *faceCache) close() {
	for k, f := range c.faces {
		_ = f.Close()
		delete(c.faces, k)
	}
}
