// Package brush implements the ink stamp used to wipe the fog.
package brush

import (
	"image"

	"golang.org/x/image/draw"

	ellipse "github.com/esimov/foggy-mirror/draw"
	"github.com/esimov/foggy-mirror/surface"
)

// DefaultSize is the brush edge length in pixels.
const DefaultSize = 50

// Stamp is a fixed-size circular ink surface. It is empty until Load is
// called; stamping an empty brush does nothing.
type Stamp struct {
	size int
	ink  *surface.Surface
}

// New returns an unloaded brush of the given size. A non-positive size
// falls back to DefaultSize.
func New(size int) *Stamp {
	if size <= 0 {
		size = DefaultSize
	}
	return &Stamp{size: size}
}

// Size returns the brush edge length.
func (s *Stamp) Size() int { return s.size }

// Loaded reports whether the ink image is available.
func (s *Stamp) Loaded() bool { return s.ink != nil }

// Surface returns the ink surface, or nil before Load.
func (s *Stamp) Surface() *surface.Surface { return s.ink }

// Load allocates the size×size ink surface and draws img into it at the
// origin, clipped to the inscribed circle.
func (s *Stamp) Load(img image.Image) {
	ink := surface.New(s.size, s.size)
	b := img.Bounds()
	draw.DrawMask(ink.Image(), ink.Bounds(), img, b.Min, ellipse.Circle(s.size), image.Point{}, draw.Over)
	s.ink = ink
}

// Stamp draws the ink onto dst with its top-left corner at (x, y).
// It reports false when the brush has not been loaded yet.
func (s *Stamp) Stamp(dst *surface.Surface, x, y int) bool {
	if s.ink == nil {
		return false
	}
	dst.DrawImage(s.ink.Image(), x, y)
	return true
}
