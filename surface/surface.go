// Package surface implements the raster layers the mirror is composited from.
//
// A Surface mimics the subset of a 2D canvas context the pipeline relies on:
// a non-premultiplied RGBA buffer, source-over image drawing and a
// horizontal flip transform. Surfaces are not safe for concurrent use.
package surface

import (
	"errors"
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ErrPixelLength is returned by WritePixels when the buffer does not match
// the surface dimensions.
var ErrPixelLength = errors.New("surface: pixel buffer length mismatch")

// Surface is a raster drawing target.
type Surface struct {
	img      *image.NRGBA
	mirrored bool
}

// New allocates a transparent surface of the given size.
func New(width, height int) *Surface {
	s := &Surface{}
	s.Resize(width, height)
	return s
}

// Resize reallocates the backing buffer. The contents are cleared and the
// transform is reset, just like assigning a canvas width.
func (s *Surface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.img = image.NewNRGBA(image.Rect(0, 0, width, height))
	s.mirrored = false
}

func (s *Surface) Width() int  { return s.img.Rect.Dx() }
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Bounds returns the surface rectangle, anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Empty reports whether the surface has no pixels.
func (s *Surface) Empty() bool { return s.img.Rect.Empty() }

// Image exposes the backing buffer, e.g. to draw this surface onto another.
func (s *Surface) Image() *image.NRGBA { return s.img }

// ApplyMirror flips every subsequent draw horizontally: translate by the
// surface width, then scale x by -1. It persists until the next Resize.
func (s *Surface) ApplyMirror() { s.mirrored = true }

// Mirrored reports whether ApplyMirror is in effect.
func (s *Surface) Mirrored() bool { return s.mirrored }

// DrawImage paints src at (x, y) at its natural size.
func (s *Surface) DrawImage(src image.Image, x, y int) {
	b := src.Bounds()
	s.DrawImageScaled(src, x, y, b.Dx(), b.Dy())
}

// DrawImageScaled paints src into the w×h box at (x, y) using source-over
// compositing. On a mirrored surface the box lands at (width-x-w, y) and
// the image is flipped.
func (s *Surface) DrawImageScaled(src image.Image, x, y, w, h int) {
	sb := src.Bounds()
	if w <= 0 || h <= 0 || sb.Empty() || s.Empty() {
		return
	}
	if img, ok := src.(*image.NRGBA); ok && w == sb.Dx() && h == sb.Dy() {
		s.over(img, x, y)
		return
	}
	if !s.mirrored && w == sb.Dx() && h == sb.Dy() {
		draw.Draw(s.img, image.Rect(x, y, x+w, y+h), src, sb.Min, draw.Over)
		return
	}

	kx := float64(w) / float64(sb.Dx())
	ky := float64(h) / float64(sb.Dy())
	m := f64.Aff3{
		kx, 0, float64(x) - kx*float64(sb.Min.X),
		0, ky, float64(y) - ky*float64(sb.Min.Y),
	}
	if s.mirrored {
		m[0] = -kx
		m[2] = float64(s.Width()-x) + kx*float64(sb.Min.X)
	}

	var interp draw.Transformer = draw.ApproxBiLinear
	if w == sb.Dx() && h == sb.Dy() {
		interp = draw.NearestNeighbor
	}
	interp.Transform(s.img, m, src, sb, draw.Over, nil)
}

// over composites src at its natural size with (x, y) as the top-left
// corner, reading each source row backwards on a mirrored surface.
func (s *Surface) over(src *image.NRGBA, x, y int) {
	sb := src.Rect
	w := sb.Dx()
	if s.mirrored {
		x = s.Width() - x - w
	}
	r := image.Rect(x, y, x+w, y+sb.Dy()).Intersect(s.img.Rect)
	if r.Empty() {
		return
	}
	dst := s.img
	parallel.Line(r.Dy(), func(start, end int) {
		for dy := r.Min.Y + start; dy < r.Min.Y+end; dy++ {
			sy := sb.Min.Y + dy - y
			di := dst.PixOffset(r.Min.X, dy)
			for dx := r.Min.X; dx < r.Max.X; dx++ {
				sx := sb.Min.X + dx - x
				if s.mirrored {
					sx = sb.Min.X + x + w - 1 - dx
				}
				si := src.PixOffset(sx, sy)
				blend(dst.Pix[di:di+4:di+4], src.Pix[si:si+4:si+4])
				di += 4
			}
		}
	})
}

// blend paints the non-premultiplied pixel s over d.
func blend(d, s []uint8) {
	sa := uint32(s[3])
	switch sa {
	case 0xff:
		copy(d, s)
		return
	case 0:
		return
	}
	da := uint32(d[3]) * (0xff - sa) / 0xff
	oa := sa + da
	for i := 0; i < 3; i++ {
		d[i] = uint8((uint32(s[i])*sa + uint32(d[i])*da + oa/2) / oa)
	}
	d[3] = uint8(oa)
}

// Clear makes every pixel transparent black.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Pixels returns the raw RGBA buffer, row-major with no padding.
// The slice aliases the surface; writes through it are visible immediately.
func (s *Surface) Pixels() []uint8 { return s.img.Pix }

// WritePixels replaces the surface contents with p.
func (s *Surface) WritePixels(p []uint8) error {
	if len(p) != len(s.img.Pix) {
		return ErrPixelLength
	}
	copy(s.img.Pix, p)
	return nil
}
