package surface

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

// strip returns a w×1 opaque image cycling through red, green and blue.
func strip(w int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, 1))
	cols := []color.NRGBA{red, green, blue}
	for x := 0; x < w; x++ {
		img.SetNRGBA(x, 0, cols[x%3])
	}
	return img
}

func TestNewAndResize(t *testing.T) {
	s := New(0, 0)
	assert.True(t, s.Empty())

	s.Resize(640, 480)
	assert.Equal(t, 640, s.Width())
	assert.Equal(t, 480, s.Height())
	assert.Len(t, s.Pixels(), 640*480*4)

	s.Resize(-1, 3)
	assert.True(t, s.Empty())
}

func TestResizeClearsAndResetsMirror(t *testing.T) {
	s := New(4, 1)
	s.DrawImage(strip(4), 0, 0)
	s.ApplyMirror()

	s.Resize(4, 1)
	assert.False(t, s.Mirrored())
	for _, v := range s.Pixels() {
		require.Zero(t, v)
	}
}

func TestDrawImageOffset(t *testing.T) {
	s := New(10, 2)
	s.DrawImage(strip(3), 2, 1)

	assert.Equal(t, red, s.Image().NRGBAAt(2, 1))
	assert.Equal(t, green, s.Image().NRGBAAt(3, 1))
	assert.Equal(t, blue, s.Image().NRGBAAt(4, 1))
	assert.Equal(t, color.NRGBA{}, s.Image().NRGBAAt(5, 1))
	assert.Equal(t, color.NRGBA{}, s.Image().NRGBAAt(2, 0))
}

func TestMirrorInvariant(t *testing.T) {
	const width = 10
	s := New(width, 1)
	s.ApplyMirror()

	x, iw := 2, 3
	s.DrawImage(strip(iw), x, 0)

	left := width - x - iw
	img := s.Image()
	assert.Equal(t, blue, img.NRGBAAt(left, 0))
	assert.Equal(t, green, img.NRGBAAt(left+1, 0))
	assert.Equal(t, red, img.NRGBAAt(left+2, 0))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(left-1, 0))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(left+iw, 0))
}

func TestMirrorFullFrame(t *testing.T) {
	s := New(6, 1)
	s.ApplyMirror()
	s.ApplyMirror()

	src := strip(6)
	s.DrawImage(src, 0, 0)
	for x := 0; x < 6; x++ {
		assert.Equal(t, src.NRGBAAt(5-x, 0), s.Image().NRGBAAt(x, 0), "x=%d", x)
	}
}

func TestDrawImageScaled(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 200
	}

	s := New(8, 8)
	s.DrawImageScaled(src, 0, 0, 4, 4)
	assert.Equal(t, uint8(200), s.Image().NRGBAAt(1, 1).A)
	assert.Equal(t, uint8(200), s.Image().NRGBAAt(3, 3).A)
	assert.Zero(t, s.Image().NRGBAAt(5, 5).A)
}

func TestDrawOverTransparentKeepsDestination(t *testing.T) {
	s := New(2, 1)
	s.DrawImage(strip(2), 0, 0)

	s.DrawImage(image.NewNRGBA(image.Rect(0, 0, 2, 1)), 0, 0)
	assert.Equal(t, red, s.Image().NRGBAAt(0, 0))
	assert.Equal(t, green, s.Image().NRGBAAt(1, 0))
}

func TestWritePixels(t *testing.T) {
	s := New(1, 1)
	require.NoError(t, s.WritePixels([]uint8{1, 2, 3, 4}))
	assert.Equal(t, []uint8{1, 2, 3, 4}, s.Pixels())

	assert.ErrorIs(t, s.WritePixels([]uint8{1}), ErrPixelLength)
}

func TestClear(t *testing.T) {
	s := New(3, 1)
	s.DrawImage(strip(3), 0, 0)
	s.Clear()
	assert.Equal(t, make([]uint8, 12), s.Pixels())
}

// hidden hides the concrete image type, forcing the generic draw path.
type hidden struct{ image.Image }

// translucent returns an image cycling through opaque, half transparent
// and fully transparent pixels of varying colors.
func translucent(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	alphas := []uint8{255, 200, 128, 0}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 17), G: uint8(y * 29), B: uint8((x + y) * 7),
				A: alphas[(x+2*y)%len(alphas)],
			})
		}
	}
	return img
}

func TestNRGBADrawMatchesGenericPath(t *testing.T) {
	for _, mirrored := range []bool{false, true} {
		for _, off := range []image.Point{{0, 0}, {3, 2}, {-4, -1}} {
			fast, slow := New(24, 16), New(24, 16)
			for _, s := range []*Surface{fast, slow} {
				s.DrawImage(translucent(24, 16), 0, 0)
				if mirrored {
					s.ApplyMirror()
				}
			}
			src := translucent(20, 12)
			for i := 3; i < len(src.Pix); i += 4 {
				if src.Pix[i] == 255 {
					src.Pix[i] = 160
				}
			}
			fast.DrawImage(src, off.X, off.Y)
			slow.DrawImage(hidden{src}, off.X, off.Y)

			for i := range fast.Pixels() {
				require.InDelta(t, slow.Pixels()[i], fast.Pixels()[i], 3,
					"mirrored=%v offset=%v byte %d", mirrored, off, i)
			}
		}
	}
}

func TestNRGBADrawSubImageSource(t *testing.T) {
	parent := strip(6)
	src := parent.SubImage(image.Rect(3, 0, 6, 1))

	s := New(3, 1)
	s.DrawImage(src, 0, 0)
	assert.Equal(t, red, s.Image().NRGBAAt(0, 0))
	assert.Equal(t, green, s.Image().NRGBAAt(1, 0))
	assert.Equal(t, blue, s.Image().NRGBAAt(2, 0))

	s.Clear()
	s.ApplyMirror()
	s.DrawImage(src, 0, 0)
	assert.Equal(t, blue, s.Image().NRGBAAt(0, 0))
	assert.Equal(t, red, s.Image().NRGBAAt(2, 0))
}

func TestMirroredFrameDrawIsFast(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	frame := translucent(640, 480)
	fastest := func(src image.Image) time.Duration {
		s := New(640, 480)
		s.ApplyMirror()
		best := time.Duration(1<<63 - 1)
		for i := 0; i < 3; i++ {
			start := time.Now()
			s.DrawImage(src, 0, 0)
			if d := time.Since(start); d < best {
				best = d
			}
		}
		return best
	}
	fast, generic := fastest(frame), fastest(hidden{frame})
	assert.Less(t, 3*fast, generic, "frame draw took %v, generic path %v", fast, generic)
}
