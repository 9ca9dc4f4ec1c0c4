package fog

import (
	"fmt"
	"image"

	"github.com/esimov/stackblur-go"
)

const (
	MinBlurRadius     = 5
	MaxBlurRadius     = 50
	DefaultBlurRadius = 35
)

// Blurrer blurs an image in place over its full bounds. Implementations
// must cost time linear in the pixel count whatever the radius, or the
// loop falls behind at large radii.
type Blurrer interface {
	Blur(img *image.NRGBA, radius int) error
}

// StackBlur is the fog blur: linear in the pixel count whatever the
// radius, with a Gaussian-like falloff.
type StackBlur struct{}

func (StackBlur) Blur(img *image.NRGBA, radius int) error {
	if radius < 1 || img.Rect.Empty() {
		return nil
	}
	res, err := stackblur.Process(img, uint32(radius))
	if err != nil {
		return fmt.Errorf("stack blur failed: %w", err)
	}
	// Images anchored at the origin are blurred in place.
	if res == img {
		return nil
	}
	w := img.Rect.Dx() * 4
	for y := 0; y < img.Rect.Dy(); y++ {
		di := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		si := res.PixOffset(0, y)
		copy(img.Pix[di:di+w], res.Pix[si:si+w])
	}
	return nil
}
