package brush

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/fogleman/gg"

	"github.com/esimov/foggy-mirror/logger"
)

// Loader produces the ink image. Implementations may block; callers run
// them off the render goroutine.
type Loader interface {
	LoadBrush(ctx context.Context) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (image.Image, error)

func (f LoaderFunc) LoadBrush(ctx context.Context) (image.Image, error) { return f(ctx) }

// InkLoader renders a soft round ink blob: opaque in the middle, fading to
// transparent at the rim.
type InkLoader struct {
	Size int
}

func (l InkLoader) LoadBrush(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size := l.Size
	if size <= 0 {
		size = DefaultSize
	}
	r := float64(size) / 2

	dc := gg.NewContext(size, size)
	grad := gg.NewRadialGradient(r, r, 0, r, r, r)
	grad.AddColorStop(0, color.NRGBA{A: 255})
	grad.AddColorStop(0.6, color.NRGBA{A: 255})
	grad.AddColorStop(1, color.NRGBA{A: 0})

	dc.SetFillStyle(grad)
	dc.DrawCircle(r, r, r)
	dc.Fill()

	return dc.Image(), nil
}

// Decode reads a PNG brush image.
func Decode(r io.Reader) (image.Image, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed decoding the brush image: %w", err)
	}
	return img, nil
}

// Fallback tries each loader in turn and returns the first image loaded.
// If every loader fails the errors are joined.
type Fallback []Loader

func (f Fallback) LoadBrush(ctx context.Context) (image.Image, error) {
	var errs []error
	for _, l := range f {
		img, err := l.LoadBrush(ctx)
		if err == nil {
			if len(errs) > 0 {
				logger.Logger().Info("brush loaded from fallback", "error", errors.Join(errs...))
			}
			return img, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, errors.New("brush: no loader")
	}
	return nil, errors.Join(errs...)
}
