// Package fog implements the per-frame compositing pipeline of the mirror:
// a blurred fog layer, a clean layer revealed through the drawing mask and
// the stage they are composited onto.
package fog

import (
	"errors"
	"image"

	"github.com/esimov/foggy-mirror/logger"
	"github.com/esimov/foggy-mirror/pixels"
	"github.com/esimov/foggy-mirror/surface"
)

// ErrNotReady is returned by Process while the layers are unsized or
// disagree on their dimensions. The frame is skipped, nothing is drawn.
var ErrNotReady = errors.New("fog: surfaces not ready")

// Layers groups the surfaces a Processor works on. Fog, Drawing, Clean and
// Stage must share the video dimensions.
type Layers struct {
	Fog     *surface.Surface
	Drawing *surface.Surface
	Clean   *surface.Surface
	Stage   *surface.Surface
}

// NewLayers allocates four empty layers.
func NewLayers() Layers {
	return Layers{
		Fog:     surface.New(0, 0),
		Drawing: surface.New(0, 0),
		Clean:   surface.New(0, 0),
		Stage:   surface.New(0, 0),
	}
}

// Processor renders one frame of the effect per Process call.
type Processor struct {
	layers Layers
	blur   Blurrer
	radius int
}

// NewProcessor returns a processor blurring with b. A nil b selects StackBlur.
func NewProcessor(layers Layers, b Blurrer, radius int) *Processor {
	if b == nil {
		b = StackBlur{}
	}
	p := &Processor{layers: layers, blur: b}
	p.SetRadius(radius)
	return p
}

// Layers returns the surfaces the processor draws to.
func (p *Processor) Layers() Layers { return p.layers }

// Radius returns the current blur radius.
func (p *Processor) Radius() int { return p.radius }

// SetRadius changes the blur radius, clamped to [MinBlurRadius, MaxBlurRadius],
// and returns the value in effect.
func (p *Processor) SetRadius(r int) int {
	p.radius = pixels.Clamp(r, MinBlurRadius, MaxBlurRadius)
	return p.radius
}

// Ready reports whether every layer is sized and they all agree.
func (p *Processor) Ready() bool {
	l := p.layers
	b := l.Stage.Bounds()
	if b.Empty() {
		return false
	}
	return l.Fog.Bounds() == b && l.Drawing.Bounds() == b && l.Clean.Bounds() == b
}

// Process runs capture, blur, alpha merge and composite, in that order.
func (p *Processor) Process(frame image.Image) error {
	if !p.Ready() {
		logger.Logger().Debug("frame skipped, surfaces not ready")
		return ErrNotReady
	}
	p.Capture(frame)
	if err := p.Blur(frame); err != nil {
		return err
	}
	p.MergeAlpha()
	p.Composite()

	return nil
}

// Capture draws the frame into the clean layer at the layer's resolution.
func (p *Processor) Capture(frame image.Image) {
	c := p.layers.Clean
	c.DrawImageScaled(frame, 0, 0, c.Width(), c.Height())
}

// Blur draws the frame into the fog layer and blurs it in place.
func (p *Processor) Blur(frame image.Image) error {
	f := p.layers.Fog
	f.DrawImage(frame, 0, 0)
	return p.blur.Blur(f.Image(), p.radius)
}

// MergeAlpha copies the drawing mask's alpha channel into the clean layer.
// The clean layer's colors are left untouched, so it only shows where the
// user has painted.
func (p *Processor) MergeAlpha() {
	pixels.CopyAlpha(p.layers.Clean.Pixels(), p.layers.Drawing.Pixels())
}

// Composite paints the fog and then the clean layer onto the stage.
func (p *Processor) Composite() {
	s := p.layers.Stage
	s.DrawImage(p.layers.Fog.Image(), 0, 0)
	s.DrawImage(p.layers.Clean.Image(), 0, 0)
}
