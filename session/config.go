package session

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/esimov/foggy-mirror/brush"
	"github.com/esimov/foggy-mirror/fog"
)

// Config holds the tunables of a mirror session.
type Config struct {
	BlurRadius int    // fog blur radius in pixels
	BrushSize  int    // brush edge length in pixels
	FrameRate  int    // frames per second
	FacingMode string // camera facing mode requested from the host
	BrushAsset string // brush image path on the page's server, empty for the built-in ink
	Debug      bool   // present the drawing and clean layers as well
}

// DefaultBrushAsset is the brush image served next to the page.
const DefaultBrushAsset = "circle.png"

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		BlurRadius: fog.DefaultBlurRadius,
		BrushSize:  brush.DefaultSize,
		FrameRate:  30,
		FacingMode: "user",
		BrushAsset: DefaultBrushAsset,
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.BlurRadius < fog.MinBlurRadius || c.BlurRadius > fog.MaxBlurRadius {
		return fmt.Errorf("blur radius %d out of range [%d, %d]", c.BlurRadius, fog.MinBlurRadius, fog.MaxBlurRadius)
	}
	if c.BrushSize <= 0 {
		return fmt.Errorf("brush size must be positive, got %d", c.BrushSize)
	}
	if c.FrameRate <= 0 || c.FrameRate > 120 {
		return fmt.Errorf("frame rate %d out of range (0, 120]", c.FrameRate)
	}
	return nil
}

// FromQuery overrides the defaults with page query parameters:
// debug (presence only), blur, brush, brushsrc, fps and facing. An empty
// brushsrc selects the built-in ink.
func FromQuery(q url.Values) (Config, error) {
	c := DefaultConfig()
	_, c.Debug = q["debug"]

	ints := []struct {
		key string
		dst *int
	}{
		{"blur", &c.BlurRadius},
		{"brush", &c.BrushSize},
		{"fps", &c.FrameRate},
	}
	for _, p := range ints {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("invalid %s parameter %q: %w", p.key, v, err)
		}
		*p.dst = n
	}
	if _, ok := q["brushsrc"]; ok {
		c.BrushAsset = q.Get("brushsrc")
	}
	if v := q.Get("facing"); v != "" {
		c.FacingMode = v
	}
	return c, c.Validate()
}
