// Package draw provides the shape masks used to clip brush ink.
package draw

import (
	"image"
	"image/color"
)

// Ellipse is an alpha mask covering the area inside an axis-aligned
// ellipse. It satisfies image.Image, so it can be passed as the mask
// argument of draw.DrawMask.
type Ellipse struct {
	Cx int // center x
	Cy int // center y
	Rx int // semi-axis x
	Ry int // semi-axis y
}

// Circle returns the largest circle inscribed in a size×size square
// anchored at the origin.
func Circle(size int) *Ellipse {
	r := size / 2
	return &Ellipse{Cx: r, Cy: r, Rx: r, Ry: r}
}

func (e *Ellipse) ColorModel() color.Model {
	return color.AlphaModel
}

func (e *Ellipse) Bounds() image.Rectangle {
	return image.Rect(e.Cx-e.Rx, e.Cy-e.Ry, e.Cx+e.Rx, e.Cy+e.Ry)
}

// At samples the ellipse at the center of pixel (x, y).
func (e *Ellipse) At(x, y int) color.Color {
	if e.Rx <= 0 || e.Ry <= 0 {
		return color.Alpha{0}
	}
	dx := float64(x) + 0.5 - float64(e.Cx)
	dy := float64(y) + 0.5 - float64(e.Cy)

	if dx*dx/float64(e.Rx*e.Rx)+dy*dy/float64(e.Ry*e.Ry) <= 1 {
		return color.Alpha{255}
	}
	return color.Alpha{0}
}
