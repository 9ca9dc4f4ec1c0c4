package pixels

import (
	"fmt"
	"image"
)

// PixToImage converts a row-major RGBA byte array of the given dimensions
// to an image. The pixel data is copied.
func PixToImage(pixels []uint8, width, height int) (*image.NRGBA, error) {
	if want := width * height * 4; len(pixels) != want {
		return nil, fmt.Errorf("pixel data has %d bytes, want %d for %dx%d", len(pixels), want, width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)

	return img, nil
}

// CopyAlpha copies the alpha channel of src into dst, leaving the color
// channels of dst untouched. Both buffers hold RGBA quadruplets; the
// shorter of the two bounds the copy.
func CopyAlpha(dst, src []uint8) {
	n := Min(len(dst), len(src))
	for i := 3; i < n; i += 4 {
		dst[i] = src[i]
	}
}
