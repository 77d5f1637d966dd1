// Package imaging decodes and normalizes uploaded product photographs before
// feature extraction. It guarantees the rest of the system a bounded-size
// image; it makes no promises about aspect ratio.
package imaging

import (
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// MaxDimension bounds the longer image side after preprocessing.
const MaxDimension = 800

// Decode reads an uploaded image and returns it scaled down to at most
// MaxDimension on its longer side, preserving aspect ratio.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return Thumbnail(img, MaxDimension), nil
}

// Thumbnail scales img so its longer side is at most max pixels. Images
// already within bounds are returned unchanged.
func Thumbnail(img image.Image, max int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= max && h <= max {
		return img
	}

	scale := float64(max) / float64(w)
	if h > w {
		scale = float64(max) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
