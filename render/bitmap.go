package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

// outOfRange is the sentinel color painted over pixels past the end of
// the source buffer in the final, partially-filled row.
var outOfRange = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// Bitmap maps data to a roughly-square grayscale image: one pixel per
// byte, width = floor(sqrt(len(data))), height = ceil(len(data)/width).
func Bitmap(data []byte) *image.RGBA {
	width, height := bitmapDims(len(data))
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for i := 0; i < width*height; i++ {
		x, y := i%width, i/width
		if i < len(data) {
			v := data[i]
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		} else {
			img.Set(x, y, outOfRange)
		}
	}

	return img
}

// bitmapDims computes the roughly-square width/height pair for a buffer
// of the given size. A zero-size buffer renders as a single
// out-of-range pixel rather than a degenerate zero-area image.
func bitmapDims(size int) (int, int) {
	if size <= 0 {
		return 1, 1
	}
	width := int(math.Sqrt(float64(size)))
	if width < 1 {
		width = 1
	}
	height := (size + width - 1) / width
	return width, height
}

// WritePNG renders data as a bitmap and encodes it as PNG to w.
func WritePNG(w io.Writer, data []byte) error {
	if err := png.Encode(w, Bitmap(data)); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}
