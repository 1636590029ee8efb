package render

import (
	"bytes"
	"image/png"
	"testing"
)

func TestBitmapDimsMatchSpecFormula(t *testing.T) {
	tests := []struct {
		size         int
		wantW, wantH int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{16, 4, 4},
		{17, 4, 5},
		{100, 10, 10},
		{101, 10, 11},
	}
	for _, tt := range tests {
		w, h := bitmapDims(tt.size)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("bitmapDims(%d) = (%d,%d), want (%d,%d)", tt.size, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestBitmapFillsOutOfRangeTail(t *testing.T) {
	data := []byte{1, 2, 3}
	img := Bitmap(data) // width=1, height=3; no tail padding needed at this size
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 3 {
		t.Fatalf("unexpected bitmap dims %v", img.Bounds())
	}

	// A size whose width*height exceeds len(data) exercises the
	// out-of-range fill path.
	data2 := []byte{1, 2, 3, 4, 5}
	img2 := Bitmap(data2) // width=2, height=3 -> 6 pixels for 5 bytes
	last := img2.RGBAAt(img2.Bounds().Dx()-1, img2.Bounds().Dy()-1)
	if last != outOfRange {
		t.Errorf("expected the padding pixel to be the out-of-range color, got %v", last)
	}
}

func TestWritePNGProducesDecodableImage(t *testing.T) {
	data := []byte("memprobe-bitmap-sample-data")
	var buf bytes.Buffer
	if err := WritePNG(&buf, data); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	w, h := bitmapDims(len(data))
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Errorf("decoded image dims %v, want (%d,%d)", img.Bounds(), w, h)
	}
}
