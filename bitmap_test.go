package monoimg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestBitmapAccessors(t *testing.T) {
	// 10x2: row 0 bright, row 1 dark.
	bm, err := Encode(grayGrid(10, 2, 200, 200, 200, 200, 200, 200, 200, 200, 200, 200, 0), DefaultPolicy())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if bm.Width() != 10 || bm.Height() != 2 || bm.Stride() != 2 || bm.Len() != 4 {
		t.Errorf("Bitmap = %dx%d stride %d len %d, want 10x2 stride 2 len 4",
			bm.Width(), bm.Height(), bm.Stride(), bm.Len())
	}

	if got := bm.Row(0); !bytes.Equal(got, []byte{0x00, 0x00}) {
		t.Errorf("Row(0) = % X, want 00 00", got)
	}
	if got := bm.Row(1); !bytes.Equal(got, []byte{0xFF, 0xC0}) {
		t.Errorf("Row(1) = % X, want FF C0", got)
	}

	if bm.InkAt(0, 0) || !bm.InkAt(0, 1) || !bm.InkAt(9, 1) {
		t.Error("InkAt does not match the encoded rows")
	}
	if bm.InkAt(10, 1) || bm.InkAt(-1, 1) || bm.InkAt(0, 2) {
		t.Error("InkAt reported ink outside the bitmap")
	}
}

func TestBitmapIsImmutable(t *testing.T) {
	bm, err := Encode(grayGrid(8, 1, 0), DefaultPolicy())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	b := bm.Bytes()
	b[0] = 0
	r := bm.Row(0)
	r[0] = 0

	if got := bm.Bytes(); got[0] != 0xFF {
		t.Errorf("modifying returned slices changed the bitmap: % X", got)
	}
}

func TestBitmapWriteTo(t *testing.T) {
	bm, err := Encode(grayGrid(9, 1, 0), DefaultPolicy())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var buf bytes.Buffer
	n, err := bm.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != 2 || !bytes.Equal(buf.Bytes(), []byte{0xFF, 0x80}) {
		t.Errorf("WriteTo wrote %d bytes % X, want 2 bytes FF 80", n, buf.Bytes())
	}

	if _, err := bm.WriteTo(failingWriter{}); err == nil {
		t.Error("WriteTo into a failing writer returned no error")
	}
}

func TestBitmapImage(t *testing.T) {
	bm, err := Encode(grayGrid(3, 1, 10, 200, 50), DefaultPolicy())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if bm.Bounds() != image.Rect(0, 0, 3, 1) {
		t.Errorf("Bounds() = %v", bm.Bounds())
	}

	want := []color.Color{color.Black, color.White, color.Black}
	for x, c := range want {
		if got := bm.At(x, 0); got != c {
			t.Errorf("At(%d, 0) = %v, want %v", x, got, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, bm); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}

	again, err := Encode(NewImageGrid(decoded, Luma), DefaultPolicy())
	if err != nil {
		t.Fatalf("Encode preview: %v", err)
	}
	if !bytes.Equal(again.Bytes(), bm.Bytes()) {
		t.Errorf("preview re-encodes to % X, want % X", again.Bytes(), bm.Bytes())
	}
}
