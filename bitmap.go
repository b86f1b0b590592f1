package monoimg

import (
	"image"
	"image/color"
	"io"
)

// Palette is the preview color model of a Bitmap: index 0 is background
// (white), index 1 is ink (black).
var Palette = color.Palette{color.White, color.Black}

// Bitmap is a packed one-bit-per-pixel image. Each row starts on a byte
// boundary and occupies Stride() bytes, MSB first, with zero padding after
// the last column.
type Bitmap struct {
	pix    []byte
	stride int
	rect   image.Rectangle
}

func newBitmap(w, h int) *Bitmap {
	stride := RowStride(w)
	return &Bitmap{
		pix:    make([]byte, stride*h),
		stride: stride,
		rect:   image.Rect(0, 0, w, h),
	}
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int {
	return b.rect.Dx()
}

// Height returns the height in pixels.
func (b *Bitmap) Height() int {
	return b.rect.Dy()
}

// Stride returns the number of bytes per row.
func (b *Bitmap) Stride() int {
	return b.stride
}

// Len returns the length of the packed payload in bytes.
func (b *Bitmap) Len() int {
	return len(b.pix)
}

// Bytes returns a copy of the packed payload.
func (b *Bitmap) Bytes() []byte {
	out := make([]byte, len(b.pix))
	copy(out, b.pix)
	return out
}

// Row returns a copy of the packed bytes of row y.
func (b *Bitmap) Row(y int) []byte {
	out := make([]byte, b.stride)
	copy(out, b.pix[y*b.stride:(y+1)*b.stride])
	return out
}

// InkAt reports whether the pixel at (x, y) is set. Pixels outside the
// bitmap are never set.
func (b *Bitmap) InkAt(x, y int) bool {
	if !(image.Point{X: x, Y: y}.In(b.rect)) {
		return false
	}
	return b.pix[y*b.stride+(x>>3)]&(0x80>>uint(x&7)) != 0
}

// WriteTo writes the raw packed payload to w. No header is written.
func (b *Bitmap) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.pix)
	return int64(n), err
}

// ColorModel returns Palette.
func (b *Bitmap) ColorModel() color.Model {
	return Palette
}

// Bounds returns the bitmap bounds, always anchored at the origin.
func (b *Bitmap) Bounds() image.Rectangle {
	return b.rect
}

// At returns black for ink and white for background.
func (b *Bitmap) At(x, y int) color.Color {
	return Palette[b.ColorIndexAt(x, y)]
}

// ColorIndexAt returns the Palette index of the pixel at (x, y).
func (b *Bitmap) ColorIndexAt(x, y int) uint8 {
	if b.InkAt(x, y) {
		return 1
	}
	return 0
}

var _ image.PalettedImage = (*Bitmap)(nil)
