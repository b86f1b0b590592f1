package monoimg

import (
	"io"
)

// RowStride returns the number of bytes one packed row of w pixels occupies.
func RowStride(w int) int {
	return (w + 7) / 8
}

// PackRow packs bits into dst, most significant bit first. The first bit of
// the row lands in bit 7 of dst[0]. Bits past the end of the row are zero.
// dst must be exactly RowStride(len(bits)) bytes long.
func PackRow(dst []byte, bits []bool) {
	if len(dst) != RowStride(len(bits)) {
		panic("monoimg: PackRow: destination length does not match row width")
	}

	for i := range dst {
		dst[i] = 0
	}

	for i, bit := range bits {
		if bit {
			dst[i>>3] |= 0x80 >> uint(i&7)
		}
	}
}

// AppendRow packs bits and appends the packed row to dst.
func AppendRow(dst []byte, bits []bool) []byte {
	n := len(dst)
	stride := RowStride(len(bits))
	if cap(dst)-n < stride {
		grown := make([]byte, n, n+stride)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:n+stride]
	PackRow(dst[n:], bits)
	return dst
}

// UnpackRow reverses PackRow, returning the first w bits of row.
func UnpackRow(row []byte, w int) []bool {
	if len(row) < RowStride(w) {
		panic("monoimg: UnpackRow: row is shorter than width")
	}

	bits := make([]bool, w)
	for i := range bits {
		bits[i] = row[i>>3]&(0x80>>uint(i&7)) != 0
	}
	return bits
}

// BitWriter packs a stream of bits MSB first without any row alignment.
type BitWriter struct {
	w       io.Writer
	cur     byte
	n       uint
	written int64
}

// NewBitWriter returns a BitWriter writing whole bytes to w.
func NewBitWriter(w io.Writer) *BitWriter {
	return &BitWriter{w: w}
}

// WriteBit appends a single bit, emitting a byte every eighth call.
func (b *BitWriter) WriteBit(bit bool) error {
	if bit {
		b.cur |= 0x80 >> b.n
	}
	b.n++
	if b.n == 8 {
		return b.emit()
	}
	return nil
}

// Flush writes a partially filled byte, zero padded. It is a no-op on a byte
// boundary.
func (b *BitWriter) Flush() error {
	if b.n == 0 {
		return nil
	}
	return b.emit()
}

// Written returns the number of bytes emitted so far.
func (b *BitWriter) Written() int64 {
	return b.written
}

func (b *BitWriter) emit() error {
	n, err := b.w.Write([]byte{b.cur})
	b.written += int64(n)
	b.cur = 0
	b.n = 0
	return err
}
