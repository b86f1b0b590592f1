package monoimg

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func bitsOf(s string) []bool {
	bits := make([]bool, 0, len(s))
	for _, c := range s {
		switch c {
		case '1':
			bits = append(bits, true)
		case '0':
			bits = append(bits, false)
		}
	}
	return bits
}

func TestRowStride(t *testing.T) {
	tests := []struct {
		w, want int
	}{
		{1, 1}, {7, 1}, {8, 1}, {9, 2}, {10, 2}, {16, 2}, {17, 3}, {256, 32},
	}

	for _, tt := range tests {
		if got := RowStride(tt.w); got != tt.want {
			t.Errorf("RowStride(%d) = %d, want %d", tt.w, got, tt.want)
		}
	}
}

func TestPackRow(t *testing.T) {
	tests := []struct {
		name string
		bits string
		want []byte
	}{
		{"single set bit", "1", []byte{0x80}},
		{"single clear bit", "0", []byte{0x00}},
		{"three bits", "101", []byte{0xA0}},
		{"full byte", "11111111", []byte{0xFF}},
		{"alternating", "10101010 10101010", []byte{0xAA, 0xAA}},
		{"nine bits", "11111111 1", []byte{0xFF, 0x80}},
		{"ten bits", "11111111 11", []byte{0xFF, 0xC0}},
		{"last bit of first byte", "00000001 0", []byte{0x01, 0x00}},
		{"unaligned alternating", "10101010 10101010 10101010 10101010 10101010 10101010 10101010 1010",
			[]byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xA0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bits := bitsOf(tt.bits)
			dst := make([]byte, RowStride(len(bits)))
			PackRow(dst, bits)
			if !bytes.Equal(dst, tt.want) {
				t.Errorf("PackRow(%q) = % X, want % X", tt.bits, dst, tt.want)
			}
		})
	}
}

func TestPackRowOverwritesDestination(t *testing.T) {
	dst := []byte{0xFF, 0xFF}
	PackRow(dst, bitsOf("10000000 0"))
	if !bytes.Equal(dst, []byte{0x80, 0x00}) {
		t.Errorf("PackRow into dirty buffer = % X, want 80 00", dst)
	}
}

func TestPackRowLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("PackRow with wrong destination length did not panic")
		}
	}()
	PackRow(make([]byte, 1), bitsOf("11111111 1"))
}

func TestAppendRow(t *testing.T) {
	out := AppendRow(nil, bitsOf("101"))
	out = AppendRow(out, bitsOf("11111111 11"))
	want := []byte{0xA0, 0xFF, 0xC0}
	if !bytes.Equal(out, want) {
		t.Errorf("AppendRow = % X, want % X", out, want)
	}
}

func TestPackRowProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for w := 1; w <= 67; w++ {
		for trial := 0; trial < 20; trial++ {
			bits := make([]bool, w)
			for i := range bits {
				bits[i] = rng.Intn(2) == 1
			}

			packed := AppendRow(nil, bits)
			if len(packed) != (w+7)/8 {
				t.Fatalf("w=%d: len(packed) = %d, want %d", w, len(packed), (w+7)/8)
			}

			if rem := w % 8; rem != 0 {
				mask := byte(0xFF) >> uint(rem)
				if last := packed[len(packed)-1]; last&mask != 0 {
					t.Fatalf("w=%d: padding bits of last byte 0x%02X are not zero", w, last)
				}
			}

			got := UnpackRow(packed, w)
			for i := range bits {
				if got[i] != bits[i] {
					t.Fatalf("w=%d: round trip differs at bit %d", w, i)
				}
			}
		}
	}
}

func TestBitWriter(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)

	for i := 0; i < 30; i++ {
		if err := bw.WriteBit(true); err != nil {
			t.Fatalf("WriteBit: %v", err)
		}
		if err := bw.WriteBit(false); err != nil {
			t.Fatalf("WriteBit: %v", err)
		}
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("second Flush: %v", err)
	}

	want := []byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xA0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("BitWriter output = % X, want % X", buf.Bytes(), want)
	}
	if bw.Written() != int64(len(want)) {
		t.Errorf("Written() = %d, want %d", bw.Written(), len(want))
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestBitWriterError(t *testing.T) {
	bw := NewBitWriter(failingWriter{})
	var err error
	for i := 0; i < 8 && err == nil; i++ {
		err = bw.WriteBit(true)
	}
	if err == nil {
		t.Fatal("expected write error on the eighth bit")
	}
}
