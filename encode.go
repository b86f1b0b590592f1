package monoimg

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"
)

// EncoderOptions configures EncodeContext.
type EncoderOptions struct {
	Policy Policy
	// Workers is the number of goroutines packing rows. Values below 2
	// encode on the calling goroutine.
	Workers int
	// BandHeight is the number of rows handed to a worker at a time.
	// Zero selects a default.
	BandHeight int
}

const defaultBandHeight = 64

func (e *EncoderOptions) validate() error {
	if e.Workers < 0 {
		return errors.New("monoimg: EncodeContext: workers must not be negative")
	}
	if e.BandHeight < 0 {
		return errors.New("monoimg: EncodeContext: band height must not be negative")
	}

	return nil
}

func checkSize(g Grid) (w, h int, err error) {
	w, h = g.Size()
	if w <= 0 || h <= 0 {
		return w, h, &DimensionError{Width: w, Height: h}
	}
	return w, h, nil
}

// Encode classifies every pixel of g with p and packs the result row by row,
// top to bottom. The payload is Height*RowStride(Width) bytes long.
func Encode(g Grid, p Policy) (*Bitmap, error) {
	return EncodeContext(context.Background(), g, EncoderOptions{Policy: p})
}

// EncodeContext is like Encode but can spread rows over several workers.
// Each worker writes only its own rows, so the output is identical to the
// sequential result.
func EncodeContext(ctx context.Context, g Grid, opts EncoderOptions) (*Bitmap, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	w, h, err := checkSize(g)
	if err != nil {
		return nil, err
	}

	bm := newBitmap(w, h)

	band := opts.BandHeight
	if band == 0 {
		band = defaultBandHeight
	}

	if opts.Workers < 2 || h <= band {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		encodeRows(bm, g, opts.Policy, 0, h)
		return bm, nil
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Workers)

	for start := 0; start < h; start += band {
		start := start
		end := start + band
		if end > h {
			end = h
		}

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			encodeRows(bm, g, opts.Policy, start, end)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return bm, nil
}

// encodeRows packs rows [start, end) of g into their slots in bm.
func encodeRows(bm *Bitmap, g Grid, p Policy, start, end int) {
	w := bm.Width()
	bits := make([]bool, w)

	for y := start; y < end; y++ {
		for x := 0; x < w; x++ {
			bits[x] = p.Ink(g.Sample(x, y))
		}
		PackRow(bm.pix[y*bm.stride:(y+1)*bm.stride], bits)
	}
}

// EncodeStream writes g as one continuous bit stream: rows are not byte
// aligned and only the final byte is padded. It returns the number of bytes
// written, which is ceil(Width*Height/8) on success.
func EncodeStream(wr io.Writer, g Grid, p Policy) (int64, error) {
	w, h, err := checkSize(g)
	if err != nil {
		return 0, err
	}

	bw := NewBitWriter(wr)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if err := bw.WriteBit(p.Ink(g.Sample(x, y))); err != nil {
				return bw.Written(), err
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return bw.Written(), err
	}

	return bw.Written(), nil
}
