package monoimg

import (
	"fmt"
)

// DimensionError is returned when an image has no pixels along an axis.
type DimensionError struct {
	Width  int
	Height int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("monoimg: invalid image dimensions %dx%d: width and height must be positive",
		e.Width, e.Height)
}

// DecodeError is returned when the input is not an image in a supported
// format.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "monoimg: failed to decode image: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IOError is returned when reading the input or writing the output fails.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("monoimg: failed to %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
