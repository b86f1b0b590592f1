package monoimg

import (
	"bufio"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// Decode reads an image in any registered format. It returns the image and
// the format name. Any failure is reported as a *DecodeError.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}

	return img, format, nil
}

// DecodeGrid decodes an image and wraps it in an ImageGrid.
func DecodeGrid(r io.Reader, model IntensityModel) (*ImageGrid, string, error) {
	img, format, err := Decode(r)
	if err != nil {
		return nil, "", err
	}

	return NewImageGrid(img, model), format, nil
}
