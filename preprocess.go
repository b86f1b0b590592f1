package monoimg

import (
	"errors"
	"image"

	"github.com/disintegration/gift"
)

// PreprocessOptions describes adjustments applied before thresholding.
// The zero value applies nothing.
type PreprocessOptions struct {
	// Width and Height resize the image with Lanczos resampling. If one of
	// them is zero the aspect ratio is preserved.
	Width  int
	Height int
	// Contrast and Brightness are percentages in the range [-100, 100].
	Contrast   float32
	Brightness float32
	// Gamma is applied when non-zero. Values below 1 darken the image.
	Gamma float32
}

// Validate reports whether the options are in range.
func (o *PreprocessOptions) Validate() error {
	if o.Width < 0 || o.Height < 0 {
		return errors.New("monoimg: Preprocess: resize dimensions must not be negative")
	}
	if o.Contrast < -100 || o.Contrast > 100 {
		return errors.New("monoimg: Preprocess: contrast must be between -100 and 100")
	}
	if o.Brightness < -100 || o.Brightness > 100 {
		return errors.New("monoimg: Preprocess: brightness must be between -100 and 100")
	}
	if o.Gamma < 0 {
		return errors.New("monoimg: Preprocess: gamma must not be negative")
	}

	return nil
}

func (o *PreprocessOptions) filters() []gift.Filter {
	var filters []gift.Filter
	if o.Width > 0 || o.Height > 0 {
		filters = append(filters, gift.Resize(o.Width, o.Height, gift.LanczosResampling))
	}
	if o.Gamma != 0 {
		filters = append(filters, gift.Gamma(o.Gamma))
	}
	if o.Contrast != 0 {
		filters = append(filters, gift.Contrast(o.Contrast))
	}
	if o.Brightness != 0 {
		filters = append(filters, gift.Brightness(o.Brightness))
	}
	return filters
}

// Preprocess applies the adjustments in opts to img. If opts selects no
// adjustment, img is returned unchanged.
func Preprocess(img image.Image, opts PreprocessOptions) (image.Image, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	filters := opts.filters()
	if len(filters) == 0 {
		return img, nil
	}

	g := gift.New(filters...)
	g.SetParallelization(true)

	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)

	return dst, nil
}
