package monoimg

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Grid is a rectangular grid of pixel samples. Coordinates run from (0, 0)
// to (w-1, h-1).
type Grid interface {
	Size() (w, h int)
	Sample(x, y int) Sample
}

// IntensityModel selects how a color is reduced to a single intensity.
type IntensityModel int

const (
	// Luma uses the Rec. 601 weights of image/color's GrayModel.
	Luma IntensityModel = iota
	// Lightness uses CIE L*, which tracks perceived brightness more closely
	// for saturated colors.
	Lightness
)

func (m IntensityModel) String() string {
	switch m {
	case Luma:
		return "luma"
	case Lightness:
		return "lightness"
	}
	return fmt.Sprintf("IntensityModel(%d)", int(m))
}

// ParseIntensityModel parses the name returned by IntensityModel.String.
func ParseIntensityModel(name string) (IntensityModel, error) {
	switch name {
	case "luma":
		return Luma, nil
	case "lightness":
		return Lightness, nil
	}
	return 0, fmt.Errorf("monoimg: unknown intensity model %q", name)
}

// ImageGrid adapts an image.Image to a Grid.
type ImageGrid struct {
	img   image.Image
	model IntensityModel
}

// NewImageGrid returns a Grid reading samples from img.
func NewImageGrid(img image.Image, model IntensityModel) *ImageGrid {
	return &ImageGrid{img: img, model: model}
}

// Size returns the image dimensions.
func (g *ImageGrid) Size() (w, h int) {
	return g.img.Bounds().Dx(), g.img.Bounds().Dy()
}

// Sample returns the pixel at (x, y) relative to the image origin.
func (g *ImageGrid) Sample(x, y int) Sample {
	min := g.img.Bounds().Min
	c := g.img.At(min.X+x, min.Y+y)

	switch c := c.(type) {
	case color.Gray:
		if g.model == Luma {
			return Sample{Y: c.Y}
		}
	case color.Gray16:
		if g.model == Luma {
			return Sample{Y: uint8(c.Y >> 8)}
		}
	}

	if g.model == Lightness {
		return lightnessSample(c)
	}
	return lumaSample(c)
}

func hasAlpha(c color.Color) bool {
	switch c.(type) {
	case color.Gray, color.Gray16, color.YCbCr, color.CMYK:
		return false
	}
	return true
}

func lumaSample(c color.Color) Sample {
	var n color.NRGBA64
	switch c := c.(type) {
	case color.NRGBA:
		// NRGBA64Model goes through premultiplied RGBA, use the components as is.
		n = color.NRGBA64{
			R: uint16(c.R) * 0x101,
			G: uint16(c.G) * 0x101,
			B: uint16(c.B) * 0x101,
			A: uint16(c.A) * 0x101,
		}
	case color.NRGBA64:
		n = c
	default:
		n = color.NRGBA64Model.Convert(c).(color.NRGBA64)
	}

	y := (19595*uint32(n.R) + 38470*uint32(n.G) + 7471*uint32(n.B) + 1<<15) >> 24

	return withAlpha(c, uint8(y), uint8(n.A>>8))
}

func withAlpha(c color.Color, y, a uint8) Sample {
	if !hasAlpha(c) {
		return Sample{Y: y}
	}
	return Sample{Y: y, A: a, HasAlpha: true}
}

func lightnessSample(c color.Color) Sample {
	_, _, _, a := c.RGBA()
	col, ok := colorful.MakeColor(c)
	if !ok {
		return Sample{A: 0, HasAlpha: true}
	}

	l, _, _ := col.Lab()
	l = math.Max(0, math.Min(1, l))

	return withAlpha(c, uint8(math.Round(l*255)), uint8(a>>8))
}
