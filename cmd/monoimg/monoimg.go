package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/tmpim/monoimg"
)

const (
	exitIO        = 1
	exitArgument  = 2
	exitDecode    = 3
	exitDimension = 4
)

type argumentError struct {
	msg string
}

func (e *argumentError) Error() string {
	return e.msg
}

func argErrorf(format string, a ...interface{}) error {
	return &argumentError{msg: fmt.Sprintf(format, a...)}
}

type config struct {
	outputPath      string
	previewPath     string
	inputPath       string
	threshold       uint8
	continuous      bool
	invert          bool
	keepTransparent bool
	intensity       monoimg.IntensityModel
	preprocess      monoimg.PreprocessOptions
	workers         int
	verbose         bool
}

func main() {
	log.SetFlags(0)
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	cfg, err := parseArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		log.Println(err)
		return exitCode(err)
	}

	if err := convert(cfg, stdin, stdout); err != nil {
		log.Println(err)
		return exitCode(err)
	}

	return 0
}

func exitCode(err error) int {
	var argErr *argumentError
	var decErr *monoimg.DecodeError
	var dimErr *monoimg.DimensionError

	switch {
	case errors.As(err, &argErr):
		return exitArgument
	case errors.As(err, &decErr):
		return exitDecode
	case errors.As(err, &dimErr):
		return exitDimension
	}
	return exitIO
}

func parseArgs(args []string) (*config, error) {
	fs := flag.NewFlagSet("monoimg", flag.ContinueOnError)
	fs.SetOutput(log.Writer())

	outputPath := fs.String("o", "", "set location of the packed output (- for stdout)")
	previewPath := fs.String("p", "", "set location of an optional preview (will be PNG)")
	threshold := fs.Int("t", monoimg.DefaultThreshold, "set the threshold, pixels darker than this become ink (0-255)")
	continuous := fs.Bool("N", false, "don't pad rows to a byte boundary, only the final byte")
	invert := fs.Bool("invert", false, "make bright pixels ink instead of dark ones")
	keepTransparent := fs.Bool("keep-transparent", false, "classify fully transparent pixels by intensity")
	intensity := fs.String("intensity", monoimg.Luma.String(), "set the intensity model (luma or lightness)")
	resize := fs.String("resize", "", "resize before thresholding, as WxH (0 keeps aspect ratio)")
	contrast := fs.Float64("contrast", 0, "adjust contrast by a percentage (-100 to 100)")
	brightness := fs.Float64("brightness", 0, "adjust brightness by a percentage (-100 to 100)")
	gamma := fs.Float64("gamma", 0, "apply gamma correction (0 = none)")
	workers := fs.Int("workers", runtime.NumCPU(), "set the number of row encoding workers")
	verbose := fs.Bool("v", false, "log progress details")

	fs.Usage = func() {
		log.Println("Usage: monoimg [options] -o output input_image")
		log.Println("")
		log.Println("monoimg converts an image into a packed one bit per pixel payload, MSB first,")
		log.Println("each row padded to a whole byte. The output has no header; the width and")
		log.Println("height must be supplied to the firmware separately.")
		log.Println("")
		log.Println("Use - as input_image to read from stdin.")
		log.Println("")
		log.Println("Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, &argumentError{msg: err.Error()}
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, argErrorf("exactly one input image must be given")
	}

	if *outputPath == "" {
		return nil, argErrorf("an output path must be given with -o")
	}

	if *threshold < 0 || *threshold > 255 {
		return nil, argErrorf("threshold must be between 0 and 255")
	}

	if *workers < 1 {
		return nil, argErrorf("workers cannot be less than 1")
	}

	model, err := monoimg.ParseIntensityModel(*intensity)
	if err != nil {
		return nil, &argumentError{msg: err.Error()}
	}

	cfg := &config{
		outputPath:      *outputPath,
		previewPath:     *previewPath,
		inputPath:       fs.Arg(0),
		threshold:       uint8(*threshold),
		continuous:      *continuous,
		invert:          *invert,
		keepTransparent: *keepTransparent,
		intensity:       model,
		workers:         *workers,
		verbose:         *verbose,
		preprocess: monoimg.PreprocessOptions{
			Contrast:   float32(*contrast),
			Brightness: float32(*brightness),
			Gamma:      float32(*gamma),
		},
	}

	if *resize != "" {
		w, h, err := parseSize(*resize)
		if err != nil {
			return nil, err
		}
		cfg.preprocess.Width, cfg.preprocess.Height = w, h
	}

	if err := cfg.preprocess.Validate(); err != nil {
		return nil, &argumentError{msg: err.Error()}
	}

	return cfg, nil
}

func parseSize(s string) (w, h int, err error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, argErrorf("resize must be given as WxH, got %q", s)
	}

	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w < 0 || h < 0 || (w == 0 && h == 0) {
		return 0, 0, argErrorf("resize must be given as WxH, got %q", s)
	}

	return w, h, nil
}

func convert(cfg *config, stdin io.Reader, stdout io.Writer) error {
	start := time.Now()

	img, format, err := readImage(cfg.inputPath, stdin)
	if err != nil {
		return err
	}

	if cfg.verbose {
		log.Printf("Decoded %s image, %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())
	}

	img, err = monoimg.Preprocess(img, cfg.preprocess)
	if err != nil {
		return err
	}

	grid := monoimg.NewImageGrid(img, cfg.intensity)
	policy := monoimg.Policy{
		Threshold:       cfg.threshold,
		Invert:          cfg.invert,
		KeepTransparent: cfg.keepTransparent,
	}

	var out bytes.Buffer
	var bm *monoimg.Bitmap

	if !cfg.continuous || cfg.previewPath != "" {
		bm, err = monoimg.EncodeContext(context.Background(), grid, monoimg.EncoderOptions{
			Policy:  policy,
			Workers: cfg.workers,
		})
		if err != nil {
			return err
		}

		if cfg.verbose {
			log.Printf("Packed %d rows, %d bytes per row", bm.Height(), bm.Stride())
		}
	}

	if cfg.continuous {
		if _, err := monoimg.EncodeStream(&out, grid, policy); err != nil {
			return err
		}
	} else if _, err := bm.WriteTo(&out); err != nil {
		return err
	}

	if cfg.previewPath != "" {
		if err := writePreview(cfg.previewPath, bm); err != nil {
			log.Println("Warning: Failed to write preview image:", err)
		}
	}

	if err := writeOutput(cfg.outputPath, out.Bytes(), stdout); err != nil {
		return err
	}

	if cfg.verbose {
		log.Printf("Wrote %d bytes to %s in %s", out.Len(), cfg.outputPath, time.Since(start))
	}

	return nil
}

func readImage(path string, stdin io.Reader) (image.Image, string, error) {
	if path == "-" {
		return monoimg.Decode(stdin)
	}

	input, err := os.Open(path)
	if err != nil {
		return nil, "", &monoimg.IOError{Op: "open input", Path: path, Err: err}
	}
	defer input.Close()

	return monoimg.Decode(input)
}

func writePreview(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "-" {
		if _, err := stdout.Write(data); err != nil {
			return &monoimg.IOError{Op: "write", Path: "stdout", Err: err}
		}
		return nil
	}

	if err := writeFileAtomic(path, data); err != nil {
		return &monoimg.IOError{Op: "write output", Path: path, Err: err}
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place, so a
// failed run never leaves a partial file at path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}
