// Package optimize post-processes raw frames for LLM-friendly output:
// white-background compositing where transparency would hurt, bounded
// resizing that preserves aspect ratio, and re-encoding to the requested
// format and quality.
package optimize

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/v2i-cli/v2i/internal/extract"
)

// ErrEncodeFailed is returned when the codec rejects the input or
// parameters.
var ErrEncodeFailed = errors.New("image encoding failed")

// OutputFormat is the target still-image format.
type OutputFormat string

// Supported output formats.
const (
	FormatJPEG OutputFormat = "jpg"
	FormatPNG  OutputFormat = "png"
	FormatWebP OutputFormat = "webp"
)

// Ext returns the file extension for the format, without the dot.
func (f OutputFormat) Ext() string {
	return string(f)
}

// Params controls a single optimization pass.
type Params struct {
	// MaxSize is the bound for the larger dimension, in pixels.
	MaxSize int
	// Format selects the output codec.
	Format OutputFormat
	// Quality is honored by JPEG and WebP (1-100); PNG ignores it.
	Quality int
}

// File optimizes a single frame: composites transparency onto white when
// the target is JPEG, resizes to fit within MaxSize, and encodes. The
// operation is deterministic and makes no process or network calls.
func File(inputPath, outputPath string, p Params) error {
	src, err := imaging.Open(inputPath)
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}

	// Clone normalizes palette and grayscale sources into a directly
	// encodable representation.
	img := imaging.Clone(src)
	if p.Format == FormatJPEG && !img.Opaque() {
		img = compositeWhite(img)
	}

	img = Fit(img, p.MaxSize)

	if err := encode(img, outputPath, p); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncodeFailed, outputPath, err)
	}
	return nil
}

// Frames optimizes every input in order, producing {prefix}_{NNN}.{ext}
// ordinals 1..N under outputDir. Size accounting is the caller's concern.
func Frames(inputs []extract.Artifact, outputDir string, p Params, prefix string) ([]extract.Artifact, error) {
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	outputs := make([]extract.Artifact, 0, len(inputs))
	for i, in := range inputs {
		ordinal := i + 1
		out := filepath.Join(outputDir, fmt.Sprintf("%s_%03d.%s", prefix, ordinal, p.Format.Ext()))
		if err := File(in.Path, out, p); err != nil {
			return nil, err
		}
		outputs = append(outputs, extract.Artifact{Path: out, Ordinal: ordinal})
	}
	return outputs, nil
}

// Fit scales img down so its larger dimension equals maxSize, the other
// rounded to nearest, using Lanczos resampling. Images already within the
// bound pass through untouched; Fit never upscales.
func Fit(img *image.NRGBA, maxSize int) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}

	var newW, newH int
	if w > h {
		newW = maxSize
		newH = int(math.Round(float64(h) * float64(maxSize) / float64(w)))
	} else {
		newH = maxSize
		newW = int(math.Round(float64(w) * float64(maxSize) / float64(h)))
	}

	return imaging.Resize(img, newW, newH, imaging.Lanczos)
}

// compositeWhite flattens transparency onto an opaque white background.
func compositeWhite(img *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Over)
	return dst
}

// encode writes img to outputPath in the requested format.
func encode(img *image.NRGBA, outputPath string, p Params) error {
	switch p.Format {
	case FormatJPEG:
		return imaging.Save(img, outputPath, imaging.JPEGQuality(p.Quality))
	case FormatPNG:
		return imaging.Save(img, outputPath, imaging.PNGCompressionLevel(png.BestCompression))
	case FormatWebP:
		f, err := os.Create(outputPath) // #nosec G304 - path is built by the caller
		if err != nil {
			return err
		}
		if err := webp.Encode(f, img, &webp.Options{Quality: float32(p.Quality)}); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported output format %q", p.Format)
	}
}
