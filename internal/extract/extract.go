// Package extract drives frame extraction: a direct copy for static
// images, an in-process forward-only walk for GIFs, and an ffmpeg
// invocation for videos. Raw frames land in a working directory under a
// deterministic {prefix}_{NNN}.png naming scheme.
package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/v2i-cli/v2i/internal/probe"
	"github.com/v2i-cli/v2i/internal/sample"
)

// Static errors for extraction.
var (
	// ErrExtractionFailed is returned when zero frames result.
	ErrExtractionFailed = errors.New("no frames were extracted")
	// ErrMissingTool is returned when the ffmpeg binary cannot be found.
	// Only video extraction needs it; GIF and image extraction never do.
	ErrMissingTool = errors.New("ffmpeg is required for video extraction")
	// ErrTimeout is returned when the external decode process exceeds its
	// time bound.
	ErrTimeout = errors.New("frame extraction timed out")
)

// videoTimeout bounds a single ffmpeg decode run.
const videoTimeout = 120 * time.Second

// Artifact is a single extracted frame: its path plus a 1-based ordinal.
type Artifact struct {
	Path    string
	Ordinal int
}

// Extractor produces raw per-frame images from a probed source.
type Extractor struct {
	ffmpegPath string
	logger     *slog.Logger
}

// New creates an Extractor. If ffmpegPath is empty, "ffmpeg" is resolved
// via PATH.
func New(ffmpegPath string, logger *slog.Logger) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{ffmpegPath: ffmpegPath, logger: logger}
}

// Extract pulls frames from info.Path according to plan, writing them into
// outputDir as {prefix}_{NNN}.png. The directory is created if absent;
// pre-existing contents are never touched. Zero resulting artifacts is a
// hard failure.
func (e *Extractor) Extract(ctx context.Context, info *probe.MediaInfo, plan sample.Plan, outputDir, prefix string) ([]Artifact, error) {
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var (
		artifacts []Artifact
		err       error
	)
	switch {
	case info.Format == probe.FormatGIF:
		artifacts, err = e.extractGIF(info.Path, plan, outputDir, prefix)
	case info.Format == probe.FormatVideo:
		artifacts, err = e.extractVideo(ctx, info.Path, plan, outputDir, prefix)
	default:
		artifacts, err = e.extractStill(info.Path, outputDir, prefix)
	}
	if err != nil {
		return nil, err
	}

	if len(artifacts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, info.Path)
	}

	e.logger.Debug("frames extracted",
		slog.String("source", info.Path),
		slog.Int("count", len(artifacts)),
	)
	return artifacts, nil
}

// extractStill copies a static image into the working directory as PNG at
// ordinal 1, flattening any alpha onto white on the way.
func (e *Extractor) extractStill(path, outputDir, prefix string) ([]Artifact, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	out := artifactPath(outputDir, prefix, 1)
	if err := imaging.Save(flattenWhite(img), out); err != nil {
		return nil, fmt.Errorf("save frame: %w", err)
	}
	return []Artifact{{Path: out, Ordinal: 1}}, nil
}

// artifactPath builds the canonical frame filename: prefix, underscore,
// zero-padded 3-digit ordinal, extension.
func artifactPath(dir, prefix string, ordinal int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%03d.png", prefix, ordinal))
}

// flattenWhite composites src onto an opaque white background and drops
// the alpha channel. Applied to every GIF frame, opaque or not, so output
// pixel modes stay uniform regardless of which backend decoded the frame.
func flattenWhite(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}
