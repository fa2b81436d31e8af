package probe

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"os"

	// Decoder registration for the formats the image backend understands.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// defaultGIFDelay is applied when a GIF frame omits its display duration,
// in hundredths of a second.
const defaultGIFDelay = 10

// defaultGIFFPS is used when the summed frame delays are zero.
const defaultGIFFPS = 10.0

// imageBackend classifies stills and GIFs using Go's image decoders.
// Classification comes from the container format, never from the frame
// count: a single-frame GIF is still FormatGIF.
type imageBackend struct{}

func (b *imageBackend) inspect(_ context.Context, path string) (*MediaInfo, error) {
	f, err := os.Open(path) // #nosec G304 - path was resolved by the prober
	if err != nil {
		return nil, fmt.Errorf("open media file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, errUnrecognized
	}

	if format == "gif" {
		return b.inspectGIF(path, cfg)
	}

	return &MediaInfo{
		Path:       path,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Duration:   0,
		FrameCount: 1,
		FPS:        0,
		Format:     FormatImage,
	}, nil
}

// inspectGIF walks every frame to accumulate the frame count and the sum
// of per-frame display durations.
func (b *imageBackend) inspectGIF(path string, cfg image.Config) (*MediaInfo, error) {
	f, err := os.Open(path) // #nosec G304 - path was resolved by the prober
	if err != nil {
		return nil, fmt.Errorf("open gif: %w", err)
	}
	defer func() { _ = f.Close() }()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, errUnrecognized
	}

	frameCount := len(g.Image)
	if frameCount == 0 {
		return nil, errUnrecognized
	}

	// Delays are in hundredths of a second; a missing delay counts as 100ms.
	totalHundredths := 0
	for _, d := range g.Delay {
		if d <= 0 {
			d = defaultGIFDelay
		}
		totalHundredths += d
	}

	duration := float64(totalHundredths) / 100.0
	fps := defaultGIFFPS
	if duration > 0 {
		fps = float64(frameCount) / duration
	}

	return &MediaInfo{
		Path:       path,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Duration:   duration,
		FrameCount: frameCount,
		FPS:        fps,
		Format:     FormatGIF,
	}, nil
}
