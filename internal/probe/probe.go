// Package probe inspects local media files and produces a normalized
// MediaInfo description. Two backends are layered with fixed precedence:
// image-library introspection first (stills and GIFs), then an ffprobe
// JSON pull for everything the image decoders cannot open.
package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotReadable is returned when no backend can classify the file.
var ErrNotReadable = errors.New("media file is not readable")

// errUnrecognized signals that a backend does not handle the file and the
// next backend in the chain should be tried.
var errUnrecognized = errors.New("format not recognized by backend")

// backend inspects a file and returns its MediaInfo, or errUnrecognized
// when the file is outside the backend's territory.
type backend interface {
	inspect(ctx context.Context, path string) (*MediaInfo, error)
}

// Prober resolves media metadata through an ordered backend chain.
type Prober struct {
	backends []backend
}

// New creates a Prober with the default backend order: image-library
// introspection, then ffprobe. ffprobePath may be empty to use PATH lookup.
func New(ffprobePath string) *Prober {
	return &Prober{
		backends: []backend{
			&imageBackend{},
			newFFprobeBackend(ffprobePath),
		},
	}
}

// Probe inspects the file at path. The first backend to succeed wins; a
// backend that does not recognize the container defers to the next one.
// No partial result is ever returned.
func (p *Prober) Probe(ctx context.Context, path string) (*MediaInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotReadable, path)
	}

	for _, b := range p.backends {
		info, err := b.inspect(ctx, abs)
		if err == nil {
			return info, nil
		}
		if errors.Is(err, errUnrecognized) {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("%w: %s", ErrNotReadable, path)
}
