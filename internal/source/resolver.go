package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/v2i-cli/v2i/internal/clipboard"
)

// ErrNotFound is returned when a local source path does not exist.
var ErrNotFound = errors.New("source file not found")

// Origin tags where a resolved source came from.
type Origin string

// Source origins.
const (
	OriginClipboard Origin = "clipboard"
	OriginURL       Origin = "url"
	OriginFile      Origin = "file"
)

// Resolved is a source turned into a local file.
type Resolved struct {
	// Path is the absolute local path of the media.
	Path string
	// Origin says which resolution branch produced the path.
	Origin Origin
	// Temp marks paths owned by this run; they are deleted on exit. A
	// clipboard file reference points at the user's own file and is not
	// temp.
	Temp bool
}

// Resolver turns a user-supplied source string into a local file via
// clipboard capture, download, or direct reference.
type Resolver struct {
	clip       clipboard.Clipboard
	downloader *Downloader
	s3cfg      S3Config
	logger     *slog.Logger
}

// NewResolver creates a Resolver. clip may be nil when clipboard sourcing
// is unavailable on the platform.
func NewResolver(clip clipboard.Clipboard, downloader *Downloader, s3cfg S3Config, logger *slog.Logger) *Resolver {
	if downloader == nil {
		downloader = NewDownloader(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{clip: clip, downloader: downloader, s3cfg: s3cfg, logger: logger}
}

// Resolve maps a source string to a local file. An empty source means the
// clipboard; http(s) and s3 URLs are fetched; anything else is a local
// path.
func (r *Resolver) Resolve(ctx context.Context, src string) (*Resolved, error) {
	switch {
	case src == "":
		return r.resolveClipboard(ctx)
	case IsURL(src):
		return r.resolveURL(ctx, src)
	default:
		return r.resolveFile(src)
	}
}

func (r *Resolver) resolveClipboard(ctx context.Context) (*Resolved, error) {
	if r.clip == nil {
		return nil, clipboard.ErrUnsupportedPlatform
	}

	path, kind, err := r.clip.Read(ctx)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("clipboard content resolved",
		slog.String("kind", string(kind)),
		slog.String("path", path),
	)
	return &Resolved{
		Path:   path,
		Origin: OriginClipboard,
		Temp:   kind != clipboard.KindFile,
	}, nil
}

func (r *Resolver) resolveURL(ctx context.Context, src string) (*Resolved, error) {
	var (
		path string
		err  error
	)
	if strings.HasPrefix(src, "s3://") {
		var fetcher *S3Fetcher
		fetcher, err = NewS3Fetcher(ctx, r.s3cfg)
		if err != nil {
			return nil, err
		}
		path, err = fetcher.Fetch(ctx, src)
	} else {
		path, err = r.downloader.Fetch(ctx, src)
	}
	if err != nil {
		return nil, err
	}

	return &Resolved{Path: path, Origin: OriginURL, Temp: true}, nil
}

func (r *Resolver) resolveFile(src string) (*Resolved, error) {
	if _, err := os.Stat(src); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	return &Resolved{Path: abs, Origin: OriginFile, Temp: false}, nil
}

// IsURL reports whether the source should be fetched rather than opened.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "s3://")
}
