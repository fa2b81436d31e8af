// Package pipeline orchestrates a single run: probe the source, plan the
// sampling, extract raw frames into a scoped workspace, and optimize them
// into the output directory.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/v2i-cli/v2i/internal/extract"
	"github.com/v2i-cli/v2i/internal/optimize"
	"github.com/v2i-cli/v2i/internal/probe"
	"github.com/v2i-cli/v2i/internal/sample"
	"github.com/v2i-cli/v2i/internal/source"
)

// Request describes one extraction run over an already-resolved local
// source file.
type Request struct {
	SourcePath string
	Frames     int
	OutputDir  string
	MaxSize    int
	Format     optimize.OutputFormat
	Quality    int
	// CleanOutput removes a pre-existing output directory first.
	CleanOutput bool
}

// Result is what a successful run produced.
type Result struct {
	Info      *probe.MediaInfo
	Frames    []extract.Artifact
	OutputDir string
	TotalSize int64
}

// Service wires the probing, extraction, and optimization stages.
type Service struct {
	prober    *probe.Prober
	extractor *extract.Extractor
	logger    *slog.Logger
}

// New creates a Service.
func New(prober *probe.Prober, extractor *extract.Extractor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{prober: prober, extractor: extractor, logger: logger}
}

// Probe inspects a source without extracting anything.
func (s *Service) Probe(ctx context.Context, path string) (*probe.MediaInfo, error) {
	return s.prober.Probe(ctx, path)
}

// Run executes the full pipeline. The raw-frame workspace is removed on
// every exit path, success or not; at least one final frame must result.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	info, err := s.prober.Probe(ctx, req.SourcePath)
	if err != nil {
		return nil, err
	}

	// The frame budget never exceeds what the source actually has, when
	// that is known.
	requested := req.Frames
	if info.FrameCount > 0 && info.FrameCount < requested {
		requested = info.FrameCount
	}

	plan := planFor(info, requested)

	outputDir, err := filepath.Abs(req.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	if req.CleanOutput {
		if err := os.RemoveAll(outputDir); err != nil {
			return nil, fmt.Errorf("clean output directory: %w", err)
		}
	}

	ws, err := source.NewWorkspace()
	if err != nil {
		return nil, err
	}
	defer ws.Cleanup()

	s.logger.Info("extracting frames",
		slog.String("source", req.SourcePath),
		slog.String("format", string(info.Format)),
		slog.Int("requested", requested),
	)

	raw, err := s.extractor.Extract(ctx, info, plan, ws.Root(), "raw")
	if err != nil {
		return nil, err
	}

	final, err := optimize.Frames(raw, outputDir, optimize.Params{
		MaxSize: req.MaxSize,
		Format:  req.Format,
		Quality: req.Quality,
	}, "frame")
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(final))
	for i, a := range final {
		paths[i] = a.Path
	}

	return &Result{
		Info:      info,
		Frames:    final,
		OutputDir: outputDir,
		TotalSize: optimize.TotalSize(paths),
	}, nil
}

// planFor picks the sampling strategy for the probed format: uniform index
// sampling for index-addressable GIFs, derived-fps for time-addressable
// video, and a single frame for stills.
func planFor(info *probe.MediaInfo, requested int) sample.Plan {
	switch info.Format {
	case probe.FormatGIF:
		return sample.ForGIF(info.FrameCount, requested)
	case probe.FormatVideo:
		return sample.ForVideo(info.Duration, requested)
	default:
		return sample.Plan{Limit: 1}
	}
}
