// Package bootstrap provides dependency initialization for the v2i CLI.
package bootstrap

import (
	"log/slog"

	"github.com/v2i-cli/v2i/internal/clipboard"
	"github.com/v2i-cli/v2i/internal/config"
	"github.com/v2i-cli/v2i/internal/extract"
	"github.com/v2i-cli/v2i/internal/pipeline"
	"github.com/v2i-cli/v2i/internal/probe"
	"github.com/v2i-cli/v2i/internal/source"
)

// Dependencies holds all initialized collaborators for a run.
type Dependencies struct {
	Resolver  *source.Resolver
	Pipeline  *pipeline.Service
	Clipboard clipboard.Clipboard
}

// NewDependencies wires the application. A platform without clipboard
// support still gets a working pipeline; only clipboard sourcing fails.
func NewDependencies(opts *config.Options, logger *slog.Logger) *Dependencies {
	clip, err := clipboard.System()
	if err != nil {
		logger.Debug("clipboard unavailable", slog.String("error", err.Error()))
		clip = nil
	}

	s3cfg := source.S3Config{
		Region:          opts.S3Region,
		Endpoint:        opts.S3Endpoint,
		AccessKeyID:     opts.AWSAccessKeyID,
		SecretAccessKey: opts.AWSSecretAccessKey,
	}
	resolver := source.NewResolver(clip, source.NewDownloader(nil), s3cfg, logger)

	prober := probe.New(opts.FFprobePath)
	extractor := extract.New(opts.FFmpegPath, logger)
	svc := pipeline.New(prober, extractor, logger)

	return &Dependencies{
		Resolver:  resolver,
		Pipeline:  svc,
		Clipboard: clip,
	}
}
