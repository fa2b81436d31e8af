// Package config provides run options with environment-variable defaults
// and validation.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Options holds everything a run needs. Environment variables provide the
// defaults; command-line flags override them.
type Options struct {
	// Frames is the frame budget: the maximum number of stills to produce.
	Frames int `env:"V2I_FRAMES, default=6" validate:"min=1"`

	// OutputDir receives the final frames.
	OutputDir string `env:"V2I_OUTPUT_DIR, default=./v2i_frames" validate:"required"`

	// MaxSize bounds the larger output dimension in pixels.
	MaxSize int `env:"V2I_MAX_SIZE, default=1024" validate:"min=16,max=16384"`

	// Format is the output image format.
	Format string `env:"V2I_FORMAT, default=jpg" validate:"oneof=jpg png webp"`

	// Quality is the JPEG/WebP quality.
	Quality int `env:"V2I_QUALITY, default=80" validate:"min=1,max=100"`

	// Tool paths; empty means PATH lookup.
	FFmpegPath  string `env:"V2I_FFMPEG_PATH"`
	FFprobePath string `env:"V2I_FFPROBE_PATH"`

	// Optional S3 settings for s3:// sources.
	S3Region           string `env:"V2I_S3_REGION"`
	S3Endpoint         string `env:"V2I_S3_ENDPOINT"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	// Logging settings. The default level keeps structured logs out of the
	// way of normal CLI output.
	LogFormat string `env:"V2I_LOG_FORMAT, default=text"` // "json" or "text"
	LogLevel  string `env:"V2I_LOG_LEVEL, default=warn"`  // "debug", "info", "warn", "error"
}

// Load reads options from the environment.
func Load(ctx context.Context) (*Options, error) {
	opts := &Options{}
	if err := envconfig.Process(ctx, opts); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}

// Validate checks ranges and enumerations after flag overrides have been
// applied.
func (o *Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config: invalid %s value", strings.ToLower(verrs[0].Field()))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// NewLogger creates a structured logger based on the configured format
// and level.
func (o *Options) NewLogger() *slog.Logger {
	level := parseLogLevel(o.LogLevel)

	var handler slog.Handler
	if strings.ToLower(o.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
