package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/v2i-cli/v2i/internal/sample"
)

// extractVideo invokes ffmpeg once with either a derived-fps filter or a
// first-N select filter, then scans the output directory for the expected
// ordinal-named files. Missing ordinals are skipped, not retried.
func (e *Extractor) extractVideo(ctx context.Context, path string, plan sample.Plan, outputDir, prefix string) ([]Artifact, error) {
	if _, err := exec.LookPath(e.ffmpegPath); err != nil {
		return nil, fmt.Errorf("%w: install it and retry", ErrMissingTool)
	}

	pattern := filepath.Join(outputDir, prefix+"_%03d.png")
	args := videoArgs(path, plan, pattern)

	ctx, cancel := context.WithTimeout(ctx, videoTimeout)
	defer cancel()

	runErr := e.runFFmpeg(ctx, args)
	if runErr != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s", ErrTimeout, videoTimeout)
	}

	artifacts := make([]Artifact, 0, plan.Limit)
	for i := 1; i <= plan.Limit; i++ {
		p := artifactPath(outputDir, prefix, i)
		if _, err := os.Stat(p); err == nil {
			artifacts = append(artifacts, Artifact{Path: p, Ordinal: len(artifacts) + 1})
		}
	}

	if len(artifacts) == 0 && runErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, runErr)
	}
	return artifacts, nil
}

// videoArgs builds the ffmpeg argument list for a sampling plan. A plan
// with a target rate uses the fps filter; an unknown-duration plan selects
// the first Limit frames in decode order with no rate derivation.
func videoArgs(path string, plan sample.Plan, pattern string) []string {
	var filter string
	if plan.TargetFPS > 0 {
		filter = "fps=" + strconv.FormatFloat(plan.TargetFPS, 'f', -1, 64)
		return []string{
			"-i", path,
			"-vf", filter,
			"-frames:v", strconv.Itoa(plan.Limit),
			"-y",
			pattern,
		}
	}

	filter = fmt.Sprintf(`select='lt(n\,%d)'`, plan.Limit)
	return []string{
		"-i", path,
		"-vf", filter,
		"-vsync", "vfr",
		"-frames:v", strconv.Itoa(plan.Limit),
		"-y",
		pattern,
	}
}

// runFFmpeg executes ffmpeg with the given arguments, capturing stderr for
// the error path.
func (e *Extractor) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger.Debug("running ffmpeg", slog.Any("args", args))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// FFmpegError is an ffmpeg failure carrying the arguments and stderr
// output that produced it.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
