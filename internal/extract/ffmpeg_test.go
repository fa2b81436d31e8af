package extract

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v2i-cli/v2i/internal/probe"
	"github.com/v2i-cli/v2i/internal/sample"
)

// skipIfNoFFmpeg skips the test if ffmpeg or ffprobe is not available.
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not found in PATH, skipping test", tool)
		}
	}
}

// createTestVideo creates a short solid-color video using ffmpeg.
func createTestVideo(t *testing.T, path string, duration float64) {
	t.Helper()

	cmd := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=blue:s=64x64:d=%.1f", duration),
		"-c:v", "libx264",
		"-preset", "ultrafast",
		path,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to create test video: %v\noutput: %s", err, output)
	}
}

func TestExtractVideo(t *testing.T) {
	skipIfNoFFmpeg(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	createTestVideo(t, src, 2.0)

	info, err := probe.New("").Probe(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, probe.FormatVideo, info.Format)
	require.Positive(t, info.Duration)

	plan := sample.ForVideo(info.Duration, 4)
	outDir := filepath.Join(dir, "raw")

	artifacts, err := New("", nil).Extract(context.Background(), info, plan, outDir, "raw")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(artifacts), 1)
	assert.LessOrEqual(t, len(artifacts), 4)
	assert.Equal(t, filepath.Join(outDir, "raw_001.png"), artifacts[0].Path)
	for i, a := range artifacts {
		assert.Equal(t, i+1, a.Ordinal)
		assert.FileExists(t, a.Path)
	}
}
