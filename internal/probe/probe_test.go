package probe

import (
	"context"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeStaticImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "still.png")
	require.NoError(t, imaging.Save(imaging.New(64, 32, color.NRGBA{R: 200, G: 10, B: 10, A: 255}), path))

	info, err := New("").Probe(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, FormatImage, info.Format)
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 32, info.Height)
	assert.Equal(t, 1, info.FrameCount)
	assert.Zero(t, info.Duration)
	assert.Zero(t, info.FPS)
	assert.False(t, info.IsAnimated())
	assert.True(t, filepath.IsAbs(info.Path))
}

func TestProbeGIF(t *testing.T) {
	t.Run("animated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "anim.gif")
		writeTestGIF(t, path, 5, 50)

		info, err := New("").Probe(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, FormatGIF, info.Format)
		assert.Equal(t, 5, info.FrameCount)
		assert.True(t, info.IsAnimated())
		// 5 frames at 500ms each
		assert.InDelta(t, 2.5, info.Duration, 1e-9)
		assert.InDelta(t, 2.0, info.FPS, 1e-9)
	})

	t.Run("missing delays default to 100ms per frame", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nodelay.gif")
		writeTestGIF(t, path, 4, 0)

		info, err := New("").Probe(context.Background(), path)
		require.NoError(t, err)

		assert.InDelta(t, 0.4, info.Duration, 1e-9)
		assert.InDelta(t, 10.0, info.FPS, 1e-9)
	})

	t.Run("single frame still classifies as gif", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "single.gif")
		writeTestGIF(t, path, 1, 10)

		info, err := New("").Probe(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, FormatGIF, info.Format)
		assert.Equal(t, 1, info.FrameCount)
		assert.False(t, info.IsAnimated())
	})
}

func TestProbeFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := New("").Probe(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"))
		assert.ErrorIs(t, err, ErrNotReadable)
	})

	t.Run("unclassifiable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("not media"), 0600))

		_, err := New("").Probe(context.Background(), path)
		assert.ErrorIs(t, err, ErrNotReadable)
	})
}

// writeTestGIF writes an animated GIF with the given frame count and a
// uniform per-frame delay in hundredths of a second.
func writeTestGIF(t *testing.T, path string, frames, delay int) {
	t.Helper()

	g := &gif.GIF{}
	for i := 0; i < frames; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, 16, 16), palette.Plan9)
		c := uint8(20 * (i + 1))
		fill(frame, color.RGBA{R: c, G: 255 - c, B: 40, A: 255})
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delay)
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, g))
	require.NoError(t, f.Close())
}

func fill(img *image.Paletted, c color.Color) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}
