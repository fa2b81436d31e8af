package config

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Frames)
	assert.Equal(t, "./v2i_frames", cfg.OutputDir)
	assert.Equal(t, 1024, cfg.MaxSize)
	assert.Equal(t, "jpg", cfg.Format)
	assert.Equal(t, 80, cfg.Quality)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("V2I_FRAMES", "12")
	t.Setenv("V2I_FORMAT", "webp")
	t.Setenv("V2I_QUALITY", "55")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Frames)
	assert.Equal(t, "webp", cfg.Format)
	assert.Equal(t, 55, cfg.Quality)
}

func TestValidate(t *testing.T) {
	base := func() *Options {
		cfg, err := Load(context.Background())
		require.NoError(t, err)
		return cfg
	}

	t.Run("quality out of range", func(t *testing.T) {
		cfg := base()
		cfg.Quality = 0
		require.Error(t, cfg.Validate())

		cfg.Quality = 101
		require.Error(t, cfg.Validate())
	})

	t.Run("max size out of range", func(t *testing.T) {
		cfg := base()
		cfg.MaxSize = 15
		require.Error(t, cfg.Validate())

		cfg.MaxSize = 20000
		require.Error(t, cfg.Validate())
	})

	t.Run("unknown format", func(t *testing.T) {
		cfg := base()
		cfg.Format = "bmp"
		require.Error(t, cfg.Validate())
	})

	t.Run("frames must be positive", func(t *testing.T) {
		cfg := base()
		cfg.Frames = 0
		require.Error(t, cfg.Validate())
	})
}

func TestNewLogger(t *testing.T) {
	cfg := &Options{LogFormat: "json", LogLevel: "debug"}
	logger := cfg.NewLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	cfg = &Options{LogFormat: "text", LogLevel: "nonsense"}
	logger = cfg.NewLogger()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
