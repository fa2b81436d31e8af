package probe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"ntsc ratio", "30000/1001", 29.97},
		{"integer ratio", "30/1", 30.0},
		{"plain number", "25", 25.0},
		{"zero denominator", "30/0", 30.0},
		{"zero over zero", "0/0", 30.0},
		{"malformed", "abc", 30.0},
		{"malformed ratio", "a/b", 30.0},
		{"empty", "", 30.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, parseFrameRate(tt.input), 0.01)
		})
	}
}

func TestParseSeconds(t *testing.T) {
	assert.InDelta(t, 12.48, parseSeconds("12.480000"), 1e-9)
	assert.Zero(t, parseSeconds(""))
	assert.Zero(t, parseSeconds("N/A"))
	assert.Zero(t, parseSeconds("-3"))
}

func TestInfoFromProbe(t *testing.T) {
	t.Run("first video stream wins", func(t *testing.T) {
		result := decodeProbe(t, `{
			"streams": [
				{"codec_type": "audio", "codec_name": "aac"},
				{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
				 "duration": "10.0", "r_frame_rate": "30/1", "nb_frames": "300"},
				{"codec_type": "video", "codec_name": "mjpeg", "width": 320, "height": 240}
			],
			"format": {"duration": "10.5"}
		}`)

		info, err := infoFromProbe("/tmp/clip.mp4", result)
		require.NoError(t, err)
		assert.Equal(t, 1920, info.Width)
		assert.Equal(t, 1080, info.Height)
		assert.Equal(t, FormatVideo, info.Format)
		assert.Equal(t, "h264", info.Codec)
		assert.Equal(t, 300, info.FrameCount)
		assert.InDelta(t, 10.0, info.Duration, 1e-9)
		assert.InDelta(t, 30.0, info.FPS, 1e-9)
	})

	t.Run("duration falls back to container", func(t *testing.T) {
		result := decodeProbe(t, `{
			"streams": [
				{"codec_type": "video", "codec_name": "vp9", "width": 640, "height": 360,
				 "r_frame_rate": "24/1"}
			],
			"format": {"duration": "4.0"}
		}`)

		info, err := infoFromProbe("/tmp/clip.webm", result)
		require.NoError(t, err)
		assert.InDelta(t, 4.0, info.Duration, 1e-9)
	})

	t.Run("frame count derived from duration and fps", func(t *testing.T) {
		result := decodeProbe(t, `{
			"streams": [
				{"codec_type": "video", "codec_name": "h264", "width": 640, "height": 360,
				 "duration": "3.5", "r_frame_rate": "30000/1001"}
			],
			"format": {}
		}`)

		info, err := infoFromProbe("/tmp/clip.mp4", result)
		require.NoError(t, err)
		// round(3.5 * 29.97) = round(104.895)
		assert.Equal(t, 105, info.FrameCount)
	})

	t.Run("gif codec reclassifies the stream", func(t *testing.T) {
		result := decodeProbe(t, `{
			"streams": [
				{"codec_type": "video", "codec_name": "gif", "width": 200, "height": 100,
				 "duration": "2.0", "r_frame_rate": "10/1", "nb_frames": "20"}
			],
			"format": {}
		}`)

		info, err := infoFromProbe("/tmp/anim.gif", result)
		require.NoError(t, err)
		assert.Equal(t, FormatGIF, info.Format)
		assert.Equal(t, "gif", info.Codec)
	})

	t.Run("no video stream fails", func(t *testing.T) {
		result := decodeProbe(t, `{
			"streams": [{"codec_type": "audio", "codec_name": "mp3"}],
			"format": {"duration": "60.0"}
		}`)

		_, err := infoFromProbe("/tmp/song.mp3", result)
		require.Error(t, err)
	})
}

func decodeProbe(t *testing.T, raw string) *ffprobeResult {
	t.Helper()
	var result ffprobeResult
	require.NoError(t, json.Unmarshal([]byte(raw), &result))
	return &result
}
