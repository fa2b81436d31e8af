package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ffprobeTimeout bounds a single metadata pull.
const ffprobeTimeout = 30 * time.Second

// defaultVideoFPS is used when the reported frame rate is malformed or has
// a zero denominator.
const defaultVideoFPS = 30.0

// ffprobeBackend shells out to ffprobe and reads its JSON output. It covers
// everything the image decoders cannot open, which in practice means video
// containers and GIFs arriving with exotic headers.
type ffprobeBackend struct {
	ffprobePath string
}

// newFFprobeBackend creates the backend. If ffprobePath is empty, "ffprobe"
// is resolved via PATH.
func newFFprobeBackend(ffprobePath string) *ffprobeBackend {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &ffprobeBackend{ffprobePath: ffprobePath}
}

// ffprobeResult mirrors the subset of ffprobe's -print_format json output
// that the prober consumes.
type ffprobeResult struct {
	Streams []ffprobeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type ffprobeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Duration   string `json:"duration"`
	RFrameRate string `json:"r_frame_rate"`
	NbFrames   string `json:"nb_frames"`
}

func (b *ffprobeBackend) inspect(ctx context.Context, path string) (*MediaInfo, error) {
	if _, err := exec.LookPath(b.ffprobePath); err != nil {
		return nil, errUnrecognized
	}

	ctx, cancel := context.WithTimeout(ctx, ffprobeTimeout)
	defer cancel()

	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, b.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, errUnrecognized
	}

	var result ffprobeResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, errUnrecognized
	}

	info, err := infoFromProbe(path, &result)
	if err != nil {
		return nil, errUnrecognized
	}
	return info, nil
}

// infoFromProbe normalizes ffprobe output into a MediaInfo. It takes the
// first video stream, reading duration from the stream with a fallback to
// the container, and derives the frame count from duration and fps when
// the stream does not report one.
func infoFromProbe(path string, result *ffprobeResult) (*MediaInfo, error) {
	var video *ffprobeStream
	for i := range result.Streams {
		if result.Streams[i].CodecType == "video" {
			video = &result.Streams[i]
			break
		}
	}
	if video == nil {
		return nil, fmt.Errorf("no video stream in %s", path)
	}

	duration := parseSeconds(video.Duration)
	if duration == 0 {
		duration = parseSeconds(result.Format.Duration)
	}

	fps := parseFrameRate(video.RFrameRate)

	frameCount, _ := strconv.Atoi(video.NbFrames)
	if frameCount == 0 && duration > 0 {
		frameCount = int(math.Round(duration * fps))
	}

	format := FormatVideo
	if video.CodecName == "gif" {
		format = FormatGIF
	}

	return &MediaInfo{
		Path:       path,
		Width:      video.Width,
		Height:     video.Height,
		Duration:   duration,
		FrameCount: frameCount,
		FPS:        fps,
		Format:     format,
		Codec:      video.CodecName,
	}, nil
}

// parseFrameRate parses ffprobe's r_frame_rate field, usually a ratio like
// "30000/1001". A malformed value or zero denominator yields exactly 30.0.
func parseFrameRate(s string) float64 {
	if s == "" {
		return defaultVideoFPS
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)
		if errN != nil || errD != nil || d == 0 {
			return defaultVideoFPS
		}
		return n / d
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVideoFPS
	}
	return f
}

// parseSeconds parses a decimal seconds field, returning 0 when absent or
// malformed.
func parseSeconds(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
