package probe

import "fmt"

// Format classifies a probed file and drives which extraction strategy
// the caller picks.
type Format string

// Media format classes.
const (
	FormatVideo Format = "video"
	FormatGIF   Format = "gif"
	FormatImage Format = "image"
)

// MediaInfo is an immutable snapshot of a probed media file. It is built
// once per Probe call and never cached across invocations.
type MediaInfo struct {
	// Path is the absolute path of the probed file.
	Path string
	// Width and Height are the pixel dimensions; zero only when unknown.
	Width  int
	Height int
	// Duration is the playback length in seconds; zero means unknown or
	// static.
	Duration float64
	// FrameCount is the number of frames; 1 for a static image. It may be
	// zero for a video whose duration could not be determined.
	FrameCount int
	// FPS is the frame rate; zero when not applicable.
	FPS float64
	// Format classifies the container. A video stream carrying a GIF codec
	// is reclassified as FormatGIF.
	Format Format
	// Codec is informational only and may be empty.
	Codec string
}

// IsAnimated reports whether the file has more than one frame.
func (m *MediaInfo) IsAnimated() bool {
	return m.FrameCount > 1
}

// String renders a one-line human-readable summary.
func (m *MediaInfo) String() string {
	switch m.Format {
	case FormatGIF:
		return fmt.Sprintf("GIF %dx%d, %d frames, %.1fs", m.Width, m.Height, m.FrameCount, m.Duration)
	case FormatVideo:
		return fmt.Sprintf("Video %dx%d, %.1fs, %.1ffps", m.Width, m.Height, m.Duration, m.FPS)
	default:
		return fmt.Sprintf("Image %dx%d", m.Width, m.Height)
	}
}
