// Package sample computes deterministic frame-sampling plans: which frames
// to pull from an index-addressable source (GIF) or at what rate to decode
// a time-addressable one (video).
package sample

// MinTargetFPS is the floor for the derived video sampling rate. Rates
// below it make ffmpeg's fps filter misbehave on short inputs.
const MinTargetFPS = 0.1

// Plan describes how the extractor should pull frames. Exactly one of the
// two addressing modes is populated. The sampler trusts its inputs; any
// clamping of the requested count happens at the orchestration layer.
type Plan struct {
	// Indices holds the 0-based frame indices to extract, strictly
	// increasing, for index-addressable sources.
	Indices []int
	// TargetFPS is the derived decode rate for time-addressable sources.
	// Zero means the decoder should emit the first Limit frames in decode
	// order with no rate filter.
	TargetFPS float64
	// Limit caps the number of artifacts the extractor may produce.
	Limit int
}

// ForGIF plans a uniform spread over totalFrames. When the source has no
// more frames than requested, every index is selected. Otherwise the step
// is real-valued and each pick is floor(i*step), which always includes
// index 0.
func ForGIF(totalFrames, requested int) Plan {
	var indices []int
	if totalFrames <= requested {
		indices = make([]int, 0, totalFrames)
		for i := 0; i < totalFrames; i++ {
			indices = append(indices, i)
		}
	} else {
		step := float64(totalFrames) / float64(requested)
		indices = make([]int, 0, requested)
		for i := 0; i < requested; i++ {
			indices = append(indices, int(float64(i)*step))
		}
	}
	return Plan{Indices: indices, Limit: requested}
}

// ForVideo plans a decode rate that yields roughly requested frames over
// duration. An unknown duration (<= 0) means the first requested frames
// are taken in decode order instead. Excess decoder output beyond Limit is
// the extractor's problem, not the sampler's.
func ForVideo(duration float64, requested int) Plan {
	if duration <= 0 {
		return Plan{Limit: requested}
	}
	fps := float64(requested) / duration
	if fps < MinTargetFPS {
		fps = MinTargetFPS
	}
	return Plan{TargetFPS: fps, Limit: requested}
}
