package optimize

import (
	"fmt"
	"image"
	"os"
)

// FileSize returns the size of a file in bytes, or 0 when it cannot be
// read.
func FileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// TotalSize sums the sizes of the given files, skipping any that are
// missing.
func TotalSize(paths []string) int64 {
	var total int64
	for _, p := range paths {
		total += FileSize(p)
	}
	return total
}

// FormatSize renders a byte count for display.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

// TokenEstimate gives a rough vision-model token cost for the images,
// around 750 tokens per megapixel. Actual costs vary by model.
func TokenEstimate(paths []string) int {
	var pixels int64
	for _, p := range paths {
		f, err := os.Open(p) // #nosec G304 - paths are produced by this tool
		if err != nil {
			continue
		}
		cfg, _, err := image.DecodeConfig(f)
		_ = f.Close()
		if err != nil {
			continue
		}
		pixels += int64(cfg.Width) * int64(cfg.Height)
	}
	return int(pixels * 750 / 1_000_000)
}
