package cli

import (
	"fmt"
	"os/exec"

	"github.com/v2i-cli/v2i/internal/bootstrap"
	"github.com/v2i-cli/v2i/internal/probe"
)

// printInfo dumps the probed metadata for the --info mode.
func printInfo(path string, info *probe.MediaInfo) {
	fmt.Printf("\n  Path: %s\n", path)
	fmt.Printf("  Format: %s\n", info.Format)
	fmt.Printf("  Dimensions: %dx%d\n", info.Width, info.Height)
	fmt.Printf("  Duration: %.2fs\n", info.Duration)
	fmt.Printf("  Frames: %d\n", info.FrameCount)
	if info.FPS > 0 {
		fmt.Printf("  FPS: %.1f\n", info.FPS)
	}
	if info.Codec != "" {
		fmt.Printf("  Codec: %s\n", info.Codec)
	}
}

// runCheck reports on external tool availability.
func runCheck(deps *bootstrap.Dependencies) error {
	fmt.Println(bold("v2i dependency check"))
	fmt.Println()

	allOK := true

	ffmpegOK := toolInPath("ffmpeg")
	fmt.Printf("  ffmpeg: %s\n", installedStatus(ffmpegOK))
	if !ffmpegOK {
		fmt.Println(dim("    Required for video extraction. Install: brew/apt/choco install ffmpeg"))
		allOK = false
	}

	ffprobeOK := toolInPath("ffprobe")
	fmt.Printf("  ffprobe: %s\n", installedStatus(ffprobeOK))
	if !ffprobeOK {
		fmt.Println(dim("    Required for video metadata. Usually ships with ffmpeg."))
		allOK = false
	}

	if deps.Clipboard != nil {
		report := deps.Clipboard.Check()
		fmt.Printf("\n  Platform: %s\n", report.Platform)
		if report.DisplayServer != "" {
			fmt.Printf("  Display: %s\n", report.DisplayServer)
		}
		fmt.Println("  Clipboard tools:")
		for tool, available := range report.Tools {
			mark := green("✓")
			if !available {
				mark = yellow("✗")
			}
			fmt.Printf("    %s %s\n", mark, tool)
		}
		if !report.Ready {
			allOK = false
			switch {
			case report.DisplayServer == "wayland":
				fmt.Println(dim("    Install: sudo apt install wl-clipboard"))
			case report.DisplayServer == "x11":
				fmt.Println(dim("    Install: sudo apt install xclip"))
			case report.Platform == "darwin":
				fmt.Println(dim("    Optional: brew install pngpaste (for better image support)"))
			}
		}
	}

	fmt.Println()
	if allOK {
		fmt.Println(green("All dependencies satisfied!"))
		return nil
	}
	fmt.Println(yellow("Some dependencies missing (see above)"))
	return nil
}

func toolInPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func installedStatus(ok bool) string {
	if ok {
		return green("✓ installed")
	}
	return yellow("✗ not found")
}
