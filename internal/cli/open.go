package cli

import (
	"os/exec"
	"runtime"
)

// openFolder shows the directory in the platform file manager. Failures
// are ignored; this is a convenience, not part of the run's outcome.
func openFolder(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	_ = cmd.Start()
}
