// Package clipboard reads image, GIF, and file-reference content from the
// system clipboard. Each platform gets one adapter built on its native
// inspection and export tools; the adapter is picked by a runtime platform
// check, never by build tags, since every backend is plain tool invocation.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Static errors for clipboard access.
var (
	// ErrEmptyClipboard is returned when the clipboard holds nothing usable.
	ErrEmptyClipboard = errors.New("clipboard is empty or does not contain an image/GIF")
	// ErrUnsupportedPlatform is returned on platforms without an adapter.
	ErrUnsupportedPlatform = errors.New("clipboard access is not supported on this platform")
)

// toolTimeout bounds every clipboard tool invocation.
const toolTimeout = 10 * time.Second

// Kind is the coarse content classification of the clipboard.
type Kind string

// Clipboard content kinds.
const (
	KindImage Kind = "image"
	KindGIF   Kind = "gif"
	KindFile  Kind = "file"
	KindEmpty Kind = "empty"
)

// Clipboard is the capability the pipeline needs from a platform: hand
// back a local file plus a coarse content-type tag. For KindFile the path
// is the user's own file; for KindImage and KindGIF it is a freshly
// created temp file owned by the caller.
type Clipboard interface {
	Read(ctx context.Context) (path string, kind Kind, err error)
	Check() Report
}

// Report describes clipboard tool availability for the --check mode.
type Report struct {
	Platform      string
	DisplayServer string
	Tools         map[string]bool
	Ready         bool
}

// ForPlatform returns the adapter for the given GOOS value, or an error
// for platforms without one.
func ForPlatform(goos string) (Clipboard, error) {
	switch goos {
	case "darwin":
		return &darwinClipboard{}, nil
	case "linux":
		return &linuxClipboard{}, nil
	case "windows":
		return &windowsClipboard{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// System returns the adapter for the current platform.
func System() (Clipboard, error) {
	return ForPlatform(runtime.GOOS)
}

// runTool executes a clipboard tool under the shared timeout and returns
// its stdout. A non-zero exit or missing binary comes back as an error.
func runTool(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	// #nosec G204 - tool names and args are fixed per platform
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// toolAvailable reports whether a binary can be found in PATH.
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// tempClipboardFile creates an empty caller-owned temp file for exported
// clipboard data.
func tempClipboardFile(ext string) (string, error) {
	f, err := os.CreateTemp("", "v2i_clipboard_*"+ext)
	if err != nil {
		return "", fmt.Errorf("create clipboard temp file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close clipboard temp file: %w", err)
	}
	return name, nil
}

// discardEmpty removes a temp file left behind by a failed export.
func discardEmpty(path string) {
	if fi, err := os.Stat(path); err == nil && fi.Size() == 0 {
		_ = os.Remove(path)
	}
}
