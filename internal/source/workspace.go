// Package source resolves a user-supplied source (clipboard, URL, S3
// object, or local path) into a local file and owns the temporary
// directories the run needs.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace is a scoped temporary directory for raw frames and fetched
// sources. It is created before use and must be removed on every exit
// path; removal failures are swallowed so they never mask the primary
// error.
type Workspace struct {
	root string
}

// NewWorkspace creates a fresh temporary directory.
func NewWorkspace() (*Workspace, error) {
	root, err := os.MkdirTemp("", "v2i_temp_")
	if err != nil {
		return nil, fmt.Errorf("create temp workspace: %w", err)
	}
	return &Workspace{root: root}, nil
}

// Root returns the workspace directory path.
func (w *Workspace) Root() string {
	return w.root
}

// Cleanup removes the workspace and everything in it.
func (w *Workspace) Cleanup() {
	_ = os.RemoveAll(w.root)
}

// RemoveTempSource deletes a temp source file, and its parent directory
// when that parent also lives under the system temp dir. Used for
// downloaded and clipboard-derived sources; never for user files.
func RemoveTempSource(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)

	parent := filepath.Dir(path)
	if strings.HasPrefix(parent, os.TempDir()) && parent != os.TempDir() {
		_ = os.RemoveAll(parent)
	}
}
