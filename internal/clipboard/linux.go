package clipboard

import (
	"context"
	"net/url"
	"os"
	"strings"
)

// linuxClipboard handles both display servers: wl-paste under Wayland,
// xclip under X11.
type linuxClipboard struct{}

func (c *linuxClipboard) Read(ctx context.Context) (string, Kind, error) {
	kind := c.contentKind(ctx)
	switch kind {
	case KindFile:
		if path := c.filePath(ctx); path != "" {
			return path, KindFile, nil
		}
		return "", KindEmpty, ErrEmptyClipboard
	case KindGIF, KindImage:
		path, err := c.export(ctx, kind == KindGIF)
		if err != nil {
			return "", KindEmpty, err
		}
		return path, kind, nil
	default:
		return "", KindEmpty, ErrEmptyClipboard
	}
}

func (c *linuxClipboard) Check() Report {
	r := Report{Platform: "linux", Tools: map[string]bool{}}
	if isWayland() {
		r.DisplayServer = "wayland"
		r.Tools["wl-paste"] = toolAvailable("wl-paste")
		r.Ready = r.Tools["wl-paste"]
	} else {
		r.DisplayServer = "x11"
		r.Tools["xclip"] = toolAvailable("xclip")
		r.Ready = r.Tools["xclip"]
	}
	return r
}

func isWayland() bool {
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// contentKind lists the advertised clipboard targets and classifies them.
func (c *linuxClipboard) contentKind(ctx context.Context) Kind {
	var (
		out []byte
		err error
	)
	if isWayland() {
		if !toolAvailable("wl-paste") {
			return KindEmpty
		}
		out, err = runTool(ctx, "wl-paste", "--list-types")
	} else {
		if !toolAvailable("xclip") {
			return KindEmpty
		}
		out, err = runTool(ctx, "xclip", "-selection", "clipboard", "-t", "TARGETS", "-o")
	}
	if err != nil {
		return KindEmpty
	}

	kind := classifyTargets(string(out))
	if kind == KindFile {
		// Only treat a URI list as a file reference when it resolves.
		if c.filePath(ctx) == "" {
			return KindEmpty
		}
	}
	return kind
}

// classifyTargets maps a MIME target list to a content kind. File
// references win over raw image data, GIF over other image types.
func classifyTargets(targets string) Kind {
	t := strings.ToLower(targets)
	switch {
	case strings.Contains(t, "text/uri-list"):
		return KindFile
	case strings.Contains(t, "image/gif"):
		return KindGIF
	case strings.Contains(t, "image/png"),
		strings.Contains(t, "image/jpeg"),
		strings.Contains(t, "image/bmp"):
		return KindImage
	default:
		return KindEmpty
	}
}

// filePath reads the first entry of the uri-list target and turns it into
// a local path.
func (c *linuxClipboard) filePath(ctx context.Context) string {
	var (
		out []byte
		err error
	)
	if isWayland() {
		out, err = runTool(ctx, "wl-paste", "--type", "text/uri-list")
	} else {
		out, err = runTool(ctx, "xclip", "-selection", "clipboard", "-t", "text/uri-list", "-o")
	}
	if err != nil {
		return ""
	}

	uri := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	path := uriToPath(uri)
	if path == "" {
		return ""
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return ""
	}
	return path
}

// uriToPath converts a file:// URI into a local path, undoing percent
// encoding.
func uriToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return ""
	}
	path := strings.TrimPrefix(uri, "file://")
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return path
}

// export dumps clipboard image bytes into a fresh temp file.
func (c *linuxClipboard) export(ctx context.Context, asGIF bool) (string, error) {
	mime, ext := "image/png", ".png"
	if asGIF {
		mime, ext = "image/gif", ".gif"
	}

	var (
		out []byte
		err error
	)
	if isWayland() {
		out, err = runTool(ctx, "wl-paste", "--type", mime)
	} else {
		out, err = runTool(ctx, "xclip", "-selection", "clipboard", "-t", mime, "-o")
	}
	if err != nil || len(out) == 0 {
		return "", ErrEmptyClipboard
	}

	path, err := tempClipboardFile(ext)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
