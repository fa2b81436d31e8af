package clipboard

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// darwinClipboard reads the macOS pasteboard through osascript, with
// pngpaste as a faster export path when installed.
type darwinClipboard struct{}

func (c *darwinClipboard) Read(ctx context.Context) (string, Kind, error) {
	switch c.contentKind(ctx) {
	case KindFile:
		if path := c.filePath(ctx); path != "" {
			return path, KindFile, nil
		}
		return "", KindEmpty, ErrEmptyClipboard
	case KindGIF:
		path, err := c.export(ctx, true)
		if err != nil {
			return "", KindEmpty, err
		}
		return path, KindGIF, nil
	case KindImage:
		path, err := c.export(ctx, false)
		if err != nil {
			return "", KindEmpty, err
		}
		return path, KindImage, nil
	default:
		return "", KindEmpty, ErrEmptyClipboard
	}
}

func (c *darwinClipboard) Check() Report {
	tools := map[string]bool{
		"osascript": toolAvailable("osascript"),
		"pngpaste":  toolAvailable("pngpaste"),
	}
	return Report{
		Platform: "darwin",
		Tools:    tools,
		Ready:    tools["osascript"],
	}
}

// contentKind probes the pasteboard class by class: file URL first, then
// GIF data, then PNG/TIFF image data.
func (c *darwinClipboard) contentKind(ctx context.Context) Kind {
	if out, err := runTool(ctx, "osascript", "-e", `the clipboard as «class furl»`); err == nil {
		s := strings.TrimSpace(string(out))
		if strings.Contains(s, "file://") || strings.HasSuffix(strings.ToLower(s), ".gif") {
			return KindFile
		}
	}
	if out, err := runTool(ctx, "osascript", "-e", `the clipboard as «class GIFf»`); err == nil && len(out) > 0 {
		return KindGIF
	}
	for _, class := range []string{"PNGf", "TIFF"} {
		script := fmt.Sprintf("the clipboard as «class %s»", class)
		if out, err := runTool(ctx, "osascript", "-e", script); err == nil && len(out) > 0 {
			return KindImage
		}
	}
	return KindEmpty
}

// filePath resolves a copied Finder file to its POSIX path.
func (c *darwinClipboard) filePath(ctx context.Context) string {
	script := `set theFile to the clipboard as «class furl»
return POSIX path of theFile`
	if out, err := runTool(ctx, "osascript", "-e", script); err == nil {
		path := strings.TrimSpace(string(out))
		if _, statErr := os.Stat(path); statErr == nil {
			return path
		}
	}

	script = `set fileList to the clipboard as list
if (count of fileList) > 0 then
	set firstFile to item 1 of fileList
	if class of firstFile is alias then
		return POSIX path of firstFile
	end if
end if
return ""`
	if out, err := runTool(ctx, "osascript", "-e", script); err == nil {
		path := strings.TrimSpace(string(out))
		if path != "" {
			if _, statErr := os.Stat(path); statErr == nil {
				return path
			}
		}
	}
	return ""
}

// export writes the pasteboard's image data to a fresh temp file.
func (c *darwinClipboard) export(ctx context.Context, asGIF bool) (string, error) {
	ext := ".png"
	if asGIF {
		ext = ".gif"
	}
	path, err := tempClipboardFile(ext)
	if err != nil {
		return "", err
	}

	if asGIF {
		if c.writeClass(ctx, "GIFf", path) {
			return path, nil
		}
	}

	if toolAvailable("pngpaste") {
		if _, err := runTool(ctx, "pngpaste", path); err == nil && fileNonEmpty(path) {
			return path, nil
		}
	}

	if c.writeClass(ctx, "PNGf", path) {
		return path, nil
	}

	discardEmpty(path)
	_ = os.Remove(path)
	return "", ErrEmptyClipboard
}

// writeClass asks osascript to dump a pasteboard class straight to disk.
func (c *darwinClipboard) writeClass(ctx context.Context, class, path string) bool {
	script := fmt.Sprintf(`set theData to the clipboard as «class %s»
set outFile to open for access POSIX file "%s" with write permission
write theData to outFile
close access outFile`, class, escapeAppleScript(path))
	_, err := runTool(ctx, "osascript", "-e", script)
	return err == nil && fileNonEmpty(path)
}

// escapeAppleScript escapes a string for an AppleScript double-quoted
// literal: backslashes first, then quotes.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func fileNonEmpty(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Size() > 0
}
