package clipboard

import (
	"context"
	"os"
	"strings"
)

// windowsClipboard uses PowerShell's System.Windows.Forms.Clipboard. GIF
// data rarely survives the Windows clipboard as raw bytes; it almost
// always arrives as a file drop, which the file-reference path covers.
type windowsClipboard struct{}

func (c *windowsClipboard) Read(ctx context.Context) (string, Kind, error) {
	switch c.contentKind(ctx) {
	case KindFile:
		if path := c.filePath(ctx); path != "" {
			return path, KindFile, nil
		}
		return "", KindEmpty, ErrEmptyClipboard
	case KindImage:
		path, err := c.export(ctx)
		if err != nil {
			return "", KindEmpty, err
		}
		return path, KindImage, nil
	default:
		return "", KindEmpty, ErrEmptyClipboard
	}
}

func (c *windowsClipboard) Check() Report {
	tools := map[string]bool{
		"powershell": toolAvailable("powershell"),
	}
	return Report{
		Platform: "windows",
		Tools:    tools,
		Ready:    tools["powershell"],
	}
}

func (c *windowsClipboard) contentKind(ctx context.Context) Kind {
	script := `Add-Type -AssemblyName System.Windows.Forms
$cb = [System.Windows.Forms.Clipboard]
if ($cb::ContainsFileDropList()) { Write-Output "file" }
elseif ($cb::ContainsImage()) { Write-Output "image" }
else { Write-Output "empty" }`
	out, err := runTool(ctx, "powershell", "-Command", script)
	if err != nil {
		return KindEmpty
	}
	switch strings.TrimSpace(strings.ToLower(string(out))) {
	case "file":
		return KindFile
	case "image":
		return KindImage
	default:
		return KindEmpty
	}
}

func (c *windowsClipboard) filePath(ctx context.Context) string {
	script := `Add-Type -AssemblyName System.Windows.Forms
$files = [System.Windows.Forms.Clipboard]::GetFileDropList()
foreach ($f in $files) { Write-Output $f }`
	out, err := runTool(ctx, "powershell", "-Command", script)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(out), "\n") {
		path := strings.TrimSpace(line)
		if path == "" {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return path
		}
	}
	return ""
}

func (c *windowsClipboard) export(ctx context.Context) (string, error) {
	path, err := tempClipboardFile(".png")
	if err != nil {
		return "", err
	}

	script := `Add-Type -AssemblyName System.Windows.Forms
$img = [System.Windows.Forms.Clipboard]::GetImage()
if ($img -ne $null) {
    $img.Save("` + escapePowerShell(path) + `")
    Write-Output "saved"
}`
	out, err := runTool(ctx, "powershell", "-Command", script)
	if err != nil || !strings.Contains(string(out), "saved") || !fileNonEmpty(path) {
		discardEmpty(path)
		_ = os.Remove(path)
		return "", ErrEmptyClipboard
	}
	return path, nil
}

// escapePowerShell escapes a string for a PowerShell double-quoted
// literal: backticks, quotes, and dollar signs.
func escapePowerShell(s string) string {
	s = strings.ReplaceAll(s, "`", "``")
	s = strings.ReplaceAll(s, `"`, "`\"")
	return strings.ReplaceAll(s, "$", "`$")
}
