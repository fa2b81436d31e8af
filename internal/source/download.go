package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrTransferFailed is returned when a remote source cannot be fetched.
var ErrTransferFailed = errors.New("download failed")

// Downloader fetches HTTP(S) sources into caller-owned temp files.
type Downloader struct {
	client *http.Client
}

// NewDownloader creates a Downloader. A nil client falls back to
// http.DefaultClient.
func NewDownloader(client *http.Client) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{client: client}
}

// Fetch downloads rawURL into a fresh temp directory and returns the
// local path. The filename comes from the URL path; an extension-less
// name is corrected after sniffing the downloaded bytes.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %s", ErrTransferFailed, rawURL, resp.Status)
	}

	dir, err := os.MkdirTemp("", "v2i_download_")
	if err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	name, hadExt := filenameFromURL(rawURL)
	dst := filepath.Join(dir, name)

	out, err := os.Create(dst) // #nosec G304 - path is inside our fresh temp dir
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("create download file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if err := out.Close(); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("close download file: %w", err)
	}

	if !hadExt {
		if fixed, err := fixExtension(dst); err == nil {
			dst = fixed
		}
	}
	return dst, nil
}

// filenameFromURL derives a local filename from the URL path. When the
// path carries no usable name or extension, a provisional .mp4 suffix is
// attached and corrected after sniffing.
func filenameFromURL(rawURL string) (name string, hadExt bool) {
	name = "download"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			name = base
		}
	}
	if strings.Contains(name, ".") {
		return name, true
	}
	return name + ".mp4", false
}

// fixExtension renames the file to match its sniffed content type.
func fixExtension(p string) (string, error) {
	mt, err := mimetype.DetectFile(p)
	if err != nil || mt.Extension() == "" {
		return p, err
	}
	fixed := strings.TrimSuffix(p, filepath.Ext(p)) + mt.Extension()
	if fixed == p {
		return p, nil
	}
	if err := os.Rename(p, fixed); err != nil {
		return p, err
	}
	return fixed, nil
}
