package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gifHeader is enough of a GIF for content sniffing.
var gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("http://example.com/a.gif"))
	assert.True(t, IsURL("https://example.com/a.mp4"))
	assert.True(t, IsURL("s3://bucket/key.mp4"))
	assert.False(t, IsURL("./a.mp4"))
	assert.False(t, IsURL("/tmp/a.gif"))
	assert.False(t, IsURL("ftp://example.com/a.gif"))
}

func TestFilenameFromURL(t *testing.T) {
	t.Run("keeps extension", func(t *testing.T) {
		name, hadExt := filenameFromURL("https://example.com/media/clip.gif?x=1")
		assert.Equal(t, "clip.gif", name)
		assert.True(t, hadExt)
	})

	t.Run("extension-less gets provisional mp4", func(t *testing.T) {
		name, hadExt := filenameFromURL("https://example.com/media/clip")
		assert.Equal(t, "clip.mp4", name)
		assert.False(t, hadExt)
	})

	t.Run("bare host falls back to download", func(t *testing.T) {
		name, hadExt := filenameFromURL("https://example.com/")
		assert.Equal(t, "download.mp4", name)
		assert.False(t, hadExt)
	})
}

func TestDownloaderFetch(t *testing.T) {
	t.Run("downloads into temp dir", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(gifHeader)
		}))
		defer srv.Close()

		path, err := NewDownloader(srv.Client()).Fetch(context.Background(), srv.URL+"/anim.gif")
		require.NoError(t, err)
		defer RemoveTempSource(path)

		assert.Equal(t, "anim.gif", filepath.Base(path))
		data, err := os.ReadFile(path) // #nosec G304
		require.NoError(t, err)
		assert.Equal(t, gifHeader, data)
	})

	t.Run("extension-less download is sniffed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(gifHeader)
		}))
		defer srv.Close()

		path, err := NewDownloader(srv.Client()).Fetch(context.Background(), srv.URL+"/clip")
		require.NoError(t, err)
		defer RemoveTempSource(path)

		assert.True(t, strings.HasSuffix(path, ".gif"), "got %s", path)
	})

	t.Run("http error surfaces as transfer failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := NewDownloader(srv.Client()).Fetch(context.Background(), srv.URL+"/gone.gif")
		assert.ErrorIs(t, err, ErrTransferFailed)
	})
}

func TestParseS3URL(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		bucket, key, err := ParseS3URL("s3://media-bucket/clips/intro.mp4")
		require.NoError(t, err)
		assert.Equal(t, "media-bucket", bucket)
		assert.Equal(t, "clips/intro.mp4", key)
	})

	t.Run("missing key", func(t *testing.T) {
		_, _, err := ParseS3URL("s3://media-bucket")
		assert.ErrorIs(t, err, ErrTransferFailed)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, _, err := ParseS3URL("https://media-bucket/key")
		assert.ErrorIs(t, err, ErrTransferFailed)
	})
}

func TestResolver(t *testing.T) {
	t.Run("existing file resolves to absolute path", func(t *testing.T) {
		dir := t.TempDir()
		p := filepath.Join(dir, "clip.gif")
		require.NoError(t, os.WriteFile(p, gifHeader, 0600))

		r := NewResolver(nil, nil, S3Config{}, nil)
		resolved, err := r.Resolve(context.Background(), p)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(resolved.Path))
		assert.Equal(t, OriginFile, resolved.Origin)
		assert.False(t, resolved.Temp)
	})

	t.Run("missing file is not found", func(t *testing.T) {
		r := NewResolver(nil, nil, S3Config{}, nil)
		_, err := r.Resolve(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("url resolves as temp", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(gifHeader)
		}))
		defer srv.Close()

		r := NewResolver(nil, NewDownloader(srv.Client()), S3Config{}, nil)
		resolved, err := r.Resolve(context.Background(), srv.URL+"/anim.gif")
		require.NoError(t, err)
		defer RemoveTempSource(resolved.Path)

		assert.Equal(t, OriginURL, resolved.Origin)
		assert.True(t, resolved.Temp)
	})
}

func TestWorkspace(t *testing.T) {
	ws, err := NewWorkspace()
	require.NoError(t, err)

	require.DirExists(t, ws.Root())
	require.NoError(t, os.WriteFile(filepath.Join(ws.Root(), "raw_001.png"), []byte("x"), 0600))

	ws.Cleanup()
	assert.NoDirExists(t, ws.Root())
}

func TestRemoveTempSource(t *testing.T) {
	t.Run("removes file and temp parent", func(t *testing.T) {
		dir, err := os.MkdirTemp("", "v2i_download_")
		require.NoError(t, err)
		p := filepath.Join(dir, "clip.mp4")
		require.NoError(t, os.WriteFile(p, []byte("x"), 0600))

		RemoveTempSource(p)
		assert.NoFileExists(t, p)
		assert.NoDirExists(t, dir)
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		RemoveTempSource("")
	})
}
