package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Local writes images below a directory and serves them under a URL prefix.
// Meant for development and single-node deployments.
type Local struct {
	basePath  string // filesystem root, e.g. "./media"
	urlPrefix string // URL prefix for served files, e.g. "/media"
}

// NewLocal creates a filesystem-backed store rooted at basePath whose files
// are reachable under urlPrefix.
func NewLocal(basePath, urlPrefix string) *Local {
	return &Local{
		basePath:  basePath,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

// Put writes to a temporary file next to the destination and renames it into
// place, so readers never see a partially written image.
func (l *Local) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", fmt.Errorf("storing %q: %w", key, err)
	}

	dest := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating file %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing file %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("writing file %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("writing file %s: %w", key, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("moving file %s into place: %w", key, err)
	}

	return l.urlPrefix + "/" + key, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	path := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing file %s: %w", key, err)
	}
	return nil
}

// Handler serves stored files under the configured URL prefix. Directory
// listings are disabled.
func (l *Local) Handler() http.Handler {
	fs := http.FileServer(http.Dir(l.basePath))
	return http.StripPrefix(l.urlPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// URLPrefix is the path prefix files are served under.
func (l *Local) URLPrefix() string {
	return l.urlPrefix
}
