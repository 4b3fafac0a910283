package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"photoshare/internal/observability"
)

// LocalBackend writes uploads to a directory served under /static/uploads.
type LocalBackend struct {
	dir     string
	baseURL string
}

// NewLocalBackend ensures the upload directory exists. baseURL may be empty,
// in which case locators are site-relative paths.
func NewLocalBackend(dir, baseURL string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &LocalBackend{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (l *LocalBackend) Kind() string { return "local" }

// Put writes the file and returns its public path. Names containing path
// separators are rejected so a crafted filename cannot escape the directory.
func (l *LocalBackend) Put(_ context.Context, name string, _ string, data []byte) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		observability.StorageErrors.WithLabelValues("put", l.Kind()).Inc()
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	return l.baseURL + "/static/uploads/" + name, nil
}

// Delete removes the file a locator points at. Missing files are fine: a
// photo row may outlive its file after a partial cleanup.
func (l *LocalBackend) Delete(_ context.Context, locator string) error {
	name, ok := l.fileName(locator)
	if !ok {
		return fmt.Errorf("locator %q is not a local upload path", locator)
	}
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !os.IsNotExist(err) {
		observability.StorageErrors.WithLabelValues("delete", l.Kind()).Inc()
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return nil
}

func (l *LocalBackend) fileName(locator string) (string, bool) {
	const marker = "/static/uploads/"
	idx := strings.LastIndex(locator, marker)
	if idx < 0 {
		return "", false
	}
	name := locator[idx+len(marker):]
	if name == "" || name != filepath.Base(name) {
		return "", false
	}
	return name, true
}
