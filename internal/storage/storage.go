// Package storage abstracts where uploaded photo files live. An Azure blob
// container is used when a connection string is configured, otherwise files
// land on the local disk under the app's static directory.
package storage

import (
	"context"
	"errors"
	"fmt"

	"photoshare/internal/config"
)

// ErrNotConfigured is returned by the selector when neither Azure nor a
// local upload directory is available.
var ErrNotConfigured = errors.New("storage: no backend configured")

// Backend stores and removes uploaded files. Put returns a public locator
// (an absolute URL for Azure, a site-relative path for local disk) that is
// persisted on the photo row and rendered directly by clients.
type Backend interface {
	Put(ctx context.Context, name string, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, locator string) error
	Kind() string
}

// New selects a backend from configuration. Azure wins when a connection
// string is present; otherwise local disk is used.
func New(cfg *config.Config) (Backend, error) {
	if cfg.AzureConnectionString != "" {
		b, err := NewAzureBackend(cfg.AzureConnectionString, cfg.AzureContainer)
		if err != nil {
			return nil, fmt.Errorf("storage: init azure backend: %w", err)
		}
		return b, nil
	}
	if cfg.UploadDir != "" {
		return NewLocalBackend(cfg.UploadDir, cfg.PublicBaseURL)
	}
	return nil, ErrNotConfigured
}
