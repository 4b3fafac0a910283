package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	"photoshare/internal/observability"
)

// AzureBackend stores uploads as blobs in a single container.
type AzureBackend struct {
	client    *azblob.Client
	container string
}

// NewAzureBackend builds a backend from an Azure storage connection string.
// The container must already exist; creation is an operator concern.
func NewAzureBackend(connectionString, container string) (*AzureBackend, error) {
	if container == "" {
		return nil, fmt.Errorf("azure container name is required")
	}
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, err
	}
	return &AzureBackend{client: client, container: container}, nil
}

func (a *AzureBackend) Kind() string { return "azure" }

// Put uploads the blob and returns its public URL.
func (a *AzureBackend) Put(ctx context.Context, name string, contentType string, data []byte) (string, error) {
	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}
	if _, err := a.client.UploadBuffer(ctx, a.container, name, data, opts); err != nil {
		observability.StorageErrors.WithLabelValues("put", a.Kind()).Inc()
		return "", fmt.Errorf("upload blob %q: %w", name, err)
	}
	return a.blobURL(name), nil
}

// Delete removes the blob the locator points at. Unknown locators are
// rejected rather than guessed at.
func (a *AzureBackend) Delete(ctx context.Context, locator string) error {
	name, ok := a.blobName(locator)
	if !ok {
		return fmt.Errorf("locator %q does not belong to container %q", locator, a.container)
	}
	if _, err := a.client.DeleteBlob(ctx, a.container, name, nil); err != nil {
		observability.StorageErrors.WithLabelValues("delete", a.Kind()).Inc()
		return fmt.Errorf("delete blob %q: %w", name, err)
	}
	return nil
}

func (a *AzureBackend) blobURL(name string) string {
	base := strings.TrimSuffix(a.client.URL(), "/")
	return base + "/" + a.container + "/" + name
}

// blobName extracts the blob name from a URL produced by blobURL.
func (a *AzureBackend) blobName(locator string) (string, bool) {
	marker := "/" + a.container + "/"
	idx := strings.Index(locator, marker)
	if idx < 0 {
		return "", false
	}
	name := locator[idx+len(marker):]
	if name == "" {
		return "", false
	}
	return name, true
}
