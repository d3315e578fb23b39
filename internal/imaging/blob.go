package imaging

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobScheme prefixes image paths that live in blob storage.
const BlobScheme = "azblob://"

// BlobSource downloads encoded images from object storage.
type BlobSource interface {
	Fetch(ctx context.Context, container, blob string) ([]byte, error)
}

// ParseBlobPath splits azblob://container/path/to/blob into its container and
// blob name. ok is false for anything else, including local paths.
func ParseBlobPath(path string) (container, blob string, ok bool) {
	rest, found := strings.CutPrefix(path, BlobScheme)
	if !found {
		return "", "", false
	}
	container, blob, found = strings.Cut(rest, "/")
	if !found || container == "" || blob == "" {
		return "", "", false
	}
	return container, blob, true
}

type azureBlobSource struct {
	client *azblob.Client
}

// NewAzureBlobSource returns a BlobSource for the given storage account using
// shared key authentication.
func NewAzureBlobSource(accountName, accountKey string) (BlobSource, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid storage credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &azureBlobSource{client: client}, nil
}

func (s *azureBlobSource) Fetch(ctx context.Context, container, blob string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s failed: %w", container, blob, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s/%s failed: %w", container, blob, err)
	}
	return data, nil
}
