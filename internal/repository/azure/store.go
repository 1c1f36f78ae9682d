// Package azure implements the object store over one Azure Blob Storage container.
package azure

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/model"
)

// Store reads blobs from a single container.
type Store struct {
	client    *azblob.Client
	container string
}

// New creates a Store authenticated with the storage account's shared key.
func New(accountName, accountKey, containerName string) (*Store, error) {
	if accountName == "" || accountKey == "" {
		return nil, fmt.Errorf("azure storage account name and key are required")
	}

	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}

	return &Store{client: client, container: containerName}, nil
}

// List enumerates blobs whose name starts with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]model.ObjectInfo, error) {
	pager := s.client.NewListBlobsFlatPager(s.container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	var objects []model.ObjectInfo
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, s.wrap(err, prefix)
		}

		for _, item := range page.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			obj := model.ObjectInfo{Name: *item.Name}
			if item.Properties != nil {
				if item.Properties.LastModified != nil {
					obj.LastModified = *item.Properties.LastModified
				}
				if item.Properties.ContentLength != nil {
					obj.Size = *item.Properties.ContentLength
				}
			}
			objects = append(objects, obj)
		}
	}
	return objects, nil
}

// Get downloads the content of one blob.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		return nil, s.wrap(err, name)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", blob.ErrStoreUnavailable, name, err)
	}
	return data, nil
}

// GetMetadata returns the blob's metadata with lower-cased keys.
func (s *Store) GetMetadata(ctx context.Context, name string) (map[string]string, error) {
	blobClient := s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(name)

	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		return nil, s.wrap(err, name)
	}

	metadata := make(map[string]string, len(props.Metadata))
	for k, v := range props.Metadata {
		if v != nil {
			metadata[strings.ToLower(k)] = *v
		}
	}
	return metadata, nil
}

// wrap maps SDK errors onto the store error kinds.
func (s *Store) wrap(err error, name string) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("%w: %s", blob.ErrNotFound, name)
	}
	return fmt.Errorf("%w: %s/%s: %v", blob.ErrStoreUnavailable, s.container, name, err)
}
