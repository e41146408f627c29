package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/westy/filemaster/internal/config"
	"github.com/westy/filemaster/internal/constants"
)

// AzureBackend stores objects as blobs in one container. The profile's
// access key is the storage account name and the secret key the shared
// account key.
type AzureBackend struct {
	client    *azblob.Client
	container string
}

// NewAzureBackend builds a backend from a profile. A custom endpoint
// overrides the default account blob endpoint (Azurite, sovereign
// clouds).
func NewAzureBackend(profile *config.Profile) (*AzureBackend, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	serviceURL := profile.EndpointURL()
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", profile.AccessKey)
	}

	cred, err := azblob.NewSharedKeyCredential(profile.AccessKey, profile.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	return &AzureBackend{client: client, container: profile.Bucket}, nil
}

// List returns one listing level under prefix. Azure's flat namespace
// is folded into directories on "/" boundaries to match the S3 surface.
func (b *AzureBackend) List(ctx context.Context, prefix string) ([]Object, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var objects []Object
	seenDirs := make(map[string]bool)

	pager := b.client.NewListBlobsFlatPager(b.container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", b.container, prefix, err)
		}

		for _, blob := range page.Segment.BlobItems {
			if blob.Name == nil {
				continue
			}
			name := *blob.Name
			rest := strings.TrimPrefix(name, prefix)

			if idx := strings.Index(rest, "/"); idx >= 0 {
				dir := prefix + rest[:idx]
				if !seenDirs[dir] {
					seenDirs[dir] = true
					objects = append(objects, Object{Key: dir, IsDir: true})
				}
				continue
			}

			obj := Object{Key: name}
			if blob.Properties != nil {
				if blob.Properties.ContentLength != nil {
					obj.Size = *blob.Properties.ContentLength
				}
				if blob.Properties.LastModified != nil {
					obj.LastModified = *blob.Properties.LastModified
				}
			}
			objects = append(objects, obj)
		}
	}
	return objects, nil
}

// Upload stores a local file as a block blob.
func (b *AzureBackend) Upload(ctx context.Context, localPath, key string, onBytes func(int64)) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	if onBytes != nil {
		reader = &countingReader{r: f, onBytes: onBytes}
	}

	_, err = b.client.UploadStream(ctx, b.container, key, reader, &azblob.UploadStreamOptions{
		BlockSize: constants.RemoteChunkSize,
	})
	if err != nil {
		return fmt.Errorf("upload %s to %s/%s: %w", localPath, b.container, key, err)
	}
	return nil
}

// Download fetches a blob into localPath.
func (b *AzureBackend) Download(ctx context.Context, key, localPath string, onBytes func(int64)) error {
	resp, err := b.client.DownloadStream(ctx, b.container, key, nil)
	if err != nil {
		return fmt.Errorf("download %s/%s: %w", b.container, key, err)
	}
	defer resp.Body.Close()

	return writeStream(ctx, localPath, resp.Body, onBytes)
}

// Delete removes one blob.
func (b *AzureBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.client.DeleteBlob(ctx, b.container, key, nil); err != nil {
		return fmt.Errorf("delete %s/%s: %w", b.container, key, err)
	}
	return nil
}

// Stat returns metadata for one blob via a zero-range download probe.
func (b *AzureBackend) Stat(ctx context.Context, key string) (Object, error) {
	resp, err := b.client.DownloadStream(ctx, b.container, key, &azblob.DownloadStreamOptions{
		Range: azblob.HTTPRange{Offset: 0, Count: 1},
	})
	if err != nil {
		return Object{}, fmt.Errorf("stat %s/%s: %w", b.container, key, err)
	}
	defer resp.Body.Close()

	obj := Object{Key: key}
	if resp.ContentRange != nil {
		// "bytes 0-0/12345" carries the full size after the slash
		if idx := strings.LastIndex(*resp.ContentRange, "/"); idx >= 0 {
			fmt.Sscanf((*resp.ContentRange)[idx+1:], "%d", &obj.Size)
		}
	} else if resp.ContentLength != nil {
		obj.Size = *resp.ContentLength
	}
	if resp.LastModified != nil {
		obj.LastModified = *resp.LastModified
	}
	return obj, nil
}
