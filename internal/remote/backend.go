// Package remote provides object storage backends for the remote
// push/pull commands. S3-compatible stores and Azure Blob containers
// share one interface.
package remote

import (
	"context"
	"time"
)

// Object describes one remote entry.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
	IsDir        bool // Common prefix, for hierarchical listings
}

// Backend is the operation surface every remote store implements. All
// keys are slash-separated and relative to the configured bucket or
// container.
type Backend interface {
	// List returns objects under prefix, one level deep (directory-style
	// listing with common prefixes marked IsDir).
	List(ctx context.Context, prefix string) ([]Object, error)

	// Upload stores the local file at the given key. onBytes, if
	// non-nil, receives chunk sizes as the upload progresses.
	Upload(ctx context.Context, localPath, key string, onBytes func(int64)) error

	// Download fetches the object at key into localPath.
	Download(ctx context.Context, key, localPath string, onBytes func(int64)) error

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error

	// Stat returns metadata for a single object.
	Stat(ctx context.Context, key string) (Object, error)
}
