package fv

import (
	"context"
	"io"
)

// BlobRef is the stable reference returned by a blob upload.
type BlobRef struct {
	ID          string // backend object id (the destination key)
	URL         string // retrievable URL
	Size        int64
	ContentType string
}

// BlobStore provides an interface for opaque payload storage in a remote
// object store. All operations stream through io.Reader/io.Writer so memory
// use is independent of payload size.
type BlobStore interface {
	// Upload stores the payload under the destination key and returns its
	// reference. Uploading to an existing key overwrites the stored content
	// (last-write-wins). Failures propagate to the caller with no retry;
	// blobs from prior node versions are never deleted here.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*BlobRef, error)

	// Download retrieves the payload stored under key and writes it to w.
	Download(ctx context.Context, key string, w io.Writer) error

	// ValidateSetup verifies that the backend is accessible and properly
	// configured.
	ValidateSetup() error
}
