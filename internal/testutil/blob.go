package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fv-go/internal/blob"
	"fv-go/internal/fv"
)

// NewTestBlobStore creates a new in-memory blob store for testing.
func NewTestBlobStore() *blob.MemoryBlobStore {
	return blob.NewMemoryBlobStore()
}

// FailingBlobStore wraps a BlobStore and fails uploads whose key contains
// any of the configured substrings.
type FailingBlobStore struct {
	Inner   fv.BlobStore
	FailOn  []string
	ErrText string
}

// NewFailingBlobStore wraps inner, failing uploads whose key contains any of
// the given substrings.
func NewFailingBlobStore(inner fv.BlobStore, failOn ...string) *FailingBlobStore {
	return &FailingBlobStore{Inner: inner, FailOn: failOn, ErrText: "injected upload failure"}
}

func (f *FailingBlobStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*fv.BlobRef, error) {
	for _, s := range f.FailOn {
		if strings.Contains(key, s) {
			return nil, fmt.Errorf("%s: %s", f.ErrText, key)
		}
	}
	return f.Inner.Upload(ctx, key, r, size, contentType)
}

func (f *FailingBlobStore) Download(ctx context.Context, key string, w io.Writer) error {
	return f.Inner.Download(ctx, key, w)
}

func (f *FailingBlobStore) ValidateSetup() error {
	return f.Inner.ValidateSetup()
}

// Compile-time check that FailingBlobStore implements fv.BlobStore
var _ fv.BlobStore = (*FailingBlobStore)(nil)
