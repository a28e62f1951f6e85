package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"fv-go/internal/fv"
)

// memoryObject holds one stored blob.
type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryBlobStore is an in-memory implementation of the BlobStore interface.
// It is useful for testing. Uploads to the same key overwrite the previous
// object. This implementation is safe for concurrent use.
type MemoryBlobStore struct {
	objects map[string]memoryObject
	mu      sync.RWMutex
}

// NewMemoryBlobStore creates a new in-memory blob store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		objects: make(map[string]memoryObject),
	}
}

// Upload stores the blob under key, replacing any previous object.
func (m *MemoryBlobStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*fv.BlobRef, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	if int64(len(data)) != size {
		return nil, fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = memoryObject{data: data, contentType: contentType}
	return &fv.BlobRef{
		ID:          key,
		URL:         "memory://" + key,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// Download retrieves the blob stored under key.
func (m *MemoryBlobStore) Download(ctx context.Context, key string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return fmt.Errorf("blob not found: %s", key)
	}

	if _, err := io.Copy(w, bytes.NewReader(obj.data)); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

// ValidateSetup always succeeds for in-memory storage.
func (m *MemoryBlobStore) ValidateSetup() error {
	return nil
}

// Len returns the number of stored objects. Intended for tests.
func (m *MemoryBlobStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Compile-time check that MemoryBlobStore implements fv.BlobStore interface
var _ fv.BlobStore = (*MemoryBlobStore)(nil)
