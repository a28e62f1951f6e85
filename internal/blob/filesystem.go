package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fv-go/internal/fv"
)

// FileSystemBlobStore stores blobs as files under a root directory. The
// slash-separated object key maps directly to a path below the root.
type FileSystemBlobStore struct {
	root string
}

// NewFileSystemBlobStore creates a new filesystem blob store rooted at the given path.
func NewFileSystemBlobStore(root string) (*FileSystemBlobStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &FileSystemBlobStore{root: root}, nil
}

// objectPath maps an object key to a filesystem path, rejecting keys that
// would escape the root.
func (v *FileSystemBlobStore) objectPath(key string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("invalid blob key: %s", key)
	}
	return filepath.Join(v.root, filepath.FromSlash(key)), nil
}

// Upload stores the blob under key, replacing any previous object.
// The write is atomic (temp file + rename).
func (v *FileSystemBlobStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*fv.BlobRef, error) {
	destPath, err := v.objectPath(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}

	if err := v.writeFile(destPath, r, size); err != nil {
		return nil, err
	}

	return &fv.BlobRef{
		ID:          key,
		URL:         "file://" + destPath,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// Download retrieves the blob stored under key and writes it to w.
func (v *FileSystemBlobStore) Download(ctx context.Context, key string, w io.Writer) error {
	srcPath, err := v.objectPath(key)
	if err != nil {
		return err
	}

	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("blob not found: %s", key)
		}
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read blob: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the blob root is accessible.
func (v *FileSystemBlobStore) ValidateSetup() error {
	info, err := os.Stat(v.root)
	if err != nil {
		return fmt.Errorf("blob root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("blob root is not a directory: %s", v.root)
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (v *FileSystemBlobStore) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemBlobStore implements fv.BlobStore interface
var _ fv.BlobStore = (*FileSystemBlobStore)(nil)
