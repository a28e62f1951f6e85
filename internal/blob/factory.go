package blob

import (
	"context"
	"fmt"

	"fv-go/internal/config"
	"fv-go/internal/fv"
)

// NewBlobStoreFromConfig creates a BlobStore implementation based on the blob config type.
func NewBlobStoreFromConfig(ctx context.Context, cfg config.BlobConfig) (fv.BlobStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryBlobStore(), nil
	case "s3":
		return NewS3BlobStore(ctx, cfg)
	case "filesystem":
		if cfg.FSBlobRoot == "" {
			return nil, fmt.Errorf("filesystem blob store requires fs_blob_root to be set")
		}
		return NewFileSystemBlobStore(cfg.FSBlobRoot)
	default:
		return nil, fmt.Errorf("unknown blob store type: %s", cfg.Type)
	}
}
