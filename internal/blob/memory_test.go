package blob

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestMemoryBlobStore_UploadAndDownload(t *testing.T) {
	store := NewMemoryBlobStore()

	tests := []struct {
		name        string
		key         string
		content     string
		contentType string
	}{
		{
			name:        "store and retrieve text",
			key:         "projects/p1/v1/a.txt",
			content:     "hello world",
			contentType: "text/plain; charset=utf-8",
		},
		{
			name:        "store empty blob",
			key:         "projects/p1/v1/empty",
			content:     "",
			contentType: "application/octet-stream",
		},
		{
			name:        "store large blob",
			key:         "projects/p1/v1/large.bin",
			content:     strings.Repeat("x", 10000),
			contentType: "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strings.NewReader(tt.content)
			ref, err := store.Upload(context.Background(), tt.key, r, int64(len(tt.content)), tt.contentType)
			if err != nil {
				t.Fatalf("Upload() error: %v", err)
			}

			if ref.ID != tt.key {
				t.Errorf("ref.ID = %q, want %q", ref.ID, tt.key)
			}
			if ref.Size != int64(len(tt.content)) {
				t.Errorf("ref.Size = %d, want %d", ref.Size, len(tt.content))
			}
			if ref.ContentType != tt.contentType {
				t.Errorf("ref.ContentType = %q, want %q", ref.ContentType, tt.contentType)
			}
			if ref.URL == "" {
				t.Error("ref.URL is empty")
			}

			var buf bytes.Buffer
			if err := store.Download(context.Background(), tt.key, &buf); err != nil {
				t.Fatalf("Download() error: %v", err)
			}
			if got := buf.String(); got != tt.content {
				t.Errorf("Download() = %q, want %q", got, tt.content)
			}
		})
	}
}

func TestMemoryBlobStore_UploadOverwrites(t *testing.T) {
	store := NewMemoryBlobStore()
	key := "projects/p1/v1/a.txt"

	for _, content := range []string{"first", "second"} {
		if _, err := store.Upload(context.Background(), key, strings.NewReader(content), int64(len(content)), "text/plain"); err != nil {
			t.Fatalf("Upload(%q) error: %v", content, err)
		}
	}

	var buf bytes.Buffer
	if err := store.Download(context.Background(), key, &buf); err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if got := buf.String(); got != "second" {
		t.Errorf("Download() = %q, want %q", got, "second")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestMemoryBlobStore_DownloadNotFound(t *testing.T) {
	store := NewMemoryBlobStore()

	var buf bytes.Buffer
	err := store.Download(context.Background(), "nonexistent", &buf)
	if err == nil {
		t.Error("Download() expected error for nonexistent key, got nil")
	}
}

func TestMemoryBlobStore_UploadSizeMismatch(t *testing.T) {
	store := NewMemoryBlobStore()

	content := "test"
	_, err := store.Upload(context.Background(), "key", strings.NewReader(content), int64(len(content)+10), "text/plain")
	if err == nil {
		t.Error("Upload() expected error for size mismatch, got nil")
	}
}

func TestMemoryBlobStore_ValidateSetup(t *testing.T) {
	store := NewMemoryBlobStore()

	if err := store.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() unexpected error: %v", err)
	}
}
