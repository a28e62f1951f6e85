package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		UserID:  "test-user-abc",
		BaseDir: "/home/user/.local/share/fv",
		LogDir:  "/home/user/.local/share/fv/log",
		Blob: BlobConfig{
			Type:     "s3",
			S3Bucket: "fv-blobs",
			S3Prefix: "prod",
			S3Region: "eu-west-1",
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/fv/data"},
		Staging: StagingConfig{
			StagingDir: "/tmp/fv-staging",
			Ignore:     []string{"node_modules", ".git"},
		},
		Cache: CacheConfig{TTLSeconds: 30},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.UserID != original.UserID {
		t.Errorf("UserID = %q, want %q", got.UserID, original.UserID)
	}
	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Blob.Type != "s3" {
		t.Errorf("Blob.Type = %q, want %q", got.Blob.Type, "s3")
	}
	if got.Blob.S3Bucket != "fv-blobs" {
		t.Errorf("Blob.S3Bucket = %q, want %q", got.Blob.S3Bucket, "fv-blobs")
	}
	if got.Blob.S3Region != "eu-west-1" {
		t.Errorf("Blob.S3Region = %q, want %q", got.Blob.S3Region, "eu-west-1")
	}
	if got.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", got.Database.Type, "sqlite")
	}
	if got.Database.DataDir != original.Database.DataDir {
		t.Errorf("Database.DataDir = %q, want %q", got.Database.DataDir, original.Database.DataDir)
	}
	if got.Staging.StagingDir != original.Staging.StagingDir {
		t.Errorf("Staging.StagingDir = %q, want %q", got.Staging.StagingDir, original.Staging.StagingDir)
	}
	if len(got.Staging.Ignore) != 2 {
		t.Fatalf("len(Staging.Ignore) = %d, want 2", len(got.Staging.Ignore))
	}
	if got.Cache.TTLSeconds != 30 {
		t.Errorf("Cache.TTLSeconds = %d, want 30", got.Cache.TTLSeconds)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("user-1", "/data/fv")

	if cfg.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", cfg.UserID, "user-1")
	}
	if cfg.BaseDir != "/data/fv" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/fv")
	}
	if cfg.LogDir != "/data/fv/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/fv/log")
	}
	if cfg.Blob.Type != "filesystem" {
		t.Errorf("Blob.Type = %q, want %q", cfg.Blob.Type, "filesystem")
	}
	if cfg.Blob.FSBlobRoot != "/data/fv/blobs" {
		t.Errorf("Blob.FSBlobRoot = %q, want %q", cfg.Blob.FSBlobRoot, "/data/fv/blobs")
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", cfg.Database.Type, "sqlite")
	}
	if cfg.Cache.TTLSeconds != DefaultCacheTTLSeconds {
		t.Errorf("Cache.TTLSeconds = %d, want %d", cfg.Cache.TTLSeconds, DefaultCacheTTLSeconds)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fv.toml")
		cfg := NewConfig("u1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fv.toml")
		cfg := NewConfig("u1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "fv.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.UserID != "read-test" {
			t.Errorf("UserID = %q, want %q", got.UserID, "read-test")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/fv.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
