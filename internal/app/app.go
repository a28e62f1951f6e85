package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fv-go/internal/blob"
	"fv-go/internal/config"
	"fv-go/internal/fv"
	"fv-go/internal/model"
	"fv-go/internal/staging"
	"fv-go/internal/store"
)

// FVApp is the application layer between the CLI and the versioning service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and manages resource lifecycle on Close.
type FVApp struct {
	cfg     *config.Config
	store   fv.Store
	blobs   fv.BlobStore
	service *fv.Service
	logFile *os.File
}

// NewFVApp creates a fully wired FVApp from the given config.
// The caller must call Close when done.
func NewFVApp(ctx context.Context, cfg *config.Config) (*FVApp, error) {
	blobs, err := blob.NewBlobStoreFromConfig(ctx, cfg.Blob)
	if err != nil {
		return nil, fmt.Errorf("creating blob store: %w", err)
	}
	if err := blobs.ValidateSetup(); err != nil {
		return nil, fmt.Errorf("validating blob store: %w", err)
	}

	ignore := cfg.Staging.Ignore
	if len(ignore) == 0 {
		ignore = staging.DefaultIgnoreNames()
	}
	stager := staging.NewFilesystemStager(cfg.Staging.StagingDir, ignore)

	st, err := store.NewStoreFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	if err := st.CheckMigrations(); err != nil {
		st.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	ttl := cfg.Cache.TTLSeconds
	if ttl <= 0 {
		ttl = config.DefaultCacheTTLSeconds
	}
	cached := store.NewCached(st, time.Duration(ttl)*time.Second)

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		cached.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := fv.NewService(cached, blobs, stager, &slogAdapter{l: logger}, fv.RealClock{}, fv.UUIDGenerator{})

	return &FVApp{
		cfg:     cfg,
		store:   cached,
		blobs:   blobs,
		service: svc,
		logFile: logFile,
	}, nil
}

// folderSegments splits a slash-separated folder path into its segments.
// "/" and "" both mean the root.
func folderSegments(folderPath string) []string {
	trimmed := strings.Trim(folderPath, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// normalizeNodePath ensures the path is absolute within the project tree.
func normalizeNodePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

// SnapshotDirectory records a full snapshot of a local directory under the
// given label.
func (a *FVApp) SnapshotDirectory(ctx context.Context, projectID, rawPath, label, notes string) (*fv.SnapshotResult, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return a.service.CreateVersionFromDirectory(ctx, projectID, absPath, label, notes, a.cfg.UserID)
}

// SnapshotArchive records a full snapshot from a zip archive on disk under
// the given label.
func (a *FVApp) SnapshotArchive(ctx context.Context, projectID, archivePath, label, notes string) (*fv.SnapshotResult, error) {
	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return a.service.CreateVersionFromArchive(ctx, projectID, data, label, notes, a.cfg.UserID)
}

// UploadFile uploads one local file into the given project folder, creating
// the folder chain if it does not exist yet.
func (a *FVApp) UploadFile(ctx context.Context, projectID, folderPath, localPath string) (*model.Node, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	folder, err := a.service.EnsurePath(projectID, folderSegments(folderPath), a.cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving destination folder: %w", err)
	}

	return a.service.UploadSingleFile(ctx, projectID, folder.ID, a.cfg.UserID, data, filepath.Base(localPath))
}

// ListChildren returns the nodes directly under the folder at the given path.
func (a *FVApp) ListChildren(projectID, folderPath string) ([]*model.Node, error) {
	folder, err := a.service.ResolveFolder(projectID, folderPath)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, fmt.Errorf("folder not found: %s", folderPath)
	}
	return a.service.ListChildren(projectID, folder.ID)
}

// History returns every upload recorded at the exact path, newest first.
func (a *FVApp) History(projectID, path string) ([]*model.Node, error) {
	return a.service.HistoryAt(projectID, normalizeNodePath(path))
}

// Versions returns the project's snapshot versions, newest first.
func (a *FVApp) Versions(projectID string) ([]*model.Version, error) {
	return a.service.ListVersions(projectID)
}

// DeleteProject removes all metadata for a project.
func (a *FVApp) DeleteProject(projectID string) error {
	return a.service.DeleteProject(projectID)
}

// DownloadBlob fetches a stored blob by its reference and writes it to w.
func (a *FVApp) DownloadBlob(ctx context.Context, blobRef string, w io.Writer) error {
	return a.blobs.Download(ctx, blobRef, w)
}

// Close releases all resources.
func (a *FVApp) Close() error {
	var firstErr error

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
