package fv

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fv-go/internal/model"
)

// CreateVersionFromArchive stages the contents of an uploaded archive and
// records a full snapshot under the given label. Staging and bundle-upload
// failures abort with no metadata written; per-file failures during the
// tree walk are collected in the result instead.
func (s *Service) CreateVersionFromArchive(ctx context.Context, projectID string, archive []byte, label, notes, userID string) (*SnapshotResult, error) {
	tree, err := s.stager.StageArchive(archive)
	if err != nil {
		return nil, &StagingError{Err: err}
	}
	return s.buildVersion(ctx, projectID, tree, label, notes, userID)
}

// CreateVersionFromDirectory stages a copy of an accessible source
// directory and records a full snapshot under the given label. Same failure
// semantics as CreateVersionFromArchive.
func (s *Service) CreateVersionFromDirectory(ctx context.Context, projectID, sourcePath, label, notes, userID string) (*SnapshotResult, error) {
	tree, err := s.stager.StageDirectory(sourcePath)
	if err != nil {
		return nil, &StagingError{Err: err}
	}
	return s.buildVersion(ctx, projectID, tree, label, notes, userID)
}

// buildVersion runs the snapshot pipeline over an already-staged tree:
// bundle, upload bundle + persist the Version, demote every existing file
// node in the project, then walk the tree uploading files best-effort.
// The staging area is released on every exit path.
func (s *Service) buildVersion(ctx context.Context, projectID string, tree StagedTree, label, notes, userID string) (*SnapshotResult, error) {
	defer func() {
		if err := tree.Release(); err != nil {
			// Cleanup is best-effort and never overturns the result.
			s.logger.Warn("releasing staging area", "error", err)
		}
	}()

	// Serialize snapshots per project so the global demote below cannot
	// interleave with another snapshot's tree walk.
	lock := s.snapshots.get(projectID)
	lock.Lock()
	defer lock.Unlock()

	version, err := s.uploadBundle(ctx, projectID, tree, label, notes, userID)
	if err != nil {
		return nil, err
	}

	// Demote every file node in the project, including paths absent from
	// the new tree. The snapshot defines the project's current state.
	if err := s.store.DemoteAllLatest(projectID); err != nil {
		return nil, fmt.Errorf("demoting previous latest files: %w", err)
	}

	result := s.walkTree(ctx, projectID, tree.Root(), label, userID)
	result.Version = version

	s.logger.Info("version created",
		"project", projectID,
		"label", label,
		"uploaded", result.FilesUploaded,
		"failed", len(result.Failures))
	return result, nil
}

// uploadBundle archives the staged tree, uploads it as a single blob and
// persists the immutable Version record referencing it.
func (s *Service) uploadBundle(ctx context.Context, projectID string, tree StagedTree, label, notes, userID string) (*model.Version, error) {
	archivePath, err := tree.Bundle()
	if err != nil {
		return nil, &BundleError{Err: err}
	}

	sum, err := checksumFile(archivePath)
	if err != nil {
		return nil, &BundleError{Err: err}
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, &BundleError{Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &BundleError{Err: err}
	}

	ref, err := s.blobs.Upload(ctx, blobKey(projectID, label, "bundle.zip"), f, info.Size(), "application/zip")
	if err != nil {
		return nil, &BundleError{Err: err}
	}

	version := &model.Version{
		ID:        s.idgen.New(),
		ProjectID: projectID,
		Label:     label,
		Notes:     notes,
		CreatedBy: userID,
		CreatedAt: s.clock.Now().UTC(),
		Bundle: model.Bundle{
			BlobRef:  ref.ID,
			URL:      ref.URL,
			Size:     ref.Size,
			Checksum: sum,
		},
	}
	if err := s.store.InsertVersion(version); err != nil {
		return nil, fmt.Errorf("persisting version: %w", err)
	}

	return version, nil
}

// walkTree visits every directory and file under root exactly once. Folders
// are resolved through EnsurePath; files are uploaded and recorded as
// latest nodes. A failure on one file is reported and the walk continues.
func (s *Service) walkTree(ctx context.Context, projectID, root, label, userID string) *SnapshotResult {
	result := &SnapshotResult{}
	folders := make(map[string]*model.Node) // relative dir ("." for root) -> folder node

	// WalkDir visits a directory before its contents, so a file's parent
	// folder is always resolved by the time the file is reached.
	filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		relSlash := filepath.ToSlash(rel)

		if walkErr != nil {
			result.Failures = append(result.Failures, FileFailure{Path: "/" + relSlash, Err: walkErr})
			return nil
		}

		if d.IsDir() {
			var segments []string
			if rel != "." {
				segments = strings.Split(relSlash, "/")
			}
			folder, err := s.EnsurePath(projectID, segments, userID)
			if err != nil {
				s.logger.Error("resolving folder node", "path", relSlash, "error", err)
				return fs.SkipDir
			}
			folders[rel] = folder
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		result.FilesAttempted++
		node, err := s.snapshotFile(ctx, projectID, folders[filepath.Dir(rel)], relSlash, p, label, userID)
		if err != nil {
			s.logger.Warn("file upload failed", "path", relSlash, "error", err)
			result.Failures = append(result.Failures, FileFailure{Path: "/" + relSlash, Err: err})
			return nil
		}

		s.logger.Debug("file uploaded", "path", node.Path, "checksum", node.FileMeta.Checksum)
		result.FilesUploaded++
		return nil
	})

	return result
}

// snapshotFile uploads one staged file and records its node marked latest.
// relPath is slash-separated and relative to the staged root.
func (s *Service) snapshotFile(ctx context.Context, projectID string, folder *model.Node, relPath, fullPath, versionTag, userID string) (*model.Node, error) {
	if folder == nil {
		return nil, fmt.Errorf("parent folder was not resolved for %s", relPath)
	}

	sum, err := checksumFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("computing checksum: %w", err)
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("opening staged file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat staged file: %w", err)
	}

	name := filepath.Base(fullPath)
	ref, err := s.blobs.Upload(ctx, blobKey(projectID, versionTag, relPath), f, info.Size(), contentTypeFor(name))
	if err != nil {
		return nil, fmt.Errorf("uploading blob: %w", err)
	}

	return s.recordFileNode(projectID, folder, "/"+relPath, name, versionTag, userID, ref, sum)
}

// recordFileNode demotes the prior latest node at the path and inserts a
// fresh node marked latest. Both write flows insert rather than overwrite,
// so every historical upload at a path stays recoverable.
func (s *Service) recordFileNode(projectID string, parent *model.Node, nodePath, name, versionTag, userID string, ref *BlobRef, checksum string) (*model.Node, error) {
	if err := s.store.DemoteLatestAtPath(projectID, nodePath); err != nil {
		return nil, fmt.Errorf("demoting previous latest at %s: %w", nodePath, err)
	}

	now := s.clock.Now().UTC()
	parentID := parent.ID
	node := &model.Node{
		ID:        s.idgen.New(),
		ProjectID: projectID,
		Type:      model.TypeFile,
		Name:      name,
		ParentID:  &parentID,
		Path:      nodePath,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
		IsLatest:  true,
		FileMeta: &model.FileMeta{
			BlobRef:      ref.ID,
			URL:          ref.URL,
			Size:         ref.Size,
			ContentType:  ref.ContentType,
			VersionTag:   versionTag,
			UploadedAt:   now,
			Checksum:     checksum,
			OriginalName: name,
		},
	}
	if err := s.store.InsertNode(node); err != nil {
		return nil, fmt.Errorf("recording file node: %w", err)
	}
	return node, nil
}

// checksumFile computes the default checksum of a file on disk.
func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Checksum(f, DefaultChecksumAlgorithm)
}
