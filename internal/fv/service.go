package fv

import (
	"fmt"
	"mime"
	"path"
	"path/filepath"
)

// Service is the orchestration layer for project file versioning: full-tree
// snapshots, incremental single-file uploads, and the read paths that drive
// the browsable tree.
type Service struct {
	store     Store
	blobs     BlobStore
	stager    Stager
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	snapshots *projectLocks
}

// NewService creates a Service with the provided dependencies.
func NewService(store Store, blobs BlobStore, stager Stager, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		store:     store,
		blobs:     blobs,
		stager:    stager,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
		snapshots: newProjectLocks(),
	}
}

// DeleteProject removes every node and version belonging to the project.
// Blobs in the object store are left behind; orphaned blobs are an accepted
// storage-cost tradeoff.
func (s *Service) DeleteProject(projectID string) error {
	if err := s.store.DeleteProject(projectID); err != nil {
		return fmt.Errorf("deleting project metadata: %w", err)
	}
	s.logger.Info("project deleted", "project", projectID)
	return nil
}

// joinPath appends a name to a folder path. The root path is "/", so plain
// concatenation would produce "//name" there.
func joinPath(parentPath, name string) string {
	if parentPath == "/" {
		return "/" + name
	}
	return parentPath + "/" + name
}

// blobKey builds the object-store key for one uploaded item.
func blobKey(projectID, versionTag, relPath string) string {
	return path.Join("projects", projectID, versionTag, relPath)
}

// contentTypeFor guesses a content type from the filename extension.
func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
