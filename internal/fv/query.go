package fv

import (
	"fmt"

	"fv-go/internal/model"
)

// ListChildren returns the nodes directly under a folder: subfolders plus
// the latest file at each path, folders first and then alphabetical by
// name. This drives the browsable tree.
func (s *Service) ListChildren(projectID, parentFolderID string) ([]*model.Node, error) {
	nodes, err := s.store.ListChildren(projectID, parentFolderID)
	if err != nil {
		return nil, fmt.Errorf("listing children: %w", err)
	}
	return nodes, nil
}

// HistoryAt returns every node ever recorded at the exact path, newest
// first by upload timestamp, each carrying its current latest flag.
func (s *Service) HistoryAt(projectID, path string) ([]*model.Node, error) {
	nodes, err := s.store.ListNodesAtPath(projectID, path)
	if err != nil {
		return nil, fmt.Errorf("listing history at %s: %w", path, err)
	}
	return nodes, nil
}

// ListVersions returns the project's full-snapshot versions, newest first.
func (s *Service) ListVersions(projectID string) ([]*model.Version, error) {
	versions, err := s.store.ListVersions(projectID)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	return versions, nil
}
