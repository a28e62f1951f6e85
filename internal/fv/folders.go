package fv

import (
	"fmt"
	"strings"

	"fv-go/internal/model"
)

// EnsureRoot returns the project's root folder node, creating it on first
// access. The root is the unique folder with a nil parent, named "/" at
// path "/". Idempotent.
func (s *Service) EnsureRoot(projectID, userID string) (*model.Node, error) {
	node, err := s.store.FindRootFolder(projectID)
	if err != nil {
		return nil, fmt.Errorf("finding root folder: %w", err)
	}
	if node != nil {
		return node, nil
	}

	now := s.clock.Now().UTC()
	root := &model.Node{
		ID:        s.idgen.New(),
		ProjectID: projectID,
		Type:      model.TypeFolder,
		Name:      "/",
		Path:      "/",
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertNode(root); err != nil {
		return nil, fmt.Errorf("creating root folder: %w", err)
	}

	s.logger.Debug("root folder created", "project", projectID)
	return root, nil
}

// EnsurePath materializes a directory path as a chain of folder nodes under
// the project's root and returns the final folder. An empty segment list is
// a root request. Calling twice with the same segments never creates
// duplicate folders and always returns a node with the same identity.
func (s *Service) EnsurePath(projectID string, segments []string, userID string) (*model.Node, error) {
	current, err := s.EnsureRoot(projectID, userID)
	if err != nil {
		return nil, err
	}

	for _, segment := range segments {
		child, err := s.store.FindFolderChild(projectID, current.ID, segment)
		if err != nil {
			return nil, fmt.Errorf("finding folder %q under %s: %w", segment, current.Path, err)
		}
		if child == nil {
			now := s.clock.Now().UTC()
			parentID := current.ID
			child = &model.Node{
				ID:        s.idgen.New(),
				ProjectID: projectID,
				Type:      model.TypeFolder,
				Name:      segment,
				ParentID:  &parentID,
				Path:      joinPath(current.Path, segment),
				CreatedBy: userID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.store.InsertNode(child); err != nil {
				return nil, fmt.Errorf("creating folder %s: %w", child.Path, err)
			}
		}
		current = child
	}

	return current, nil
}

// ResolveFolder walks a slash-separated folder path from the project root
// without creating anything. Returns nil when the path does not name an
// existing folder.
func (s *Service) ResolveFolder(projectID, folderPath string) (*model.Node, error) {
	current, err := s.store.FindRootFolder(projectID)
	if err != nil {
		return nil, fmt.Errorf("finding root folder: %w", err)
	}
	if current == nil {
		return nil, nil
	}

	trimmed := strings.Trim(folderPath, "/")
	if trimmed == "" {
		return current, nil
	}

	for _, segment := range strings.Split(trimmed, "/") {
		child, err := s.store.FindFolderChild(projectID, current.ID, segment)
		if err != nil {
			return nil, fmt.Errorf("finding folder %q under %s: %w", segment, current.Path, err)
		}
		if child == nil {
			return nil, nil
		}
		current = child
	}

	return current, nil
}
