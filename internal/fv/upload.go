package fv

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"fv-go/internal/model"
)

// UploadSingleFile adds one file under an existing folder node, preserving
// the full upload history at the destination path. Unlike the snapshot
// flow, only the node currently latest at this exact path is demoted.
func (s *Service) UploadSingleFile(ctx context.Context, projectID, parentFolderID, userID string, data []byte, fileName string) (*model.Node, error) {
	parent, err := s.store.FindNodeByID(parentFolderID)
	if err != nil {
		return nil, fmt.Errorf("finding parent folder: %w", err)
	}
	if parent == nil {
		return nil, fmt.Errorf("parent folder not found: %s", parentFolderID)
	}
	if !parent.IsFolder() {
		return nil, fmt.Errorf("parent node is not a folder: %s", parent.Path)
	}

	versionTag := "file-upload-" + s.clock.Now().UTC().Format("20060102150405")
	nodePath := joinPath(parent.Path, fileName)

	sum, err := Checksum(bytes.NewReader(data), DefaultChecksumAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("computing checksum: %w", err)
	}

	key := blobKey(projectID, versionTag, strings.TrimPrefix(nodePath, "/"))
	ref, err := s.blobs.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentTypeFor(fileName))
	if err != nil {
		return nil, fmt.Errorf("uploading blob: %w", err)
	}

	node, err := s.recordFileNode(projectID, parent, nodePath, fileName, versionTag, userID, ref, sum)
	if err != nil {
		return nil, err
	}

	s.logger.Info("file uploaded", "project", projectID, "path", node.Path, "tag", versionTag)
	return node, nil
}
