package fv

import "fv-go/internal/model"

// Store provides an interface for node and version metadata storage.
// Lookup methods return (nil, nil) when no record matches; callers branch
// on absence rather than on an error.
type Store interface {
	// Node operations

	// FindRootFolder returns the unique folder node with a nil parent for
	// the project.
	FindRootFolder(projectID string) (*model.Node, error)

	// FindFolderChild returns the folder child of parentID with the given name.
	FindFolderChild(projectID, parentID, name string) (*model.Node, error)

	// FindNodeByID returns a node by its id.
	FindNodeByID(id string) (*model.Node, error)

	// InsertNode creates a new node record.
	InsertNode(node *model.Node) error

	// ListChildren returns the nodes directly under parentID, restricted to
	// folders plus latest files, folders first and then alphabetical by name.
	ListChildren(projectID, parentID string) ([]*model.Node, error)

	// ListNodesAtPath returns every node ever recorded at the exact path,
	// newest-first by upload timestamp.
	ListNodesAtPath(projectID, path string) ([]*model.Node, error)

	// DemoteLatestAtPath clears the latest flag on file nodes at the exact path.
	DemoteLatestAtPath(projectID, path string) error

	// DemoteAllLatest clears the latest flag on every file node in the project.
	DemoteAllLatest(projectID string) error

	// Version operations

	// InsertVersion creates a new immutable version record.
	InsertVersion(version *model.Version) error

	// ListVersions returns the project's versions, newest-first by creation time.
	ListVersions(projectID string) ([]*model.Version, error)

	// DeleteProject removes every node and version belonging to the project.
	// Blobs in the object store are not touched.
	DeleteProject(projectID string) error

	// CheckMigrations verifies the underlying schema is up-to-date.
	CheckMigrations() error

	// Close closes the store.
	Close() error
}
