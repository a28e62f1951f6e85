package model

import "time"

// Node types.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
)

// Node is a folder or file record in a project's path hierarchy.
// The root folder is the unique node with a nil parent; every other node's
// path is its parent's path joined with its own name.
type Node struct {
	ID        string // UUID
	ProjectID string
	Type      string // "folder" or "file"
	Name      string
	ParentID  *string // nil only for the project root folder
	Path      string  // root-relative, slash-separated, starts with "/"
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time

	// File nodes only.
	IsLatest bool
	FileMeta *FileMeta
}

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool { return n.Type == TypeFolder }

// FileMeta describes the stored content behind a file node.
type FileMeta struct {
	BlobRef      string // remote object id/key
	URL          string
	Size         int64
	ContentType  string
	VersionTag   string // version label that produced this record
	UploadedAt   time.Time
	Checksum     string // "<algorithm>:<lowercase hex>"
	OriginalName string
}

// Version is an immutable record of one full-snapshot operation.
type Version struct {
	ID        string // UUID
	ProjectID string
	Label     string // caller-supplied, not guaranteed unique
	Notes     string
	CreatedBy string
	CreatedAt time.Time
	Bundle    Bundle
}

// Bundle references the archived tree uploaded with a version.
type Bundle struct {
	BlobRef  string
	URL      string
	Size     int64
	Checksum string
}
