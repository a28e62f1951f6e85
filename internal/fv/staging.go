package fv

// StagedTree is a private working copy of a file tree being snapshotted.
// It is exclusively owned by one in-flight snapshot operation and must be
// released on every exit path.
type StagedTree interface {
	// Root returns the directory holding the staged tree.
	Root() string

	// Bundle compresses the staged tree into a single archive, preserving
	// root-relative paths, and returns the archive's location. The archive
	// lives inside the staging area and is removed by Release.
	Bundle() (string, error)

	// Release removes the staging area, including any bundle.
	Release() error
}

// Stager produces staged trees for the snapshot builder.
type Stager interface {
	// StageArchive extracts an uploaded archive into a fresh staging area.
	StageArchive(archive []byte) (StagedTree, error)

	// StageDirectory recursively copies an accessible source directory into
	// a fresh staging area, skipping the configured ignorable subtree names.
	StageDirectory(sourcePath string) (StagedTree, error)
}
