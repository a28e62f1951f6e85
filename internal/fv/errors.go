package fv

import "fv-go/internal/model"

// StagingError aborts a snapshot before any metadata is written: the
// archive could not be extracted or the source directory could not be
// copied.
type StagingError struct {
	Err error
}

func (e *StagingError) Error() string { return "staging: " + e.Err.Error() }
func (e *StagingError) Unwrap() error { return e.Err }

// BundleError aborts a snapshot after staging but before any Version is
// persisted: bundling, the bundle's checksum, or the bundle upload failed.
type BundleError struct {
	Err error
}

func (e *BundleError) Error() string { return "bundle: " + e.Err.Error() }
func (e *BundleError) Unwrap() error { return e.Err }

// FileFailure records one file that could not be uploaded during the tree
// walk. These are reported in the snapshot result, never raised.
type FileFailure struct {
	Path string // root-relative node path
	Err  error
}

// SnapshotResult is the structured outcome of a snapshot operation. The
// operation is best-effort past the bundle upload: FilesUploaded may be
// less than FilesAttempted, and Failures explains the difference.
type SnapshotResult struct {
	Version        *model.Version
	FilesAttempted int
	FilesUploaded  int
	Failures       []FileFailure
}
