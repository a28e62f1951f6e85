package staging

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"fv-go/internal/fv"
)

// defaultIgnoreNames are subtree names skipped when copying a source
// directory: dependency caches and version-control metadata.
var defaultIgnoreNames = []string{"node_modules", ".git", "venv", ".venv"}

// DefaultIgnoreNames returns the built-in set of ignorable subtree names.
func DefaultIgnoreNames() []string {
	return append([]string(nil), defaultIgnoreNames...)
}

// FilesystemStager creates staging areas as temporary directories. Each
// staged tree owns its own directory:
//
//	<tmp>/fv-stage-*/
//	  tree/          (the staged file tree)
//	  bundle.zip     (written by Bundle)
type FilesystemStager struct {
	baseDir string // "" means the OS default temp directory
	ignore  map[string]bool
}

// NewFilesystemStager creates a stager rooted at baseDir. ignoreNames lists
// subtree names to skip when staging from a directory; nil applies the
// defaults.
func NewFilesystemStager(baseDir string, ignoreNames []string) *FilesystemStager {
	if ignoreNames == nil {
		ignoreNames = defaultIgnoreNames
	}
	ignore := make(map[string]bool, len(ignoreNames))
	for _, name := range ignoreNames {
		ignore[name] = true
	}
	return &FilesystemStager{baseDir: baseDir, ignore: ignore}
}

// StageArchive extracts an uploaded ZIP archive into a fresh staging area.
func (s *FilesystemStager) StageArchive(archive []byte) (fv.StagedTree, error) {
	area, root, err := s.newArea()
	if err != nil {
		return nil, err
	}

	if err := extractZip(bytes.NewReader(archive), int64(len(archive)), root); err != nil {
		os.RemoveAll(area)
		return nil, fmt.Errorf("extracting archive: %w", err)
	}

	return &stagedTree{area: area, root: root}, nil
}

// StageDirectory recursively copies sourcePath into a fresh staging area,
// skipping ignored subtree names.
func (s *FilesystemStager) StageDirectory(sourcePath string) (fv.StagedTree, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("source path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path is not a directory: %s", sourcePath)
	}

	area, root, err := s.newArea()
	if err != nil {
		return nil, err
	}

	if err := s.copyTree(sourcePath, root); err != nil {
		os.RemoveAll(area)
		return nil, fmt.Errorf("copying source directory: %w", err)
	}

	return &stagedTree{area: area, root: root}, nil
}

// newArea creates the staging directory and the tree root inside it.
func (s *FilesystemStager) newArea() (area, root string, err error) {
	area, err = os.MkdirTemp(s.baseDir, "fv-stage-*")
	if err != nil {
		return "", "", fmt.Errorf("creating staging directory: %w", err)
	}

	root = filepath.Join(area, "tree")
	if err := os.Mkdir(root, 0755); err != nil {
		os.RemoveAll(area)
		return "", "", fmt.Errorf("creating staging tree root: %w", err)
	}
	return area, root, nil
}

// copyTree copies src into dst, skipping ignored subtree names and
// non-regular files.
func (s *FilesystemStager) copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if rel != "." && s.ignore[d.Name()] {
				return fs.SkipDir
			}
			if rel == "." {
				return nil
			}
			return os.MkdirAll(filepath.Join(dst, rel), 0755)
		}

		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(p, filepath.Join(dst, rel))
	})
}

// copyFile copies one regular file, preserving its permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// stagedTree is the exclusively-owned working copy of one snapshot
// operation.
type stagedTree struct {
	area string // staging directory, removed by Release
	root string // tree root inside the staging directory
}

// Root returns the directory holding the staged tree.
func (t *stagedTree) Root() string { return t.root }

// Bundle compresses the staged tree into <area>/bundle.zip with
// root-relative entry names.
func (t *stagedTree) Bundle() (string, error) {
	out := filepath.Join(t.area, "bundle.zip")
	if err := createZip(t.root, out); err != nil {
		return "", fmt.Errorf("bundling staged tree: %w", err)
	}
	return out, nil
}

// Release removes the staging directory, including any bundle.
func (t *stagedTree) Release() error {
	return os.RemoveAll(t.area)
}

// Compile-time check that FilesystemStager implements fv.Stager
var _ fv.Stager = (*FilesystemStager)(nil)
