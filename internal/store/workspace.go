package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrOutsideRoot is returned for image paths that resolve outside the
	// workspace root, including traversal attempts.
	ErrOutsideRoot = errors.New("store: path resolves outside the workspace root")

	// ErrNotFile is returned when a resolved image path is a directory.
	ErrNotFile = errors.New("store: path is not a regular file")
)

// Workspace resolves caller-supplied image paths against a fixed root
// directory. Requests may reference images with repo-relative or absolute
// paths; either way the resolved file must exist under the root.
type Workspace struct {
	absRoot string // absolute root with symlinks resolved
}

func NewWorkspace(root string) (*Workspace, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("store: workspace root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("store: workspace root is not a directory")
	}
	return &Workspace{absRoot: abs}, nil
}

func (w *Workspace) Root() string {
	return w.absRoot
}

// ResolveImage maps an image path from a detection request to an absolute,
// symlink-free path under the workspace root. Missing files surface the
// underlying fs.ErrNotExist so callers can tell "not found" apart from
// "not allowed".
func (w *Workspace) ResolveImage(imagePath string) (string, error) {
	clean := filepath.Clean(imagePath)
	if clean == "." || clean == ".." {
		return "", ErrOutsideRoot
	}

	var joined string
	if filepath.IsAbs(clean) {
		joined = clean
	} else {
		if strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", ErrOutsideRoot
		}
		joined = filepath.Join(w.absRoot, clean)
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", err
	}
	if !underRoot(resolved, w.absRoot) {
		return "", ErrOutsideRoot
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", ErrNotFile
	}
	return resolved, nil
}

func underRoot(path, root string) bool {
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	return strings.HasPrefix(path, root)
}
