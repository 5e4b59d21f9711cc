// Package safeio confines file access to one project root.
package safeio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrTraversal = errors.New("safeio: path escapes root")
	ErrNotDir    = errors.New("safeio: root is not a directory")
)

// RootFS resolves every path against a fixed, symlink-free root.
type RootFS struct {
	absRoot string
}

// Open binds a RootFS to root. The root must exist and be a directory.
func Open(root string) (*RootFS, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("safeio: empty root")
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
		return nil, fmt.Errorf("%w: %s", ErrNotDir, abs)
	}
	return &RootFS{absRoot: abs}, nil
}

func (r *RootFS) Root() string {
	if r == nil {
		return ""
	}
	return r.absRoot
}

// ReadFile reads an absolute or root-relative path that must stay under root.
func (r *RootFS) ReadFile(userPath string) ([]byte, error) {
	p, err := r.Resolve(userPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("safeio: %s is a directory", p)
	}
	return os.ReadFile(p)
}

// WalkDir walks the root; paths passed to fn are absolute.
func (r *RootFS) WalkDir(fn fs.WalkDirFunc) error {
	if r == nil {
		return errors.New("safeio: filesystem not configured")
	}
	return filepath.WalkDir(r.absRoot, fn)
}

// Resolve cleans userPath, follows symlinks and rejects anything outside root.
func (r *RootFS) Resolve(userPath string) (string, error) {
	if r == nil {
		return "", errors.New("safeio: filesystem not configured")
	}
	if userPath == "" {
		return "", errors.New("safeio: empty path")
	}
	clean := filepath.Clean(userPath)
	if clean == "." {
		return r.absRoot, nil
	}
	if !filepath.IsAbs(clean) {
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: %s", ErrTraversal, userPath)
		}
		clean = filepath.Join(r.absRoot, clean)
	}
	resolved, err := filepath.EvalSymlinks(clean)
	if err != nil {
		return "", err
	}
	if !within(resolved, r.absRoot) {
		return "", fmt.Errorf("%w: %s", ErrTraversal, resolved)
	}
	return resolved, nil
}

func within(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if runtime.GOOS == "windows" {
		path = strings.ToLower(path)
		root = strings.ToLower(root)
	}
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	return strings.HasPrefix(path, root)
}
