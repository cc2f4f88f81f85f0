package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fondspod/internal/archive"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
type OSFilesystemManager struct {
	ignore []string
}

// NewOSFilesystemManager creates a filesystem manager that skips files
// matching the configured ignore patterns when scanning directories.
func NewOSFilesystemManager(ignore []string) *OSFilesystemManager {
	return &OSFilesystemManager{ignore: ignore}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*archive.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return nil, fmt.Errorf("symlinks not supported: %s", absPath)
	case mode&os.ModeDevice != 0:
		return nil, fmt.Errorf("device files not supported: %s", absPath)
	case mode&os.ModeNamedPipe != 0:
		return nil, fmt.Errorf("named pipes not supported: %s", absPath)
	case mode&os.ModeSocket != 0:
		return nil, fmt.Errorf("sockets not supported: %s", absPath)
	}

	return archive.NewPath(absPath, info.IsDir(), info), nil
}

// EnsureDir creates path and any missing parents.
func (m *OSFilesystemManager) EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// FindFiles discovers regular files under the given directory path, in
// lexical order. Ignored directories are not descended into.
func (m *OSFilesystemManager) FindFiles(path *archive.Path, recursive bool) ([]*archive.Path, error) {
	if !path.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path.String())
	}

	root := path.String()
	matcher, err := LoadIgnoreMatcher(root, m.ignore)
	if err != nil {
		return nil, err
	}

	var paths []*archive.Path
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive || matcher.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || matcher.Match(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		paths = append(paths, archive.NewPath(p, false, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning directory %s: %w", root, err)
	}

	return paths, nil
}

// Compile-time check that OSFilesystemManager implements archive.FilesystemManager interface
var _ archive.FilesystemManager = (*OSFilesystemManager)(nil)
