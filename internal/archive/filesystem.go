package archive

import "io/fs"

// FilesystemManager provides the filesystem operations the library layout
// needs. It abstracts disk access so the service can be tested in memory.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// It resolves the path to an absolute path, stats it, and validates
	// it's a regular file or directory (not a symlink, device, etc.).
	Resolve(rawPath string) (*Path, error)

	// EnsureDir creates the directory and any missing parents.
	EnsureDir(path string) error

	// FindFiles lists the regular files under dir that are not ignored.
	FindFiles(dir *Path, recursive bool) ([]*Path, error)
}

// Path represents a validated filesystem path with cached metadata.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
// This is primarily for use by FilesystemManager implementations.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{
		absPath: absPath,
		isDir:   isDir,
		info:    info,
	}
}

// String returns the absolute path as a string.
func (p *Path) String() string {
	return p.absPath
}

// IsDir returns true if this path points to a directory.
func (p *Path) IsDir() bool {
	return p.isDir
}

// Info returns the cached file info from when the path was resolved.
func (p *Path) Info() fs.FileInfo {
	return p.info
}
