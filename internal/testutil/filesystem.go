package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"fondspod/internal/archive"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing.
// Paths are stored cleaned and absolute.
type MockFilesystemManager struct {
	mu    sync.Mutex
	files map[string]*MockFile

	// FailEnsureDir makes EnsureDir return an error.
	FailEnsureDir bool
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files: make(map[string]*MockFile),
	}
}

// AddFile adds a file to the mock filesystem along with its parent directories.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.addParents(path)
	m.files[path] = &MockFile{Content: content, Permissions: 0644, ModTime: time.Now()}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addDir(filepath.Clean(path))
}

// HasDirectory reports whether path exists as a directory.
func (m *MockFilesystemManager) HasDirectory(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[filepath.Clean(path)]
	return ok && f.IsDirectory
}

func (m *MockFilesystemManager) addDir(path string) {
	m.addParents(path)
	if _, ok := m.files[path]; !ok {
		m.files[path] = &MockFile{Permissions: 0755, ModTime: time.Now(), IsDirectory: true}
	}
}

func (m *MockFilesystemManager) addParents(path string) {
	parent := filepath.Dir(path)
	if parent == path {
		return
	}
	m.addDir(parent)
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*archive.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", absPath)
	}
	return archive.NewPath(absPath, file.IsDirectory, mockInfo(absPath, file)), nil
}

func (m *MockFilesystemManager) EnsureDir(path string) error {
	if m.FailEnsureDir {
		return fmt.Errorf("creating directory %s: permission denied", path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addDir(filepath.Clean(path))
	return nil
}

// FindFiles returns regular files under dir in lexical order. The mock has
// no ignore support.
func (m *MockFilesystemManager) FindFiles(dir *archive.Path, recursive bool) ([]*archive.Path, error) {
	if !dir.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir.String())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := dir.String() + string(filepath.Separator)
	var names []string
	for p, f := range m.files {
		if f.IsDirectory || !strings.HasPrefix(p, prefix) {
			continue
		}
		if !recursive && strings.ContainsRune(p[len(prefix):], filepath.Separator) {
			continue
		}
		names = append(names, p)
	}
	sort.Strings(names)

	paths := make([]*archive.Path, 0, len(names))
	for _, p := range names {
		paths = append(paths, archive.NewPath(p, false, mockInfo(p, m.files[p])))
	}
	return paths, nil
}

func mockInfo(path string, f *MockFile) *mockFileInfo {
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(f.Content)),
		mode:    f.Permissions,
		modTime: f.ModTime,
		isDir:   f.IsDirectory,
	}
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

// Compile-time check
var _ archive.FilesystemManager = (*MockFilesystemManager)(nil)
