package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fondspod/internal/archive"
)

// FileSystemVault is a filesystem-based implementation of the Vault interface.
// Snapshots are stored as files in a directory structure:
//
//	<root>/
//	  snapshots/
//	    <libraryID>.db       (latest database snapshot)
//	    <libraryID>.version  (journal operation id of the snapshot)
type FileSystemVault struct {
	name         string
	root         string
	snapshotsDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	snapshotsDir := filepath.Join(root, "snapshots")
	if err := os.MkdirAll(snapshotsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}

	return &FileSystemVault{
		name:         name,
		root:         root,
		snapshotsDir: snapshotsDir,
	}, nil
}

// PutSnapshot stores the snapshot of a library along with its version.
// The version file is written last so a reader never sees a version
// whose snapshot is missing.
func (v *FileSystemVault) PutSnapshot(libraryID string, r io.Reader, size int64, version int64) error {
	if err := v.writeFile(v.snapshotPath(libraryID), r, size); err != nil {
		return err
	}
	versionData := strconv.FormatInt(version, 10)
	return v.writeFile(v.versionPath(libraryID), strings.NewReader(versionData), int64(len(versionData)))
}

// GetSnapshot writes the stored snapshot of a library to w.
func (v *FileSystemVault) GetSnapshot(libraryID string, w io.Writer) error {
	f, err := os.Open(v.snapshotPath(libraryID))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: snapshot for library %s", archive.ErrNotFound, libraryID)
		}
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	return nil
}

// SnapshotVersion returns 0 if no version file exists.
func (v *FileSystemVault) SnapshotVersion(libraryID string) (int64, error) {
	data, err := os.ReadFile(v.versionPath(libraryID))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version file: %w", err)
	}

	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FileSystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, v.snapshotsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

func (v *FileSystemVault) snapshotPath(libraryID string) string {
	return filepath.Join(v.snapshotsDir, libraryID+".db")
}

func (v *FileSystemVault) versionPath(libraryID string) string {
	return filepath.Join(v.snapshotsDir, libraryID+".version")
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemVault implements archive.Vault interface
var _ archive.Vault = (*FileSystemVault)(nil)
