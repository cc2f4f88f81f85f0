package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"fondspod/internal/archive"
)

type snapshot struct {
	data    []byte
	version int64
}

// MemoryVault keeps library snapshots in process memory. A vault of type
// "memory" therefore forgets everything when the command exits; it exists
// for tests. Safe for concurrent use.
type MemoryVault struct {
	name string

	mu        sync.RWMutex
	snapshots map[string]snapshot // by library id
}

var _ archive.Vault = (*MemoryVault)(nil)

func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{name: name, snapshots: make(map[string]snapshot)}
}

// PutSnapshot replaces the snapshot of a library. Data and version change
// together.
func (m *MemoryVault) PutSnapshot(libraryID string, r io.Reader, size int64, version int64) error {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	if n != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, n)
	}

	m.mu.Lock()
	m.snapshots[libraryID] = snapshot{data: buf.Bytes(), version: version}
	m.mu.Unlock()
	return nil
}

func (m *MemoryVault) GetSnapshot(libraryID string, w io.Writer) error {
	m.mu.RLock()
	snap, ok := m.snapshots[libraryID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: snapshot for library %s", archive.ErrNotFound, libraryID)
	}

	if _, err := w.Write(snap.data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// SnapshotVersion is 0 for a library without a snapshot.
func (m *MemoryVault) SnapshotVersion(libraryID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots[libraryID].version, nil
}

func (m *MemoryVault) ValidateSetup() error { return nil }
