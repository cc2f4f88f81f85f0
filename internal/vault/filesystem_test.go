package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemVault(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")

	v, err := NewFileSystemVault("offline", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "snapshots")); err != nil {
		t.Errorf("snapshots directory not created: %v", err)
	}
	if v.name != "offline" {
		t.Errorf("name = %q, want %q", v.name, "offline")
	}
}

func TestFileSystemVault_Layout(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	if err := v.PutSnapshot("lib-1", strings.NewReader("db"), 2, 42); err != nil {
		t.Fatalf("PutSnapshot() error = %v", err)
	}

	version, err := os.ReadFile(filepath.Join(root, "snapshots", "lib-1.version"))
	if err != nil {
		t.Fatalf("reading version file: %v", err)
	}
	if string(version) != "42" {
		t.Errorf("version file = %q, want %q", version, "42")
	}

	entries, err := os.ReadDir(filepath.Join(root, "snapshots"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("snapshots dir has %d entries, want 2 (no temp files left)", len(entries))
	}
}

func TestFileSystemVault_CorruptVersion(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "snapshots", "lib-1.version"), []byte("nope"), 0644); err != nil {
		t.Fatalf("writing version file: %v", err)
	}

	if _, err := v.SnapshotVersion("lib-1"); err == nil {
		t.Error("SnapshotVersion() expected parse error")
	}
}

func TestFileSystemVault_ValidateSetup_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := os.RemoveAll(root); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}

	if err := v.ValidateSetup(); err == nil {
		t.Error("ValidateSetup() expected error for missing root")
	}
}
