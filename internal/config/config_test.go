package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		Language:          "zh",
		BaseDir:           "/home/user/.local/share/fondspod",
		LogDir:            "/home/user/.local/share/fondspod/log",
		LastOpenedLibrary: "main",
		Libraries: []LibraryConfig{
			{ID: "0b8f6c9e-1111-4c4c-9a9a-000000000001", Name: "main", Path: "/archives/main"},
		},
		Vaults: []VaultConfig{
			{Type: "filesystem", Name: "local", FSVaultRoot: "/backup/vault"},
			{Type: "s3", Name: "offsite", S3Bucket: "fonds", S3Region: "eu-west-1", S3Endpoint: "http://localhost:9000"},
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  "/home/user/.local/share/fondspod/keys/fondspod.pub",
			PrivateKeyPath: "/home/user/.local/share/fondspod/keys/fondspod.key",
		},
		Database: DatabaseConfig{Type: "sqlite"},
		Filesystem: FilesystemConfig{
			Ignore: []string{"*.tmp", ".DS_Store"},
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.Language != original.Language {
		t.Errorf("Language = %q, want %q", got.Language, original.Language)
	}
	if got.LastOpenedLibrary != "main" {
		t.Errorf("LastOpenedLibrary = %q, want %q", got.LastOpenedLibrary, "main")
	}
	if len(got.Libraries) != 1 || got.Libraries[0] != original.Libraries[0] {
		t.Errorf("Libraries = %+v, want %+v", got.Libraries, original.Libraries)
	}
	if len(got.Vaults) != 2 {
		t.Fatalf("len(Vaults) = %d, want 2", len(got.Vaults))
	}
	if got.Vaults[0].FSVaultRoot != "/backup/vault" {
		t.Errorf("Vault.FSVaultRoot = %q, want %q", got.Vaults[0].FSVaultRoot, "/backup/vault")
	}
	if got.Vaults[1].S3Endpoint != "http://localhost:9000" {
		t.Errorf("Vault.S3Endpoint = %q, want %q", got.Vaults[1].S3Endpoint, "http://localhost:9000")
	}
	if got.Encryption.PrivateKeyPath != original.Encryption.PrivateKeyPath {
		t.Errorf("Encryption.PrivateKeyPath = %q, want %q", got.Encryption.PrivateKeyPath, original.Encryption.PrivateKeyPath)
	}
	if got.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", got.Database.Type, "sqlite")
	}
	if len(got.Filesystem.Ignore) != 2 {
		t.Fatalf("len(Filesystem.Ignore) = %d, want 2", len(got.Filesystem.Ignore))
	}
}

func TestManager_Read_InvalidTOML(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("base_dir = [")); err == nil {
		t.Fatal("Read() expected error for malformed TOML")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/fondspod")

	if cfg.BaseDir != "/data/fondspod" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/fondspod")
	}
	if cfg.LogDir != "/data/fondspod/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/fondspod/log")
	}
	if cfg.Encryption.PublicKeyPath != "/data/fondspod/keys/fondspod.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", cfg.Encryption.PublicKeyPath, "/data/fondspod/keys/fondspod.pub")
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", cfg.Database.Type, "sqlite")
	}
}

func TestConfig_Libraries(t *testing.T) {
	t.Run("add and find", func(t *testing.T) {
		cfg := NewConfig("/data")
		if err := cfg.AddLibrary(LibraryConfig{ID: "1", Name: "main", Path: "/a"}); err != nil {
			t.Fatalf("AddLibrary() error = %v", err)
		}
		lib := cfg.FindLibrary("main")
		if lib == nil || lib.Path != "/a" {
			t.Fatalf("FindLibrary() = %+v, want library at /a", lib)
		}
		if cfg.FindLibrary("other") != nil {
			t.Error("FindLibrary(other) should be nil")
		}
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		cfg := NewConfig("/data")
		if err := cfg.AddLibrary(LibraryConfig{ID: "1", Name: "main", Path: "/a"}); err != nil {
			t.Fatalf("AddLibrary() error = %v", err)
		}
		if err := cfg.AddLibrary(LibraryConfig{ID: "2", Name: "main", Path: "/b"}); err == nil {
			t.Error("AddLibrary() expected error for duplicate name")
		}
		if err := cfg.AddLibrary(LibraryConfig{ID: "3", Name: "second", Path: "/a"}); err == nil {
			t.Error("AddLibrary() expected error for duplicate path")
		}
		if err := cfg.AddLibrary(LibraryConfig{ID: "4", Path: "/c"}); err == nil {
			t.Error("AddLibrary() expected error for empty name")
		}
	})

	t.Run("rename follows last opened", func(t *testing.T) {
		cfg := NewConfig("/data")
		_ = cfg.AddLibrary(LibraryConfig{ID: "1", Name: "main", Path: "/a"})
		_ = cfg.AddLibrary(LibraryConfig{ID: "2", Name: "other", Path: "/b"})
		cfg.LastOpenedLibrary = "main"

		if err := cfg.RenameLibrary("main", "other"); err == nil {
			t.Error("RenameLibrary() expected error for taken name")
		}
		if err := cfg.RenameLibrary("main", "primary"); err != nil {
			t.Fatalf("RenameLibrary() error = %v", err)
		}
		if cfg.LastOpenedLibrary != "primary" {
			t.Errorf("LastOpenedLibrary = %q, want %q", cfg.LastOpenedLibrary, "primary")
		}
		if err := cfg.RenameLibrary("missing", "x"); err == nil {
			t.Error("RenameLibrary() expected error for unknown library")
		}
	})

	t.Run("remove clears last opened", func(t *testing.T) {
		cfg := NewConfig("/data")
		_ = cfg.AddLibrary(LibraryConfig{ID: "1", Name: "main", Path: "/a"})
		cfg.LastOpenedLibrary = "main"

		if err := cfg.RemoveLibrary("main"); err != nil {
			t.Fatalf("RemoveLibrary() error = %v", err)
		}
		if len(cfg.Libraries) != 0 {
			t.Errorf("len(Libraries) = %d, want 0", len(cfg.Libraries))
		}
		if cfg.LastOpenedLibrary != "" {
			t.Errorf("LastOpenedLibrary = %q, want empty", cfg.LastOpenedLibrary)
		}
		if err := cfg.RemoveLibrary("main"); err == nil {
			t.Error("RemoveLibrary() expected error for unknown library")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		if err := Init(path, NewConfig(dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	cfg := NewConfig(dir)

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cfg.LastOpenedLibrary = "main"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.LastOpenedLibrary != "main" {
		t.Errorf("LastOpenedLibrary = %q, want %q", got.LastOpenedLibrary, "main")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("config directory has %d entries, want only the config file", len(entries))
	}
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		cfg := NewConfig(dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/config.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
