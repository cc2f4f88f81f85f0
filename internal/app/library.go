package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"fondspod/internal/archive"
	"fondspod/internal/config"
	"fondspod/internal/database"
	"fondspod/internal/database/migrations"
	"fondspod/internal/encryption"
)

// AddLibrary creates the library directory and its migrated database, then
// registers it in cfg under a fresh id. The caller saves cfg.
func AddLibrary(cfg *config.Config, name, rawPath string) (*config.LibraryConfig, error) {
	path, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	lib := config.LibraryConfig{ID: uuid.New().String(), Name: name, Path: path}
	if err := cfg.AddLibrary(lib); err != nil {
		return nil, err
	}
	if err := initLibrary(cfg.Database, path); err != nil {
		_ = cfg.RemoveLibrary(name)
		return nil, err
	}
	return cfg.FindLibrary(name), nil
}

func initLibrary(dbCfg config.DatabaseConfig, path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating library directory: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(dbCfg, path, nil)
	if err != nil {
		return fmt.Errorf("creating library database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating library database: %w", err)
	}
	return nil
}

// OpenLibrary makes name the default library for later commands.
func OpenLibrary(cfg *config.Config, name string) error {
	if cfg.FindLibrary(name) == nil {
		return fmt.Errorf("library %q not found", name)
	}
	cfg.LastOpenedLibrary = name
	return nil
}

// LibraryStatus describes a library as seen by 'library check'.
type LibraryStatus struct {
	Library      config.LibraryConfig
	Missing      bool // library directory does not exist
	Schema       migrations.Status
	LocalVersion int64
	VaultVersion int64 // -1 when no vault is configured
	VaultErr     error
}

// CheckLibrary reports the schema version of the library database and how its
// journal compares to the vault snapshot.
func CheckLibrary(ctx context.Context, cfg *config.Config, name string) (*LibraryStatus, error) {
	lib, err := resolveLibrary(cfg, name)
	if err != nil {
		return nil, err
	}
	st := &LibraryStatus{Library: *lib, VaultVersion: -1}

	if _, err := os.Stat(lib.Path); errors.Is(err, os.ErrNotExist) {
		st.Missing = true
		return st, nil
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, lib.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("opening library database: %w", err)
	}
	defer db.Close()

	if st.Schema, err = db.MigrationStatus(); err != nil {
		return nil, err
	}
	if st.Schema.Current > 0 && !st.Schema.Dirty {
		if st.LocalVersion, err = db.MaxOperationID(ctx); err != nil {
			return nil, err
		}
	}

	if len(cfg.Vaults) > 0 {
		v, _, err := snapshotTarget(cfg)
		if err != nil {
			st.VaultErr = err
			return st, nil
		}
		if err := v.ValidateSetup(); err != nil {
			st.VaultErr = err
			return st, nil
		}
		st.VaultVersion, st.VaultErr = v.SnapshotVersion(lib.ID)
	}
	return st, nil
}

// DumpLibrarySchema returns the SQL schema of the library database.
func DumpLibrarySchema(cfg *config.Config, name string) (string, error) {
	lib, err := resolveLibrary(cfg, name)
	if err != nil {
		return "", err
	}
	db, err := database.NewDatabaseFromConfig(cfg.Database, lib.Path, nil)
	if err != nil {
		return "", fmt.Errorf("opening library database: %w", err)
	}
	defer db.Close()
	return db.DumpSchema()
}

// RestoreLibrary downloads the vault snapshot of the named library, decrypts
// it with passphrase and writes it as the library database. An existing
// database is only replaced when force is set.
func RestoreLibrary(cfg *config.Config, name, passphrase string, force bool) (int64, error) {
	lib, err := resolveLibrary(cfg, name)
	if err != nil {
		return 0, err
	}
	v, enc, err := snapshotTarget(cfg)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("no vault configured")
	}

	dest := database.LibraryDBPath(lib.Path)
	if _, err := os.Stat(dest); err == nil && !force {
		return 0, fmt.Errorf("library database %s already exists: use --force to replace it", dest)
	}

	version, err := v.SnapshotVersion(lib.ID)
	if err != nil {
		return 0, fmt.Errorf("checking vault snapshot version: %w", err)
	}
	if version == 0 {
		return 0, fmt.Errorf("vault has no snapshot of library %q: %w", lib.Name, archive.ErrNotFound)
	}

	dec, err := enc.Unlock(passphrase)
	if err != nil {
		return 0, fmt.Errorf("unlocking private key: %w", err)
	}

	if err := os.MkdirAll(lib.Path, 0755); err != nil {
		return 0, fmt.Errorf("creating library directory: %w", err)
	}

	encrypted, err := os.CreateTemp("", "fondspod-restore-*.enc")
	if err != nil {
		return 0, fmt.Errorf("creating temp file for snapshot: %w", err)
	}
	defer os.Remove(encrypted.Name())
	defer encrypted.Close()

	if err := v.GetSnapshot(lib.ID, encrypted); err != nil {
		return 0, fmt.Errorf("downloading snapshot: %w", err)
	}
	if _, err := encrypted.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewinding snapshot: %w", err)
	}

	// Decrypt next to the destination so the final rename stays on one filesystem.
	out, err := os.CreateTemp(lib.Path, ".fondspod-restore-*.db")
	if err != nil {
		return 0, fmt.Errorf("creating restore file: %w", err)
	}
	defer os.Remove(out.Name())

	if err := dec.Decrypt(encrypted, out); err != nil {
		out.Close()
		return 0, fmt.Errorf("decrypting snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("writing restore file: %w", err)
	}

	// Stale WAL or journal files belong to the database being replaced.
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		os.Remove(dest + suffix)
	}
	if err := os.Rename(out.Name(), dest); err != nil {
		return 0, fmt.Errorf("replacing library database: %w", err)
	}

	return version, nil
}

// InitEncryption generates the key pair for snapshot encryption.
func InitEncryption(cfg *config.Config, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up encryption: %w", err)
	}
	return nil
}
