package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fondspod/internal/archive"
	"fondspod/internal/config"
	"fondspod/internal/database"
	"fondspod/internal/encryption"
	"fondspod/internal/fs"
	"fondspod/internal/transfer"
	"fondspod/internal/vault"
)

// ArchiveApp is the application layer between the CLI and ArchiveService.
// It opens one library from config, journals mutating commands, and on Close
// snapshots the library database into the configured vault.
type ArchiveApp struct {
	cfg       *config.Config
	library   *config.LibraryConfig
	db        *database.SQLiteDatabase
	vault     archive.Vault // nil when no vault is configured
	encryptor archive.Encryptor
	service   *archive.ArchiveService
	logger    archive.Logger
	op        *Operation
	logFile   *os.File
}

// NewArchiveApp opens the named library, or the last opened one when name is
// empty. operation identifies the CLI command being run (e.g. "CreateFond").
// The caller must call Close when done.
func NewArchiveApp(ctx context.Context, cfg *config.Config, name, operation, parameters string) (*ArchiveApp, error) {
	lib, err := resolveLibrary(cfg, name)
	if err != nil {
		return nil, err
	}

	v, enc, err := snapshotTarget(cfg)
	if err != nil {
		return nil, err
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapter := &slogAdapter{l: logger.With("library", lib.Name)}

	auditor := archive.NewAuditor(archive.RealClock{}, archive.OSIdentity{}, adapter)
	db, err := database.NewDatabaseFromConfig(cfg.Database, lib.Path, auditor)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening library database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		logFile.Close()
		return nil, fmt.Errorf("migrating library database: %w", err)
	}

	if v != nil {
		if err := checkVersions(ctx, db, v, lib.ID); err != nil {
			db.Close()
			logFile.Close()
			return nil, err
		}
	}

	fsmgr := fs.NewOSFilesystemManager(cfg.Filesystem.Ignore)
	svc := archive.NewArchiveService(db, fsmgr, adapter, archive.RealClock{}, lib.Path)

	return &ArchiveApp{
		cfg:       cfg,
		library:   lib,
		db:        db,
		vault:     v,
		encryptor: enc,
		service:   svc,
		logger:    adapter,
		op:        NewOperation(operation, parameters),
		logFile:   logFile,
	}, nil
}

func resolveLibrary(cfg *config.Config, name string) (*config.LibraryConfig, error) {
	if name == "" {
		name = cfg.LastOpenedLibrary
	}
	if name == "" {
		return nil, fmt.Errorf("no library selected: pass --library or run 'fondspod library open'")
	}
	lib := cfg.FindLibrary(name)
	if lib == nil {
		return nil, fmt.Errorf("library %q not found", name)
	}
	return lib, nil
}

// snapshotTarget returns the first configured vault with the encryptor for its
// snapshots. Both are nil when no vault is configured.
func snapshotTarget(cfg *config.Config) (archive.Vault, archive.Encryptor, error) {
	if len(cfg.Vaults) == 0 {
		return nil, nil, nil
	}
	v, err := vault.NewVaultFromConfig(cfg.Vaults[0])
	if err != nil {
		return nil, nil, fmt.Errorf("creating vault: %w", err)
	}
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if !enc.IsConfigured() {
		return nil, nil, fmt.Errorf("encryption keys missing: run 'fondspod encryption init' or set encryption type to none")
	}
	return v, enc, nil
}

// checkVersions refuses to work on a library whose vault snapshot was taken
// after the last operation recorded locally.
func checkVersions(ctx context.Context, db *database.SQLiteDatabase, v archive.Vault, libraryID string) error {
	remote, err := v.SnapshotVersion(libraryID)
	if err != nil {
		return fmt.Errorf("checking vault snapshot version: %w", err)
	}
	local, err := db.MaxOperationID(ctx)
	if err != nil {
		return fmt.Errorf("checking local journal version: %w", err)
	}
	if remote > local {
		return fmt.Errorf("local library is behind vault (local=%d, vault=%d): run 'fondspod library restore'", local, remote)
	}
	return nil
}

// Library returns the library this app operates on.
func (a *ArchiveApp) Library() *config.LibraryConfig {
	return a.library
}

// Query returns the archive service for read-only commands.
func (a *ArchiveApp) Query() *archive.ArchiveService {
	return a.service
}

// Mutate journals the operation and runs fn against the archive service.
// A failing fn marks the operation as failed.
func (a *ArchiveApp) Mutate(ctx context.Context, fn func(*archive.ArchiveService) error) error {
	if err := a.persistOperation(ctx); err != nil {
		return err
	}
	return a.op.Fail(fn(a.service))
}

// persistOperation saves the operation to the journal, giving it an auto-increment ID.
// This should only be called for mutating commands.
func (a *ArchiveApp) persistOperation(ctx context.Context) error {
	if a.op.Persisted() {
		return nil
	}
	dbOp, err := a.db.CreateOperation(ctx, a.op.Name, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// ImportItems resolves rawDir and creates one item per file found in it.
func (a *ArchiveApp) ImportItems(ctx context.Context, fileNo, rawDir string, recursive bool) ([]*archive.Item, error) {
	absDir, err := filepath.Abs(rawDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	var items []*archive.Item
	err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
		items, err = s.ImportItems(ctx, fileNo, absDir, recursive)
		return err
	})
	return items, err
}

// ExportClassifications writes the classification tree to path. The format
// follows the file extension.
func (a *ArchiveApp) ExportClassifications(ctx context.Context, path string) (int, error) {
	tree, err := a.service.ClassificationTree(ctx)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating export file: %w", err)
	}
	if err := transfer.Encode(f, transfer.FormatFromPath(path), tree); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("writing export file: %w", err)
	}
	return countNodes(tree), nil
}

// ImportClassifications reads a classification tree from path and creates the
// codes that do not exist yet. It returns the number created.
func (a *ArchiveApp) ImportClassifications(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	tree, err := transfer.Decode(f, transfer.FormatFromPath(path))
	if err != nil {
		return 0, err
	}

	var created int
	err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
		created, err = s.ImportClassifications(ctx, tree)
		return err
	})
	return created, err
}

func countNodes(nodes []*archive.ClassificationNode) int {
	n := len(nodes)
	for _, node := range nodes {
		n += countNodes(node.Children)
	}
	return n
}

// History returns the most recent journal entries.
func (a *ArchiveApp) History(ctx context.Context, limit int) ([]*archive.Operation, error) {
	return a.db.ListOperations(ctx, limit)
}

// Close finalizes the operation and closes all resources.
// For persisted operations: finishes the journal entry, snapshots the database
// and uploads it to the vault. Otherwise it just closes the database.
func (a *ArchiveApp) Close() error {
	var errs []error

	var snapshot string
	if a.op.Persisted() {
		ctx := context.Background()
		if err := a.db.FinishOperation(ctx, a.op.ID, a.op.Status); err != nil {
			errs = append(errs, fmt.Errorf("finishing operation: %w", err))
		}

		if a.vault != nil {
			path, err := a.snapshotDatabase()
			if err != nil {
				errs = append(errs, err)
			}
			snapshot = path
		}
	}

	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}

	if snapshot != "" {
		if err := a.uploadSnapshot(snapshot, a.op.ID); err != nil {
			errs = append(errs, err)
		} else {
			a.logger.Info("snapshot uploaded", "version", a.op.ID)
		}
		os.Remove(snapshot)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return errors.Join(errs...)
}

// snapshotDatabase copies the database to a temp file with VACUUM INTO.
// VACUUM INTO refuses an existing target, so only the name is reserved.
func (a *ArchiveApp) snapshotDatabase() (string, error) {
	tmpFile, err := os.CreateTemp("", "fondspod-snapshot-*.db")
	if err != nil {
		return "", fmt.Errorf("creating temp file for snapshot: %w", err)
	}
	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path)

	if err := a.db.BackupTo(path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("snapshotting database: %w", err)
	}
	return path, nil
}

// uploadSnapshot encrypts the snapshot at path and uploads it to the vault.
func (a *ArchiveApp) uploadSnapshot(path string, version int64) error {
	encPath, err := encryptFile(a.encryptor, path)
	if err != nil {
		return err
	}
	defer os.Remove(encPath)

	f, err := os.Open(encPath)
	if err != nil {
		return fmt.Errorf("opening snapshot for upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat snapshot: %w", err)
	}

	if err := a.vault.PutSnapshot(a.library.ID, f, info.Size(), version); err != nil {
		return fmt.Errorf("uploading snapshot to vault: %w", err)
	}
	return nil
}

// encryptFile writes the encrypted form of src to a new temp file and
// returns its path.
func encryptFile(enc archive.Encryptor, src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening snapshot: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp("", "fondspod-snapshot-*.enc")
	if err != nil {
		return "", fmt.Errorf("creating temp file for encrypted snapshot: %w", err)
	}
	if err := enc.Encrypt(in, out); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("encrypting snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("writing encrypted snapshot: %w", err)
	}
	return out.Name(), nil
}
