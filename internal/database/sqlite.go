package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fondspod/internal/archive"
	"fondspod/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// LibraryDBName is the database file kept at the root of every library.
const LibraryDBName = ".fondspod.db"

// SQLiteDatabase implements archive.Database on one SQLite connection.
// A value returned to an InTx callback is bound to that transaction; the
// root value runs each statement on its own.
type SQLiteDatabase struct {
	db      *sql.DB
	conn    DBTX
	inTx    bool
	auditor *archive.Auditor
	path    string

	classifications *Repository[*archive.FondClassification]
	fonds           *Repository[*archive.Fond]
	schemas         *Repository[*archive.Schema]
	schemaItems     *Repository[*archive.SchemaItem]
	fondSchemas     *Repository[*archive.FondSchema]
	series          *Repository[*archive.Series]
	files           *Repository[*archive.File]
	items           *Repository[*archive.Item]
}

// NewSQLiteDatabase opens the database at path ("" or ":memory:" for an
// in-memory database). The schema is not migrated; see Migrate.
func NewSQLiteDatabase(path string, auditor *archive.Auditor) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	s := NewSQLiteDatabaseFromDB(db, auditor)
	s.path = path
	return s, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB, auditor *archive.Auditor) *SQLiteDatabase {
	if auditor == nil {
		auditor = archive.NewAuditor(archive.RealClock{}, archive.OSIdentity{}, archive.NewNopLogger())
	}
	root := &SQLiteDatabase{db: db, auditor: auditor}
	return root.bind(db, false)
}

// OpenConnection opens and configures a SQLite database connection.
// The pool is limited to one connection: every statement against a library
// is serialized, and an in-memory database stays a single database.
func OpenConnection(path string) (*sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	// _foreign_keys applies on every new connection, unlike a one-off PRAGMA.
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&_loc=auto"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// bind returns a copy of s whose repositories run on conn.
func (s *SQLiteDatabase) bind(conn DBTX, inTx bool) *SQLiteDatabase {
	b := &SQLiteDatabase{
		db:      s.db,
		conn:    conn,
		inTx:    inTx,
		auditor: s.auditor,
		path:    s.path,
	}
	b.classifications = NewRepository(conn, classificationMapping, s.auditor)
	b.fonds = NewRepository(conn, fondMapping, s.auditor)
	b.schemas = NewRepository(conn, schemaMapping, s.auditor)
	b.schemaItems = NewRepository(conn, schemaItemMapping, s.auditor)
	b.fondSchemas = NewRepository(conn, fondSchemaMapping, s.auditor)
	b.series = NewRepository(conn, seriesMapping, s.auditor)
	b.files = NewRepository(conn, fileMapping, s.auditor)
	b.items = NewRepository(conn, itemMapping, s.auditor)
	return b
}

func (s *SQLiteDatabase) Classifications() archive.Repository[*archive.FondClassification] {
	return s.classifications
}

func (s *SQLiteDatabase) Fonds() archive.Repository[*archive.Fond]             { return s.fonds }
func (s *SQLiteDatabase) Schemas() archive.Repository[*archive.Schema]         { return s.schemas }
func (s *SQLiteDatabase) SchemaItems() archive.Repository[*archive.SchemaItem] { return s.schemaItems }
func (s *SQLiteDatabase) FondSchemas() archive.Repository[*archive.FondSchema] { return s.fondSchemas }
func (s *SQLiteDatabase) Series() archive.Repository[*archive.Series]          { return s.series }
func (s *SQLiteDatabase) Files() archive.Repository[*archive.File]             { return s.files }
func (s *SQLiteDatabase) Items() archive.Repository[*archive.Item]             { return s.items }

// Sequencer returns the identifier sequencer running on s.
func (s *SQLiteDatabase) Sequencer() archive.Sequencer {
	return &Sequencer{db: s}
}

// InTx runs fn in a transaction. On a value already bound to a
// transaction, fn joins it.
func (s *SQLiteDatabase) InTx(ctx context.Context, fn func(archive.Store) error) error {
	return s.transact(ctx, func(tx *SQLiteDatabase) error { return fn(tx) })
}

func (s *SQLiteDatabase) transact(ctx context.Context, fn func(*SQLiteDatabase) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("starting transaction", err)
	}
	defer tx.Rollback()

	if err := fn(s.bind(tx, true)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageError("committing transaction", err)
	}
	return nil
}

func (s *SQLiteDatabase) now() time.Time {
	return s.auditor.Now()
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// Migrate applies all pending schema migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// MigrationStatus reports the schema version of the database.
func (s *SQLiteDatabase) MigrationStatus() (migrations.Status, error) {
	return migrations.ReadStatus(s.db)
}

// DumpSchema returns the CREATE statements of the database.
func (s *SQLiteDatabase) DumpSchema() (string, error) {
	return migrations.DumpSchema(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteDatabase implements archive.Database interface
var _ archive.Database = (*SQLiteDatabase)(nil)
