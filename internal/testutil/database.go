package testutil

import (
	"testing"

	"fondspod/internal/archive"
	"fondspod/internal/database"
)

// NewTestDatabase creates a new in-memory SQLite database with migrations
// applied, stamping records with clock and FixedIdentity.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T, clock archive.Clock) *database.SQLiteDatabase {
	t.Helper()

	auditor := archive.NewAuditor(clock, FixedIdentity(), archive.NewNopLogger())
	db, err := database.NewSQLiteDatabase(":memory:", auditor)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
