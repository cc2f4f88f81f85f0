package database

import (
	"fmt"
	"path/filepath"

	"fondspod/internal/archive"
	"fondspod/internal/config"
)

// NewDatabaseFromConfig opens the database of the library at libraryPath
// according to the database config type.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, libraryPath string, auditor *archive.Auditor) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite", "":
		if libraryPath == "" {
			return nil, fmt.Errorf("library path required for sqlite database")
		}
		return NewSQLiteDatabase(LibraryDBPath(libraryPath), auditor)
	case "memory":
		return NewSQLiteDatabase(":memory:", auditor)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

// LibraryDBPath returns the database file of the library at libraryPath.
func LibraryDBPath(libraryPath string) string {
	return filepath.Join(libraryPath, LibraryDBName)
}
