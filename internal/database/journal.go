package database

import (
	"context"
	"database/sql"
	"fmt"

	"fondspod/internal/archive"
)

// Operation journal

func (s *SQLiteDatabase) CreateOperation(ctx context.Context, operation, parameters string) (*archive.Operation, error) {
	op := &archive.Operation{
		Operation:  operation,
		Parameters: parameters,
		Status:     "running",
		StartedAt:  s.now(),
	}
	res, err := s.conn.ExecContext(ctx,
		"INSERT INTO operations (operation, parameters, status, started_at) VALUES (?, ?, ?, ?)",
		op.Operation, op.Parameters, op.Status, op.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", storageError("inserting into operations", err))
	}
	op.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return op, nil
}

func (s *SQLiteDatabase) FinishOperation(ctx context.Context, id int64, status string) error {
	res, err := s.conn.ExecContext(ctx,
		"UPDATE operations SET status = ?, finished_at = ? WHERE id = ?",
		status, s.now(), id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", storageError("updating operations", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: operation %d", archive.ErrNotFound, id)
	}
	return nil
}

// ListOperations returns the most recent operations first.
func (s *SQLiteDatabase) ListOperations(ctx context.Context, limit int) ([]*archive.Operation, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, operation, parameters, status, started_at, finished_at FROM operations ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", storageError("listing operations", err))
	}
	defer rows.Close()

	var ops []*archive.Operation
	for rows.Next() {
		op := &archive.Operation{}
		var finished sql.NullTime
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.Status, &op.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			op.FinishedAt = &t
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// MaxOperationID returns the id of the latest operation, or 0 for a fresh
// library. It is the version of the local database.
func (s *SQLiteDatabase) MaxOperationID(ctx context.Context) (int64, error) {
	var id int64
	if err := s.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM operations").Scan(&id); err != nil {
		return 0, fmt.Errorf("getting max operation ID: %w", err)
	}
	return id, nil
}
