package database

import (
	"context"
	"fmt"

	"fondspod/internal/archive"
)

// Sequencer mints identifiers from the sequences table. Each call runs a
// read-increment-write in one immediate transaction, or in the caller's
// transaction when the database value is bound to one.
type Sequencer struct {
	db *SQLiteDatabase
}

// FormatSequence renders prefix followed by value zero-padded to digits.
// Values wider than digits are written in full.
func FormatSequence(prefix string, value int64, digits int) string {
	if digits <= 0 {
		digits = archive.DefaultDigits
	}
	return fmt.Sprintf("%s%0*d", prefix, digits, value)
}

func (q *Sequencer) Next(ctx context.Context, prefix string, digits int) (string, error) {
	if digits <= 0 {
		digits = archive.DefaultDigits
	}

	var value int64
	err := q.db.transact(ctx, func(tx *SQLiteDatabase) error {
		now := tx.now()
		_, err := tx.conn.ExecContext(ctx,
			`INSERT INTO sequences (prefix, next_value, digits, created_at, updated_at)
			 VALUES (?, 1, ?, ?, ?)
			 ON CONFLICT(prefix) DO NOTHING`,
			prefix, digits, now, now)
		if err != nil {
			return storageError("ensuring sequence "+prefix, err)
		}

		if err := tx.conn.QueryRowContext(ctx,
			"SELECT next_value FROM sequences WHERE prefix = ?", prefix).Scan(&value); err != nil {
			return storageError("reading sequence "+prefix, err)
		}

		if _, err := tx.conn.ExecContext(ctx,
			"UPDATE sequences SET next_value = next_value + 1, updated_at = ? WHERE prefix = ?",
			now, prefix); err != nil {
			return storageError("advancing sequence "+prefix, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return FormatSequence(prefix, value, digits), nil
}

// Reset makes the next call for prefix return next.
func (q *Sequencer) Reset(ctx context.Context, prefix string, next int64) error {
	return q.db.transact(ctx, func(tx *SQLiteDatabase) error {
		now := tx.now()
		_, err := tx.conn.ExecContext(ctx,
			`INSERT INTO sequences (prefix, next_value, digits, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(prefix) DO UPDATE SET next_value = excluded.next_value, updated_at = excluded.updated_at`,
			prefix, next, archive.DefaultDigits, now, now)
		if err != nil {
			return storageError("resetting sequence "+prefix, err)
		}
		return nil
	})
}

func (q *Sequencer) List(ctx context.Context) ([]*archive.Sequence, error) {
	rows, err := q.db.conn.QueryContext(ctx,
		"SELECT id, prefix, next_value, digits, created_at, updated_at FROM sequences ORDER BY prefix")
	if err != nil {
		return nil, storageError("listing sequences", err)
	}
	defer rows.Close()

	var out []*archive.Sequence
	for rows.Next() {
		seq := &archive.Sequence{}
		if err := rows.Scan(&seq.ID, &seq.Prefix, &seq.NextValue, &seq.Digits, &seq.CreatedAt, &seq.UpdatedAt); err != nil {
			return nil, storageError("scanning sequences", err)
		}
		out = append(out, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("listing sequences", err)
	}
	return out, nil
}

var _ archive.Sequencer = (*Sequencer)(nil)
