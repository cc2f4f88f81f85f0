package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"fondspod/internal/archive"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// auditColumns are appended to every mapped table after its own columns.
var auditColumns = []string{"created_by", "created_machine", "created_at"}

// Mapping describes how one entity type is stored. Columns lists the
// entity's own columns; the id and audit columns are handled by Repository.
type Mapping[E archive.Record] struct {
	Table   string
	Columns []string
	OrderBy string // defaults to "id"

	// New returns an empty entity to scan into.
	New func() E
	// Values returns the column values of e, in Columns order.
	Values func(e E) []any
	// Fields returns scan destinations inside e, in Columns order.
	Fields func(e E) []any
}

// Repository implements archive.Repository for any entity with a Mapping.
type Repository[E archive.Record] struct {
	db      DBTX
	m       *Mapping[E]
	auditor *archive.Auditor

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

// NewRepository builds the statements for m and binds them to db.
func NewRepository[E archive.Record](db DBTX, m *Mapping[E], auditor *archive.Auditor) *Repository[E] {
	all := append(append([]string{"id"}, m.Columns...), auditColumns...)
	insertCols := append(append([]string{}, m.Columns...), auditColumns...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(insertCols)), ", ")

	sets := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		sets[i] = c + " = ?"
	}

	return &Repository[E]{
		db:        db,
		m:         m,
		auditor:   auditor,
		selectSQL: fmt.Sprintf("SELECT %s FROM %s", strings.Join(all, ", "), m.Table),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", m.Table, strings.Join(insertCols, ", "), placeholders),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", m.Table, strings.Join(sets, ", ")),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE id = ?", m.Table),
	}
}

func (r *Repository[E]) Create(ctx context.Context, e E) (int64, error) {
	r.auditor.Stamp(e)
	return r.Insert(ctx, e)
}

func (r *Repository[E]) Insert(ctx context.Context, e E) (int64, error) {
	a := e.AuditRecord()
	args := append(r.m.Values(e), a.CreatedBy, a.CreatedMachine, a.CreatedAt)

	res, err := r.db.ExecContext(ctx, r.insertSQL, args...)
	if err != nil {
		return 0, storageError("inserting into "+r.m.Table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageError("reading id from "+r.m.Table, err)
	}
	a.ID = id
	return id, nil
}

func (r *Repository[E]) FindByID(ctx context.Context, id int64) (E, error) {
	row := r.db.QueryRowContext(ctx, r.selectSQL+" WHERE id = ?", id)
	e, err := r.scan(row)
	if err != nil {
		var zero E
		if errors.Is(err, sql.ErrNoRows) {
			return zero, nil
		}
		return zero, storageError("finding in "+r.m.Table, err)
	}
	return e, nil
}

func (r *Repository[E]) FindAll(ctx context.Context) ([]E, error) {
	return r.FindBy(ctx, nil)
}

// FindBy loads every row and keeps those matching pred. A nil pred keeps all.
func (r *Repository[E]) FindBy(ctx context.Context, pred func(E) bool) ([]E, error) {
	order := r.m.OrderBy
	if order == "" {
		order = "id"
	}
	rows, err := r.db.QueryContext(ctx, r.selectSQL+" ORDER BY "+order)
	if err != nil {
		return nil, storageError("listing "+r.m.Table, err)
	}
	defer rows.Close()

	var out []E
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, storageError("scanning "+r.m.Table, err)
		}
		if pred == nil || pred(e) {
			out = append(out, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("listing "+r.m.Table, err)
	}
	return out, nil
}

func (r *Repository[E]) Update(ctx context.Context, e E) error {
	id := e.AuditRecord().ID
	args := append(r.m.Values(e), id)

	res, err := r.db.ExecContext(ctx, r.updateSQL, args...)
	if err != nil {
		return storageError("updating "+r.m.Table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageError("updating "+r.m.Table, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s id %d", archive.ErrNotFound, r.m.Table, id)
	}
	return nil
}

func (r *Repository[E]) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.deleteSQL, id)
	if err != nil {
		return false, storageError("deleting from "+r.m.Table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageError("deleting from "+r.m.Table, err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *Repository[E]) scan(row scanner) (E, error) {
	e := r.m.New()
	a := e.AuditRecord()

	dest := make([]any, 0, len(r.m.Columns)+4)
	dest = append(dest, &a.ID)
	dest = append(dest, r.m.Fields(e)...)
	dest = append(dest, &a.CreatedBy, &a.CreatedMachine, &a.CreatedAt)

	if err := row.Scan(dest...); err != nil {
		var zero E
		return zero, err
	}
	return e, nil
}

// storageError wraps a driver error, flagging constraint violations.
func storageError(op string, err error) error {
	se := &archive.StorageError{Op: op, Err: err}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		se.Constraint = true
		se.Unique = sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return se
}

var _ archive.Repository[*archive.Fond] = (*Repository[*archive.Fond])(nil)
