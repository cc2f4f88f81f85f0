package archive

import "context"

// Repository is the persistence contract shared by every audited entity.
// Implementations are expected to be generic over the entity type; the
// entity contributes only its storage mapping.
type Repository[E Record] interface {
	// Create stamps the audit fields, stores e and writes the assigned id
	// back into it.
	Create(ctx context.Context, e E) (int64, error)

	// Insert stores e with the audit fields it already carries.
	Insert(ctx context.Context, e E) (int64, error)

	// FindByID returns the zero value (nil) and no error when id is absent.
	FindByID(ctx context.Context, id int64) (E, error)

	// FindAll returns every row in the storage order of the entity.
	FindAll(ctx context.Context) ([]E, error)

	// FindBy returns the rows for which pred is true, in storage order.
	FindBy(ctx context.Context, pred func(E) bool) ([]E, error)

	// Update rewrites the mutable columns of the row with e's id.
	// Returns ErrNotFound when no such row exists.
	Update(ctx context.Context, e E) error

	// Delete removes the row with id and reports whether one was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// DefaultDigits is the zero-padding width used when a caller passes none.
const DefaultDigits = 2

// Sequencer mints identifiers of the form prefix + zero-padded counter.
// Counters are independent per prefix and never hand out a value twice.
type Sequencer interface {
	Next(ctx context.Context, prefix string, digits int) (string, error)
	Reset(ctx context.Context, prefix string, next int64) error
	List(ctx context.Context) ([]*Sequence, error)
}

// Store groups the repositories of one archive library.
type Store interface {
	Classifications() Repository[*FondClassification]
	Fonds() Repository[*Fond]
	Schemas() Repository[*Schema]
	SchemaItems() Repository[*SchemaItem]
	FondSchemas() Repository[*FondSchema]
	Series() Repository[*Series]
	Files() Repository[*File]
	Items() Repository[*Item]
	Sequencer() Sequencer

	// InTx runs fn against a Store bound to one transaction. The transaction
	// commits when fn returns nil. Nested calls join the outer transaction.
	InTx(ctx context.Context, fn func(Store) error) error
}

// Journal records the commands that mutated a library.
type Journal interface {
	CreateOperation(ctx context.Context, operation, parameters string) (*Operation, error)
	FinishOperation(ctx context.Context, id int64, status string) error
	ListOperations(ctx context.Context, limit int) ([]*Operation, error)
	MaxOperationID(ctx context.Context) (int64, error)
}

// Database is a library store together with its lifecycle operations.
type Database interface {
	Store
	Journal

	// CheckMigrations verifies the schema is at the latest version.
	CheckMigrations() error

	// BackupTo writes a consistent copy of the database to path.
	BackupTo(path string) error

	Close() error
}
