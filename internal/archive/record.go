package archive

import "time"

// Audit holds the identity and provenance fields shared by every persisted
// entity. Entities embed it; the fields are set once on creation and never
// changed afterwards.
type Audit struct {
	ID             int64
	CreatedBy      string
	CreatedMachine string
	CreatedAt      time.Time
}

// AuditRecord returns the embedded audit fields so generic code can stamp
// and read them without knowing the concrete entity type.
func (a *Audit) AuditRecord() *Audit { return a }

// Record is implemented by any entity that embeds Audit.
type Record interface {
	AuditRecord() *Audit
}
