package archive

import "time"

// FondClassification is a node of the classification tree that fonds are
// filed under. Children refer to their parent by code.
type FondClassification struct {
	Audit
	Code       string
	Name       string
	ParentCode string // empty for top-level classifications
	Active     bool
	SortOrder  int64
}

// Fond is a body of records from one creator. FondNo is minted from the
// classification code and never changes.
type Fond struct {
	Audit
	FondNo             string
	ClassificationCode string
	Name               string
}

// Schema is one classification dimension (e.g. "Year", "Department").
type Schema struct {
	Audit
	SchemaNo  string
	Name      string
	SortOrder int64
}

// SchemaItem is a value of a Schema. Items of the protected Year schema are
// never persisted.
type SchemaItem struct {
	Audit
	SchemaID  int64
	ItemNo    string
	ItemName  string
	SortOrder int64
}

// FondSchema assigns a Schema to a Fond at a position. The position decides
// the axis order of series generation.
type FondSchema struct {
	Audit
	FondID    int64
	SchemaID  int64
	SortOrder int64
}

// Series is one combination of schema items for a fond.
type Series struct {
	Audit
	FondID   int64
	SeriesNo string
	Name     string
}

// File is a folder of items inside a series.
type File struct {
	Audit
	SeriesID int64
	FileNo   string
	Name     string
	Path     string
}

// Item is a single archived document.
type Item struct {
	Audit
	FileID int64
	ItemNo string
	Name   string
	Path   string
}

// Sequence is the persisted counter behind one identifier prefix.
type Sequence struct {
	ID        int64
	Prefix    string
	NextValue int64
	Digits    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Operation is a journal entry for a command that mutated a library.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}
