package database

import "fondspod/internal/archive"

var classificationMapping = &Mapping[*archive.FondClassification]{
	Table:   "fond_classifications",
	Columns: []string{"code", "name", "parent_code", "active", "sort_order"},
	New:     func() *archive.FondClassification { return &archive.FondClassification{} },
	Values: func(c *archive.FondClassification) []any {
		return []any{c.Code, c.Name, c.ParentCode, c.Active, c.SortOrder}
	},
	Fields: func(c *archive.FondClassification) []any {
		return []any{&c.Code, &c.Name, &c.ParentCode, &c.Active, &c.SortOrder}
	},
}

var fondMapping = &Mapping[*archive.Fond]{
	Table:   "fonds",
	Columns: []string{"fond_no", "classification_code", "name"},
	New:     func() *archive.Fond { return &archive.Fond{} },
	Values: func(f *archive.Fond) []any {
		return []any{f.FondNo, f.ClassificationCode, f.Name}
	},
	Fields: func(f *archive.Fond) []any {
		return []any{&f.FondNo, &f.ClassificationCode, &f.Name}
	},
}

var schemaMapping = &Mapping[*archive.Schema]{
	Table:   "schemas",
	Columns: []string{"schema_no", "name", "sort_order"},
	New:     func() *archive.Schema { return &archive.Schema{} },
	Values: func(s *archive.Schema) []any {
		return []any{s.SchemaNo, s.Name, s.SortOrder}
	},
	Fields: func(s *archive.Schema) []any {
		return []any{&s.SchemaNo, &s.Name, &s.SortOrder}
	},
}

var schemaItemMapping = &Mapping[*archive.SchemaItem]{
	Table:   "schema_items",
	Columns: []string{"schema_id", "item_no", "item_name", "sort_order"},
	New:     func() *archive.SchemaItem { return &archive.SchemaItem{} },
	Values: func(it *archive.SchemaItem) []any {
		return []any{it.SchemaID, it.ItemNo, it.ItemName, it.SortOrder}
	},
	Fields: func(it *archive.SchemaItem) []any {
		return []any{&it.SchemaID, &it.ItemNo, &it.ItemName, &it.SortOrder}
	},
}

var fondSchemaMapping = &Mapping[*archive.FondSchema]{
	Table:   "fond_schemas",
	Columns: []string{"fond_id", "schema_id", "sort_order"},
	New:     func() *archive.FondSchema { return &archive.FondSchema{} },
	Values: func(fs *archive.FondSchema) []any {
		return []any{fs.FondID, fs.SchemaID, fs.SortOrder}
	},
	Fields: func(fs *archive.FondSchema) []any {
		return []any{&fs.FondID, &fs.SchemaID, &fs.SortOrder}
	},
}

var seriesMapping = &Mapping[*archive.Series]{
	Table:   "series",
	Columns: []string{"fond_id", "series_no", "name"},
	New:     func() *archive.Series { return &archive.Series{} },
	Values: func(s *archive.Series) []any {
		return []any{s.FondID, s.SeriesNo, s.Name}
	},
	Fields: func(s *archive.Series) []any {
		return []any{&s.FondID, &s.SeriesNo, &s.Name}
	},
}

var fileMapping = &Mapping[*archive.File]{
	Table:   "files",
	Columns: []string{"series_id", "file_no", "name", "path"},
	New:     func() *archive.File { return &archive.File{} },
	Values: func(f *archive.File) []any {
		return []any{f.SeriesID, f.FileNo, f.Name, f.Path}
	},
	Fields: func(f *archive.File) []any {
		return []any{&f.SeriesID, &f.FileNo, &f.Name, &f.Path}
	},
}

var itemMapping = &Mapping[*archive.Item]{
	Table:   "items",
	Columns: []string{"file_id", "item_no", "name", "path"},
	New:     func() *archive.Item { return &archive.Item{} },
	Values: func(it *archive.Item) []any {
		return []any{it.FileID, it.ItemNo, it.Name, it.Path}
	},
	Fields: func(it *archive.Item) []any {
		return []any{&it.FileID, &it.ItemNo, &it.Name, &it.Path}
	},
}
