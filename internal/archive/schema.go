package archive

// ProtectedSchemaNo identifies the built-in Year schema. Its items are
// computed from the calendar and it cannot be renamed, deleted or given
// items.
const ProtectedSchemaNo = "Year"

// CanModifySchema reports whether the schema with schemaNo may be renamed,
// deleted or given items.
func CanModifySchema(schemaNo string) bool {
	return schemaNo != ProtectedSchemaNo
}

// IsYearSchema reports whether s is the protected Year schema.
func IsYearSchema(s *Schema) bool {
	return s != nil && s.SchemaNo == ProtectedSchemaNo
}

// CheckSchemaRename validates renaming the schema currently numbered
// schemaNo to newSchemaNo.
func CheckSchemaRename(schemaNo, newSchemaNo string) error {
	if !CanModifySchema(schemaNo) {
		return Invalidf("schema %q is protected and cannot be renamed", schemaNo)
	}
	if newSchemaNo == "" {
		return Invalidf("schema number must not be empty")
	}
	if !CanModifySchema(newSchemaNo) {
		return Invalidf("schema number %q is reserved", newSchemaNo)
	}
	return nil
}

// CheckSchemaItemAdd validates adding an item to the schema schemaNo.
func CheckSchemaItemAdd(schemaNo string) error {
	if !CanModifySchema(schemaNo) {
		return Invalidf("schema %q is protected and its items are generated", schemaNo)
	}
	return nil
}

// CheckSchemaDelete validates deleting the schema schemaNo, which is
// currently assigned to referencingFonds fonds.
func CheckSchemaDelete(schemaNo string, referencingFonds int) error {
	if !CanModifySchema(schemaNo) {
		return Invalidf("schema %q is protected and cannot be deleted", schemaNo)
	}
	if referencingFonds > 0 {
		return Invalidf("schema %q is assigned to %d fond(s)", schemaNo, referencingFonds)
	}
	return nil
}
