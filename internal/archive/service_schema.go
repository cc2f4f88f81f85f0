package archive

import (
	"context"
	"fmt"
	"strings"
)

// CreateSchema adds a user schema. The Year schema is built in and its
// number is reserved.
func (s *ArchiveService) CreateSchema(ctx context.Context, schemaNo, name string) (*Schema, error) {
	schemaNo = strings.TrimSpace(schemaNo)
	name = strings.TrimSpace(name)
	if schemaNo == "" {
		return nil, Invalidf("schema number must not be empty")
	}
	if !CanModifySchema(schemaNo) {
		return nil, Invalidf("schema number %q is reserved", schemaNo)
	}
	if name == "" {
		name = schemaNo
	}

	var created *Schema
	err := s.store.InTx(ctx, func(st Store) error {
		all, err := st.Schemas().FindAll(ctx)
		if err != nil {
			return fmt.Errorf("loading schemas: %w", err)
		}
		for _, sc := range all {
			if sc.SchemaNo == schemaNo {
				return Invalidf("schema %q already exists", schemaNo)
			}
		}

		created = &Schema{SchemaNo: schemaNo, Name: name, SortOrder: int64(len(all))}
		if _, err := st.Schemas().Create(ctx, created); err != nil {
			return fmt.Errorf("creating schema %s: %w", schemaNo, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schema created", "schema", schemaNo)
	return created, nil
}

// ListSchemas returns all schemas by sort order.
func (s *ArchiveService) ListSchemas(ctx context.Context) ([]*Schema, error) {
	all, err := s.store.Schemas().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing schemas: %w", err)
	}
	bySortOrder(all, func(sc *Schema) int64 { return sc.SortOrder })
	return all, nil
}

// RenameSchema changes the number and name of a user schema.
func (s *ArchiveService) RenameSchema(ctx context.Context, schemaNo, newSchemaNo, newName string) (*Schema, error) {
	newSchemaNo = strings.TrimSpace(newSchemaNo)
	newName = strings.TrimSpace(newName)
	if err := CheckSchemaRename(schemaNo, newSchemaNo); err != nil {
		return nil, err
	}
	if newName == "" {
		newName = newSchemaNo
	}

	var schema *Schema
	err := s.store.InTx(ctx, func(st Store) error {
		var err error
		schema, err = s.schemaByNo(ctx, st, schemaNo)
		if err != nil {
			return err
		}
		if newSchemaNo != schemaNo {
			taken, err := findOne(ctx, st.Schemas(), func(sc *Schema) bool { return sc.SchemaNo == newSchemaNo })
			if err != nil {
				return fmt.Errorf("finding schema: %w", err)
			}
			if taken != nil {
				return Invalidf("schema %q already exists", newSchemaNo)
			}
		}

		schema.SchemaNo = newSchemaNo
		schema.Name = newName
		if err := st.Schemas().Update(ctx, schema); err != nil {
			return fmt.Errorf("updating schema %s: %w", schemaNo, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schema renamed", "from", schemaNo, "to", newSchemaNo)
	return schema, nil
}

// DeleteSchema removes a user schema that no fond references. Its items go
// with it.
func (s *ArchiveService) DeleteSchema(ctx context.Context, schemaNo string) error {
	if !CanModifySchema(schemaNo) {
		return CheckSchemaDelete(schemaNo, 0)
	}

	err := s.store.InTx(ctx, func(st Store) error {
		schema, err := s.schemaByNo(ctx, st, schemaNo)
		if err != nil {
			return err
		}

		refs, err := count(ctx, st.FondSchemas(), func(fs *FondSchema) bool { return fs.SchemaID == schema.ID })
		if err != nil {
			return fmt.Errorf("counting schema references: %w", err)
		}
		if err := CheckSchemaDelete(schema.SchemaNo, refs); err != nil {
			return err
		}

		if _, err := st.Schemas().Delete(ctx, schema.ID); err != nil {
			return fmt.Errorf("deleting schema %s: %w", schemaNo, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("schema deleted", "schema", schemaNo)
	return nil
}

// AddSchemaItem appends an item to a user schema.
func (s *ArchiveService) AddSchemaItem(ctx context.Context, schemaNo, itemNo, itemName string) (*SchemaItem, error) {
	if err := CheckSchemaItemAdd(schemaNo); err != nil {
		return nil, err
	}
	itemNo = strings.TrimSpace(itemNo)
	itemName = strings.TrimSpace(itemName)
	if itemNo == "" {
		return nil, Invalidf("item number must not be empty")
	}
	if strings.Contains(itemNo, SeriesSeparator) {
		return nil, Invalidf("item number %q must not contain %q", itemNo, SeriesSeparator)
	}
	if itemName == "" {
		itemName = itemNo
	}

	var item *SchemaItem
	err := s.store.InTx(ctx, func(st Store) error {
		schema, err := s.schemaByNo(ctx, st, schemaNo)
		if err != nil {
			return err
		}
		items, err := st.SchemaItems().FindBy(ctx, func(it *SchemaItem) bool { return it.SchemaID == schema.ID })
		if err != nil {
			return fmt.Errorf("loading schema items: %w", err)
		}
		var next int64
		for _, it := range items {
			if it.ItemNo == itemNo {
				return Invalidf("item %q already exists in schema %q", itemNo, schemaNo)
			}
			if it.SortOrder >= next {
				next = it.SortOrder + 1
			}
		}

		item = &SchemaItem{SchemaID: schema.ID, ItemNo: itemNo, ItemName: itemName, SortOrder: next}
		if _, err := st.SchemaItems().Create(ctx, item); err != nil {
			return fmt.Errorf("creating schema item %s: %w", itemNo, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schema item added", "schema", schemaNo, "item", itemNo)
	return item, nil
}

// ListSchemaItems returns the stored items of a schema in axis order. The
// Year schema has none; its values come from the calendar.
func (s *ArchiveService) ListSchemaItems(ctx context.Context, schemaNo string) ([]*SchemaItem, error) {
	schema, err := s.schemaByNo(ctx, s.store, schemaNo)
	if err != nil {
		return nil, err
	}
	items, err := s.store.SchemaItems().FindBy(ctx, func(it *SchemaItem) bool { return it.SchemaID == schema.ID })
	if err != nil {
		return nil, fmt.Errorf("listing schema items: %w", err)
	}
	bySortOrder(items, func(it *SchemaItem) int64 { return it.SortOrder })
	return items, nil
}

// DeleteSchemaItem removes an item from a user schema. Series already
// generated from it are kept.
func (s *ArchiveService) DeleteSchemaItem(ctx context.Context, schemaNo, itemNo string) error {
	if !CanModifySchema(schemaNo) {
		return Invalidf("schema %q is protected and its items are generated", schemaNo)
	}

	err := s.store.InTx(ctx, func(st Store) error {
		schema, err := s.schemaByNo(ctx, st, schemaNo)
		if err != nil {
			return err
		}
		item, err := findOne(ctx, st.SchemaItems(), func(it *SchemaItem) bool {
			return it.SchemaID == schema.ID && it.ItemNo == itemNo
		})
		if err != nil {
			return fmt.Errorf("finding schema item: %w", err)
		}
		if item == nil {
			return fmt.Errorf("%w: item %s in schema %s", ErrNotFound, itemNo, schemaNo)
		}
		if _, err := st.SchemaItems().Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("deleting schema item %s: %w", itemNo, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("schema item deleted", "schema", schemaNo, "item", itemNo)
	return nil
}
