package archive

import (
	"context"
	"fmt"
	"sort"
)

// GenerationResult summarizes one series generation run for a fond.
type GenerationResult struct {
	FondID       int64
	Candidates   int
	Existing     int
	Created      []*Series
	EmptySchemas []string // schemas with no items; they empty the product
}

// SeriesEngine derives the series of a fond from its ordered schemas.
type SeriesEngine struct {
	clock  Clock
	logger Logger
}

func NewSeriesEngine(clock Clock, logger Logger) *SeriesEngine {
	return &SeriesEngine{clock: clock, logger: logger}
}

// Axes resolves the ordered axes of the fond. The Year axis is recomputed
// from the clock on every call.
func (e *SeriesEngine) Axes(ctx context.Context, st Store, fond *Fond) ([]Axis, []string, error) {
	assigned, err := fondSchemasOf(ctx, st, fond.ID)
	if err != nil {
		return nil, nil, err
	}

	var axes []Axis
	var empty []string
	for _, fs := range assigned {
		schema, err := st.Schemas().FindByID(ctx, fs.SchemaID)
		if err != nil {
			return nil, nil, fmt.Errorf("loading schema %d: %w", fs.SchemaID, err)
		}
		if schema == nil {
			return nil, nil, fmt.Errorf("%w: schema %d assigned to fond %s", ErrNotFound, fs.SchemaID, fond.FondNo)
		}

		if IsYearSchema(schema) {
			axes = append(axes, YearAxis(fond.CreatedAt, e.clock.Now()))
			continue
		}

		items, err := st.SchemaItems().FindBy(ctx, func(it *SchemaItem) bool { return it.SchemaID == schema.ID })
		if err != nil {
			return nil, nil, fmt.Errorf("loading items of schema %s: %w", schema.SchemaNo, err)
		}
		axis := ItemAxis(schema, items)
		if len(axis.Items) == 0 {
			empty = append(empty, schema.SchemaNo)
		}
		axes = append(axes, axis)
	}
	return axes, empty, nil
}

// Generate inserts the series of fondID that do not exist yet. It never
// deletes or renames existing series, so running it again is a no-op until
// an axis grows. st should be bound to a transaction.
func (e *SeriesEngine) Generate(ctx context.Context, st Store, fondID int64) (*GenerationResult, error) {
	fond, err := st.Fonds().FindByID(ctx, fondID)
	if err != nil {
		return nil, fmt.Errorf("loading fond: %w", err)
	}
	if fond == nil {
		return nil, fmt.Errorf("%w: fond %d", ErrNotFound, fondID)
	}

	axes, empty, err := e.Axes(ctx, st, fond)
	if err != nil {
		return nil, err
	}
	result := &GenerationResult{FondID: fond.ID, EmptySchemas: empty}
	for _, schemaNo := range empty {
		e.logger.Warn("schema has no items, no series generated", "fond", fond.FondNo, "schema", schemaNo)
	}

	candidates := Candidates(axes)
	result.Candidates = len(candidates)
	if len(candidates) == 0 {
		return result, nil
	}

	existing, err := st.Series().FindBy(ctx, func(s *Series) bool { return s.FondID == fond.ID })
	if err != nil {
		return nil, fmt.Errorf("loading series: %w", err)
	}
	present := make(map[string]bool, len(existing))
	for _, s := range existing {
		present[s.SeriesNo] = true
	}

	for _, c := range candidates {
		if present[c.SeriesNo] {
			result.Existing++
			continue
		}
		s := &Series{FondID: fond.ID, SeriesNo: c.SeriesNo, Name: c.Name}
		if _, err := st.Series().Create(ctx, s); err != nil {
			if IsDuplicate(err) {
				result.Existing++
				continue
			}
			return nil, fmt.Errorf("creating series %s: %w", c.SeriesNo, err)
		}
		present[c.SeriesNo] = true
		result.Created = append(result.Created, s)
	}

	e.logger.Info("series generated", "fond", fond.FondNo, "candidates", result.Candidates, "created", len(result.Created))
	return result, nil
}

// fondSchemasOf returns the schemas assigned to fondID in axis order.
func fondSchemasOf(ctx context.Context, st Store, fondID int64) ([]*FondSchema, error) {
	assigned, err := st.FondSchemas().FindBy(ctx, func(fs *FondSchema) bool { return fs.FondID == fondID })
	if err != nil {
		return nil, fmt.Errorf("loading fond schemas: %w", err)
	}
	sort.SliceStable(assigned, func(i, j int) bool {
		if assigned[i].SortOrder != assigned[j].SortOrder {
			return assigned[i].SortOrder < assigned[j].SortOrder
		}
		return assigned[i].ID < assigned[j].ID
	})
	return assigned, nil
}
