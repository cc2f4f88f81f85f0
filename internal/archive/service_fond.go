package archive

import (
	"context"
	"fmt"
	"strings"
)

// CreateFondInput describes a new fond. SchemaNos are assigned in order and
// decide the axis order of its series.
type CreateFondInput struct {
	ClassificationCode string
	Name               string
	SchemaNos          []string
}

// FondResult is a fond together with the series generation it triggered.
type FondResult struct {
	Fond       *Fond
	Generation *GenerationResult
}

// CreateFond mints a fond number under the classification, stores the fond
// with its schema assignments and generates its series in one transaction,
// then creates the fond directory in the library.
func (s *ArchiveService) CreateFond(ctx context.Context, in CreateFondInput) (*FondResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Invalidf("fond name must not be empty")
	}
	seen := make(map[string]bool, len(in.SchemaNos))
	for _, no := range in.SchemaNos {
		if seen[no] {
			return nil, Invalidf("schema %q assigned twice", no)
		}
		seen[no] = true
	}

	result := &FondResult{}
	err := s.store.InTx(ctx, func(st Store) error {
		c, err := classificationByCode(ctx, st, in.ClassificationCode)
		if err != nil {
			return err
		}
		if !c.Active {
			return Invalidf("classification %q is inactive", c.Code)
		}

		schemas := make([]*Schema, 0, len(in.SchemaNos))
		for _, no := range in.SchemaNos {
			schema, err := s.schemaByNo(ctx, st, no)
			if err != nil {
				return err
			}
			schemas = append(schemas, schema)
		}

		fondNo, err := st.Sequencer().Next(ctx, FondPrefix(c.Code), FondDigits)
		if err != nil {
			return fmt.Errorf("minting fond number: %w", err)
		}

		fond := &Fond{FondNo: fondNo, ClassificationCode: c.Code, Name: name}
		if _, err := st.Fonds().Create(ctx, fond); err != nil {
			return fmt.Errorf("creating fond %s: %w", fondNo, err)
		}

		for i, schema := range schemas {
			fs := &FondSchema{FondID: fond.ID, SchemaID: schema.ID, SortOrder: int64(i)}
			if _, err := st.FondSchemas().Create(ctx, fs); err != nil {
				return fmt.Errorf("assigning schema %s: %w", schema.SchemaNo, err)
			}
		}

		gen, err := s.engine.Generate(ctx, st, fond.ID)
		if err != nil {
			return err
		}
		result.Fond = fond
		result.Generation = gen
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fond created", "fond", result.Fond.FondNo, "schemas", len(in.SchemaNos), "series", len(result.Generation.Created))
	s.ensureDir(s.fondDir(result.Fond.FondNo))
	return result, nil
}

// ListFonds returns all fonds in creation order.
func (s *ArchiveService) ListFonds(ctx context.Context) ([]*Fond, error) {
	fonds, err := s.store.Fonds().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing fonds: %w", err)
	}
	return fonds, nil
}

// FindFond returns the fond numbered fondNo.
func (s *ArchiveService) FindFond(ctx context.Context, fondNo string) (*Fond, error) {
	return s.fondByNo(ctx, s.store, fondNo)
}

// FondSchemas returns the schemas assigned to a fond in axis order.
func (s *ArchiveService) FondSchemas(ctx context.Context, fondNo string) ([]*Schema, error) {
	fond, err := s.fondByNo(ctx, s.store, fondNo)
	if err != nil {
		return nil, err
	}
	assigned, err := fondSchemasOf(ctx, s.store, fond.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*Schema, 0, len(assigned))
	for _, fs := range assigned {
		schema, err := s.store.Schemas().FindByID(ctx, fs.SchemaID)
		if err != nil {
			return nil, fmt.Errorf("loading schema %d: %w", fs.SchemaID, err)
		}
		if schema != nil {
			out = append(out, schema)
		}
	}
	return out, nil
}

// RenameFond changes the name of a fond. The fond number is permanent.
func (s *ArchiveService) RenameFond(ctx context.Context, fondNo, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Invalidf("fond name must not be empty")
	}
	return s.store.InTx(ctx, func(st Store) error {
		fond, err := s.fondByNo(ctx, st, fondNo)
		if err != nil {
			return err
		}
		fond.Name = name
		if err := st.Fonds().Update(ctx, fond); err != nil {
			return fmt.Errorf("updating fond %s: %w", fondNo, err)
		}
		s.logger.Info("fond renamed", "fond", fondNo)
		return nil
	})
}

// DeleteFond removes a fond with its schema assignments and series. A fond
// that still holds files cannot be deleted.
func (s *ArchiveService) DeleteFond(ctx context.Context, fondNo string) error {
	return s.store.InTx(ctx, func(st Store) error {
		fond, err := s.fondByNo(ctx, st, fondNo)
		if err != nil {
			return err
		}

		series, err := st.Series().FindBy(ctx, func(sr *Series) bool { return sr.FondID == fond.ID })
		if err != nil {
			return fmt.Errorf("loading series: %w", err)
		}
		ids := make(map[int64]bool, len(series))
		for _, sr := range series {
			ids[sr.ID] = true
		}
		files, err := count(ctx, st.Files(), func(f *File) bool { return ids[f.SeriesID] })
		if err != nil {
			return fmt.Errorf("counting files: %w", err)
		}
		if files > 0 {
			return Invalidf("fond %q still holds %d file(s)", fondNo, files)
		}

		// fond_schemas and series rows cascade with the fond.
		if _, err := st.Fonds().Delete(ctx, fond.ID); err != nil {
			return fmt.Errorf("deleting fond %s: %w", fondNo, err)
		}
		s.logger.Info("fond deleted", "fond", fondNo, "series", len(series))
		return nil
	})
}

// AssignSchema appends a schema to a fond and generates the series the new
// axis adds. Series generated before stay in place.
func (s *ArchiveService) AssignSchema(ctx context.Context, fondNo, schemaNo string) (*GenerationResult, error) {
	var gen *GenerationResult
	err := s.store.InTx(ctx, func(st Store) error {
		fond, err := s.fondByNo(ctx, st, fondNo)
		if err != nil {
			return err
		}
		schema, err := s.schemaByNo(ctx, st, schemaNo)
		if err != nil {
			return err
		}
		assigned, err := fondSchemasOf(ctx, st, fond.ID)
		if err != nil {
			return err
		}
		var next int64
		for _, fs := range assigned {
			if fs.SchemaID == schema.ID {
				return Invalidf("schema %q is already assigned to fond %q", schemaNo, fondNo)
			}
			if fs.SortOrder >= next {
				next = fs.SortOrder + 1
			}
		}

		fs := &FondSchema{FondID: fond.ID, SchemaID: schema.ID, SortOrder: next}
		if _, err := st.FondSchemas().Create(ctx, fs); err != nil {
			return fmt.Errorf("assigning schema %s: %w", schemaNo, err)
		}

		gen, err = s.engine.Generate(ctx, st, fond.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schema assigned", "fond", fondNo, "schema", schemaNo, "series", len(gen.Created))
	return gen, nil
}

// GenerateSeries brings the series of a fond up to date, e.g. after a new
// year began or a schema gained items.
func (s *ArchiveService) GenerateSeries(ctx context.Context, fondNo string) (*GenerationResult, error) {
	var gen *GenerationResult
	err := s.store.InTx(ctx, func(st Store) error {
		fond, err := s.fondByNo(ctx, st, fondNo)
		if err != nil {
			return err
		}
		gen, err = s.engine.Generate(ctx, st, fond.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return gen, nil
}

// ListSeries returns the series of a fond in creation order.
func (s *ArchiveService) ListSeries(ctx context.Context, fondNo string) ([]*Series, error) {
	fond, err := s.fondByNo(ctx, s.store, fondNo)
	if err != nil {
		return nil, err
	}
	series, err := s.store.Series().FindBy(ctx, func(sr *Series) bool { return sr.FondID == fond.ID })
	if err != nil {
		return nil, fmt.Errorf("listing series: %w", err)
	}
	return series, nil
}

// DeleteSeries removes an empty series. A later generation run recreates it
// if its combination still applies.
func (s *ArchiveService) DeleteSeries(ctx context.Context, fondNo, seriesNo string) error {
	return s.store.InTx(ctx, func(st Store) error {
		fond, err := s.fondByNo(ctx, st, fondNo)
		if err != nil {
			return err
		}
		series, err := s.seriesByNo(ctx, st, fond.ID, seriesNo)
		if err != nil {
			return err
		}
		files, err := count(ctx, st.Files(), func(f *File) bool { return f.SeriesID == series.ID })
		if err != nil {
			return fmt.Errorf("counting files: %w", err)
		}
		if files > 0 {
			return Invalidf("series %q still holds %d file(s)", seriesNo, files)
		}
		if _, err := st.Series().Delete(ctx, series.ID); err != nil {
			return fmt.Errorf("deleting series %s: %w", seriesNo, err)
		}
		s.logger.Info("series deleted", "fond", fondNo, "series", seriesNo)
		return nil
	})
}
