package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
)

// ArchiveService is the orchestration layer for one archive library. It
// applies the domain rules on top of the store and keeps the directory
// layout of the library in step with the records.
type ArchiveService struct {
	store  Store
	engine *SeriesEngine
	fsmgr  FilesystemManager
	logger Logger
	root   string
}

// NewArchiveService creates an ArchiveService for the library rooted at root.
func NewArchiveService(store Store, fsmgr FilesystemManager, logger Logger, clock Clock, root string) *ArchiveService {
	return &ArchiveService{
		store:  store,
		engine: NewSeriesEngine(clock, logger),
		fsmgr:  fsmgr,
		logger: logger,
		root:   root,
	}
}

// Root returns the library directory.
func (s *ArchiveService) Root() string {
	return s.root
}

func (s *ArchiveService) fondDir(fondNo string) string {
	return filepath.Join(s.root, fondNo)
}

func (s *ArchiveService) fileDir(fondNo, fileNo string) string {
	return filepath.Join(s.root, fondNo, fileNo)
}

// ensureDir creates a layout directory. Failures are logged and do not undo
// the committed records.
func (s *ArchiveService) ensureDir(path string) bool {
	if err := s.fsmgr.EnsureDir(path); err != nil {
		s.logger.Error("creating directory", "path", path, "error", err)
		return false
	}
	return true
}

// findOne returns the first row matching pred, or nil.
func findOne[E Record](ctx context.Context, repo Repository[E], pred func(E) bool) (E, error) {
	rows, err := repo.FindBy(ctx, pred)
	if err != nil {
		var zero E
		return zero, err
	}
	if len(rows) == 0 {
		var zero E
		return zero, nil
	}
	return rows[0], nil
}

func count[E Record](ctx context.Context, repo Repository[E], pred func(E) bool) (int, error) {
	rows, err := repo.FindBy(ctx, pred)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *ArchiveService) fondByNo(ctx context.Context, st Store, fondNo string) (*Fond, error) {
	fond, err := findOne(ctx, st.Fonds(), func(f *Fond) bool { return f.FondNo == fondNo })
	if err != nil {
		return nil, fmt.Errorf("finding fond: %w", err)
	}
	if fond == nil {
		return nil, fmt.Errorf("%w: fond %s", ErrNotFound, fondNo)
	}
	return fond, nil
}

func (s *ArchiveService) schemaByNo(ctx context.Context, st Store, schemaNo string) (*Schema, error) {
	schema, err := findOne(ctx, st.Schemas(), func(sc *Schema) bool { return sc.SchemaNo == schemaNo })
	if err != nil {
		return nil, fmt.Errorf("finding schema: %w", err)
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: schema %s", ErrNotFound, schemaNo)
	}
	return schema, nil
}

func (s *ArchiveService) seriesByNo(ctx context.Context, st Store, fondID int64, seriesNo string) (*Series, error) {
	series, err := findOne(ctx, st.Series(), func(sr *Series) bool {
		return sr.FondID == fondID && sr.SeriesNo == seriesNo
	})
	if err != nil {
		return nil, fmt.Errorf("finding series: %w", err)
	}
	if series == nil {
		return nil, fmt.Errorf("%w: series %s", ErrNotFound, seriesNo)
	}
	return series, nil
}

func (s *ArchiveService) fileByNo(ctx context.Context, st Store, fileNo string) (*File, error) {
	file, err := findOne(ctx, st.Files(), func(f *File) bool { return f.FileNo == fileNo })
	if err != nil {
		return nil, fmt.Errorf("finding file: %w", err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileNo)
	}
	return file, nil
}

func (s *ArchiveService) itemByNo(ctx context.Context, st Store, itemNo string) (*Item, error) {
	item, err := findOne(ctx, st.Items(), func(it *Item) bool { return it.ItemNo == itemNo })
	if err != nil {
		return nil, fmt.Errorf("finding item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemNo)
	}
	return item, nil
}

// bySortOrder orders rows by a sort key and then by id.
func bySortOrder[E Record](rows []E, key func(E) int64) {
	sort.SliceStable(rows, func(i, j int) bool {
		ki, kj := key(rows[i]), key(rows[j])
		if ki != kj {
			return ki < kj
		}
		return rows[i].AuditRecord().ID < rows[j].AuditRecord().ID
	})
}
