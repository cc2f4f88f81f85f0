package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// CreateFileInput describes a new file inside a series. When Path is empty
// the file gets its own directory under the fond directory.
type CreateFileInput struct {
	FondNo   string
	SeriesNo string
	Name     string
	Path     string
}

// CreateFile mints a file number within the series and stores the file.
func (s *ArchiveService) CreateFile(ctx context.Context, in CreateFileInput) (*File, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Invalidf("file name must not be empty")
	}

	var file *File
	var fondNo string
	err := s.store.InTx(ctx, func(st Store) error {
		fond, err := s.fondByNo(ctx, st, in.FondNo)
		if err != nil {
			return err
		}
		series, err := s.seriesByNo(ctx, st, fond.ID, in.SeriesNo)
		if err != nil {
			return err
		}

		fileNo, err := st.Sequencer().Next(ctx, FilePrefix(fond.FondNo, series.SeriesNo), FileDigits)
		if err != nil {
			return fmt.Errorf("minting file number: %w", err)
		}

		path := in.Path
		if path == "" {
			path = s.fileDir(fond.FondNo, fileNo)
		}
		file = &File{SeriesID: series.ID, FileNo: fileNo, Name: name, Path: path}
		if _, err := st.Files().Create(ctx, file); err != nil {
			return fmt.Errorf("creating file %s: %w", fileNo, err)
		}
		fondNo = fond.FondNo
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file created", "file", file.FileNo, "path", file.Path)
	if in.Path == "" {
		s.ensureDir(s.fileDir(fondNo, file.FileNo))
	}
	return file, nil
}

// ListFiles returns the files of a series in creation order.
func (s *ArchiveService) ListFiles(ctx context.Context, fondNo, seriesNo string) ([]*File, error) {
	fond, err := s.fondByNo(ctx, s.store, fondNo)
	if err != nil {
		return nil, err
	}
	series, err := s.seriesByNo(ctx, s.store, fond.ID, seriesNo)
	if err != nil {
		return nil, err
	}
	files, err := s.store.Files().FindBy(ctx, func(f *File) bool { return f.SeriesID == series.ID })
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// RenameFile changes the name of a file.
func (s *ArchiveService) RenameFile(ctx context.Context, fileNo, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Invalidf("file name must not be empty")
	}
	return s.store.InTx(ctx, func(st Store) error {
		file, err := s.fileByNo(ctx, st, fileNo)
		if err != nil {
			return err
		}
		file.Name = name
		if err := st.Files().Update(ctx, file); err != nil {
			return fmt.Errorf("updating file %s: %w", fileNo, err)
		}
		s.logger.Info("file renamed", "file", fileNo)
		return nil
	})
}

// DeleteFile removes a file that holds no items. Its directory is left on
// disk.
func (s *ArchiveService) DeleteFile(ctx context.Context, fileNo string) error {
	return s.store.InTx(ctx, func(st Store) error {
		file, err := s.fileByNo(ctx, st, fileNo)
		if err != nil {
			return err
		}
		items, err := count(ctx, st.Items(), func(it *Item) bool { return it.FileID == file.ID })
		if err != nil {
			return fmt.Errorf("counting items: %w", err)
		}
		if items > 0 {
			return Invalidf("file %q still holds %d item(s)", fileNo, items)
		}
		if _, err := st.Files().Delete(ctx, file.ID); err != nil {
			return fmt.Errorf("deleting file %s: %w", fileNo, err)
		}
		s.logger.Info("file deleted", "file", fileNo)
		return nil
	})
}

// CreateItem mints an item number within the file and stores the item.
func (s *ArchiveService) CreateItem(ctx context.Context, fileNo, name, path string) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Invalidf("item name must not be empty")
	}

	var item *Item
	err := s.store.InTx(ctx, func(st Store) error {
		file, err := s.fileByNo(ctx, st, fileNo)
		if err != nil {
			return err
		}
		item, err = s.createItem(ctx, st, file, name, path)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", "item", item.ItemNo)
	return item, nil
}

func (s *ArchiveService) createItem(ctx context.Context, st Store, file *File, name, path string) (*Item, error) {
	itemNo, err := st.Sequencer().Next(ctx, ItemPrefix(file.FileNo), ItemDigits)
	if err != nil {
		return nil, fmt.Errorf("minting item number: %w", err)
	}
	item := &Item{FileID: file.ID, ItemNo: itemNo, Name: name, Path: path}
	if _, err := st.Items().Create(ctx, item); err != nil {
		return nil, fmt.Errorf("creating item %s: %w", itemNo, err)
	}
	return item, nil
}

// ImportItems creates one item per regular file found in dir, named after
// the file without its extension. All items are created in one transaction.
func (s *ArchiveService) ImportItems(ctx context.Context, fileNo, dir string, recursive bool) ([]*Item, error) {
	p, err := s.fsmgr.Resolve(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if !p.IsDir() {
		return nil, Invalidf("%s is not a directory", p.String())
	}
	found, err := s.fsmgr.FindFiles(p, recursive)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}

	var items []*Item
	err = s.store.InTx(ctx, func(st Store) error {
		file, err := s.fileByNo(ctx, st, fileNo)
		if err != nil {
			return err
		}
		for _, f := range found {
			base := filepath.Base(f.String())
			name := strings.TrimSuffix(base, filepath.Ext(base))
			if name == "" {
				name = base
			}
			item, err := s.createItem(ctx, st, file, name, f.String())
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("items imported", "file", fileNo, "dir", p.String(), "count", len(items))
	return items, nil
}

// ListItems returns the items of a file in creation order.
func (s *ArchiveService) ListItems(ctx context.Context, fileNo string) ([]*Item, error) {
	file, err := s.fileByNo(ctx, s.store, fileNo)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Items().FindBy(ctx, func(it *Item) bool { return it.FileID == file.ID })
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// RenameItem changes the name of an item.
func (s *ArchiveService) RenameItem(ctx context.Context, itemNo, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Invalidf("item name must not be empty")
	}
	return s.store.InTx(ctx, func(st Store) error {
		item, err := s.itemByNo(ctx, st, itemNo)
		if err != nil {
			return err
		}
		item.Name = name
		if err := st.Items().Update(ctx, item); err != nil {
			return fmt.Errorf("updating item %s: %w", itemNo, err)
		}
		s.logger.Info("item renamed", "item", itemNo)
		return nil
	})
}

// DeleteItem removes an item record. The document on disk is kept.
func (s *ArchiveService) DeleteItem(ctx context.Context, itemNo string) error {
	return s.store.InTx(ctx, func(st Store) error {
		item, err := s.itemByNo(ctx, st, itemNo)
		if err != nil {
			return err
		}
		if _, err := st.Items().Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("deleting item %s: %w", itemNo, err)
		}
		s.logger.Info("item deleted", "item", itemNo)
		return nil
	})
}

// Sequences lists the identifier counters of the library.
func (s *ArchiveService) Sequences(ctx context.Context) ([]*Sequence, error) {
	return s.store.Sequencer().List(ctx)
}

// ResetSequence sets the next value handed out for prefix.
func (s *ArchiveService) ResetSequence(ctx context.Context, prefix string, next int64) error {
	if next < 1 {
		return Invalidf("next value must be at least 1, got %d", next)
	}
	if err := s.store.Sequencer().Reset(ctx, prefix, next); err != nil {
		return err
	}
	s.logger.Warn("sequence reset", "prefix", prefix, "next", next)
	return nil
}
