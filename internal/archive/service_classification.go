package archive

import (
	"context"
	"fmt"
	"strings"
)

// ClassificationNode is the exchange form of the classification tree.
type ClassificationNode struct {
	Code     string
	Name     string
	Active   bool
	Children []*ClassificationNode
}

// CreateClassification adds a classification. parentCode may be empty for a
// top-level node; otherwise the parent must exist.
func (s *ArchiveService) CreateClassification(ctx context.Context, code, name, parentCode string) (*FondClassification, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, Invalidf("classification code must not be empty")
	}
	if name == "" {
		return nil, Invalidf("classification name must not be empty")
	}

	var created *FondClassification
	err := s.store.InTx(ctx, func(st Store) error {
		var err error
		created, err = s.createClassification(ctx, st, code, name, parentCode, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("classification created", "code", created.Code, "parent", created.ParentCode)
	return created, nil
}

func (s *ArchiveService) createClassification(ctx context.Context, st Store, code, name, parentCode string, active bool) (*FondClassification, error) {
	all, err := st.Classifications().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading classifications: %w", err)
	}

	siblings := 0
	parentFound := parentCode == ""
	for _, c := range all {
		if c.Code == code {
			return nil, Invalidf("classification %q already exists", code)
		}
		if c.Code == parentCode {
			parentFound = true
		}
		if c.ParentCode == parentCode {
			siblings++
		}
	}
	if !parentFound {
		return nil, fmt.Errorf("%w: parent classification %s", ErrNotFound, parentCode)
	}

	c := &FondClassification{
		Code:       code,
		Name:       name,
		ParentCode: parentCode,
		Active:     active,
		SortOrder:  int64(siblings),
	}
	if _, err := st.Classifications().Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating classification %s: %w", code, err)
	}
	return c, nil
}

// ListClassifications returns all classifications, parents before their
// children, siblings by sort order.
func (s *ArchiveService) ListClassifications(ctx context.Context) ([]*FondClassification, error) {
	all, err := s.store.Classifications().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing classifications: %w", err)
	}

	children := make(map[string][]*FondClassification)
	for _, c := range all {
		children[c.ParentCode] = append(children[c.ParentCode], c)
	}
	for k := range children {
		bySortOrder(children[k], func(c *FondClassification) int64 { return c.SortOrder })
	}

	var out []*FondClassification
	var walk func(parent string)
	walk = func(parent string) {
		for _, c := range children[parent] {
			out = append(out, c)
			walk(c.Code)
		}
	}
	walk("")
	return out, nil
}

// SetClassificationActive activates or deactivates a classification.
// Inactive classifications cannot receive new fonds.
func (s *ArchiveService) SetClassificationActive(ctx context.Context, code string, active bool) error {
	return s.store.InTx(ctx, func(st Store) error {
		c, err := classificationByCode(ctx, st, code)
		if err != nil {
			return err
		}
		if c.Active == active {
			return nil
		}
		c.Active = active
		if err := st.Classifications().Update(ctx, c); err != nil {
			return fmt.Errorf("updating classification %s: %w", code, err)
		}
		s.logger.Info("classification updated", "code", code, "active", active)
		return nil
	})
}

// DeleteClassification removes a classification that has no children and
// is not used by any fond.
func (s *ArchiveService) DeleteClassification(ctx context.Context, code string) error {
	return s.store.InTx(ctx, func(st Store) error {
		c, err := classificationByCode(ctx, st, code)
		if err != nil {
			return err
		}

		children, err := count(ctx, st.Classifications(), func(o *FondClassification) bool { return o.ParentCode == code })
		if err != nil {
			return fmt.Errorf("counting children: %w", err)
		}
		if children > 0 {
			return Invalidf("classification %q has %d child classification(s)", code, children)
		}

		fonds, err := count(ctx, st.Fonds(), func(f *Fond) bool { return f.ClassificationCode == code })
		if err != nil {
			return fmt.Errorf("counting fonds: %w", err)
		}
		if fonds > 0 {
			return Invalidf("classification %q is used by %d fond(s)", code, fonds)
		}

		if _, err := st.Classifications().Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("deleting classification %s: %w", code, err)
		}
		s.logger.Info("classification deleted", "code", code)
		return nil
	})
}

// ClassificationTree returns the classifications as a tree for export.
func (s *ArchiveService) ClassificationTree(ctx context.Context) ([]*ClassificationNode, error) {
	ordered, err := s.ListClassifications(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*ClassificationNode, len(ordered))
	var roots []*ClassificationNode
	for _, c := range ordered {
		n := &ClassificationNode{Code: c.Code, Name: c.Name, Active: c.Active}
		nodes[c.Code] = n
		if parent, ok := nodes[c.ParentCode]; ok && c.ParentCode != "" {
			parent.Children = append(parent.Children, n)
		} else {
			roots = append(roots, n)
		}
	}
	return roots, nil
}

// ImportClassifications merges a tree into the library. Missing codes are
// created under their tree parent; existing codes get the imported name and
// active flag. It returns the number of classifications created.
func (s *ArchiveService) ImportClassifications(ctx context.Context, roots []*ClassificationNode) (int, error) {
	created := 0
	err := s.store.InTx(ctx, func(st Store) error {
		var walk func(nodes []*ClassificationNode, parent string) error
		walk = func(nodes []*ClassificationNode, parent string) error {
			for _, n := range nodes {
				if n == nil || strings.TrimSpace(n.Code) == "" {
					return Invalidf("imported classification without code under %q", parent)
				}
				existing, err := findOne(ctx, st.Classifications(), func(c *FondClassification) bool { return c.Code == n.Code })
				if err != nil {
					return fmt.Errorf("finding classification: %w", err)
				}
				if existing == nil {
					if _, err := s.createClassification(ctx, st, n.Code, n.Name, parent, n.Active); err != nil {
						return err
					}
					created++
				} else if existing.Name != n.Name || existing.Active != n.Active {
					existing.Name = n.Name
					existing.Active = n.Active
					if err := st.Classifications().Update(ctx, existing); err != nil {
						return fmt.Errorf("updating classification %s: %w", n.Code, err)
					}
				}
				if err := walk(n.Children, n.Code); err != nil {
					return err
				}
			}
			return nil
		}
		return walk(roots, "")
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("classifications imported", "created", created)
	return created, nil
}

func classificationByCode(ctx context.Context, st Store, code string) (*FondClassification, error) {
	c, err := findOne(ctx, st.Classifications(), func(c *FondClassification) bool { return c.Code == code })
	if err != nil {
		return nil, fmt.Errorf("finding classification: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: classification %s", ErrNotFound, code)
	}
	return c, nil
}
