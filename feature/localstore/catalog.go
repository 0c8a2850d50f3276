package localstore

import (
	"context"
	"fmt"
	"strings"

	"category-manager/core/reconcile"
	"category-manager/core/taxonomy"
	"category-manager/core/utils"

	"go.uber.org/zap"
)

// CatalogEntry is the typed view of one catalog record. Ids are kept as
// strings because the file mixes numeric and string ids.
type CatalogEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
	Path     string `json:"path"`
	Level    int    `json:"level"`
}

func catalogEntry(o *utils.Object) CatalogEntry {
	return CatalogEntry{
		ID:       o.String("id"),
		Name:     o.String("name"),
		ParentID: o.String("parentId"),
		Path:     o.String("path"),
		Level:    int(utils.ToInt64(o.String("level"))),
	}
}

// RewriteCatalogEntry updates path, name and level of one record when a rule
// matches its path. It reports whether the record changed.
func RewriteCatalogEntry(o *utils.Object, rules taxonomy.RuleSet) (bool, error) {
	path := o.String("path")
	newPath := rewritePath(rules, path)
	if newPath == path {
		return false, nil
	}

	if err := o.Set("path", newPath); err != nil {
		return false, err
	}
	if leaf := taxonomy.LeafName(newPath); leaf != "" {
		if err := o.Set("name", leaf); err != nil {
			return false, err
		}
		if err := o.Set("level", taxonomy.Level(newPath)); err != nil {
			return false, err
		}
	}
	return true, nil
}

// CatalogStore rewrites the category catalog file.
type CatalogStore struct {
	files  *Files
	path   string
	logger *zap.Logger
}

// NewCatalogStore creates a store for the catalog at path.
func NewCatalogStore(files *Files, path string, logger *zap.Logger) *CatalogStore {
	return &CatalogStore{files: files, path: path, logger: logger}
}

// Phase implements reconcile.Store.
func (s *CatalogStore) Phase() reconcile.Phase {
	return reconcile.PhaseCatalog
}

// Load returns every object record of the catalog.
func (s *CatalogStore) Load() ([]CatalogEntry, error) {
	var records []record
	if err := s.files.ReadJSON(s.path, &records); err != nil {
		return nil, err
	}
	entries := make([]CatalogEntry, 0, len(records))
	for _, r := range records {
		if r.obj != nil {
			entries = append(entries, catalogEntry(r.obj))
		}
	}
	return entries, nil
}

// Apply implements reconcile.Store.
func (s *CatalogStore) Apply(ctx context.Context, rules taxonomy.RuleSet, opts reconcile.Options) (reconcile.Result, error) {
	var records []record
	if res, ok := s.files.load(s.path, &records); !ok {
		return res, nil
	}

	var (
		result  reconcile.Result
		invalid []string
	)
	for i, r := range records {
		if r.obj == nil {
			continue
		}
		if strings.TrimSpace(r.obj.String("path")) == "" {
			id := r.obj.String("id")
			if id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			invalid = append(invalid, id)
			continue
		}
		changed, err := RewriteCatalogEntry(r.obj, rules)
		if err != nil {
			return result, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if changed {
			result.Changed++
		}
	}

	if len(invalid) > 0 {
		result.Advise("%d catalog entries have no path: %s", len(invalid), summarize(invalid, 10))
	}

	if err := s.files.commit(ctx, s.path, records, result.Changed, opts); err != nil {
		return result, err
	}
	s.logger.Info("Category catalog processed", zap.String("path", s.path), zap.Int("changed", result.Changed))
	return result, nil
}

// summarize joins at most n items and notes how many were left out.
func summarize(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:n], ", "), len(items)-n)
}
