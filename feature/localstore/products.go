package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"category-manager/core/reconcile"
	"category-manager/core/taxonomy"
	"category-manager/core/utils"

	"go.uber.org/zap"
)

// Members of a product's embedded category object.
const (
	fieldPath           = "path"
	fieldTranslatedPath = "translated_path"
	fieldLeafName       = "leaf_name"
)

// ProductCategory is the typed view of a product's embedded category.
type ProductCategory struct {
	Path           string `json:"path"`
	TranslatedPath string `json:"translated_path,omitempty"`
	LeafName       string `json:"leaf_name,omitempty"`
}

// rewriteCategoryRef rewrites path and translated path independently and
// recomputes the leaf from the translated path, falling back to the source path.
func rewriteCategoryRef(cat *utils.Object, rules taxonomy.RuleSet) (bool, error) {
	changed := false
	path := cat.String(fieldPath)
	translated := cat.String(fieldTranslatedPath)

	newPath := rewritePath(rules, path)
	newTranslated := translated
	if translated != "" {
		newTranslated = rewritePath(rules, translated)
	}

	if newPath != path {
		if err := cat.Set(fieldPath, newPath); err != nil {
			return false, err
		}
		changed = true
	}
	if newTranslated != translated {
		if err := cat.Set(fieldTranslatedPath, newTranslated); err != nil {
			return false, err
		}
		changed = true
	}

	target := newTranslated
	if target == "" {
		target = newPath
	}
	if leaf := taxonomy.LeafName(target); leaf != "" && cat.String(fieldLeafName) != leaf {
		if err := cat.Set(fieldLeafName, leaf); err != nil {
			return false, err
		}
		changed = true
	}
	return changed, nil
}

// RewriteProduct updates the embedded category of a product and syncs the
// name of its first categories[] entry to the leaf. It returns the number of
// changes: one for the category object and one for the categories list.
func RewriteProduct(p *utils.Object, rules taxonomy.RuleSet) (int, error) {
	cat, err := decodeObject(p, "category")
	if err != nil {
		return 0, err
	}
	if cat == nil {
		return 0, nil
	}

	changes := 0
	catChanged, err := rewriteCategoryRef(cat, rules)
	if err != nil {
		return 0, err
	}
	if catChanged {
		if err := p.Set("category", cat); err != nil {
			return 0, err
		}
		changes++
	}

	leaf := cat.String(fieldLeafName)
	if leaf == "" {
		return changes, nil
	}

	if !p.Get("categories").IsArray() {
		return changes, nil
	}
	first := p.Path("categories.0")
	if !first.IsObject() || utils.ResultString(first.Get("name")) == leaf {
		return changes, nil
	}
	if err := p.SetPath("categories.0.name", leaf); err != nil {
		return changes, err
	}
	return changes + 1, nil
}

// ProductCategoryOf returns the embedded category of a product, if any.
func ProductCategoryOf(p *utils.Object) (ProductCategory, bool) {
	var pc ProductCategory
	found, err := p.Decode("category", &pc)
	if err != nil || !found {
		return ProductCategory{}, false
	}
	return pc, true
}

func rewriteRecords(records []record, rules taxonomy.RuleSet) (int, error) {
	changed := 0
	for i, r := range records {
		if r.obj == nil {
			continue
		}
		n, err := RewriteProduct(r.obj, rules)
		if err != nil {
			return changed, fmt.Errorf("product %d: %w", i, err)
		}
		changed += n
	}
	return changed, nil
}

// GroupedStore rewrites the grouped products file.
type GroupedStore struct {
	files  *Files
	path   string
	logger *zap.Logger
}

// NewGroupedStore creates a store for the grouped products file at path.
func NewGroupedStore(files *Files, path string, logger *zap.Logger) *GroupedStore {
	return &GroupedStore{files: files, path: path, logger: logger}
}

// Phase implements reconcile.Store.
func (s *GroupedStore) Phase() reconcile.Phase {
	return reconcile.PhaseProducts
}

// RewriteGroups rewrites group keys and products. Groups whose keys collide
// after the rewrite are concatenated in document order.
func RewriteGroups(groups *utils.Object, rules taxonomy.RuleSet) (*utils.Object, int, error) {
	var (
		order   []string
		merged  = make(map[string][]record)
		changed int
	)

	for _, key := range groups.Keys() {
		raw, _ := groups.Raw(key)
		var items []record
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, fmt.Errorf("group %q is not a list: %w", key, err)
		}

		newKey := rewritePath(rules, key)
		if newKey != key {
			changed++
		}
		if _, seen := merged[newKey]; !seen {
			order = append(order, newKey)
			merged[newKey] = make([]record, 0, len(items))
		}

		n, err := rewriteRecords(items, rules)
		if err != nil {
			return nil, 0, fmt.Errorf("group %q: %w", key, err)
		}
		changed += n
		merged[newKey] = append(merged[newKey], items...)
	}

	out := utils.NewObject()
	for _, key := range order {
		if err := out.Set(key, merged[key]); err != nil {
			return nil, 0, err
		}
	}
	return out, changed, nil
}

// Apply implements reconcile.Store.
func (s *GroupedStore) Apply(ctx context.Context, rules taxonomy.RuleSet, opts reconcile.Options) (reconcile.Result, error) {
	groups := utils.NewObject()
	if res, ok := s.files.load(s.path, groups); !ok {
		return res, nil
	}

	out, changed, err := RewriteGroups(groups, rules)
	if err != nil {
		s.logger.Warn("Skipping grouped products", zap.String("path", s.path), zap.Error(err))
		return reconcile.Result{Skipped: true, Reason: err.Error()}, nil
	}

	result := reconcile.Result{Changed: changed}
	if err := s.files.commit(ctx, s.path, out, changed, opts); err != nil {
		return result, err
	}
	s.logger.Info("Grouped products processed", zap.String("path", s.path), zap.Int("changed", changed))
	return result, nil
}

// ProductListStore rewrites the secondary product list.
type ProductListStore struct {
	files  *Files
	path   string
	logger *zap.Logger
}

// NewProductListStore creates a store for the product list at path.
func NewProductListStore(files *Files, path string, logger *zap.Logger) *ProductListStore {
	return &ProductListStore{files: files, path: path, logger: logger}
}

// Phase implements reconcile.Store.
func (s *ProductListStore) Phase() reconcile.Phase {
	return reconcile.PhaseProductList
}

// Apply implements reconcile.Store.
func (s *ProductListStore) Apply(ctx context.Context, rules taxonomy.RuleSet, opts reconcile.Options) (reconcile.Result, error) {
	var records []record
	if res, ok := s.files.load(s.path, &records); !ok {
		return res, nil
	}

	changed, err := rewriteRecords(records, rules)
	if err != nil {
		return reconcile.Result{}, err
	}

	result := reconcile.Result{Changed: changed}
	if err := s.files.commit(ctx, s.path, records, changed, opts); err != nil {
		return result, err
	}
	s.logger.Info("Product list processed", zap.String("path", s.path), zap.Int("changed", changed))
	return result, nil
}
