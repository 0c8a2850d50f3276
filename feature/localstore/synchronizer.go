package localstore

import (
	"category-manager/core/reconcile"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Synchronizer bundles the local stores configured for a run.
type Synchronizer struct {
	translations *TranslationStore
	catalog      *CatalogStore
	grouped      *GroupedStore
	productList  *ProductListStore
}

// New creates the stores for the configured files. archiver may be nil.
func New(cfg Config, fs afero.Fs, archiver Archiver, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	files := NewFiles(fs, archiver, logger)

	s := &Synchronizer{
		translations: NewTranslationStore(files, cfg.Resolve(cfg.TranslationFile), logger),
		catalog:      NewCatalogStore(files, cfg.Resolve(cfg.CatalogFile), logger),
		grouped:      NewGroupedStore(files, cfg.Resolve(cfg.GroupedFile), logger),
	}
	if cfg.ProductListFile != "" {
		s.productList = NewProductListStore(files, cfg.Resolve(cfg.ProductListFile), logger)
	}
	return s
}

// Translations returns the translation dictionary store.
func (s *Synchronizer) Translations() *TranslationStore {
	return s.translations
}

// Catalog returns the catalog store.
func (s *Synchronizer) Catalog() *CatalogStore {
	return s.catalog
}

// Stores returns every configured store in phase order.
func (s *Synchronizer) Stores() []reconcile.Store {
	stores := []reconcile.Store{s.translations, s.catalog, s.grouped}
	if s.productList != nil {
		stores = append(stores, s.productList)
	}
	return stores
}
