package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"category-manager/core/reconcile"
	"category-manager/core/taxonomy"
	"category-manager/feature/localstore"
	"category-manager/feature/remotesync"

	"go.uber.org/zap"
)

const maxHints = 3

// TranslationSource loads the translation dictionary.
type TranslationSource interface {
	Load() (localstore.Translations, error)
}

// CatalogSource loads the category catalog.
type CatalogSource interface {
	Load() ([]localstore.CatalogEntry, error)
}

// RemoteTree reads and extends the remote tree.
type RemoteTree interface {
	Snapshot(ctx context.Context) (*remotesync.Tree, error)
	EnsurePaths(ctx context.Context, paths []string, opts reconcile.Options) (reconcile.Result, error)
}

// Service runs audits.
type Service struct {
	translations TranslationSource
	catalog      CatalogSource
	remote       RemoteTree
	logger       *zap.Logger
	lock         *reconcile.WriterLock
}

// Option configures a Service.
type Option func(*Service)

// WithWriterLock shares a writer lock with other features that mutate the
// remote tree.
func WithWriterLock(l *reconcile.WriterLock) Option {
	return func(s *Service) {
		if l != nil {
			s.lock = l
		}
	}
}

// NewService creates an audit service. catalog may be nil.
func NewService(translations TranslationSource, catalog CatalogSource, remote RemoteTree, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{translations: translations, catalog: catalog, remote: remote, logger: logger, lock: new(reconcile.WriterLock)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check compares the dictionary against the remote tree. A non-empty prefix
// limits the check to source paths within it.
func (s *Service) Check(ctx context.Context, prefix string) (*Report, error) {
	start := time.Now()
	prefix = taxonomy.NormalizePath(prefix)

	dict, err := s.loadTranslations()
	if err != nil {
		return nil, err
	}

	tree, err := s.remote.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	index := tree.Index()
	byLeaf := leafIndex(index)

	report := &Report{
		Prefix:             prefix,
		RemoteCategories:   tree.Len(),
		MissingRemote:      []Finding{},
		MissingTranslation: []string{},
		Untranslated:       []string{},
		Duplicates:         []Duplicate{},
	}

	sources := make([]string, 0, len(dict))
	for src := range dict {
		if prefix == "" || taxonomy.IsWithin(taxonomy.NormalizePath(src), prefix) {
			sources = append(sources, src)
		}
	}
	sortFold(sources)

	for _, src := range sources {
		report.Checked++
		target := taxonomy.NormalizePath(dict[src])
		if target == "" {
			report.MissingTranslation = append(report.MissingTranslation, src)
			continue
		}
		if f, missing := findMissing(src, target, index, byLeaf); missing {
			report.MissingRemote = append(report.MissingRemote, f)
			continue
		}
		report.OK++
	}

	if err := s.checkCatalog(dict, prefix, report); err != nil {
		return nil, err
	}

	for _, ids := range tree.Duplicates() {
		report.Duplicates = append(report.Duplicates, Duplicate{Path: tree.Path(ids[0]), IDs: ids})
	}

	report.GeneratedAt = time.Now().Format(time.RFC3339)
	report.ExecutionTime = time.Since(start).String()

	s.logger.Info("Category audit finished",
		zap.String("prefix", prefix),
		zap.Int("checked", report.Checked),
		zap.Int("ok", report.OK),
		zap.Int("missing_remote", len(report.MissingRemote)),
		zap.Int("missing_translation", len(report.MissingTranslation)),
		zap.Int("duplicates", len(report.Duplicates)),
	)
	return report, nil
}

// Fix runs a check and creates every missing target path. It returns
// reconcile.ErrRunInProgress while another run holds the writer lock.
func (s *Service) Fix(ctx context.Context, prefix string, opts reconcile.Options) (*FixReport, error) {
	release, err := s.lock.TryAcquire()
	if err != nil {
		return nil, err
	}
	defer release()

	report, err := s.Check(ctx, prefix)
	if err != nil {
		return nil, err
	}

	fix := &FixReport{Report: report, DryRun: opts.DryRun}
	targets := report.MissingTargets()
	if len(targets) == 0 {
		s.logger.Info("All translated categories exist remotely")
		return fix, nil
	}

	res, err := s.remote.EnsurePaths(ctx, targets, opts)
	fix.Result = res
	if err != nil {
		return fix, fmt.Errorf("failed to create missing categories: %w", err)
	}
	for _, f := range res.Failures {
		s.logger.Warn("Category path not ensured", zap.String("failure", f))
	}
	return fix, nil
}

func (s *Service) loadTranslations() (localstore.Translations, error) {
	dict, err := s.translations.Load()
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Translation dictionary not found")
		return localstore.Translations{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}
	return dict, nil
}

// checkCatalog lists catalog paths that have no dictionary key.
func (s *Service) checkCatalog(dict localstore.Translations, prefix string, report *Report) error {
	if s.catalog == nil {
		return nil
	}
	entries, err := s.catalog.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	known := make(map[string]bool, len(dict))
	for src := range dict {
		known[taxonomy.NormalizePath(src)] = true
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		p := taxonomy.NormalizePath(e.Path)
		if p == "" || known[p] || seen[p] {
			continue
		}
		if prefix != "" && !taxonomy.IsWithin(p, prefix) {
			continue
		}
		seen[p] = true
		report.Untranslated = append(report.Untranslated, p)
	}
	sortFold(report.Untranslated)
	return nil
}

// findMissing walks target level by level and reports the first missing one.
func findMissing(src, target string, index map[string]int64, byLeaf map[string][]string) (Finding, bool) {
	segments := taxonomy.SplitPath(target)
	for i := range segments {
		cur := taxonomy.JoinPath(segments[:i+1]...)
		if _, ok := index[cur]; ok {
			continue
		}
		hints := byLeaf[segments[i]]
		if len(hints) > maxHints {
			hints = hints[:maxHints]
		}
		return Finding{Source: src, Target: target, Level: i + 1, MissingPath: cur, Hints: hints}, true
	}
	return Finding{}, false
}

func leafIndex(index map[string]int64) map[string][]string {
	out := make(map[string][]string)
	for p := range index {
		leaf := taxonomy.LeafName(p)
		out[leaf] = append(out[leaf], p)
	}
	for _, paths := range out {
		sortFold(paths)
	}
	return out
}

func sortFold(s []string) {
	sort.SliceStable(s, func(i, j int) bool {
		return strings.ToLower(s[i]) < strings.ToLower(s[j])
	})
}
