package categories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"category-manager/core/journal"
	"category-manager/core/reconcile"
	"category-manager/core/remote"
	"category-manager/core/taxonomy"
	"category-manager/feature/remotesync"

	"go.uber.org/zap"
)

var (
	// ErrRemoteDisabled is returned when no remote is configured.
	ErrRemoteDisabled = errors.New("remote category service not configured")
	// ErrJournalDisabled is returned when the run journal is off.
	ErrJournalDisabled = errors.New("run journal not enabled")
	// ErrRunInProgress is returned when another run holds the writer lock.
	ErrRunInProgress = reconcile.ErrRunInProgress
)

// Runner executes a reconciliation. reconcile.Orchestrator implements it.
type Runner interface {
	Run(ctx context.Context, rules taxonomy.RuleSet, opts reconcile.Options) (*reconcile.Report, error)
}

// RunHistory reads the run journal.
type RunHistory interface {
	Recent(ctx context.Context, limit int) ([]journal.RunRecord, error)
	Run(ctx context.Context, runID string) (*journal.RunRecord, error)
	Mutations(ctx context.Context, runID string) ([]journal.MutationRecord, error)
}

// Service serves tree views and runs reconciliations.
type Service struct {
	cache   *remote.SnapshotCache
	runner  Runner
	history RunHistory
	rules   taxonomy.RuleSet
	logger  *zap.Logger
	lock    *reconcile.WriterLock
}

// Option configures a Service.
type Option func(*Service)

// WithWriterLock shares a writer lock with other features that mutate the stores.
func WithWriterLock(l *reconcile.WriterLock) Option {
	return func(s *Service) {
		if l != nil {
			s.lock = l
		}
	}
}

// NewService creates the service. cache and history may be nil.
func NewService(cache *remote.SnapshotCache, runner Runner, history RunHistory, rules taxonomy.RuleSet, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{cache: cache, runner: runner, history: history, rules: rules, logger: logger, lock: new(reconcile.WriterLock)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) tree(ctx context.Context) (*remotesync.Tree, error) {
	if s.cache == nil {
		return nil, ErrRemoteDisabled
	}
	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote categories: %w", err)
	}
	return remotesync.NewTree(snap.Categories), nil
}

// Paths lists every remote category with its path, ordered by path.
func (s *Service) Paths(ctx context.Context) ([]PathEntry, error) {
	tree, err := s.tree(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PathEntry, 0, tree.Len())
	for id, p := range tree.Paths() {
		n, _ := tree.Node(id)
		out = append(out, PathEntry{ID: id, Path: p, Parent: n.Parent, Count: n.Count})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Path), strings.ToLower(out[j].Path)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Duplicates lists remote paths held by several nodes.
func (s *Service) Duplicates(ctx context.Context) ([]DuplicateGroup, error) {
	tree, err := s.tree(ctx)
	if err != nil {
		return nil, err
	}
	groups := []DuplicateGroup{}
	for _, ids := range tree.Duplicates() {
		groups = append(groups, DuplicateGroup{Path: tree.Path(ids[0]), IDs: ids})
	}
	return groups, nil
}

// RuleSet parses raw rules, falling back to the configured set when empty.
func (s *Service) RuleSet(raw []string) (taxonomy.RuleSet, error) {
	if len(raw) == 0 {
		if len(s.rules) == 0 {
			return nil, taxonomy.ErrNoRules
		}
		return s.rules, nil
	}
	return taxonomy.ParseRules(raw)
}

// Rewrite previews paths through the rules.
func (s *Service) Rewrite(req RewriteRequest) ([]RewriteResult, error) {
	rules, err := s.RuleSet(req.Rules)
	if err != nil {
		return nil, err
	}
	out := make([]RewriteResult, 0, len(req.Paths))
	for _, p := range req.Paths {
		in := taxonomy.NormalizePath(p)
		res := rules.Rewrite(in)
		out = append(out, RewriteResult{Input: in, Output: res, Changed: res != in})
	}
	return out, nil
}

// Reconcile runs the orchestrator. The cached snapshot is dropped after a
// run that may have changed the remote tree.
func (s *Service) Reconcile(ctx context.Context, req ReconcileRequest, runID string) (*reconcile.Report, error) {
	rules, err := s.RuleSet(req.Rules)
	if err != nil {
		return nil, err
	}
	opts := reconcile.Options{DryRun: true, RunID: runID, Skip: make(map[reconcile.Phase]bool)}
	if req.DryRun != nil {
		opts.DryRun = *req.DryRun
	}
	for _, name := range req.Skip {
		p, err := reconcile.ParsePhase(name)
		if err != nil {
			return nil, err
		}
		opts.Skip[p] = true
	}

	release, err := s.lock.TryAcquire()
	if err != nil {
		return nil, err
	}
	defer release()

	report, err := s.runner.Run(ctx, rules, opts)
	if !opts.DryRun && s.cache != nil {
		s.cache.Invalidate()
	}
	return report, err
}

// Runs lists recent journal runs.
func (s *Service) Runs(ctx context.Context, limit int) ([]journal.RunRecord, error) {
	if s.history == nil {
		return nil, ErrJournalDisabled
	}
	return s.history.Recent(ctx, limit)
}

// Run returns one journal run with its report and mutations.
func (s *Service) Run(ctx context.Context, runID string) (*RunDetail, error) {
	if s.history == nil {
		return nil, ErrJournalDisabled
	}
	rec, err := s.history.Run(ctx, runID)
	if err != nil {
		return nil, err
	}
	detail := &RunDetail{Run: *rec, Mutations: []reconcile.Mutation{}}
	if rec.Report != "" {
		if detail.Report, err = rec.Decode(); err != nil {
			return nil, err
		}
	}
	muts, err := s.history.Mutations(ctx, runID)
	if err != nil {
		return nil, err
	}
	for _, m := range muts {
		detail.Mutations = append(detail.Mutations, m.Mutation())
	}
	return detail, nil
}
