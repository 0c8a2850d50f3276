package remotesync

import (
	"context"
	"errors"
	"fmt"

	"category-manager/core/reconcile"
	"category-manager/core/remote"
	"category-manager/core/taxonomy"

	"go.uber.org/zap"
)

// ErrTargetInsideSource is returned for a rule or merge whose target lies in
// the subtree being moved.
var ErrTargetInsideSource = errors.New("target lies inside source subtree")

// Synchronizer applies rules to the remote category tree.
type Synchronizer struct {
	client   remote.Client
	logger   *zap.Logger
	recorder reconcile.MutationRecorder
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithMutationRecorder installs a recorder for every planned or applied write.
func WithMutationRecorder(r reconcile.MutationRecorder) Option {
	return func(s *Synchronizer) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New creates a synchronizer on top of client.
func New(client remote.Client, logger *zap.Logger, opts ...Option) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Synchronizer{
		client:   client,
		logger:   logger,
		recorder: reconcile.NopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase implements reconcile.Store.
func (s *Synchronizer) Phase() reconcile.Phase {
	return reconcile.PhaseRemote
}

// Apply implements reconcile.Store. A failed fetch fails the phase; failures
// of individual rules are collected and the next rule proceeds.
func (s *Synchronizer) Apply(ctx context.Context, rules taxonomy.RuleSet, opts reconcile.Options) (reconcile.Result, error) {
	r, err := s.begin(ctx, opts)
	if err != nil {
		return reconcile.Result{}, err
	}

	r.mergeDuplicates(ctx)

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		if err := r.applyRule(ctx, rule); err != nil {
			r.logger.Error("Rule failed", zap.String("rule", rule.String()), zap.Error(err))
			r.result.Fail("rule %s: %v", rule, err)
		}
	}

	r.logger.Info("Remote categories processed", zap.Int("changed", r.result.Changed), zap.Int("failures", len(r.result.Failures)))
	return r.result, nil
}

// EnsurePaths creates every missing segment of the given paths. Existing
// duplicates are merged first so the paths resolve to a single node.
func (s *Synchronizer) EnsurePaths(ctx context.Context, paths []string, opts reconcile.Options) (reconcile.Result, error) {
	r, err := s.begin(ctx, opts)
	if err != nil {
		return reconcile.Result{}, err
	}

	r.mergeDuplicates(ctx)

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		if _, err := r.ensurePath(ctx, taxonomy.NormalizePath(p)); err != nil {
			r.logger.Error("Ensure path failed", zap.String("path", p), zap.Error(err))
			r.result.Fail("path %s: %v", p, err)
		}
	}
	return r.result, nil
}

// Snapshot fetches the current tree.
func (s *Synchronizer) Snapshot(ctx context.Context) (*Tree, error) {
	cats, err := s.client.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote categories: %w", err)
	}
	return NewTree(cats), nil
}

func (s *Synchronizer) begin(ctx context.Context, opts reconcile.Options) (*run, error) {
	tree, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(zap.Bool("dry_run", opts.DryRun))
	if opts.RunID != "" {
		logger = logger.With(zap.String("run_id", opts.RunID))
	}
	logger.Info("Remote tree loaded", zap.Int("categories", tree.Len()))

	return &run{
		sync:   s,
		sctx:   NewSyncContext(tree),
		opts:   opts,
		logger: logger,
	}, nil
}
