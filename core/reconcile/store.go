package reconcile

import (
	"context"

	"category-manager/core/taxonomy"
)

// Store is a phase-specific synchronizer.
type Store interface {
	// Phase returns the phase this store implements.
	Phase() Phase

	// Apply rewrites the store's data with the rules. A returned error marks
	// the phase failed; recoverable problems belong in the Result.
	Apply(ctx context.Context, rules taxonomy.RuleSet, opts Options) (Result, error)
}

// RunRecorder is notified of run boundaries. The journal implements it.
type RunRecorder interface {
	RunStarted(ctx context.Context, runID string, rules taxonomy.RuleSet, opts Options) error
	RunFinished(ctx context.Context, report *Report) error
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RunStarted(context.Context, string, taxonomy.RuleSet, Options) error { return nil }
func (NopRecorder) RunFinished(context.Context, *Report) error                          { return nil }

// MutationKind names a remote write.
type MutationKind string

const (
	MutationCreate   MutationKind = "create"
	MutationRelocate MutationKind = "relocate"
	MutationReparent MutationKind = "reparent"
	MutationRename   MutationKind = "rename"
	MutationAssign   MutationKind = "assign_products"
	MutationDelete   MutationKind = "delete"
)

// Mutation is one planned or applied remote write.
type Mutation struct {
	RunID       string       `json:"run_id"`
	Kind        MutationKind `json:"kind"`
	CategoryID  int64        `json:"category_id,omitempty"`
	ParentID    int64        `json:"parent_id,omitempty"`
	Name        string       `json:"name,omitempty"`
	ProductID   int64        `json:"product_id,omitempty"`
	CategoryIDs []int64      `json:"category_ids,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	DryRun      bool         `json:"dry_run"`
	Error       string       `json:"error,omitempty"`
}

// MutationRecorder receives every remote write. The journal implements it.
type MutationRecorder interface {
	RecordMutation(ctx context.Context, m Mutation) error
}

func (NopRecorder) RecordMutation(context.Context, Mutation) error { return nil }
