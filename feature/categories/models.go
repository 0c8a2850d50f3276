package categories

import (
	"category-manager/core/journal"
	"category-manager/core/reconcile"
)

// PathEntry is one remote category with its resolved path.
type PathEntry struct {
	ID     int64  `json:"id"`
	Path   string `json:"path"`
	Parent int64  `json:"parent"`
	Count  int    `json:"count"`
}

// DuplicateGroup is a remote path held by more than one node.
type DuplicateGroup struct {
	Path string  `json:"path"`
	IDs  []int64 `json:"ids"`
}

// RewriteRequest is the body of POST /taxonomy/rewrite.
type RewriteRequest struct {
	Paths []string `json:"paths"`
	// Rules in "OLD=>NEW" form. Empty uses the configured rules.
	Rules []string `json:"rules,omitempty"`
}

// RewriteResult is one previewed path.
type RewriteResult struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Changed bool   `json:"changed"`
}

// ReconcileRequest is the body of POST /reconcile.
type ReconcileRequest struct {
	// Rules in "OLD=>NEW" form. Empty uses the configured rules.
	Rules []string `json:"rules,omitempty"`
	// DryRun defaults to true.
	DryRun *bool `json:"dry_run,omitempty"`
	// Skip lists phases to disable (translation, catalog, products,
	// product_list, remote).
	Skip []string `json:"skip,omitempty"`
}

// RunDetail is a journal run with its decoded report and mutations.
type RunDetail struct {
	Run       journal.RunRecord    `json:"run"`
	Report    *reconcile.Report    `json:"report,omitempty"`
	Mutations []reconcile.Mutation `json:"mutations"`
}
