// Package journal persists reconciliation runs and the remote mutations they
// planned or applied.
//
// A Journal implements reconcile.RunRecorder and reconcile.MutationRecorder,
// so it plugs into the orchestrator and the remote synchronizer directly.
// Records live in two tables, reconcile_runs and reconcile_mutations, created
// by Migrate.
package journal
