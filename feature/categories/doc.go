// Package categories exposes the category tree and reconciliation runs over
// HTTP.
//
// # Endpoints
//
//	GET  /taxonomy/paths          resolved remote paths (cached snapshot)
//	GET  /taxonomy/duplicates     remote paths held by several nodes
//	POST /taxonomy/rewrite        preview paths through a rule set
//	POST /reconcile               run the orchestrator (dry run by default)
//	GET  /reconcile/runs          recent runs from the journal
//	GET  /reconcile/runs/:id      one run with its report and mutations
//
// Only one reconciliation runs at a time; a second request gets 409.
package categories
