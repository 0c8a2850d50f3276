// Package reconcile runs a category rule set across every store that holds
// category paths: the local translation dictionary, the catalog, the grouped
// products, the secondary product list and the remote category tree.
//
// # Architecture
//
// The package consists of two parts:
//
//  1. Store: a phase-specific synchronizer that rewrites its own data through
//     the shared taxonomy rewriter and reports how many entries changed.
//
//  2. Orchestrator: runs the registered stores in a fixed phase order. Each
//     phase can be skipped and dry-run independently. A failing phase is
//     recorded in the report and the run continues; earlier phases are never
//     rolled back, so recovery is rerunning the whole orchestrator.
//
// # Usage Example
//
//	orch := reconcile.NewOrchestrator(logger, reconcile.WithRecorder(journal))
//	orch.Register(translationStore, catalogStore, remoteSync)
//
//	report, err := orch.Run(ctx, rules, reconcile.Options{DryRun: true})
package reconcile
