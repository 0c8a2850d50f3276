// Package remotesync applies category rules to the remote category tree.
//
// A run fetches the whole tree once into an in-memory arena (Tree), merges
// nodes that resolve to the same path, then walks the rules in order:
//
//   - both old and new path exist as different nodes: merge old into new
//   - old path missing: the rule was already applied, or the node never existed
//   - otherwise: create missing ancestors of the new path, then rename and
//     reparent the old node
//
// Merge moves children (merging same-named children recursively), reassigns
// products to the target while dropping the source and the target's
// ancestors from each product, and deletes the source.
//
// Every write goes through the remote.Client and is mirrored in the arena, so
// later rules see the effect of earlier ones without refetching. In dry-run
// mode reads still hit the service, writes are only logged, and created
// nodes get negative placeholder ids.
package remotesync
