// Package taxonomy holds the pure building blocks of category reconciliation.
//
// It has no I/O beyond loading rule files and is shared by every store that
// needs to interpret a category path or a rewrite rule, so that the local
// files and the remote category tree can never disagree on what a rule means.
//
// # Paths
//
// A category path is a list of non-empty segments joined by " > ":
//
//	Furniture > Sofas > Leather
//
// # Components
//
//   - Resolve: turns a flat set of {id, name, parent} nodes into full paths.
//   - RuleSet: an ordered, validated list of (old, new) path rewrites.
//   - Rewrite: applies a RuleSet to one path with segment-boundary matching.
//
// # Usage
//
//	rules := taxonomy.NewRuleSet(taxonomy.Rule{Old: "Furniture > Sofas", New: "Furniture > Couches"})
//	rules.Rewrite("Furniture > Sofas > Leather") // "Furniture > Couches > Leather"
package taxonomy
