package taxonomy

import "strings"

// ReplacePrefix rewrites path when it equals old or lies below it.
// Matching happens on segment boundaries only: "A" never matches "AB".
func ReplacePrefix(path, old, new string) string {
	if path == "" {
		return path
	}
	if path == old {
		return new
	}
	if strings.HasPrefix(path, old+Separator) {
		return new + path[len(old):]
	}
	return path
}

// Rewrite folds every rule over path in order, so a chain of rules can move a
// subtree several hops in one pass.
func Rewrite(path string, rules RuleSet) string {
	out := path
	for _, r := range rules {
		out = ReplacePrefix(out, r.Old, r.New)
	}
	return out
}

// Rewrite applies the rule set to path. See Rewrite.
func (rs RuleSet) Rewrite(path string) string {
	return Rewrite(path, rs)
}
