package audit

import "category-manager/core/reconcile"

// Finding is a translated path that does not fully exist remotely.
type Finding struct {
	// Source is the dictionary key.
	Source string `json:"source"`
	// Target is the translated path.
	Target string `json:"target"`
	// Level is the 1-based depth of the first missing segment.
	Level int `json:"level"`
	// MissingPath is the prefix of Target that is missing.
	MissingPath string `json:"missing_path"`
	// Hints are remote paths whose leaf has the missing segment's name.
	Hints []string `json:"hints,omitempty"`
}

// Duplicate is a remote path held by more than one node.
type Duplicate struct {
	Path string  `json:"path"`
	IDs  []int64 `json:"ids"`
}

// Report is the outcome of a check.
type Report struct {
	Prefix             string      `json:"prefix,omitempty"`
	Checked            int         `json:"checked"`
	OK                 int         `json:"ok"`
	MissingRemote      []Finding   `json:"missing_remote"`
	MissingTranslation []string    `json:"missing_translation"`
	Untranslated       []string    `json:"untranslated_catalog_paths"`
	Duplicates         []Duplicate `json:"duplicates"`
	RemoteCategories   int         `json:"remote_categories"`
	GeneratedAt        string      `json:"generated_at"`
	ExecutionTime      string      `json:"execution_time"`
}

// MissingTargets returns the distinct missing target paths, sorted.
func (r *Report) MissingTargets() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range r.MissingRemote {
		if !seen[f.Target] {
			seen[f.Target] = true
			out = append(out, f.Target)
		}
	}
	sortFold(out)
	return out
}

// FixReport is the outcome of a fix.
type FixReport struct {
	Report *Report          `json:"report"`
	Result reconcile.Result `json:"result"`
	DryRun bool             `json:"dry_run"`
}
