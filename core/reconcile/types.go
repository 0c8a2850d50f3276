package reconcile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"category-manager/core/taxonomy"
)

// ErrUnknownPhase is returned by ParsePhase for an unrecognized name.
var ErrUnknownPhase = errors.New("unknown phase")

// Phase identifies one reconciliation step.
type Phase string

const (
	// PhaseTranslation rewrites the translation dictionary.
	PhaseTranslation Phase = "translation"
	// PhaseCatalog rewrites the flat category catalog.
	PhaseCatalog Phase = "catalog"
	// PhaseProducts rewrites the grouped products file.
	PhaseProducts Phase = "products"
	// PhaseProductList rewrites the optional secondary product list.
	PhaseProductList Phase = "product_list"
	// PhaseRemote applies the rules to the remote category tree.
	PhaseRemote Phase = "remote"
)

// Phases lists every phase in execution order.
var Phases = []Phase{PhaseTranslation, PhaseCatalog, PhaseProducts, PhaseProductList, PhaseRemote}

// ParsePhase resolves a phase name. "woo" is accepted as an alias of remote.
func ParsePhase(s string) (Phase, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "_")
	if name == "woo" {
		return PhaseRemote, nil
	}
	for _, p := range Phases {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownPhase, s)
}

func phaseOrder(p Phase) int {
	for i, candidate := range Phases {
		if candidate == p {
			return i
		}
	}
	return len(Phases)
}

// Options controls a reconciliation run.
type Options struct {
	// DryRun performs every read and plan step but no write.
	DryRun bool

	// Skip disables individual phases.
	Skip map[Phase]bool

	// RunID identifies the run. Set by the orchestrator when empty.
	RunID string
}

// Skipped reports whether the phase is disabled.
func (o Options) Skipped(p Phase) bool {
	return o.Skip[p]
}

// Result is what a store reports for one phase.
type Result struct {
	// Changed counts entries (or remote mutations) that were, or in dry-run
	// would be, modified.
	Changed int `json:"changed"`

	// Skipped is set when the store had nothing to work on, e.g. a missing file.
	Skipped bool `json:"skipped"`

	// Reason explains a skip.
	Reason string `json:"reason,omitempty"`

	// Advisories are non-fatal findings such as missing translations or
	// nodes not found.
	Advisories []string `json:"advisories,omitempty"`

	// Failures are per-rule errors that did not stop the phase.
	Failures []string `json:"failures,omitempty"`
}

// Advise appends a formatted advisory.
func (r *Result) Advise(format string, args ...any) {
	r.Advisories = append(r.Advisories, fmt.Sprintf(format, args...))
}

// Fail appends a formatted failure.
func (r *Result) Fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// PhaseReport is the outcome of one phase in a run.
type PhaseReport struct {
	Phase    Phase         `json:"phase"`
	Result   Result        `json:"result"`
	Error    string        `json:"error,omitempty"`
	Disabled bool          `json:"disabled,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Failed reports whether the phase aborted with an error.
func (p PhaseReport) Failed() bool {
	return p.Error != ""
}

// Summary aggregates a run.
type Summary struct {
	Changed  int `json:"changed"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
	Failures int `json:"failures"`
}

// Report is the outcome of a whole run.
type Report struct {
	RunID      string           `json:"run_id"`
	DryRun     bool             `json:"dry_run"`
	Rules      taxonomy.RuleSet `json:"rules"`
	Phases     []PhaseReport    `json:"phases"`
	Summary    Summary          `json:"summary"`
	Cancelled  bool             `json:"cancelled,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

// Phase returns the report of the named phase, if it ran.
func (r *Report) Phase(p Phase) (PhaseReport, bool) {
	for _, pr := range r.Phases {
		if pr.Phase == p {
			return pr, true
		}
	}
	return PhaseReport{}, false
}

func (r *Report) summarize() {
	var s Summary
	for _, pr := range r.Phases {
		switch {
		case pr.Failed():
			s.Failed++
		case pr.Disabled || pr.Result.Skipped:
			s.Skipped++
		}
		s.Changed += pr.Result.Changed
		s.Failures += len(pr.Result.Failures)
	}
	r.Summary = s
}
