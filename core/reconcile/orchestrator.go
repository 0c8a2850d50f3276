package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"category-manager/core/taxonomy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Orchestrator runs the registered stores in phase order.
type Orchestrator struct {
	logger   *zap.Logger
	recorder RunRecorder
	stores   map[Phase]Store
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder installs a run recorder.
func WithRecorder(r RunRecorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// NewOrchestrator creates an orchestrator with no stores.
func NewOrchestrator(logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		logger:   logger,
		recorder: NopRecorder{},
		stores:   make(map[Phase]Store),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Register adds stores. A later store replaces an earlier one for the same phase.
func (o *Orchestrator) Register(stores ...Store) {
	for _, s := range stores {
		if s == nil {
			continue
		}
		o.stores[s.Phase()] = s
	}
}

// Phases returns the registered phases in execution order.
func (o *Orchestrator) Phases() []Phase {
	phases := make([]Phase, 0, len(o.stores))
	for p := range o.stores {
		phases = append(phases, p)
	}
	sort.Slice(phases, func(i, j int) bool {
		return phaseOrder(phases[i]) < phaseOrder(phases[j])
	})
	return phases
}

// Run applies the rules to every enabled phase. Phase errors are recorded in
// the report; only context cancellation stops the run early.
func (o *Orchestrator) Run(ctx context.Context, rules taxonomy.RuleSet, opts Options) (*Report, error) {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	report := &Report{
		RunID:     opts.RunID,
		DryRun:    opts.DryRun,
		Rules:     rules,
		StartedAt: o.now(),
	}

	log := o.logger.With(zap.String("run_id", opts.RunID), zap.Bool("dry_run", opts.DryRun))
	log.Info("Reconciliation started", zap.Int("rules", len(rules)))

	if err := o.recorder.RunStarted(ctx, opts.RunID, rules, opts); err != nil {
		log.Warn("Failed to record run start", zap.Error(err))
	}

	for _, phase := range o.Phases() {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			o.finish(ctx, log, report)
			return report, fmt.Errorf("reconciliation cancelled before %s: %w", phase, err)
		}

		if opts.Skipped(phase) {
			log.Info("Phase skipped", zap.String("phase", string(phase)))
			report.Phases = append(report.Phases, PhaseReport{Phase: phase, Disabled: true})
			continue
		}

		report.Phases = append(report.Phases, o.runPhase(ctx, log, phase, rules, opts))
	}

	// The last phase may have stopped early on cancellation.
	if err := ctx.Err(); err != nil {
		report.Cancelled = true
		o.finish(ctx, log, report)
		return report, fmt.Errorf("reconciliation cancelled: %w", err)
	}

	o.finish(ctx, log, report)
	return report, nil
}

// finish summarizes the report and records it. The record is written even
// when ctx is already cancelled.
func (o *Orchestrator) finish(ctx context.Context, log *zap.Logger, report *Report) {
	report.FinishedAt = o.now()
	report.summarize()

	if err := o.recorder.RunFinished(context.WithoutCancel(ctx), report); err != nil {
		log.Warn("Failed to record run finish", zap.Error(err))
	}

	log.Info("Reconciliation finished",
		zap.Int("changed", report.Summary.Changed),
		zap.Int("failed_phases", report.Summary.Failed),
		zap.Int("skipped_phases", report.Summary.Skipped),
		zap.Int("failures", report.Summary.Failures),
		zap.Bool("cancelled", report.Cancelled),
	)
}

func (o *Orchestrator) runPhase(ctx context.Context, log *zap.Logger, phase Phase, rules taxonomy.RuleSet, opts Options) PhaseReport {
	start := o.now()
	result, err := o.stores[phase].Apply(ctx, rules, opts)
	pr := PhaseReport{Phase: phase, Result: result, Duration: o.now().Sub(start)}

	fields := []zap.Field{
		zap.String("phase", string(phase)),
		zap.Int("changed", result.Changed),
		zap.Duration("duration", pr.Duration),
	}
	if err != nil {
		pr.Error = err.Error()
		log.Error("Phase failed", append(fields, zap.Error(err))...)
		return pr
	}

	for _, advisory := range result.Advisories {
		log.Warn("Advisory", zap.String("phase", string(phase)), zap.String("detail", advisory))
	}
	if result.Skipped {
		log.Warn("Phase had nothing to do", append(fields, zap.String("reason", result.Reason))...)
		return pr
	}
	log.Info("Phase finished", append(fields, zap.Int("failures", len(result.Failures)))...)
	return pr
}
