package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"category-manager/core/reconcile"
	"category-manager/core/taxonomy"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ruleMaps  []string
	rulesFile string
	dryRun    bool
	skipFlags = map[reconcile.Phase]*bool{
		reconcile.PhaseTranslation: new(bool),
		reconcile.PhaseCatalog:     new(bool),
		reconcile.PhaseProducts:    new(bool),
		reconcile.PhaseProductList: new(bool),
		reconcile.PhaseRemote:      new(bool),
	}
	skipWoo bool
)

// reconcileCmd runs every enabled phase with the given rules.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Apply category move rules to local files and the remote tree",
	Long: `Applies OLD=>NEW category path rules to the translation dictionary, the
category catalog, the grouped products file, the optional product list and
the remote WooCommerce category tree, in that order.

Without --map or --rules the built-in rule list is used.

Examples:
  # Preview everything
  reconcile --dry-run

  # One move, local files only
  reconcile --map "Mööbel > Toolid=>Mööbel > Istumine > Toolid" --skip-remote

  # Rules from a YAML file
  reconcile --rules moves.yaml`,
	RunE: runReconcile,
}

func init() {
	f := reconcileCmd.Flags()
	f.StringArrayVar(&ruleMaps, "map", nil, `Rule "OLD=>NEW" (repeatable)`)
	f.StringVar(&rulesFile, "rules", "", "YAML file with rules")
	f.BoolVar(&dryRun, "dry-run", false, "Plan and log every change without writing")
	f.BoolVar(skipFlags[reconcile.PhaseTranslation], "skip-translation", false, "Skip the translation dictionary")
	f.BoolVar(skipFlags[reconcile.PhaseCatalog], "skip-catalog", false, "Skip the category catalog")
	f.BoolVar(skipFlags[reconcile.PhaseProducts], "skip-products", false, "Skip the grouped products file")
	f.BoolVar(skipFlags[reconcile.PhaseProductList], "skip-product-list", false, "Skip the secondary product list")
	f.BoolVar(skipFlags[reconcile.PhaseRemote], "skip-remote", false, "Skip the remote category tree")
	f.BoolVar(&skipWoo, "skip-woo", false, "Alias of --skip-remote")

	RootCmd.AddCommand(reconcileCmd)
}

// loadRules merges --map and --rules; both empty yields the built-in list.
func loadRules(fs afero.Fs, maps []string, file string) (taxonomy.RuleSet, error) {
	var rules []taxonomy.Rule
	if len(maps) > 0 {
		parsed, err := taxonomy.ParseRules(maps)
		if err != nil {
			return nil, err
		}
		rules = append(rules, parsed...)
	}
	if file != "" {
		parsed, err := taxonomy.LoadRulesFile(fs, file)
		if err != nil {
			return nil, err
		}
		rules = append(rules, parsed...)
	}
	if len(rules) == 0 {
		return taxonomy.DefaultRules(), nil
	}
	return taxonomy.NewRuleSet(rules...), nil
}

func reconcileOptions() reconcile.Options {
	opts := reconcile.Options{DryRun: dryRun, Skip: make(map[reconcile.Phase]bool)}
	for p, v := range skipFlags {
		if *v {
			opts.Skip[p] = true
		}
	}
	if skipWoo {
		opts.Skip[reconcile.PhaseRemote] = true
	}
	return opts
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := reconcileOptions()
	mode := remoteRequired
	if opts.Skipped(reconcile.PhaseRemote) {
		mode = remoteOff
	}
	a, err := newApp(ctx, mode)
	if err != nil {
		return err
	}
	defer a.close()

	rules, err := loadRules(a.fs, ruleMaps, rulesFile)
	if err != nil {
		return err
	}
	for _, r := range rules {
		a.logger.Info("Rule", zap.String("old", r.Old), zap.String("new", r.New))
	}

	report, err := a.orchestrator().Run(ctx, rules, opts)
	if report != nil {
		printRunReport(a.logger, report)
	}
	if err != nil {
		return fmt.Errorf("reconciliation interrupted: %w", err)
	}
	if !opts.DryRun {
		a.prune(context.WithoutCancel(ctx))
	}
	return nil
}

// printRunReport logs one line per phase and a summary.
func printRunReport(l *zap.Logger, report *reconcile.Report) {
	for _, pr := range report.Phases {
		fields := []zap.Field{
			zap.String("phase", string(pr.Phase)),
			zap.Int("changed", pr.Result.Changed),
			zap.Int("advisories", len(pr.Result.Advisories)),
			zap.Int("failures", len(pr.Result.Failures)),
			zap.Duration("duration", pr.Duration),
		}
		switch {
		case pr.Failed():
			l.Error("Phase failed", append(fields, zap.String("error", pr.Error))...)
		case pr.Disabled:
			l.Info("Phase skipped", zap.String("phase", string(pr.Phase)))
		case pr.Result.Skipped:
			l.Warn("Phase skipped", zap.String("phase", string(pr.Phase)), zap.String("reason", pr.Result.Reason))
		default:
			l.Info("Phase done", fields...)
		}
	}

	msg := "Reconciliation finished"
	if report.DryRun {
		msg = "Dry run finished: no changes were written"
	}
	l.Info(msg,
		zap.String("run_id", report.RunID),
		zap.Int("changed", report.Summary.Changed),
		zap.Int("failed_phases", report.Summary.Failed),
		zap.Int("skipped_phases", report.Summary.Skipped),
		zap.Int("failures", report.Summary.Failures),
	)
}
