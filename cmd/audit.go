package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"category-manager/core/reconcile"
	"category-manager/feature/audit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	auditPrefix string
	auditFix    bool
	auditYes    bool
	auditJSON   bool
	auditDryRun bool
)

// auditCmd checks that translated paths exist remotely.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check translated category paths against the remote tree",
	Long: `Walks every translated path in the dictionary level by level and reports
the first missing level, source paths without a translation, catalog paths
missing from the dictionary and duplicate remote paths.

With --fix the missing paths are created after confirmation.`,
	RunE: runAudit,
}

func init() {
	f := auditCmd.Flags()
	f.StringVar(&auditPrefix, "source-prefix", "", "Only check source paths within this prefix")
	f.BoolVar(&auditFix, "fix", false, "Create missing remote categories")
	f.BoolVar(&auditYes, "yes", false, "Auto-confirm --fix (non-interactive)")
	f.BoolVar(&auditDryRun, "dry-run", false, "Plan --fix without writing")
	f.BoolVar(&auditJSON, "json", false, "Print the report as JSON")

	RootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, remoteRequired)
	if err != nil {
		return err
	}
	defer a.close()

	svc := audit.NewService(a.local.Translations(), a.local.Catalog(), a.sync, a.logger)
	report, err := svc.Check(ctx, auditPrefix)
	if err != nil {
		return err
	}

	if auditJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printAuditReport(a.logger, report)
	}

	targets := report.MissingTargets()
	if !auditFix || len(targets) == 0 {
		return nil
	}
	if !auditDryRun && !confirm(fmt.Sprintf("Create %d missing category paths?", len(targets))) {
		a.logger.Warn("Operation cancelled by user. No categories were created.")
		return nil
	}

	fix, err := svc.Fix(ctx, auditPrefix, reconcile.Options{DryRun: auditDryRun})
	if err != nil {
		return err
	}
	if len(fix.Result.Failures) > 0 {
		a.logger.Warn("Some categories were not created", zap.Strings("failures", fix.Result.Failures))
		return nil
	}
	a.logger.Info("Missing categories ensured", zap.Int("changed", fix.Result.Changed), zap.Bool("dry_run", auditDryRun))
	return nil
}

func printAuditReport(l *zap.Logger, r *audit.Report) {
	for _, f := range r.MissingRemote {
		fields := []zap.Field{
			zap.String("source", f.Source),
			zap.String("target", f.Target),
			zap.Int("level", f.Level),
			zap.String("missing", f.MissingPath),
		}
		if len(f.Hints) > 0 {
			fields = append(fields, zap.Strings("found_elsewhere", f.Hints))
		}
		l.Warn("Missing remote path", fields...)
	}
	for _, src := range r.MissingTranslation {
		l.Warn("Missing translation", zap.String("source", src))
	}
	for _, p := range r.Untranslated {
		l.Warn("Catalog path not in dictionary", zap.String("path", p))
	}
	for _, d := range r.Duplicates {
		l.Warn("Duplicate remote path", zap.String("path", d.Path), zap.Int64s("ids", d.IDs))
	}
	l.Info("Audit summary",
		zap.Int("checked", r.Checked),
		zap.Int("ok", r.OK),
		zap.Int("missing_remote", len(r.MissingRemote)),
		zap.Int("missing_translation", len(r.MissingTranslation)),
		zap.Int("duplicates", len(r.Duplicates)),
	)
}

// confirm asks on stdin unless --yes was given.
func confirm(question string) bool {
	if auditYes {
		fmt.Println("✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("%s Type 'yes' to confirm: ", question)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "yes", "y", "jah", "j":
		return true
	}
	return false
}
