package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errArchiveDisabled = errors.New("snapshot archive not enabled (set STORAGE_ENABLED=true)")

// snapshotsCmd groups the archive commands.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect and restore archived local files",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list [RUN_ID]",
	Short: "List archived files, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), remoteOff)
		if err != nil {
			return err
		}
		defer a.close()
		if a.archive == nil {
			return errArchiveDisabled
		}

		runID := ""
		if len(args) == 1 {
			runID = args[0]
		}
		snaps, err := a.archive.List(cmd.Context(), runID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range snaps {
			fmt.Fprintf(out, "%s  %-36s  %-45s %8d\n", s.LastModified.Format("2006-01-02 15:04:05"), s.RunID, s.Name, s.Size)
		}
		a.logger.Info("Snapshots", zap.Int("count", len(snaps)))
		return nil
	},
}

var snapshotsRestoreCmd = &cobra.Command{
	Use:   "restore RUN_ID",
	Short: "Restore the local files archived by a run",
	Long: `Writes back every file archived before the given run replaced it. Files
are matched to the configured local files by name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, remoteOff)
		if err != nil {
			return err
		}
		defer a.close()
		if a.archive == nil {
			return errArchiveDisabled
		}

		targets := make(map[string]string)
		for _, name := range []string{a.cfg.Local.TranslationFile, a.cfg.Local.CatalogFile, a.cfg.Local.GroupedFile, a.cfg.Local.ProductListFile} {
			if name != "" {
				targets[filepath.Base(name)] = a.cfg.Local.Resolve(name)
			}
		}

		snaps, err := a.archive.List(ctx, args[0])
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			return fmt.Errorf("no snapshots for run %s", args[0])
		}

		for _, s := range snaps {
			dest, ok := targets[s.Name]
			if !ok {
				a.logger.Warn("No local file for snapshot", zap.String("name", s.Name))
				continue
			}
			data, err := a.archive.Fetch(ctx, s.RunID, s.Name)
			if err != nil {
				return err
			}
			if err := afero.WriteFile(a.fs, dest, data, 0o644); err != nil {
				return fmt.Errorf("failed to restore %s: %w", dest, err)
			}
			a.logger.Info("Restored", zap.String("path", dest), zap.String("run_id", s.RunID))
		}
		return nil
	},
}

func init() {
	snapshotsCmd.AddCommand(snapshotsListCmd, snapshotsRestoreCmd)
	RootCmd.AddCommand(snapshotsCmd)
}
