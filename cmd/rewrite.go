package cmd

import (
	"fmt"

	"category-manager/core/taxonomy"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	rewriteMaps  []string
	rewriteRules string
)

// rewriteCmd previews paths through the rules without any I/O besides the
// optional rules file.
var rewriteCmd = &cobra.Command{
	Use:   "rewrite PATH...",
	Short: "Preview category paths through the rule set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := loadRules(afero.NewOsFs(), rewriteMaps, rewriteRules)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range args {
			in := taxonomy.NormalizePath(p)
			res := rules.Rewrite(in)
			if res == in {
				fmt.Fprintf(out, "  %s\n", in)
				continue
			}
			fmt.Fprintf(out, "* %s => %s\n", in, res)
		}
		return nil
	},
}

func init() {
	rewriteCmd.Flags().StringArrayVar(&rewriteMaps, "map", nil, `Rule "OLD=>NEW" (repeatable)`)
	rewriteCmd.Flags().StringVar(&rewriteRules, "rules", "", "YAML file with rules")
	RootCmd.AddCommand(rewriteCmd)
}
