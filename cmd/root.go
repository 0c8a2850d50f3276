package cmd

import (
	"fmt"
	"os"

	"category-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "category-manager",
	Short: "Category taxonomy reconciliation",
	Long: `Category Manager keeps a product category taxonomy consistent across the
local translation dictionary, category catalog and product files and the
remote WooCommerce category tree, driven by OLD=>NEW path rules.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits 1 on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the development config gives readable CLI errors.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
