package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var treeDuplicatesOnly bool

// treeCmd prints the resolved remote tree.
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the resolved remote category paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), remoteRequired)
		if err != nil {
			return err
		}
		defer a.close()

		tree, err := a.sync.Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		if !treeDuplicatesOnly {
			paths := tree.Paths()
			ids := make([]int64, 0, len(paths))
			for id := range paths {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool {
				return strings.ToLower(paths[ids[i]]) < strings.ToLower(paths[ids[j]])
			})
			for _, id := range ids {
				fmt.Printf("%6d  %s\n", id, paths[id])
			}
		}

		dups := tree.Duplicates()
		for _, group := range dups {
			a.logger.Warn("Duplicate remote path", zap.String("path", tree.Path(group[0])), zap.Int64s("ids", group))
		}
		a.logger.Info("Remote tree", zap.Int("categories", tree.Len()), zap.Int("duplicates", len(dups)))
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVar(&treeDuplicatesOnly, "duplicates", false, "Only report duplicate paths")
	RootCmd.AddCommand(treeCmd)
}
