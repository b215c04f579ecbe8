package main

import (
	"context"

	"github.com/spf13/cobra"
)

var boxStatsFilter filterFlags

var boxStatsCmd = &cobra.Command{
	Use:   "boxstats",
	Short: "Show per-box sample counts and percentages of a test",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			stats, err := a.engine.BoxStats(ctx, boxStatsFilter.filter())
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), stats)
		})
	},
}

func init() {
	boxStatsFilter.register(boxStatsCmd, false)
	rootCmd.AddCommand(boxStatsCmd)
}
