package main

import (
	"context"

	"github.com/spf13/cobra"
)

var timelinesFilter filterFlags

var timelinesCmd = &cobra.Command{
	Use:   "timelines",
	Short: "List the distinct timeline/recording pairs of a test",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			pairs, err := a.engine.TimelineRecordings(ctx, timelinesFilter.filter())
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), pairs)
		})
	},
}

func init() {
	timelinesFilter.register(timelinesCmd, false)
	rootCmd.AddCommand(timelinesCmd)
}
