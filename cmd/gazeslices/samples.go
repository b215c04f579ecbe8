package main

import (
	"context"

	"github.com/spf13/cobra"
)

var samplesFilter filterFlags

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List gaze samples of a test, ordered by timestamp",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			samples, err := a.engine.GazeSamples(ctx, samplesFilter.filter())
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), samples)
		})
	},
}

func init() {
	samplesFilter.register(samplesCmd, true)
	rootCmd.AddCommand(samplesCmd)
}
