package main

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	searchSlicesTest         string
	searchSlicesParticipants []string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Catalog search summaries",
}

var searchTestsCmd = &cobra.Command{
	Use:   "tests",
	Short: "Per-test summary: catalog metadata, occurrences and average pair duration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			rows, err := a.engine.SearchTests(ctx)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), rows)
		})
	},
}

var searchSlicesCmd = &cobra.Command{
	Use:   "slices",
	Short: "Per-slice listing with durations and exclusion status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			rows, err := a.engine.SearchSlices(ctx, searchSlicesTest, searchSlicesParticipants)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), rows)
		})
	},
}

func init() {
	searchSlicesCmd.Flags().StringVar(&searchSlicesTest, "test", "", "Test name (default all tests)")
	searchSlicesCmd.Flags().StringSliceVar(&searchSlicesParticipants, "participant", nil, "Participant names (default all)")

	searchCmd.AddCommand(searchTestsCmd)
	searchCmd.AddCommand(searchSlicesCmd)
	rootCmd.AddCommand(searchCmd)
}
