package main

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	slicesTest         string
	slicesParticipants []string
)

var slicesCmd = &cobra.Command{
	Use:   "slices",
	Short: "List the slices of a test, or of all tests, with their exclusion status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			statuses, err := a.engine.Slices(ctx, slicesTest, slicesParticipants)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), statuses)
		})
	},
}

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "Show which participants took which tests, honoring exclusions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			maps, err := a.engine.RelationMaps(ctx)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), maps)
		})
	},
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Dump the reference tables, names and relation maps in one document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			data, err := a.engine.Bootstrap(ctx)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), data)
		})
	},
}

var referenceCmd = &cobra.Command{
	Use:   "reference <table>",
	Short: "Dump a reference table with every value as a string",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			rows, err := a.engine.ReferenceTable(ctx, args[0])
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), rows)
		})
	},
}

func init() {
	slicesCmd.Flags().StringVar(&slicesTest, "test", "", "Test name (default all tests)")
	slicesCmd.Flags().StringSliceVar(&slicesParticipants, "participant", nil, "Participant names (default all)")

	rootCmd.AddCommand(slicesCmd)
	rootCmd.AddCommand(relationsCmd)
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(referenceCmd)
}
