package main

import (
	"context"

	"github.com/spf13/cobra"
)

var participantsCmd = &cobra.Command{
	Use:   "participants",
	Short: "List participants that still have at least one included slice",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			names, err := a.engine.Participants(ctx)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), names)
		})
	},
}

var testsCmd = &cobra.Command{
	Use:   "tests",
	Short: "List tests that still have at least one included slice",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			names, err := a.engine.TestNames(ctx)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), names)
		})
	},
}

func init() {
	rootCmd.AddCommand(participantsCmd)
	rootCmd.AddCommand(testsCmd)
}
