package main

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	catalogTest     string
	catalogTimeline string
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Print the base64-encoded stimulus image of a test (null when unknown)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			image, err := a.engine.TestImage(ctx, catalogTest, catalogTimeline)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), image)
		})
	},
}

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "List the timed word windows of a test",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			windows, err := a.engine.WordWindows(ctx, catalogTest, catalogTimeline)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), windows)
		})
	},
}

var imagePathCmd = &cobra.Command{
	Use:   "image-path <path>",
	Short: "Print the base64-encoded asset at a catalog image path (null when missing)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			image, err := a.engine.ImageByPath(ctx, args[0])
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), image)
		})
	},
}

var aoiCmd = &cobra.Command{
	Use:   "aoi",
	Short: "List the areas of interest of a test with their colours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithApp(cmd, func(ctx context.Context, a *app) error {
			regions, err := a.engine.AOIMap(ctx, catalogTest)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), regions)
		})
	},
}

func init() {
	aoiCmd.Flags().StringVar(&catalogTest, "test", "", "Test name (required)")
	rootCmd.AddCommand(aoiCmd)
	rootCmd.AddCommand(imagePathCmd)

	for _, cmd := range []*cobra.Command{imageCmd, wordsCmd} {
		cmd.Flags().StringVar(&catalogTest, "test", "", "Test name (required)")
		cmd.Flags().StringVar(&catalogTimeline, "timeline", "", "Preferred timeline")
		rootCmd.AddCommand(cmd)
	}
}
