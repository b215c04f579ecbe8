package main

import (
	"github.com/spf13/cobra"
)

var (
	flagOverrides configOverrides
	cfg           Config
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Query eye-tracking gaze samples and manage excluded slices",
	Long: `gazeslices reads a read-only store of eye-tracking samples, filters and aggregates them,
and maintains a persisted list of excluded (test, recording, participant) slices that every
query honors.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(flagOverrides)
		if err != nil {
			return err
		}
		cfg = loaded

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagOverrides.dbPath, "db", "", "SQLite database file (overrides GAZE_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagOverrides.dbURL, "db-url", "", "Postgres URL (overrides GAZE_DB_URL)")
	rootCmd.PersistentFlags().StringVar(&flagOverrides.overlayPath, "overlay", "", "Exclusion overlay file (overrides GAZE_OVERLAY_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagOverrides.assetDir, "assets", "", "Stimulus image directory (overrides GAZE_ASSET_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagOverrides.logLevel, "log-level", "", "debug, info, warn or error (overrides GAZE_LOG_LEVEL)")
}
