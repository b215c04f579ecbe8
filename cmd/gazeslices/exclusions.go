package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/overlay"
)

var replaceFile string

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "Show the excluded slices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithOverlay(cmd, func(_ context.Context, store *overlay.Store) error {
			return writeJSON(cmd.OutOrStdout(), store.Get().Slices())
		})
	},
}

var excludeCmd = &cobra.Command{
	Use:   "exclude <test> <recording> <participant>",
	Short: "Exclude a slice from every query",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggle(cmd, gazestore.S(args[0], args[1], args[2]), true)
	},
}

var includeCmd = &cobra.Command{
	Use:   "include <test> <recording> <participant>",
	Short: "Re-include a previously excluded slice",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggle(cmd, gazestore.S(args[0], args[1], args[2]), false)
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Replace all exclusions with a JSON array read from --file (- for stdin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := readSliceSet(cmd.InOrStdin(), replaceFile)
		if err != nil {
			return err
		}

		return runWithOverlay(cmd, func(ctx context.Context, store *overlay.Store) error {
			if err := store.Replace(ctx, set); err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), store.Get().Slices())
		})
	},
}

func init() {
	replaceCmd.Flags().StringVar(&replaceFile, "file", "-", "JSON file with the new exclusions")

	exclusionsCmd.AddCommand(excludeCmd)
	exclusionsCmd.AddCommand(includeCmd)
	exclusionsCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(exclusionsCmd)
}

func toggle(cmd *cobra.Command, slice gazestore.Slice, excluded bool) error {
	return runWithOverlay(cmd, func(ctx context.Context, store *overlay.Store) error {
		if err := store.Toggle(ctx, slice, excluded); err != nil {
			return err
		}

		return writeJSON(cmd.OutOrStdout(), gazestore.SliceStatus{Slice: slice, Excluded: excluded})
	})
}

func runWithOverlay(cmd *cobra.Command, fn func(ctx context.Context, store *overlay.Store) error) error {
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, err := openOverlay(cfg, logger)
	if err != nil {
		return err
	}

	return fn(commandContext(cmd), store)
}

func readSliceSet(stdin io.Reader, path string) (gazestore.SliceSet, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return gazestore.SliceSet{}, fmt.Errorf("read exclusions: %w", err)
	}

	var slices []gazestore.Slice
	if err := json.Unmarshal(data, &slices); err != nil {
		return gazestore.SliceSet{}, fmt.Errorf("decode exclusions: %w", err)
	}

	return gazestore.NewSliceSet(slices...), nil
}
