package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"clipreel/internal/library"
	"clipreel/internal/rotation"
	"clipreel/internal/usage"
	"clipreel/internal/workflow"
)

func newUsageCommand(ctx *commandContext) *cobra.Command {
	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Inspect or reset clip usage statistics",
	}
	usageCmd.AddCommand(newUsageListCommand(ctx))
	usageCmd.AddCommand(newUsageResetCommand(ctx))
	return usageCmd
}

func newUsageListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List clips in rotation order with their usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := usage.Load(cfg.State.UsageFile)
			if err != nil {
				return err
			}
			clips, err := library.Folder{Label: "Video", Dir: cfg.Paths.ClipsDir, Extensions: cfg.Library.ClipExtensions}.Scan()
			if err != nil {
				return err
			}

			ranked := slices.Clone(clips)
			rotation.Rank(ranked, store)

			now := time.Now()
			rows := make([][]string, 0, len(ranked)+store.Len())
			for i, id := range ranked {
				rows = append(rows, usageRow(strconv.Itoa(i+1), id, store.Get(id), now, "yes"))
			}
			for _, id := range store.IDs() {
				if slices.Contains(clips, id) {
					continue
				}
				rows = append(rows, usageRow("-", id, store.Get(id), now, "no"))
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "No clips found in %s\n", cfg.Paths.ClipsDir)
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Next", "Clip", "Uses", "Last used", "In library"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func usageRow(position, id string, rec usage.Record, now time.Time, inLibrary string) []string {
	last := time.Time{}
	if rec.LastUsed != nil {
		last = *rec.LastUsed
	}
	return []string{position, id, strconv.Itoa(rec.UsageCount), formatWhen(last, now), inLibrary}
}

func newUsageResetCommand(ctx *commandContext) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset [clip...]",
		Short: "Forget usage for specific clips, or for all clips with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("pass clip names or --all, not both")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			removed, err := workflow.ResetUsage(cmd.Context(), cfg, args, all)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset usage for %d clip(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Reset every clip")
	return cmd
}
