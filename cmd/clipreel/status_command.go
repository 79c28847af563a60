package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipreel/internal/composition"
	"clipreel/internal/history"
	"clipreel/internal/library"
	"clipreel/internal/preflight"
	"clipreel/internal/staging"
	"clipreel/internal/usage"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check binaries, directories, and library state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var lines []string

			lines = append(lines, renderSectionHeader("Config", colorize)...)
			configPath := ctx.configPath
			if configPath == "" {
				configPath = "(defaults)"
			}
			lines = append(lines, renderStatusLine("File", statusInfo, configPath, colorize))
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			for _, dep := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				detail := dep.Command
				if dep.Detail != "" {
					detail = fmt.Sprintf("%s (%s)", dep.Command, dep.Detail)
				}
				lines = append(lines, renderStatusLine(dep.Name, passFail(dep.Available, statusError), detail, colorize))
			}
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			for _, check := range preflight.RunAll(cmd.Context(), cfg) {
				lines = append(lines, renderStatusLine(check.Name, passFail(check.Passed, statusError), check.Detail, colorize))
			}
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Library", colorize)...)
			lines = append(lines, libraryStatusLines(cfg.Paths.ClipsDir, cfg.Library.ClipExtensions, cfg.Paths.AudioDir, cfg.Library.AudioExtensions, cfg.State.UsageFile, colorize)...)
			lines = append(lines, historyStatusLine(cmd.Context(), cfg.State.HistoryEnabled, cfg.State.HistoryDB, colorize))
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Workspaces", colorize)...)
			dirs, err := staging.ListDirectories(cfg.Paths.TempDir, composition.WorkspacePrefix)
			switch {
			case err != nil:
				lines = append(lines, renderStatusLine("Leftover", statusWarn, err.Error(), colorize))
			case len(dirs) == 0:
				lines = append(lines, renderStatusLine("Leftover", statusOK, "none", colorize))
			default:
				var total int64
				oldest := time.Now()
				for _, d := range dirs {
					total += d.Size
					if d.ModTime.Before(oldest) {
						oldest = d.ModTime
					}
				}
				msg := fmt.Sprintf("%d workspace(s), %s, oldest %s ago", len(dirs), formatBytes(total), formatAge(time.Since(oldest)))
				lines = append(lines, renderStatusLine("Leftover", statusWarn, msg, colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func libraryStatusLines(clipsDir string, clipExts []string, audioDir string, audioExts []string, usageFile string, colorize bool) []string {
	var lines []string

	clips, clipErr := library.Folder{Label: "Video", Dir: clipsDir, Extensions: clipExts}.Scan()
	switch {
	case clipErr != nil:
		lines = append(lines, renderStatusLine("Clips", statusError, clipErr.Error(), colorize))
	case len(clips) == 0:
		lines = append(lines, renderStatusLine("Clips", statusWarn, "no clips found", colorize))
	default:
		lines = append(lines, renderStatusLine("Clips", statusOK, fmt.Sprintf("%d available", len(clips)), colorize))
	}

	tracks, err := library.Folder{Label: "Audio", Dir: audioDir, Extensions: audioExts}.Scan()
	switch {
	case err != nil:
		lines = append(lines, renderStatusLine("Audio", statusError, err.Error(), colorize))
	case len(tracks) == 0:
		lines = append(lines, renderStatusLine("Audio", statusWarn, "no audio tracks found", colorize))
	default:
		lines = append(lines, renderStatusLine("Audio", statusOK, fmt.Sprintf("%d available", len(tracks)), colorize))
	}

	store, err := usage.Load(usageFile)
	if err != nil {
		lines = append(lines, renderStatusLine("Usage file", statusError, err.Error(), colorize))
		return lines
	}
	never := 0
	for _, id := range clips {
		if !store.Get(id).Used() {
			never++
		}
	}
	msg := fmt.Sprintf("%s (%d tracked, %d never used)", usageFile, store.Len(), never)
	lines = append(lines, renderStatusLine("Usage file", statusInfo, msg, colorize))
	return lines
}

func historyStatusLine(ctx context.Context, enabled bool, path string, colorize bool) string {
	if !enabled {
		return renderStatusLine("History", statusInfo, "disabled", colorize)
	}
	store, err := history.Open(path)
	if err != nil {
		return renderStatusLine("History", statusWarn, err.Error(), colorize)
	}
	defer store.Close()
	count, err := store.Count(ctx)
	if err != nil {
		return renderStatusLine("History", statusWarn, err.Error(), colorize)
	}
	return renderStatusLine("History", statusInfo, fmt.Sprintf("%s (%d runs)", store.Path(), count), colorize)
}
