package preflight

import (
	"context"
	"path/filepath"

	"clipreel/internal/config"
	"clipreel/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDirectory("Clips directory", cfg.Paths.ClipsDir),
		CheckReadableDirectory("Audio directory", cfg.Paths.AudioDir),
		CheckWritableTarget("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir),
		CheckWritableTarget("State directory", filepath.Dir(cfg.State.UsageFile)),
	}
	if cfg.State.HistoryEnabled {
		results = append(results, CheckWritableTarget("History directory", filepath.Dir(cfg.State.HistoryDB)))
	}
	return results
}

// CheckSystemDeps evaluates the external binaries for the given config.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	return deps.CheckMedia(ctx, cfg.Encoding.FFmpegBinary, cfg.Encoding.FFprobeBinary)
}
