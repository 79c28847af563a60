package composition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"clipreel/internal/engine"
	"clipreel/internal/faults"
	"clipreel/internal/fileutil"
	"clipreel/internal/logging"
)

// WorkspacePrefix starts every workspace directory name. Stale sweeps match
// on it.
const WorkspacePrefix = "clipreel-"

// Job describes one render.
type Job struct {
	RunID  string
	Clips  []string
	Audio  string
	Output string
}

// Settings hold the configured render parameters.
type Settings struct {
	TempDir            string
	Volume             float64
	FadeMax            time.Duration
	FadeFraction       float64
	LoopAudio          bool
	VideoCodec         string
	AudioCodec         string
	FallbackVideoCodec string
	FallbackAudioCodec string
}

// Result summarizes a completed render.
type Result struct {
	Output   string
	Duration float64
	Audio    AudioParams
	// Reencoded is true when stream-copy concat failed and the fallback ran.
	Reencoded bool
}

// Pipeline sequences engine calls for a Job.
type Pipeline struct {
	engine   engine.Engine
	settings Settings
	logger   *slog.Logger
}

// NewPipeline builds a pipeline on eng.
func NewPipeline(eng engine.Engine, settings Settings, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		engine:   eng,
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "composition"),
	}
}

// Run renders job.Output. Errors from the engine are returned as-is and
// match faults.ErrEngineFailure; nothing is written at job.Output unless the
// whole run succeeds.
func (p *Pipeline) Run(ctx context.Context, job Job) (Result, error) {
	if len(job.Clips) == 0 {
		return Result{}, faults.Wrap(faults.ErrInvalidRequest, "compose", "no clips to join", nil)
	}
	if job.Audio == "" {
		return Result{}, faults.Wrap(faults.ErrInvalidRequest, "compose", "no audio track", nil)
	}
	if job.Output == "" {
		return Result{}, faults.Wrap(faults.ErrInvalidRequest, "compose", "no output path", nil)
	}

	workspace, err := os.MkdirTemp(p.settings.TempDir, WorkspacePrefix+job.RunID+"-*")
	if err != nil {
		return Result{}, faults.Wrap(faults.ErrPersistence, "compose", "create workspace", err)
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			logging.WarnWithContext(p.logger, "workspace cleanup failed", "workspace_cleanup_failed",
				logging.String("workspace", workspace),
				logging.Error(err),
				logging.String(logging.FieldImpact, "temporary files remain on disk"),
			)
		}
	}()

	manifest := filepath.Join(workspace, "concat.txt")
	if err := WriteManifest(manifest, job.Clips); err != nil {
		return Result{}, faults.Wrap(faults.ErrPersistence, "compose", "write manifest", err)
	}

	ext := filepath.Ext(job.Output)
	if ext == "" {
		ext = ".mp4"
	}
	joined := filepath.Join(workspace, "joined"+ext)
	reencoded, err := p.concat(ctx, manifest, joined)
	if err != nil {
		return Result{}, err
	}

	duration, err := p.engine.Duration(ctx, joined)
	if err != nil {
		return Result{}, err
	}
	params := AudioParams{
		Volume:   p.settings.Volume,
		FadeOut:  FadeOut(duration, p.settings.FadeMax, p.settings.FadeFraction),
		Duration: duration,
	}
	p.logger.Info("joined clips",
		logging.Int("clips", len(job.Clips)),
		logging.Float64("duration_seconds", duration),
		logging.Duration("fade_out", params.FadeOut),
		logging.Bool("reencoded", reencoded),
	)

	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		return Result{}, faults.Wrap(faults.ErrPersistence, "compose", "create output directory", err)
	}
	partial := partialPath(job.Output, job.RunID)
	committed := false
	defer func() {
		if !committed {
			if err := os.Remove(partial); err != nil && !errors.Is(err, os.ErrNotExist) {
				p.logger.Debug("partial output cleanup failed", logging.String("path", partial), logging.Error(err))
			}
		}
	}()

	err = p.engine.Mix(ctx, engine.MixRequest{
		Video:      joined,
		Audio:      job.Audio,
		Output:     partial,
		Volume:     params.Volume,
		FadeOut:    params.FadeOut,
		Duration:   params.Duration,
		LoopAudio:  p.settings.LoopAudio,
		VideoCodec: p.settings.VideoCodec,
		AudioCodec: p.settings.AudioCodec,
	})
	if err != nil {
		return Result{}, err
	}

	if err := fileutil.MoveFile(partial, job.Output); err != nil {
		return Result{}, faults.Wrap(faults.ErrPersistence, "compose", fmt.Sprintf("place output %s", job.Output), err)
	}
	committed = true

	return Result{
		Output:    job.Output,
		Duration:  duration,
		Audio:     params,
		Reencoded: reencoded,
	}, nil
}

func (p *Pipeline) concat(ctx context.Context, manifest, joined string) (bool, error) {
	err := p.engine.Concat(ctx, engine.ConcatRequest{Manifest: manifest, Output: joined})
	if err == nil {
		return false, nil
	}
	if ctx.Err() != nil {
		return false, err
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldErrorKind, faults.Kind(err)),
		logging.String(logging.FieldErrorHint, "clips differ in codec parameters; re-encoding"),
		logging.String(logging.FieldImpact, "render takes longer"),
		logging.Error(err),
	}
	logging.WarnWithContext(p.logger, "stream copy concat failed", "concat_fallback", attrs...)
	_ = os.Remove(joined)

	err = p.engine.Concat(ctx, engine.ConcatRequest{
		Manifest:   manifest,
		Output:     joined,
		Reencode:   true,
		VideoCodec: p.settings.FallbackVideoCodec,
		AudioCodec: p.settings.FallbackAudioCodec,
	})
	return true, err
}
