package workflow

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"clipreel/internal/composition"
	"clipreel/internal/config"
	"clipreel/internal/engine"
	"clipreel/internal/faults"
	"clipreel/internal/history"
	"clipreel/internal/library"
	"clipreel/internal/logging"
	"clipreel/internal/rotation"
	"clipreel/internal/staging"
	"clipreel/internal/usage"
)

// Request is one generate invocation.
type Request struct {
	// Clips is an explicit ordered clip list; empty means automatic rotation.
	Clips []string
	// Count overrides the configured default clip count when positive.
	Count   int
	Exclude []string
	Audio   string
	// Output overrides the synthesized output path.
	Output string
	DryRun bool
}

// Report describes what a run chose and produced.
type Report struct {
	RunID      string
	Selection  rotation.Selection
	ClipPaths  []string
	AudioPath  string
	OutputPath string
	Duration   float64
	Reencoded  bool
	DryRun     bool
}

// Runner wires configuration, the media engine, and persistence together.
type Runner struct {
	cfg      *config.Config
	engine   engine.Engine
	logger   *slog.Logger
	now      func() time.Time
	rng      *rand.Rand
	newRunID func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithClock overrides the time source used for timestamps and output names.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRand fixes the random source used for audio selection.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) { r.rng = rng }
}

// WithRunIDs overrides run id generation.
func WithRunIDs(next func() string) Option {
	return func(r *Runner) { r.newRunID = next }
}

// NewRunner builds a Runner. A nil engine defaults to the ffmpeg adapter
// configured from cfg.
func NewRunner(cfg *config.Config, eng engine.Engine, logger *slog.Logger, opts ...Option) *Runner {
	logger = logging.NewComponentLogger(logger, "workflow")
	if eng == nil {
		eng = engine.NewFFmpeg(cfg.Encoding.FFmpegBinary, cfg.Encoding.FFprobeBinary, logger)
	}
	r := &Runner{
		cfg:      cfg,
		engine:   eng,
		logger:   logger,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one compilation. The usage store is written only after the
// render succeeds.
func (r *Runner) Run(ctx context.Context, req Request) (Report, error) {
	runID := r.newRunID()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	startedAt := r.now()

	report := Report{RunID: runID, DryRun: req.DryRun}

	if !req.DryRun {
		lock, err := acquireLock(ctx, r.cfg.State.UsageFile, r.cfg.LockTimeout())
		if err != nil {
			return report, err
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Warn("failed to release usage lock", logging.Error(err))
			}
		}()
		if err := r.cfg.EnsureDirectories(); err != nil {
			return report, faults.Wrap(faults.ErrConfiguration, "prepare output", "", err)
		}
		r.sweepStale(ctx, logger)
	}

	store, err := usage.Load(r.cfg.State.UsageFile)
	if err != nil {
		return report, err
	}

	clipFolder := library.Folder{Label: "Video", Dir: r.cfg.Paths.ClipsDir, Extensions: r.cfg.Library.ClipExtensions}
	audioFolder := library.Folder{Label: "Audio", Dir: r.cfg.Paths.AudioDir, Extensions: r.cfg.Library.AudioExtensions}
	clips, err := clipFolder.Scan()
	if err != nil {
		return report, err
	}
	tracks, err := audioFolder.Scan()
	if err != nil {
		return report, err
	}

	count := req.Count
	if count == 0 {
		count = r.cfg.Selection.DefaultCount
	}
	selection, err := rotation.Select(clips, tracks, store, rotation.Request{
		Clips:   req.Clips,
		Count:   count,
		Exclude: req.Exclude,
		Audio:   req.Audio,
	}, r.rng)
	if err != nil {
		return report, err
	}
	report.Selection = selection

	if selection.Clamped() {
		logging.WarnWithContext(logger, "fewer clips available than requested", "selection_clamped",
			logging.Int("requested", selection.Requested),
			logging.Int("selected", len(selection.Clips)),
			logging.String(logging.FieldErrorHint, "add clips or lower selection.default_count"),
			logging.String(logging.FieldImpact, "compilation is shorter than requested"),
		)
	}
	logger.Info("selected clips",
		logging.Strings("clips", selection.Clips),
		logging.String("audio", selection.Audio),
		logging.Bool("explicit", selection.Explicit),
		logging.String(logging.FieldEventType, "selection"),
	)

	clipPaths, err := clipFolder.Paths(selection.Clips)
	if err != nil {
		return report, faults.Wrap(faults.ErrConfiguration, "resolve clips", "", err)
	}
	audioPaths, err := audioFolder.Paths([]string{selection.Audio})
	if err != nil {
		return report, faults.Wrap(faults.ErrConfiguration, "resolve audio", "", err)
	}
	report.ClipPaths = clipPaths
	report.AudioPath = audioPaths[0]

	output, err := r.outputPath(req.Output, startedAt)
	if err != nil {
		return report, err
	}
	report.OutputPath = output

	if req.DryRun {
		logger.Info("dry run; skipping render", logging.String("output", output))
		return report, nil
	}

	pipeline := composition.NewPipeline(r.engine, r.settings(), logger)
	result, err := pipeline.Run(ctx, composition.Job{
		RunID:  runID,
		Clips:  clipPaths,
		Audio:  report.AudioPath,
		Output: output,
	})
	if err != nil {
		logger.Error("render failed; usage left unchanged",
			logging.String(logging.FieldErrorKind, faults.Kind(err)),
			logging.String(logging.FieldEventType, "render_failed"),
			logging.Error(err),
		)
		return report, err
	}
	report.Duration = result.Duration
	report.Reencoded = result.Reencoded

	finishedAt := r.now()
	next := store.RecordUsed(selection.Clips, finishedAt)
	if err := usage.Save(r.cfg.State.UsageFile, next); err != nil {
		logger.Error("usage save failed after render",
			logging.String("output", output),
			logging.String(logging.FieldErrorKind, faults.Kind(err)),
			logging.Error(err),
		)
		return report, err
	}

	logger.Info("compilation complete",
		logging.String("output", output),
		logging.Float64("duration_seconds", result.Duration),
		logging.Int("clips", len(selection.Clips)),
		logging.String(logging.FieldEventType, "run_complete"),
	)

	r.appendHistory(ctx, logger, history.Entry{
		RunID:           runID,
		StartedAt:       startedAt,
		FinishedAt:      finishedAt,
		Clips:           selection.Clips,
		Audio:           selection.Audio,
		OutputPath:      output,
		DurationSeconds: result.Duration,
		Reencoded:       result.Reencoded,
	})
	return report, nil
}

func (r *Runner) outputPath(requested string, now time.Time) (string, error) {
	if requested == "" {
		requested = composition.OutputPath(
			r.cfg.Paths.OutputDir,
			r.cfg.Output.Prefix,
			r.cfg.Output.TimestampLayout,
			r.cfg.Output.Container,
			now,
		)
	}
	abs, err := filepath.Abs(requested)
	if err != nil {
		return "", faults.Wrap(faults.ErrInvalidRequest, "resolve output", requested, err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return "", faults.Wrap(faults.ErrInvalidRequest, "resolve output", abs+" is a directory", nil)
	}
	return abs, nil
}

func (r *Runner) settings() composition.Settings {
	return composition.Settings{
		TempDir:            r.cfg.Paths.TempDir,
		Volume:             r.cfg.Audio.Volume,
		FadeMax:            time.Duration(r.cfg.Audio.FadeMaxSeconds * float64(time.Second)),
		FadeFraction:       r.cfg.Audio.FadeFraction,
		LoopAudio:          r.cfg.LoopShortAudio(),
		VideoCodec:         r.cfg.Encoding.VideoCodec,
		AudioCodec:         r.cfg.Encoding.AudioCodec,
		FallbackVideoCodec: r.cfg.Encoding.FallbackVideoCodec,
		FallbackAudioCodec: r.cfg.Encoding.FallbackAudioCodec,
	}
}

func (r *Runner) sweepStale(ctx context.Context, logger *slog.Logger) {
	age := r.cfg.StaleWorkspaceAge()
	if age <= 0 {
		return
	}
	staging.CleanStale(ctx, r.cfg.Paths.TempDir, composition.WorkspacePrefix, age, logger)
	staging.CleanPartials(ctx, r.cfg.Paths.OutputDir, age, logger)
}

func (r *Runner) appendHistory(ctx context.Context, logger *slog.Logger, entry history.Entry) {
	if !r.cfg.State.HistoryEnabled {
		return
	}
	store, err := history.Open(r.cfg.State.HistoryDB)
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.String("path", r.cfg.State.HistoryDB),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not recorded in history"),
		)
		return
	}
	defer store.Close()

	if _, err := store.Append(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "history append failed", "history_append_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not recorded in history"),
		)
	}
}
