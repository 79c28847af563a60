package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipreel/internal/logging"
	"clipreel/internal/media/ffprobe"
)

var globalArgs = []string{"-hide_banner", "-nostdin", "-loglevel", "error"}

// FFmpeg runs ffmpeg and ffprobe binaries.
type FFmpeg struct {
	FFmpegBinary  string
	FFprobeBinary string
	Logger        *slog.Logger
}

// NewFFmpeg builds an engine for the given binaries. Empty names fall back to
// "ffmpeg" and "ffprobe" on PATH.
func NewFFmpeg(ffmpegBinary, ffprobeBinary string, logger *slog.Logger) *FFmpeg {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	return &FFmpeg{
		FFmpegBinary:  ffmpegBinary,
		FFprobeBinary: ffprobeBinary,
		Logger:        logging.NewComponentLogger(logger, "engine"),
	}
}

// Concat joins the manifest entries into req.Output.
func (e *FFmpeg) Concat(ctx context.Context, req ConcatRequest) error {
	operation := "concat"
	if req.Reencode {
		operation = "concat re-encode"
	}
	return e.run(ctx, operation, req.Output, ConcatArgs(req))
}

// Mix writes req.Output with the video stream of req.Video and the processed
// audio of req.Audio.
func (e *FFmpeg) Mix(ctx context.Context, req MixRequest) error {
	return e.run(ctx, "mix audio", req.Output, MixArgs(req))
}

// Duration probes path and returns its length in seconds.
func (e *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	result, err := ffprobe.Inspect(ctx, e.FFprobeBinary, path)
	if err != nil {
		failure := &Failure{
			Operation: "probe duration",
			Args:      []string{e.FFprobeBinary, path},
			Err:       err,
		}
		var exitErr *ffprobe.ExitError
		if errors.As(err, &exitErr) {
			failure.Stderr = exitErr.Stderr
			failure.Err = exitErr.Err
		}
		return 0, failure
	}
	if result.VideoStreamCount() == 0 {
		return 0, &Failure{
			Operation: "probe duration",
			Args:      []string{e.FFprobeBinary, path},
			Err:       fmt.Errorf("no video stream in %s", path),
		}
	}
	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0, &Failure{
			Operation: "probe duration",
			Args:      []string{e.FFprobeBinary, path},
			Err:       fmt.Errorf("no usable duration reported for %s", path),
		}
	}
	return seconds, nil
}

// run executes ffmpeg and confirms output exists afterwards; a zero exit
// without the file is still a failure.
func (e *FFmpeg) run(ctx context.Context, operation, output string, args []string) error {
	argv := append(append([]string{}, globalArgs...), args...)
	if e.Logger != nil {
		e.Logger.Debug("running ffmpeg",
			logging.String("operation", operation),
			logging.Strings("args", argv),
		)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.FFmpegBinary, argv...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &Failure{
			Operation: operation,
			Args:      append([]string{e.FFmpegBinary}, argv...),
			Stderr:    stderr.String(),
			Err:       err,
		}
	}
	if info, err := os.Stat(output); err != nil || info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is a directory", output)
		}
		return &Failure{
			Operation: operation,
			Args:      append([]string{e.FFmpegBinary}, argv...),
			Stderr:    stderr.String(),
			Err:       fmt.Errorf("ffmpeg exited cleanly but wrote no output: %w", err),
		}
	}
	return nil
}

// ConcatArgs builds the ffmpeg arguments for a concat-demuxer join.
func ConcatArgs(req ConcatRequest) []string {
	input := ffmpeg.Input(req.Manifest, ffmpeg.KwArgs{"f": "concat", "safe": 0})
	out := ffmpeg.KwArgs{"c": "copy"}
	if req.Reencode {
		out = ffmpeg.KwArgs{
			"c:v":     codecOr(req.VideoCodec, "libx264"),
			"c:a":     codecOr(req.AudioCodec, "aac"),
			"pix_fmt": "yuv420p",
		}
	}
	return input.Output(req.Output, out).OverWriteOutput().GetArgs()
}

// MixArgs builds the ffmpeg arguments that replace the video's audio with a
// volume-adjusted, faded, length-trimmed track.
func MixArgs(req MixRequest) []string {
	audioKw := ffmpeg.KwArgs{}
	if req.LoopAudio {
		audioKw["stream_loop"] = -1
	}
	video := ffmpeg.Input(req.Video)
	audio := ffmpeg.Input(req.Audio, audioKw).Audio().
		Filter("volume", ffmpeg.Args{formatSeconds(req.Volume)})

	fade := req.FadeOut.Seconds()
	if fade > 0 && req.Duration > 0 {
		start := math.Max(req.Duration-fade, 0)
		audio = audio.Filter("afade", ffmpeg.Args{}, ffmpeg.KwArgs{
			"t":  "out",
			"st": formatSeconds(start),
			"d":  formatSeconds(fade),
		})
	}

	out := ffmpeg.KwArgs{
		"c:v":      codecOr(req.VideoCodec, "libx264"),
		"c:a":      codecOr(req.AudioCodec, "aac"),
		"pix_fmt":  "yuv420p",
		"movflags": "+faststart",
	}
	if req.Duration > 0 {
		out["t"] = formatSeconds(req.Duration)
	}
	return ffmpeg.Output([]*ffmpeg.Stream{video.Video(), audio}, req.Output, out).
		OverWriteOutput().
		GetArgs()
}

func codecOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
