package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clipreel/internal/faults"
)

// Engine is the media backend used by the composition pipeline.
type Engine interface {
	Concat(ctx context.Context, req ConcatRequest) error
	Duration(ctx context.Context, path string) (float64, error)
	Mix(ctx context.Context, req MixRequest) error
}

// ConcatRequest joins the files listed in a concat manifest.
type ConcatRequest struct {
	Manifest string
	Output   string
	// Reencode forces a full encode instead of stream copy. Used when the
	// inputs have mismatched codecs or timebases.
	Reencode   bool
	VideoCodec string
	AudioCodec string
}

// MixRequest replaces the audio of Video with Audio.
type MixRequest struct {
	Video  string
	Audio  string
	Output string
	// Volume is a linear gain applied to the audio track.
	Volume float64
	// FadeOut is the length of the trailing audio fade.
	FadeOut time.Duration
	// Duration is the output length in seconds; audio is trimmed to it.
	Duration float64
	// LoopAudio repeats the track when it is shorter than Duration.
	LoopAudio  bool
	VideoCodec string
	AudioCodec string
}

// Failure describes a failed engine invocation.
type Failure struct {
	Operation string
	Args      []string
	Stderr    string
	Err       error
}

func (f *Failure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s failed", faults.ErrEngineFailure, f.Operation)
	if f.Err != nil {
		fmt.Fprintf(&b, ": %v", f.Err)
	}
	if tail := lastLines(f.Stderr, 3); tail != "" {
		fmt.Fprintf(&b, ": %s", tail)
	}
	return b.String()
}

// Unwrap exposes both the engine marker and the underlying cause.
func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{faults.ErrEngineFailure}
	}
	return []error{faults.ErrEngineFailure, f.Err}
}

// Command renders the argv for logs.
func (f *Failure) Command() string {
	return strings.Join(f.Args, " ")
}

// lastLines keeps the tail of ffmpeg output, which is where the actual
// error usually is.
func lastLines(text string, n int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, " | ")
}
