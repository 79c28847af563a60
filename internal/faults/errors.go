package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration     = errors.New("configuration error")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInsufficientClips = errors.New("insufficient clips")
	ErrNoAudio           = errors.New("no audio available")
	ErrUnknownClip       = errors.New("unknown clip")
	ErrUnknownAudio      = errors.New("unknown audio")
	ErrCorruptState      = errors.New("corrupt usage state")
	ErrPersistence       = errors.New("persistence error")
	ErrEngineFailure     = errors.New("engine failure")
)

var markers = []struct {
	err  error
	kind string
}{
	{ErrConfiguration, "configuration"},
	{ErrInvalidRequest, "invalid_request"},
	{ErrInsufficientClips, "insufficient_clips"},
	{ErrNoAudio, "no_audio"},
	{ErrUnknownClip, "unknown_clip"},
	{ErrUnknownAudio, "unknown_audio"},
	{ErrCorruptState, "corrupt_state"},
	{ErrPersistence, "persistence"},
	{ErrEngineFailure, "engine_failure"},
}

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrConfiguration
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short machine-friendly name for the marker carried by err,
// or "unknown" when err carries none of them.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range markers {
		if errors.Is(err, m.err) {
			return m.kind
		}
	}
	return "unknown"
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
