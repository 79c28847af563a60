// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, container name)
//   - ExitError: a failed invocation with ffprobe's stderr attached
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// DurationSeconds prefers the container duration and falls back to the first
// video stream when a muxer leaves the container field empty.
package ffprobe
