// Package engine drives the external media tools that do the actual codec
// work.
//
// Engine is the narrow interface the composition pipeline depends on: join a
// concat manifest, measure a file's duration, and lay an audio track under a
// video. FFmpeg implements it by building argument lists with ffmpeg-go and
// running the configured ffmpeg and ffprobe binaries. Every failure surfaces
// as a *Failure carrying the operation name, argv, and captured stderr so the
// caller can log exactly what the tool said.
package engine
