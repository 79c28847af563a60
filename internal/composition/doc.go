// Package composition renders one compilation video.
//
// A Pipeline run:
//
//  1. creates a private workspace under the temp directory,
//  2. writes a concat manifest listing the clips in order,
//  3. joins them with stream copy, falling back to a re-encode once when the
//     clips do not share codec parameters,
//  4. probes the joined file to learn the target duration,
//  5. mixes the chosen audio track under the video with the configured volume
//     and a trailing fade, trimmed to the video length, into a partial file
//     beside the destination,
//  6. renames the partial file onto the destination.
//
// The workspace and any partial output are removed on every return path, so
// a failed run leaves nothing behind except log lines.
package composition
