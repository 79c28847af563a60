// Package rotation chooses which clips and which audio track go into a
// compilation.
//
// Automatic selection orders every eligible clip by a single composite key:
// least recently used first (never-used clips ahead of everything), then
// lowest usage count, then file name. The first k entries win. Because the
// key only looks at persisted usage, the same library and store always yield
// the same clips, and clips that were skipped rise to the front on later runs.
//
// Explicit selection bypasses ranking: the caller's list is used verbatim,
// in order, duplicates included, once every name is known to exist.
//
// Audio is picked uniformly at random unless the caller names a track.
package rotation
