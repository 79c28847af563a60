// Package history records completed compilations in a small SQLite database.
//
// The usage file answers "which clips are due"; history answers "what did we
// publish, and when". Each successful run appends one row with the run id,
// the ordered clip list, the audio track, and the output path. The CLI reads
// it back for `clipreel history`.
//
// Schema changes bump schemaVersion. An existing database with a different
// version is rejected rather than migrated.
package history
