// Package workflow runs one compilation end to end.
//
// Runner.Run is the only entry point. It serializes access to the usage file
// with an advisory lock, loads usage, scans the clip and audio libraries,
// asks the rotation selector for clips and a track, hands the job to the
// composition pipeline, and only after a successful render records the
// chosen clips as used and saves the store. A failed render leaves the usage
// file exactly as it was.
//
// Completed runs are appended to the SQLite history when enabled; a history
// failure is logged and never fails the run.
package workflow
