// Package library lists the media files available to a run.
//
// A Folder is a flat directory of clips or audio tracks filtered by
// extension. Identifiers are bare file names; Resolve maps a user-typed name
// onto the on-disk spelling so Unicode normalization differences between a
// shell and the filesystem do not turn into "unknown clip" errors.
package library
