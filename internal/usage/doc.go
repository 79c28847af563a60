// Package usage persists per-clip usage statistics between runs.
//
// Each clip in the library is tracked by its file name with the time it was
// last placed in a compilation and the number of compilations it has appeared
// in. The rotation selector reads these records to favour clips that have
// waited longest.
//
// # Storage
//
// The store is a single JSON object keyed by clip name:
//
//	{
//	  "a.mp4": {"last_used": "2026-01-02T15:04:05Z", "usage_count": 3},
//	  "b.mp4": {"last_used": null, "usage_count": 0}
//	}
//
// Older files recorded last_used as Unix seconds with 0 meaning "never"; those
// load transparently and are rewritten in the string form on the next save.
// Saves go through a temp file and rename so an interrupted run never leaves a
// truncated file behind.
//
// Store is a value: RecordUsed and Forget return a new Store, and nothing
// touches disk until Save is called.
package usage
