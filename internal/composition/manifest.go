package composition

import (
	"fmt"
	"path/filepath"
	"strings"

	"clipreel/internal/fileutil"
)

// WriteManifest writes an ffmpeg concat-demuxer list of clips to path.
// Paths are made absolute and single-quoted. The list replaces any existing
// file at path in one rename.
func WriteManifest(path string, clips []string) error {
	var b strings.Builder
	for _, clip := range clips {
		abs, err := filepath.Abs(clip)
		if err != nil {
			return fmt.Errorf("resolve clip %s: %w", clip, err)
		}
		fmt.Fprintf(&b, "file %s\n", quoteConcatPath(abs))
	}
	if err := fileutil.WriteFileAtomic(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat manifest: %w", err)
	}
	return nil
}

// quoteConcatPath wraps p in single quotes; embedded quotes close the quoted
// run, emit an escaped quote, and reopen.
func quoteConcatPath(p string) string {
	return "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
}
