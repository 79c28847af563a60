package composition

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
)

// AudioParams are the derived settings applied to the audio track.
type AudioParams struct {
	Volume   float64
	FadeOut  time.Duration
	Duration float64
}

// FadeOut returns min(maxFade, fraction*duration). A 15 second video with
// the defaults fades for 1.5 seconds; a 60 second video for 2.
func FadeOut(duration float64, maxFade time.Duration, fraction float64) time.Duration {
	if duration <= 0 || fraction <= 0 || maxFade <= 0 {
		return 0
	}
	proportional := time.Duration(math.Round(duration * fraction * float64(time.Second)))
	return min(maxFade, proportional)
}

// OutputPath names a compilation: <dir>/<prefix>-<timestamp>.<ext>.
func OutputPath(dir, prefix, layout, ext string, now time.Time) string {
	ext = strings.TrimPrefix(ext, ".")
	name := fmt.Sprintf("%s-%s.%s", prefix, now.Format(layout), ext)
	return filepath.Join(dir, name)
}

// partialPath places the in-progress file next to the destination so the
// final rename stays on one filesystem.
func partialPath(output, runID string) string {
	dir := filepath.Dir(output)
	base := filepath.Base(output)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.partial%s", stem, runID, ext))
}
