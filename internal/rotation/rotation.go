package rotation

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"clipreel/internal/faults"
	"clipreel/internal/library"
	"clipreel/internal/usage"
)

// Request describes what the caller asked for.
type Request struct {
	// Clips, when non-empty, is the exact ordered join list.
	Clips []string
	// Count is the desired number of clips for automatic selection.
	Count int
	// Exclude removes clips from automatic selection.
	Exclude []string
	// Audio names a specific track; empty picks one at random.
	Audio string
}

// Explicit reports whether the request carries its own clip list.
func (r Request) Explicit() bool {
	return len(r.Clips) > 0
}

// Selection is the outcome of a rotation pass.
type Selection struct {
	Clips     []string
	Audio     string
	Requested int
	Explicit  bool
}

// Clamped reports whether fewer clips were chosen than requested.
func (s Selection) Clamped() bool {
	return !s.Explicit && len(s.Clips) < s.Requested
}

// Select picks clips and audio in one pass.
func Select(clips, audio []string, store usage.Store, req Request, rng *rand.Rand) (Selection, error) {
	chosen, err := SelectClips(clips, store, req)
	if err != nil {
		return Selection{}, err
	}
	track, err := SelectAudio(audio, req.Audio, rng)
	if err != nil {
		return Selection{}, err
	}
	requested := req.Count
	if req.Explicit() {
		requested = len(req.Clips)
	}
	return Selection{
		Clips:     chosen,
		Audio:     track,
		Requested: requested,
		Explicit:  req.Explicit(),
	}, nil
}

// SelectClips returns the ordered join list for req.
func SelectClips(available []string, store usage.Store, req Request) ([]string, error) {
	if req.Explicit() {
		return resolveExplicit(available, req.Clips)
	}
	if req.Count <= 0 {
		return nil, faults.Wrap(faults.ErrInvalidRequest, "select clips", fmt.Sprintf("clip count must be positive, got %d", req.Count), nil)
	}

	candidates := eligible(available, req.Exclude)
	if len(candidates) == 0 {
		detail := "no clips found"
		if len(available) > 0 {
			detail = fmt.Sprintf("all %d clips are excluded", len(available))
		}
		return nil, faults.Wrap(faults.ErrInsufficientClips, "select clips", detail, nil)
	}

	Rank(candidates, store)
	return candidates[:min(req.Count, len(candidates))], nil
}

// Rank sorts ids in place by rotation priority.
func Rank(ids []string, store usage.Store) {
	slices.SortStableFunc(ids, func(a, b string) int {
		return compare(a, store.Get(a), b, store.Get(b))
	})
}

func compare(aID string, a usage.Record, bID string, b usage.Record) int {
	if c := compareLastUsed(a.LastUsed, b.LastUsed); c != 0 {
		return c
	}
	if c := cmp.Compare(a.UsageCount, b.UsageCount); c != 0 {
		return c
	}
	return strings.Compare(aID, bID)
}

func compareLastUsed(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

func eligible(available, exclude []string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[library.Normalize(name)] = struct{}{}
	}
	out := make([]string, 0, len(available))
	for _, name := range available {
		if _, excluded := skip[library.Normalize(name)]; excluded {
			continue
		}
		out = append(out, name)
	}
	return out
}

func resolveExplicit(available, requested []string) ([]string, error) {
	out := make([]string, 0, len(requested))
	var missing []string
	for _, name := range requested {
		resolved, ok := library.Resolve(available, name)
		if !ok {
			if !slices.Contains(missing, name) {
				missing = append(missing, name)
			}
			continue
		}
		out = append(out, resolved)
	}
	if len(missing) > 0 {
		return nil, faults.Wrap(faults.ErrUnknownClip, "select clips", "not in clip library: "+strings.Join(missing, ", "), nil)
	}
	return out, nil
}

// SelectAudio returns explicit when it names a known track, otherwise a
// uniformly random track from available.
func SelectAudio(available []string, explicit string, rng *rand.Rand) (string, error) {
	if explicit != "" {
		resolved, ok := library.Resolve(available, explicit)
		if !ok {
			return "", faults.Wrap(faults.ErrUnknownAudio, "select audio", "not in audio library: "+explicit, nil)
		}
		return resolved, nil
	}
	if len(available) == 0 {
		return "", faults.Wrap(faults.ErrNoAudio, "select audio", "no audio files found", nil)
	}
	if rng == nil {
		return available[rand.IntN(len(available))], nil
	}
	return available[rng.IntN(len(available))], nil
}
