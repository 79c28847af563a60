package usage

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Record tracks how often and how recently a clip was used.
// A nil LastUsed means the clip has never been used.
type Record struct {
	LastUsed   *time.Time
	UsageCount int
}

// Used reports whether the clip has ever been selected.
func (r Record) Used() bool {
	return r.LastUsed != nil
}

type recordJSON struct {
	LastUsed   *string `json:"last_used"`
	UsageCount int     `json:"usage_count"`
}

// MarshalJSON writes last_used as an RFC 3339 string or null.
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{UsageCount: r.UsageCount}
	if r.LastUsed != nil {
		formatted := r.LastUsed.UTC().Format(time.RFC3339Nano)
		out.LastUsed = &formatted
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts RFC 3339 strings, null, or legacy Unix seconds where
// zero means never used.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		LastUsed   json.RawMessage `json:"last_used"`
		UsageCount *int            `json:"usage_count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record{}
	if raw.UsageCount != nil {
		if *raw.UsageCount < 0 {
			return fmt.Errorf("usage_count must not be negative, got %d", *raw.UsageCount)
		}
		r.UsageCount = *raw.UsageCount
	}

	lastUsed, err := parseLastUsed(raw.LastUsed)
	if err != nil {
		return err
	}
	r.LastUsed = lastUsed
	return nil
}

func parseLastUsed(raw json.RawMessage) (*time.Time, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, fmt.Errorf("last_used: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, nil
		}
		ts, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, fmt.Errorf("last_used: %w", err)
		}
		ts = ts.UTC()
		return &ts, nil
	}

	var seconds float64
	if err := json.Unmarshal(trimmed, &seconds); err != nil {
		return nil, fmt.Errorf("last_used: expected string, number, or null: %w", err)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return nil, fmt.Errorf("last_used: invalid epoch value %v", seconds)
	}
	if seconds == 0 {
		return nil, nil
	}
	whole, frac := math.Modf(seconds)
	ts := time.Unix(int64(whole), int64(frac*1e9)).UTC()
	return &ts, nil
}
