package logging

import "time"

// Console lines carry only the wall clock; time-valued attributes keep the date.
const (
	lineClockLayout = "15:04:05.000"
	attrTimeLayout  = "2006-01-02 15:04:05"
)

func formatLineClock(ts time.Time) string {
	if ts.IsZero() {
		return "--:--:--.---"
	}
	return ts.Local().Format(lineClockLayout)
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format(attrTimeLayout)
}
