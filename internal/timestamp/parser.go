// Package timestamp parses the loosely formatted date-time strings that
// third-party log services emit. Parsing is best effort: callers get a
// boolean instead of an error and decide what an unresolvable timestamp
// means for them.
package timestamp

import (
	"strings"
	"time"
)

// layouts are tried in order. All accepted forms are zero-padded, so
// their string representations sort lexicographically.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"15:04:05.999999999",
	"15:04:05",
	"15:04",
}

// Parse attempts to interpret s as a date-time. The second return value
// reports success. Comma decimal separators ("12:00:00,123") are
// normalized to dots before parsing.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	s = strings.Replace(s, ",", ".", 1)

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Seconds extracts the seconds component of t.
func Seconds(t time.Time) int {
	return t.Second()
}

// Millis extracts the milliseconds component of t.
func Millis(t time.Time) int {
	return t.Nanosecond() / int(time.Millisecond)
}
