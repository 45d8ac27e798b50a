// Package logview derives analytical views from immutable log and alert
// snapshots: filtered grouped results, time-bucketed level counts, level
// distributions, severity-ranked alerts, and a CSV export. Every
// function here is pure; callers re-invoke on each snapshot or criteria
// change instead of patching previous output.
package logview

import (
	"time"

	"github.com/lanternhq/lantern/internal/model"
	"github.com/lanternhq/lantern/internal/timestamp"
)

// Normalized is the canonical view of one record's level and timestamp.
type Normalized struct {
	// Level is the record's level when it is one of the four canonical
	// values, empty otherwise.
	Level string

	// Display is the timestamp as shown to users; the placeholder when
	// no timestamp shape resolves.
	Display string

	// Key is the parsed form of Display. KeyOK reports whether parsing
	// succeeded; when false the record fails every time predicate but
	// stays eligible for level, keyword, and file matching.
	Key   time.Time
	KeyOK bool
}

// Normalize extracts the canonical (level, timestamp) view from an
// arbitrarily shaped record. It never fails: malformed input degrades to
// an absent level or the timestamp placeholder.
func Normalize(rec model.LogRecord) Normalized {
	n := Normalized{Display: displayTimestamp(rec)}
	if model.KnownLevel(rec.Level) {
		n.Level = rec.Level
	}
	if n.Display != model.TimestampPlaceholder {
		n.Key, n.KeyOK = timestamp.Parse(n.Display)
	}
	return n
}

// displayTimestamp resolves the user-facing timestamp: the combined
// field wins, then the date+time pair, then the placeholder.
func displayTimestamp(rec model.LogRecord) string {
	if rec.Timestamp != "" {
		return rec.Timestamp
	}
	if rec.Date != "" && rec.Time != "" {
		return rec.Date + " " + rec.Time
	}
	return model.TimestampPlaceholder
}
