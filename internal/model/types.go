package model

import (
	"encoding/json"
	"time"
)

// LogRecord represents a single log entry used across the system.
// It is the canonical type for storage, derivation, and export. The
// timestamp is carried either in Timestamp (one combined string) or in
// the separate Date and Time fields, mirroring the shapes produced by
// third-party services. Keys outside the canonical schema land in Extra
// so keyword search and export can still see them.
type LogRecord struct {
	Level     string            `json:"level,omitempty"`
	Message   string            `json:"message,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Date      string            `json:"date,omitempty"`
	Time      string            `json:"time,omitempty"`
	Extra     map[string]string `json:"-"`
}

// logRecordAlias breaks the MarshalJSON recursion.
type logRecordAlias LogRecord

// MarshalJSON emits the canonical fields plus every Extra key at the top
// level, so a serialized record round-trips the shape it arrived in.
func (r LogRecord) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(logRecordAlias(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}

	flat := map[string]any{}
	if err := json.Unmarshal(base, &flat); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		if _, taken := flat[k]; !taken {
			flat[k] = v
		}
	}
	return json.Marshal(flat)
}

// UnmarshalJSON captures canonical fields and folds every unknown key
// into Extra as a stringified scalar. A malformed extra value never
// fails the whole record.
func (r *LogRecord) UnmarshalJSON(data []byte) error {
	var alias logRecordAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, known := range []string{"level", "message", "timestamp", "date", "time"} {
		delete(raw, known)
	}
	if len(raw) > 0 {
		alias.Extra = make(map[string]string, len(raw))
		for k, v := range raw {
			alias.Extra[k] = stringifyRawValue(v)
		}
	}

	*r = LogRecord(alias)
	return nil
}

func stringifyRawValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// LogFileGroup is one uploaded log file with its records in original
// line order. Order is significant and preserved end-to-end. Collapsed
// is a grouped-view annotation; it is never persisted.
type LogFileGroup struct {
	Filename  string      `json:"filename"`
	CreatedAt time.Time   `json:"created_at"`
	Logs      []LogRecord `json:"logs"`
	Collapsed bool        `json:"collapsed"`
}

// AlertStats carries the numbers behind one alert.
type AlertStats struct {
	Count             int     `json:"count"`
	TimeWindowMinutes float64 `json:"time_window_minutes"`
	LatestTimestamp   string  `json:"latest_timestamp"`
}

// AlertSummary is one fired alert together with the records that
// triggered it. Read-only once produced.
type AlertSummary struct {
	Name     string      `json:"name"`
	Reason   string      `json:"reason"`
	Severity string      `json:"severity"`
	Stats    AlertStats  `json:"stats"`
	Logs     []LogRecord `json:"logs"`
}

// FilterCriteria is the set of active filter constraints for one query.
// A zero-valued field means "no constraint", never "match nothing".
type FilterCriteria struct {
	Level        string
	File         string
	Keyword      string
	From         string
	To           string
	Seconds      *int
	Milliseconds *int
}

// HasContentFilter reports whether any record-level predicate is set.
// The file filter alone does not count: an empty file is still shown
// when only a file filter is active.
func (c FilterCriteria) HasContentFilter() bool {
	return c.Level != "" || c.Keyword != "" || c.From != "" || c.To != "" ||
		c.Seconds != nil || c.Milliseconds != nil
}

// IsZero reports whether no constraint at all is set.
func (c FilterCriteria) IsZero() bool {
	return !c.HasContentFilter() && c.File == ""
}

// TimeBucket holds per-level counts for one time key.
type TimeBucket struct {
	TimeKey string `json:"timeKey"`
	Info    int    `json:"INFO"`
	Warn    int    `json:"WARN"`
	Error   int    `json:"ERROR"`
	Debug   int    `json:"DEBUG"`
}

// Project is one log project owning uploaded files and derived alerts.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
