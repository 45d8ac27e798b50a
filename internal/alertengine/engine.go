// Package alertengine evaluates alert rules over a project's full log
// history. Evaluation is stateless: each run recomputes every alert
// from scratch, so re-running after an upload replaces the previous
// alert set instead of appending to it.
package alertengine

import (
	"time"

	"github.com/lanternhq/lantern/internal/model"
	"github.com/lanternhq/lantern/internal/timestamp"
)

// Rule produces zero or more alerts from a log snapshot.
type Rule interface {
	Evaluate(records []model.LogRecord) []model.AlertSummary
}

// Engine runs a fixed rule set in order and concatenates the results.
type Engine struct {
	rules []Rule
}

func New(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Evaluate runs every rule over records. Output order follows rule
// order, then each rule's own alert order.
func (e *Engine) Evaluate(records []model.LogRecord) []model.AlertSummary {
	var alerts []model.AlertSummary
	for _, rule := range e.rules {
		alerts = append(alerts, rule.Evaluate(records)...)
	}
	return alerts
}

// timedRecord pairs a record with its parsed timestamp for window math.
type timedRecord struct {
	at  time.Time
	rec model.LogRecord
}

// recordTime resolves a record's timestamp for alert evaluation: the
// date and time pair joined ISO style when both are present, the
// combined field otherwise. Records that do not parse are excluded
// from rule evaluation entirely.
func recordTime(rec model.LogRecord) (time.Time, bool) {
	s := rec.Timestamp
	if rec.Date != "" && rec.Time != "" {
		s = rec.Date + "T" + rec.Time
	}
	if s == "" {
		return time.Time{}, false
	}
	return timestamp.Parse(s)
}

// isoTimestamp renders t the way alert consumers expect: seconds
// precision, with fractional digits only when the instant has them.
func isoTimestamp(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02T15:04:05.000000")
	}
	return t.Format("2006-01-02T15:04:05")
}

// rollingWindows walks records (already sorted ascending) and calls
// fire for every record whose trailing window of windowMinutes holds
// exactly threshold records. Matching on exact equality fires once per
// threshold crossing instead of once per record inside a busy window.
func rollingWindows(records []timedRecord, windowMinutes, threshold int, fire func(window []model.LogRecord, end time.Time)) {
	for i := range records {
		end := records[i].at
		var window []model.LogRecord
		for j := i; j >= 0; j-- {
			if end.Sub(records[j].at).Minutes() > float64(windowMinutes) {
				break
			}
			window = append(window, records[j].rec)
		}
		if len(window) == threshold {
			fire(window, end)
		}
	}
}
