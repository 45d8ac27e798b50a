package alertengine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lanternhq/lantern/internal/model"
)

// ErrorCountRule fires when the count of ERROR records inside a
// rolling time window reaches its threshold.
type ErrorCountRule struct {
	WindowMinutes int
	Threshold     int
}

func NewErrorCountRule(windowMinutes, threshold int) ErrorCountRule {
	return ErrorCountRule{WindowMinutes: windowMinutes, Threshold: threshold}
}

func (r ErrorCountRule) Evaluate(records []model.LogRecord) []model.AlertSummary {
	var errors []timedRecord
	for _, rec := range records {
		if rec.Level != model.LevelError {
			continue
		}
		if at, ok := recordTime(rec); ok {
			errors = append(errors, timedRecord{at: at, rec: rec})
		}
	}
	sort.Slice(errors, func(i, j int) bool { return errors[i].at.Before(errors[j].at) })

	var alerts []model.AlertSummary
	rollingWindows(errors, r.WindowMinutes, r.Threshold, func(window []model.LogRecord, end time.Time) {
		alerts = append(alerts, model.AlertSummary{
			Name:     "High Error Rate",
			Reason:   fmt.Sprintf("Exceeded %d ERROR logs within %d minutes.", r.Threshold, r.WindowMinutes),
			Severity: model.SeverityHigh,
			Stats: model.AlertStats{
				Count:             len(window),
				TimeWindowMinutes: float64(r.WindowMinutes),
				LatestTimestamp:   isoTimestamp(end),
			},
			Logs: window,
		})
	})
	return alerts
}

// KeywordMatchRule fires when a keyword shows up in record messages at
// least threshold times inside a rolling time window. The match is
// case sensitive and substring based.
type KeywordMatchRule struct {
	Keyword       string
	WindowMinutes int
	Threshold     int
}

func NewKeywordMatchRule(keyword string, windowMinutes, threshold int) KeywordMatchRule {
	return KeywordMatchRule{Keyword: keyword, WindowMinutes: windowMinutes, Threshold: threshold}
}

func (r KeywordMatchRule) Evaluate(records []model.LogRecord) []model.AlertSummary {
	var matched []timedRecord
	for _, rec := range records {
		if !strings.Contains(rec.Message, r.Keyword) {
			continue
		}
		if at, ok := recordTime(rec); ok {
			matched = append(matched, timedRecord{at: at, rec: rec})
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].at.Before(matched[j].at) })

	severity := model.SeverityMedium
	if r.Threshold >= 10 {
		severity = model.SeverityHigh
	}

	var alerts []model.AlertSummary
	rollingWindows(matched, r.WindowMinutes, r.Threshold, func(window []model.LogRecord, end time.Time) {
		alerts = append(alerts, model.AlertSummary{
			Name:     fmt.Sprintf("Frequent Keyword: '%s'", r.Keyword),
			Reason:   fmt.Sprintf("Keyword '%s' seen %d times within %d minutes.", r.Keyword, r.Threshold, r.WindowMinutes),
			Severity: severity,
			Stats: model.AlertStats{
				Count:             len(window),
				TimeWindowMinutes: float64(r.WindowMinutes),
				LatestTimestamp:   isoTimestamp(end),
			},
			Logs: window,
		})
	})
	return alerts
}
