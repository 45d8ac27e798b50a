package logview

import (
	"sort"

	"github.com/lanternhq/lantern/internal/model"
)

// AllLevels selects every level in AggregateTimeSeries.
const AllLevels = "ALL"

// AggregateTimeSeries buckets records by time key and counts per-level
// occurrences. Records whose level is not one of the four canonical
// values are excluded. When selected names a single level the other
// counters are zeroed but their buckets remain, so the bucket set is
// independent of the selection. Buckets come back sorted ascending by
// key string.
func AggregateTimeSeries(records []model.LogRecord, selected string) []model.TimeBucket {
	buckets := make(map[string]*model.TimeBucket)
	for _, rec := range records {
		n := Normalize(rec)
		if n.Level == "" {
			continue
		}
		key := bucketKey(rec)
		b, ok := buckets[key]
		if !ok {
			b = &model.TimeBucket{TimeKey: key}
			buckets[key] = b
		}
		switch n.Level {
		case model.LevelInfo:
			b.Info++
		case model.LevelWarn:
			b.Warn++
		case model.LevelError:
			b.Error++
		case model.LevelDebug:
			b.Debug++
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	single := model.KnownLevel(selected)
	out := make([]model.TimeBucket, 0, len(keys))
	for _, key := range keys {
		b := *buckets[key]
		if single {
			if selected != model.LevelInfo {
				b.Info = 0
			}
			if selected != model.LevelWarn {
				b.Warn = 0
			}
			if selected != model.LevelError {
				b.Error = 0
			}
			if selected != model.LevelDebug {
				b.Debug = 0
			}
		}
		out = append(out, b)
	}
	return out
}

// bucketKey picks the grouping key for one record. Split date/time
// shapes bucket at minute granularity; a combined timestamp buckets on
// its full string; records with neither share the placeholder bucket.
func bucketKey(rec model.LogRecord) string {
	if rec.Timestamp != "" {
		return rec.Timestamp
	}
	if rec.Time != "" {
		key := minutePrefix(rec.Time)
		if rec.Date != "" {
			key = rec.Date + " " + key
		}
		return key
	}
	return model.TimestampPlaceholder
}

func minutePrefix(clock string) string {
	if len(clock) > 5 {
		return clock[:5]
	}
	return clock
}
