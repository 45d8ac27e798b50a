package logview

import (
	"reflect"
	"testing"

	"github.com/lanternhq/lantern/internal/model"
)

func TestAggregateTimeSeries_MinuteBuckets(t *testing.T) {
	records := []model.LogRecord{
		{Level: "INFO", Date: "2026-02-19", Time: "19:06:05"},
		{Level: "ERROR", Date: "2026-02-19", Time: "19:06:35.430"},
		{Level: "ERROR", Date: "2026-02-19", Time: "19:06:59"},
		{Level: "WARN", Date: "2026-02-19", Time: "19:07:00"},
	}

	buckets := AggregateTimeSeries(records, AllLevels)
	want := []model.TimeBucket{
		{TimeKey: "2026-02-19 19:06", Info: 1, Error: 2},
		{TimeKey: "2026-02-19 19:07", Warn: 1},
	}
	if !reflect.DeepEqual(buckets, want) {
		t.Errorf("buckets = %+v, want %+v", buckets, want)
	}
}

func TestAggregateTimeSeries_SelectedLevelZeroesOthers(t *testing.T) {
	records := []model.LogRecord{
		{Level: "INFO", Date: "2026-02-19", Time: "19:06"},
		{Level: "ERROR", Date: "2026-02-19", Time: "19:06"},
		{Level: "WARN", Date: "2026-02-19", Time: "19:07"},
	}

	buckets := AggregateTimeSeries(records, model.LevelError)
	if len(buckets) != 2 {
		t.Fatalf("selection must not drop buckets, got %d", len(buckets))
	}
	if buckets[0].Error != 1 || buckets[0].Info != 0 {
		t.Errorf("first bucket = %+v, want ERROR=1 and others zero", buckets[0])
	}
	if buckets[1].Warn != 0 || buckets[1].Error != 0 {
		t.Errorf("second bucket = %+v, want all zero", buckets[1])
	}
}

func TestAggregateTimeSeries_UnknownLevelExcluded(t *testing.T) {
	records := []model.LogRecord{
		{Level: "TRACE", Date: "2026-02-19", Time: "19:06"},
		{Level: "ERROR", Date: "2026-02-19", Time: "19:06"},
	}
	buckets := AggregateTimeSeries(records, AllLevels)
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1", len(buckets))
	}
	if sum := buckets[0].Info + buckets[0].Warn + buckets[0].Error + buckets[0].Debug; sum != 1 {
		t.Errorf("bucket sum = %d, want 1 (unknown level excluded)", sum)
	}
}

func TestAggregateTimeSeries_PlaceholderBucket(t *testing.T) {
	records := []model.LogRecord{
		{Level: "ERROR", Message: "no clock"},
		{Level: "ERROR", Message: "also no clock"},
	}
	buckets := AggregateTimeSeries(records, AllLevels)
	if len(buckets) != 1 || buckets[0].TimeKey != model.TimestampPlaceholder {
		t.Fatalf("buckets = %+v, want single placeholder bucket", buckets)
	}
	if buckets[0].Error != 2 {
		t.Errorf("placeholder ERROR = %d, want 2", buckets[0].Error)
	}
}

func TestAggregateTimeSeries_CombinedTimestampKeysWholeString(t *testing.T) {
	records := []model.LogRecord{
		{Level: "INFO", Timestamp: "2026-02-19T19:06:35Z"},
		{Level: "INFO", Timestamp: "2026-02-19T19:06:35Z"},
		{Level: "INFO", Timestamp: "2026-02-19T19:06:36Z"},
	}
	buckets := AggregateTimeSeries(records, AllLevels)
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if buckets[0].TimeKey != "2026-02-19T19:06:35Z" || buckets[0].Info != 2 {
		t.Errorf("first bucket = %+v", buckets[0])
	}
}

func TestAggregateTimeSeries_SortedAscending(t *testing.T) {
	records := []model.LogRecord{
		{Level: "INFO", Date: "2026-02-19", Time: "22:00"},
		{Level: "INFO", Date: "2026-02-19", Time: "08:00"},
		{Level: "INFO", Date: "2026-02-18", Time: "23:59"},
	}
	buckets := AggregateTimeSeries(records, AllLevels)
	keys := []string{buckets[0].TimeKey, buckets[1].TimeKey, buckets[2].TimeKey}
	want := []string{"2026-02-18 23:59", "2026-02-19 08:00", "2026-02-19 22:00"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestLevelDistribution(t *testing.T) {
	records := []model.LogRecord{
		{Level: "ERROR"},
		{Level: "ERROR"},
		{Level: "TRACE"},
	}
	dist := LevelDistribution(records)
	want := map[string]int{"INFO": 0, "WARN": 0, "ERROR": 2, "DEBUG": 0}
	if !reflect.DeepEqual(dist, want) {
		t.Errorf("distribution = %v, want %v", dist, want)
	}
}

func TestLevelDistribution_AfterKeywordFilter(t *testing.T) {
	groups := []model.LogFileGroup{{
		Filename: "app.log",
		Logs: []model.LogRecord{
			{Level: "WARN", Message: "request slow"},
			{Level: "ERROR", Message: "connection timeout"},
			{Level: "ERROR", Message: "read timeout"},
		},
	}}

	result := Query(groups, model.FilterCriteria{Keyword: "timeout"})
	dist := LevelDistribution(Flatten(result.Groups))
	want := map[string]int{"INFO": 0, "WARN": 0, "ERROR": 2, "DEBUG": 0}
	if !reflect.DeepEqual(dist, want) {
		t.Errorf("distribution = %v, want %v", dist, want)
	}
}
