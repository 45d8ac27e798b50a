package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLogRecordJSON_ExtraFieldsFlattened(t *testing.T) {
	rec := LogRecord{
		Level:   "ERROR",
		Message: "boom",
		Date:    "2026-02-19",
		Time:    "19:06",
		Extra:   map[string]string{"category": "PaymentService", "id": "7"},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"level":"ERROR"`, `"category":"PaymentService"`, `"id":"7"`} {
		if !strings.Contains(s, want) {
			t.Errorf("marshaled record missing %s: %s", want, s)
		}
	}
	if strings.Contains(s, `"extra"`) {
		t.Errorf("extra map must be flattened, not nested: %s", s)
	}
}

func TestLogRecordJSON_RoundTrip(t *testing.T) {
	in := `{"level":"WARN","message":"slow","date":"2026-02-19","time":"19:06","requestId":"r-9","attempt":2}`

	var rec LogRecord
	if err := json.Unmarshal([]byte(in), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Level != "WARN" || rec.Message != "slow" {
		t.Errorf("known fields = %q/%q", rec.Level, rec.Message)
	}
	if rec.Extra["requestId"] != "r-9" {
		t.Errorf("extra requestId = %q", rec.Extra["requestId"])
	}
	if rec.Extra["attempt"] != "2" {
		t.Errorf("non-string extras should be stringified, got %q", rec.Extra["attempt"])
	}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	var rec2 LogRecord
	if err := json.Unmarshal(out, &rec2); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if rec2.Extra["requestId"] != "r-9" || rec2.Level != "WARN" {
		t.Errorf("round trip lost data: %+v", rec2)
	}
}

func TestFilterCriteria_HasContentFilter(t *testing.T) {
	seconds := 30
	tests := []struct {
		name string
		c    FilterCriteria
		want bool
	}{
		{"zero criteria", FilterCriteria{}, false},
		{"file only", FilterCriteria{File: "a.log"}, false},
		{"level", FilterCriteria{Level: "ERROR"}, true},
		{"keyword", FilterCriteria{Keyword: "x"}, true},
		{"from", FilterCriteria{From: "2026-02-19"}, true},
		{"seconds", FilterCriteria{Seconds: &seconds}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.HasContentFilter(); got != tt.want {
				t.Errorf("HasContentFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverityRank(t *testing.T) {
	if SeverityRank(SeverityHigh) <= SeverityRank(SeverityMedium) {
		t.Error("HIGH must outrank MEDIUM")
	}
	if SeverityRank(SeverityMedium) <= SeverityRank(SeverityLow) {
		t.Error("MEDIUM must outrank LOW")
	}
	if SeverityRank("whatever") != 0 {
		t.Error("unknown severity must rank lowest")
	}
}
