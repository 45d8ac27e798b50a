package logparse

import (
	"testing"

	"github.com/lanternhq/lantern/internal/model"
)

func TestParseText_StructuredLine(t *testing.T) {
	line := "2026-02-19 19:06:35.430 WARN 1 --- [main] com.mesh.MeshDataService : Failed to return account details for accountId=568"
	records := ParseText(line)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.Level != model.LevelWarn {
		t.Errorf("level = %q, want WARN", rec.Level)
	}
	if rec.Date != "2026-02-19" {
		t.Errorf("date = %q, want 2026-02-19", rec.Date)
	}
	if rec.Time != "19:06" {
		t.Errorf("time = %q, want 19:06", rec.Time)
	}
	if rec.Message != "Failed to return account details for accountId=568" {
		t.Errorf("message = %q", rec.Message)
	}
	if rec.Extra["category"] != "MeshDataService" {
		t.Errorf("category = %q, want MeshDataService", rec.Extra["category"])
	}
	if rec.Extra["id"] != "1" {
		t.Errorf("id = %q, want 1", rec.Extra["id"])
	}
}

func TestParseText_Fallbacks(t *testing.T) {
	records := ParseText("something happened")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.Level != model.LevelInfo {
		t.Errorf("level = %q, want INFO fallback", rec.Level)
	}
	if rec.Time != "00:00" {
		t.Errorf("time = %q, want 00:00 fallback", rec.Time)
	}
	if rec.Date != "" {
		t.Errorf("date = %q, want empty", rec.Date)
	}
	if rec.Extra["category"] != model.DefaultCategory {
		t.Errorf("category = %q, want %q", rec.Extra["category"], model.DefaultCategory)
	}
	if rec.Message != "something happened" {
		t.Errorf("message = %q, want whole line", rec.Message)
	}
}

func TestParseText_SkipsBlankLines(t *testing.T) {
	text := "ERROR first : one\n\n   \nDEBUG second : two\n"
	records := ParseText(text)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Extra["id"] != "1" || records[1].Extra["id"] != "2" {
		t.Errorf("ids = %q, %q; want 1, 2", records[0].Extra["id"], records[1].Extra["id"])
	}
	if records[0].Level != model.LevelError || records[1].Level != model.LevelDebug {
		t.Errorf("levels = %q, %q", records[0].Level, records[1].Level)
	}
}

func TestParseText_CategoryLastSegment(t *testing.T) {
	records := ParseText("2026-02-19 10:00:00 INFO [http-nio-8080] a.b.c.PaymentService : done")
	if got := records[0].Extra["category"]; got != "PaymentService" {
		t.Errorf("category = %q, want PaymentService", got)
	}
}

func TestParseText_Empty(t *testing.T) {
	if records := ParseText(""); len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}
