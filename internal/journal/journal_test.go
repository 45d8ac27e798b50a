package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lanternhq/lantern/internal/model"
)

func testUpload(projectID, filename, message string) *Upload {
	return &Upload{
		ProjectID: projectID,
		Filename:  filename,
		Records: []model.LogRecord{
			{Level: "INFO", Message: message, Date: "2026-02-19", Time: "19:06"},
		},
	}
}

func TestAppendReplayCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	seq1, err := j.Append(testUpload("p1", "a.log", "first"))
	if err != nil {
		t.Fatalf("Append first: %v", err)
	}
	seq2, err := j.Append(testUpload("p1", "b.log", "second"))
	if err != nil {
		t.Fatalf("Append second: %v", err)
	}
	if seq2 <= seq1 {
		t.Fatalf("sequence did not advance: seq1=%d seq2=%d", seq1, seq2)
	}

	if err := j.Commit(seq1); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	var replayed []string
	err = j.Replay(func(_ uint64, u *Upload) error {
		replayed = append(replayed, u.Filename)
		return nil
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(replayed) != 1 || replayed[0] != "b.log" {
		t.Fatalf("Replay files=%v, want [b.log]", replayed)
	}
}

func TestReplayCarriesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	u := testUpload("p1", "a.log", "hello")
	u.Records[0].Extra = map[string]string{"category": "General", "id": "1"}
	if _, err := j.Append(u); err != nil {
		t.Fatalf("Append: %v", err)
	}

	err = j.Replay(func(_ uint64, got *Upload) error {
		if got.ProjectID != "p1" {
			t.Errorf("project = %q, want p1", got.ProjectID)
		}
		if len(got.Records) != 1 || got.Records[0].Message != "hello" {
			t.Errorf("records = %+v", got.Records)
		}
		if got.Records[0].Extra["category"] != "General" {
			t.Errorf("extra lost on replay: %+v", got.Records[0].Extra)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
}

func TestOpenIgnoresPartialTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := j.Append(testUpload("p1", "ok.log", "ok")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Simulate torn write.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString(`{"seq":999,"upload":`); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close torn writer: %v", err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("Open second: %v", err)
	}
	defer func() { _ = j2.Close() }()

	var replayed []string
	err = j2.Replay(func(_ uint64, u *Upload) error {
		replayed = append(replayed, u.Filename)
		return nil
	})
	if err != nil {
		t.Fatalf("Replay second: %v", err)
	}
	if len(replayed) != 1 || replayed[0] != "ok.log" {
		t.Fatalf("Replay after torn write=%v, want [ok.log]", replayed)
	}
}

func TestCompactionDropsCommittedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.journal")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := j.Append(testUpload("p1", "a.log", "a")); err != nil {
		t.Fatalf("Append a: %v", err)
	}
	seq2, err := j.Append(testUpload("p1", "b.log", "b"))
	if err != nil {
		t.Fatalf("Append b: %v", err)
	}
	if err := j.Commit(seq2); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen compacts away committed entries.
	j2, err := Open(path)
	if err != nil {
		t.Fatalf("Open second: %v", err)
	}
	defer func() { _ = j2.Close() }()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("journal not compacted, %d bytes remain", len(data))
	}

	// Sequence numbers keep advancing past compacted history.
	seq3, err := j2.Append(testUpload("p1", "c.log", "c"))
	if err != nil {
		t.Fatalf("Append after compact: %v", err)
	}
	if seq3 <= seq2 {
		t.Errorf("seq3 = %d, want > %d", seq3, seq2)
	}
}
