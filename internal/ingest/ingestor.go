// Package ingest runs the upload pipeline: raw log text is parsed into
// records, journaled for durability, stored, and the project's alerts
// are re-evaluated from the full stored history.
package ingest

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lanternhq/lantern/internal/alertengine"
	"github.com/lanternhq/lantern/internal/journal"
	"github.com/lanternhq/lantern/internal/logparse"
	"github.com/lanternhq/lantern/internal/logview"
	"github.com/lanternhq/lantern/internal/model"
)

// Store is the persistence surface the pipeline writes through.
type Store interface {
	InsertLogFile(projectID, filename string, records []model.LogRecord) (string, error)
	ProjectLogFiles(projectID string) ([]model.LogFileGroup, error)
	ReplaceAlerts(projectID string, alerts []model.AlertSummary) error
}

// Ingestor accepts uploads for storage and keeps derived alerts fresh.
// The journal is optional; without one uploads are stored directly.
type Ingestor struct {
	store   Store
	journal *journal.Journal
	engine  *alertengine.Engine
	logger  *zap.Logger
}

func New(store Store, jrnl *journal.Journal, engine *alertengine.Engine, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{store: store, journal: jrnl, engine: engine, logger: logger}
}

// UploadResult reports what one upload produced.
type UploadResult struct {
	FileID      string
	Filename    string
	RecordCount int
}

// UploadText parses raw log text and stores it as one file of the
// project. The upload is journaled before the store write and
// committed after, so a crash in between is recovered by ReplayJournal
// on the next start.
func (in *Ingestor) UploadText(projectID, filename, text string) (UploadResult, error) {
	records := logparse.ParseText(text)

	var seq uint64
	if in.journal != nil {
		var err error
		seq, err = in.journal.Append(&journal.Upload{
			ProjectID: projectID,
			Filename:  filename,
			Records:   records,
		})
		if err != nil {
			return UploadResult{}, fmt.Errorf("ingest: journal upload: %w", err)
		}
	}

	fileID, err := in.store.InsertLogFile(projectID, filename, records)
	if err != nil {
		return UploadResult{}, fmt.Errorf("ingest: store upload: %w", err)
	}

	if in.journal != nil {
		if err := in.journal.Commit(seq); err != nil {
			in.logger.Warn("journal commit failed, upload will replay on restart",
				zap.Uint64("seq", seq), zap.Error(err))
		}
	}

	if err := in.RefreshAlerts(projectID); err != nil {
		in.logger.Warn("alert refresh after upload failed",
			zap.String("project_id", projectID), zap.Error(err))
	}

	return UploadResult{
		FileID:      fileID,
		Filename:    filename,
		RecordCount: len(records),
	}, nil
}

// RefreshAlerts re-evaluates every alert rule over the project's full
// stored history and swaps the stored alert set.
func (in *Ingestor) RefreshAlerts(projectID string) error {
	if in.engine == nil {
		return nil
	}
	groups, err := in.store.ProjectLogFiles(projectID)
	if err != nil {
		return fmt.Errorf("ingest: load project logs: %w", err)
	}
	alerts := in.engine.Evaluate(logview.Flatten(groups))
	if err := in.store.ReplaceAlerts(projectID, alerts); err != nil {
		return fmt.Errorf("ingest: store alerts: %w", err)
	}
	return nil
}

// ReplayJournal stores any uploads that were journaled but never
// committed, then commits them. Called once at startup.
func (in *Ingestor) ReplayJournal() error {
	if in.journal == nil {
		return nil
	}

	replayed := 0
	var maxSeq uint64
	touched := make(map[string]struct{})
	err := in.journal.Replay(func(seq uint64, u *journal.Upload) error {
		if _, err := in.store.InsertLogFile(u.ProjectID, u.Filename, u.Records); err != nil {
			return fmt.Errorf("ingest: replay seq=%d: %w", seq, err)
		}
		replayed++
		maxSeq = seq
		touched[u.ProjectID] = struct{}{}
		return nil
	})
	if err != nil {
		return err
	}
	if replayed == 0 {
		return nil
	}

	if err := in.journal.Commit(maxSeq); err != nil {
		return fmt.Errorf("ingest: commit replay: %w", err)
	}
	for projectID := range touched {
		if err := in.RefreshAlerts(projectID); err != nil {
			in.logger.Warn("alert refresh after replay failed",
				zap.String("project_id", projectID), zap.Error(err))
		}
	}
	in.logger.Info("replayed uncommitted uploads", zap.Int("count", replayed))
	return nil
}
