package duckdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lanternhq/lantern/internal/model"
)

// InsertLogFile stores one uploaded file and all of its parsed records
// in a single transaction, preserving line order through an explicit
// position column. Returns the generated file id.
func (s *Store) InsertLogFile(projectID, filename string, records []model.LogRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	fileID := uuid.NewString()
	if err := s.insertFileTx(ctx, fileID, projectID, filename, records); err != nil {
		return "", err
	}
	return fileID, nil
}

func (s *Store) insertFileTx(ctx context.Context, fileID, projectID, filename string, records []model.LogRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("duckdb: insert file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO log_files (id, project_id, filename, created_at) VALUES (?, ?, ?, ?)",
		fileID, projectID, filename, time.Now().UTC()); err != nil {
		return fmt.Errorf("duckdb: insert file row: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO logs (file_id, position, level, message, log_date, log_time, ts, extra) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("duckdb: prepare log insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		extra := "{}"
		if len(rec.Extra) > 0 {
			data, merr := json.Marshal(rec.Extra)
			if merr != nil {
				s.logger.Warn("failed to marshal record extras, storing empty",
					zap.String("filename", filename), zap.Error(merr))
			} else {
				extra = string(data)
			}
		}
		if _, err := stmt.ExecContext(ctx,
			fileID, i, rec.Level, rec.Message, rec.Date, rec.Time, rec.Timestamp, extra); err != nil {
			return fmt.Errorf("duckdb: record insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("duckdb: insert file commit: %w", err)
	}
	committed = true
	return nil
}
