package duckdb

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RetentionConfig holds configuration for the retention cleaner.
type RetentionConfig struct {
	RetentionDays int
}

// RetentionCleaner periodically deletes log files, and their records,
// uploaded before the configured retention period.
type RetentionCleaner struct {
	store         *Store
	logger        *zap.Logger
	retentionDays int
	done          chan struct{}
	wg            sync.WaitGroup
	stopOnce      sync.Once
}

// NewRetentionCleaner creates a retention cleaner for uploaded files.
// Returns nil when retention is 0 (disabled).
func NewRetentionCleaner(store *Store, logger *zap.Logger, conf ...RetentionConfig) *RetentionCleaner {
	days := 30
	if len(conf) > 0 {
		days = conf[0].RetentionDays
	}
	if days <= 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := &RetentionCleaner{
		store:         store,
		logger:        logger,
		retentionDays: days,
		done:          make(chan struct{}),
	}

	// Startup cleanup to catch up after downtime.
	rc.cleanup()

	rc.wg.Add(1)
	go rc.tickLoop()

	return rc
}

func (rc *RetentionCleaner) tickLoop() {
	defer rc.wg.Done()
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.cleanup()
		case <-rc.done:
			return
		}
	}
}

func (rc *RetentionCleaner) cleanup() {
	cutoff := time.Now().Add(-time.Duration(rc.retentionDays) * 24 * time.Hour)

	files, err := rc.store.DeleteFilesBefore(cutoff)
	if err != nil {
		rc.logger.Error("retention cleanup failed", zap.Error(err))
		return
	}
	if files > 0 {
		rc.logger.Info("retention cleanup removed expired uploads",
			zap.Int64("files", files),
			zap.Int("retention_days", rc.retentionDays))
	}
}

// Stop signals the cleaner to stop and waits for it to finish.
func (rc *RetentionCleaner) Stop() {
	rc.stopOnce.Do(func() {
		close(rc.done)
		rc.wg.Wait()
	})
}

// DeleteFilesBefore removes log files uploaded before cutoff along
// with their records, and reports the number of files removed.
func (s *Store) DeleteFilesBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM logs WHERE file_id IN (SELECT id FROM log_files WHERE created_at < ?)",
		cutoff); err != nil {
		return 0, fmt.Errorf("duckdb: delete expired logs: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM log_files WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("duckdb: delete expired files: %w", err)
	}
	files, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return files, nil
}
