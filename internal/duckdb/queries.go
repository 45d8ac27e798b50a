package duckdb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lanternhq/lantern/internal/model"
)

// CreateProject inserts a new project and returns it with its
// generated id.
func (s *Store) CreateProject(name string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	p := model.Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO projects (id, name, created_at) VALUES (?, ?, ?)",
		p.ID, p.Name, p.CreatedAt)
	if err != nil {
		return model.Project{}, fmt.Errorf("duckdb: create project: %w", err)
	}
	return p, nil
}

// GetProject looks up one project by id. Returns ErrNotFound when no
// such project exists.
func (s *Store) GetProject(id string) (model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var p model.Project
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM projects WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, fmt.Errorf("duckdb: project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("duckdb: get project: %w", err)
	}
	return p, nil
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects() ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM projects ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("duckdb: list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			s.logger.Warn("scan error listing projects", zap.Error(err))
			continue
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ProjectLogFiles loads every log file of a project with its records,
// files in upload order and records in original line order.
func (s *Store) ProjectLogFiles(projectID string) ([]model.LogFileGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, filename, created_at FROM log_files WHERE project_id = ? ORDER BY created_at, id",
		projectID)
	if err != nil {
		return nil, fmt.Errorf("duckdb: project files: %w", err)
	}
	defer rows.Close()

	var groups []model.LogFileGroup
	index := make(map[string]int)
	for rows.Next() {
		var id string
		var g model.LogFileGroup
		if err := rows.Scan(&id, &g.Filename, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("duckdb: scan file: %w", err)
		}
		index[id] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("duckdb: project files: %w", err)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	logRows, err := s.db.QueryContext(ctx, `
		SELECT l.file_id, l.level, l.message, l.log_date, l.log_time, l.ts, l.extra
		FROM logs l
		JOIN log_files f ON f.id = l.file_id
		WHERE f.project_id = ?
		ORDER BY f.created_at, f.id, l.position`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("duckdb: project logs: %w", err)
	}
	defer logRows.Close()

	for logRows.Next() {
		var fileID, extra string
		var rec model.LogRecord
		if err := logRows.Scan(&fileID, &rec.Level, &rec.Message, &rec.Date, &rec.Time, &rec.Timestamp, &extra); err != nil {
			s.logger.Warn("scan error loading logs", zap.Error(err))
			continue
		}
		if extra != "" && extra != "{}" {
			if err := json.Unmarshal([]byte(extra), &rec.Extra); err != nil {
				s.logger.Warn("bad extra payload", zap.String("file_id", fileID), zap.Error(err))
			}
		}
		i, ok := index[fileID]
		if !ok {
			continue
		}
		groups[i].Logs = append(groups[i].Logs, rec)
	}
	if err := logRows.Err(); err != nil {
		return nil, fmt.Errorf("duckdb: project logs: %w", err)
	}

	return groups, nil
}

// TotalLogCount returns the number of stored records for one project.
func (s *Store) TotalLogCount(projectID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM logs l
		JOIN log_files f ON f.id = l.file_id
		WHERE f.project_id = ?`,
		projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("duckdb: log count: %w", err)
	}
	return count, nil
}

// ReplaceAlerts swaps the stored alert set for a project in one
// transaction, so readers never observe a partial evaluation.
func (s *Store) ReplaceAlerts(projectID string, alerts []model.AlertSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("duckdb: replace alerts: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM alerts WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("duckdb: clear alerts: %w", err)
	}

	for i, a := range alerts {
		stats, err := json.Marshal(a.Stats)
		if err != nil {
			return fmt.Errorf("duckdb: marshal alert stats: %w", err)
		}
		logs, err := json.Marshal(a.Logs)
		if err != nil {
			return fmt.Errorf("duckdb: marshal alert logs: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO alerts (project_id, position, name, severity, reason, stats, logs) VALUES (?, ?, ?, ?, ?, ?, ?)",
			projectID, i, a.Name, a.Severity, a.Reason, string(stats), string(logs)); err != nil {
			return fmt.Errorf("duckdb: insert alert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("duckdb: replace alerts commit: %w", err)
	}
	committed = true
	return nil
}

// ProjectAlerts returns a project's stored alerts in evaluation order.
func (s *Store) ProjectAlerts(projectID string) ([]model.AlertSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, severity, reason, stats, logs FROM alerts WHERE project_id = ? ORDER BY position",
		projectID)
	if err != nil {
		return nil, fmt.Errorf("duckdb: project alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.AlertSummary
	for rows.Next() {
		var a model.AlertSummary
		var stats, logs string
		if err := rows.Scan(&a.Name, &a.Severity, &a.Reason, &stats, &logs); err != nil {
			s.logger.Warn("scan error loading alerts", zap.Error(err))
			continue
		}
		if err := json.Unmarshal([]byte(stats), &a.Stats); err != nil {
			s.logger.Warn("bad alert stats payload", zap.Error(err))
		}
		if err := json.Unmarshal([]byte(logs), &a.Logs); err != nil {
			s.logger.Warn("bad alert logs payload", zap.Error(err))
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
