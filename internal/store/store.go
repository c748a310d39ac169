// Package store persists completed health reports to a local SQLite
// database and exports them as JSON files. History is append-only; a
// new run never overwrites an old report.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"careguide/internal/logging"
	"careguide/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	total_activities INTEGER NOT NULL,
	completed_count INTEGER NOT NULL,
	engagement_score REAL NOT NULL,
	report_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

// Store wraps the report history database.
type Store struct {
	db *sql.DB
}

// ReportRecord is one row of report history, without the full report
// payload.
type ReportRecord struct {
	ID              int64     `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	TotalActivities int       `json:"total_activities"`
	CompletedCount  int       `json:"completed_count"`
	EngagementScore float64   `json:"engagement_score"`
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply store schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport appends a report to the history and returns its row id.
func (s *Store) SaveReport(ctx context.Context, report *types.HealthReport) (int64, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("encode report: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (created_at, total_activities, completed_count, engagement_score, report_json)
		 VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		report.TotalActivities,
		report.CompletedCount,
		report.HealthEngagementScore,
		string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	logging.Store("saved report %d: %d activities, score %.1f", id, report.TotalActivities, report.HealthEngagementScore)
	return id, nil
}

// GetReport loads one report by row id.
func (s *Store) GetReport(ctx context.Context, id int64) (*types.HealthReport, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM reports WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load report %d: %w", id, err)
	}

	var report types.HealthReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("decode report %d: %w", id, err)
	}
	return &report, nil
}

// ListReports returns the most recent history rows, newest first.
// limit <= 0 returns everything.
func (s *Store) ListReports(ctx context.Context, limit int) ([]ReportRecord, error) {
	query := `SELECT id, created_at, total_activities, completed_count, engagement_score
	          FROM reports ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &createdAt, &rec.TotalActivities, &rec.CompletedCount, &rec.EngagementScore); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ExportJSON writes a report as an indented JSON file.
func ExportJSON(report *types.HealthReport, path string) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logging.Store("exported report to %s", path)
	return nil
}
