package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/leadpilot/campaignops/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS campaigns (
			campaign_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			execution_mode TEXT NOT NULL DEFAULT 'dry_run',
			keywords TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			campaign_id TEXT NOT NULL,
			status TEXT NOT NULL,
			execution_mode TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			started_at DATETIME,
			completed_at DATETIME,
			updated_at DATETIME,
			failure_reason TEXT,
			termination_reason TEXT,
			FOREIGN KEY (campaign_id) REFERENCES campaigns(campaign_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_campaign ON runs(campaign_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			run_id TEXT NOT NULL,
			campaign_id TEXT NOT NULL,
			occurred_at INTEGER NOT NULL,
			outcome TEXT,
			detail TEXT,
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_campaign ON events(campaign_id, occurred_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateCampaign creates a new campaign.
func (s *SQLiteStore) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	keywords, _ := json.Marshal(campaign.Keywords)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO campaigns (campaign_id, name, status, execution_mode, keywords, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		campaign.CampaignID, campaign.Name, campaign.Status, campaign.ExecutionMode, string(keywords), campaign.CreatedAt, campaign.UpdatedAt)
	return err
}

// GetCampaign retrieves a campaign by ID.
func (s *SQLiteStore) GetCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT campaign_id, name, status, execution_mode, keywords, created_at, updated_at FROM campaigns WHERE campaign_id = ?`,
		campaignID)
	return scanCampaign(row)
}

// ListCampaigns retrieves all campaigns, newest first.
func (s *SQLiteStore) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT campaign_id, name, status, execution_mode, keywords, created_at, updated_at FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		var keywords sql.NullString
		if err := rows.Scan(&c.CampaignID, &c.Name, &c.Status, &c.ExecutionMode, &keywords, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if keywords.Valid && keywords.String != "" {
			_ = json.Unmarshal([]byte(keywords.String), &c.Keywords)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// UpdateCampaign updates an existing campaign.
func (s *SQLiteStore) UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	keywords, _ := json.Marshal(campaign.Keywords)
	res, err := s.db.ExecContext(ctx,
		`UPDATE campaigns SET name = ?, status = ?, execution_mode = ?, keywords = ?, updated_at = ? WHERE campaign_id = ?`,
		campaign.Name, campaign.Status, campaign.ExecutionMode, string(keywords), campaign.UpdatedAt, campaign.CampaignID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("campaign %s not found", campaign.CampaignID)
	}
	return nil
}

// DeleteCampaign removes a campaign record. Runs and events are history and
// are never deleted with it.
func (s *SQLiteStore) DeleteCampaign(ctx context.Context, campaignID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM campaigns WHERE campaign_id = ?`, campaignID)
	return err
}

// SaveRun inserts or replaces a run record. The backend owns run state, so
// whatever it reports last wins.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *domain.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id, campaign_id, status, execution_mode, created_at, started_at, completed_at, updated_at, failure_reason, termination_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.CampaignID, run.Status, run.ExecutionMode, run.CreatedAt,
		nullableTime(run.StartedAt), nullableTime(run.CompletedAt), nullableTime(run.UpdatedAt),
		run.FailureReason, run.TerminationReason)
	return err
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, campaign_id, status, execution_mode, created_at, started_at, completed_at, updated_at, failure_reason, termination_reason
		 FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns retrieves all runs of a campaign, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, campaignID string) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, campaign_id, status, execution_mode, created_at, started_at, completed_at, updated_at, failure_reason, termination_reason
		 FROM runs WHERE campaign_id = ? ORDER BY created_at DESC, run_id DESC`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// HasActiveRun reports whether the campaign has a run that is queued or in
// flight.
func (s *SQLiteStore) HasActiveRun(ctx context.Context, campaignID string) (bool, error) {
	runs, err := s.ListRuns(ctx, campaignID)
	if err != nil {
		return false, err
	}
	for _, run := range runs {
		if run.Status.IsQueued() || run.Status.IsRunning() {
			return true, nil
		}
	}
	return false, nil
}

// CreateEvent appends an event. Events are immutable once recorded.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	var detail interface{}
	if len(event.Detail) > 0 {
		detail = string(event.Detail)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, kind, run_id, campaign_id, occurred_at, outcome, detail) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.EventID, event.Kind, event.RunID, event.CampaignID, event.OccurredAt.UnixMilli(), event.Outcome, detail)
	return err
}

// ListRunEvents retrieves events of a run in occurrence order.
func (s *SQLiteStore) ListRunEvents(ctx context.Context, runID string, limit int) ([]domain.Event, error) {
	query := `SELECT event_id, kind, run_id, campaign_id, occurred_at, outcome, detail FROM events WHERE run_id = ? ORDER BY occurred_at ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return s.queryEvents(ctx, query, runID)
}

// ListCampaignEvents retrieves events of a campaign in occurrence order.
func (s *SQLiteStore) ListCampaignEvents(ctx context.Context, campaignID string, limit int) ([]domain.Event, error) {
	query := `SELECT event_id, kind, run_id, campaign_id, occurred_at, outcome, detail FROM events WHERE campaign_id = ? ORDER BY occurred_at ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return s.queryEvents(ctx, query, campaignID)
}

func (s *SQLiteStore) queryEvents(ctx context.Context, query string, args ...interface{}) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var occurredAt int64
		var outcome, detail sql.NullString
		if err := rows.Scan(&e.EventID, &e.Kind, &e.RunID, &e.CampaignID, &occurredAt, &outcome, &detail); err != nil {
			return nil, err
		}
		e.OccurredAt = time.UnixMilli(occurredAt).UTC()
		if outcome.Valid {
			e.Outcome = outcome.String
		}
		if detail.Valid {
			e.Detail = json.RawMessage(detail.String)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	var c domain.Campaign
	var keywords sql.NullString
	err := row.Scan(&c.CampaignID, &c.Name, &c.Status, &c.ExecutionMode, &keywords, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if keywords.Valid && keywords.String != "" {
		_ = json.Unmarshal([]byte(keywords.String), &c.Keywords)
	}
	return &c, nil
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var startedAt, completedAt, updatedAt sql.NullTime
	var executionMode, failureReason, terminationReason sql.NullString
	err := row.Scan(&run.RunID, &run.CampaignID, &run.Status, &executionMode, &run.CreatedAt,
		&startedAt, &completedAt, &updatedAt, &failureReason, &terminationReason)
	if err != nil {
		return nil, err
	}
	if executionMode.Valid {
		run.ExecutionMode = executionMode.String
	}
	if startedAt.Valid {
		t := startedAt.Time
		run.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		run.UpdatedAt = &t
	}
	if failureReason.Valid {
		run.FailureReason = failureReason.String
	}
	if terminationReason.Valid {
		run.TerminationReason = terminationReason.String
	}
	return &run, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
