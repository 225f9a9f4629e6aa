package stores

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"

	"github.com/openmfg/openmfg/pkg/engine"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Config holds SQLite store configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	return &SQLiteStore{
		path: cfg.Path,
	}, nil
}

// Init initializes the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Ensure foreign keys are enabled (connection-level setting)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// BeginTx starts a new transaction
func (s *SQLiteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
}

// CommitTx commits a transaction
func (s *SQLiteStore) CommitTx(tx *sql.Tx) error {
	return tx.Commit()
}

// RollbackTx rolls back a transaction
func (s *SQLiteStore) RollbackTx(tx *sql.Tx) error {
	return tx.Rollback()
}

// SaveJob persists a job with its actions and allocation ledger in a
// single transaction. An existing job row is replaced, so SaveJob
// serves both first save and state sync after transitions.
func (s *SQLiteStore) SaveJob(ctx context.Context, job *engine.Job) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	jobQuery := `
		INSERT INTO jobs (id, customer_id, priority, status, progress, due_date, creation_date, start_date, completion_date, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			customer_id = excluded.customer_id,
			priority = excluded.priority,
			status = excluded.status,
			progress = excluded.progress,
			due_date = excluded.due_date,
			start_date = excluded.start_date,
			completion_date = excluded.completion_date,
			last_modified = excluded.last_modified
	`
	_, err = tx.ExecContext(ctx, jobQuery,
		job.ID,
		job.CustomerID,
		string(job.Priority),
		string(job.Status()),
		job.Progress(),
		job.DueDate,
		job.CreationDate,
		job.StartDate(),
		job.CompletionDate(),
		job.LastModified(),
	)
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	actionQuery := `
		INSERT INTO actions (id, job_id, name, action_type, status, sequence_nr, duration, progress, location_id, requirements, creation_date, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			sequence_nr = excluded.sequence_nr,
			duration = excluded.duration,
			progress = excluded.progress,
			location_id = excluded.location_id,
			requirements = excluded.requirements,
			last_modified = excluded.last_modified
	`
	for _, a := range job.Actions() {
		reqs, err := marshalRequirements(a.Requirements())
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, actionQuery,
			a.ID,
			job.ID,
			a.Name,
			string(a.Type),
			string(a.Status()),
			a.SequenceNr,
			a.Duration,
			a.Progress(),
			a.LocationID,
			reqs,
			a.CreationDate,
			a.LastModified(),
		)
		if err != nil {
			return fmt.Errorf("failed to save action %s: %w", a.ID, err)
		}
	}

	allocQuery := `
		INSERT INTO allocations (job_id, action_id, resource_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(job_id, action_id) DO UPDATE SET
			resource_id = excluded.resource_id,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	for actionID, resourceID := range job.Allocations() {
		if _, err := tx.ExecContext(ctx, allocQuery, job.ID, actionID, resourceID, now); err != nil {
			return fmt.Errorf("failed to save allocation for action %s: %w", actionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit job save: %w", err)
	}
	return nil
}

// marshalRequirements serializes requirement display strings to JSON.
func marshalRequirements(reqs []engine.Requirement) (string, error) {
	display := make([]string, len(reqs))
	for i, r := range reqs {
		display[i] = r.String()
	}
	data, err := json.Marshal(display)
	if err != nil {
		return "", fmt.Errorf("failed to marshal requirements: %w", err)
	}
	return string(data), nil
}

// GetJob retrieves a job record by ID
func (s *SQLiteStore) GetJob(ctx context.Context, id string) (*JobRecord, error) {
	query := `
		SELECT id, customer_id, priority, status, progress, due_date, creation_date, start_date, completion_date, last_modified
		FROM jobs
		WHERE id = ?
	`

	rec := &JobRecord{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.CustomerID,
		&rec.Priority,
		&rec.Status,
		&rec.Progress,
		&rec.DueDate,
		&rec.CreationDate,
		&rec.StartDate,
		&rec.CompletionDate,
		&rec.LastModified,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return rec, nil
}

// ListJobs lists job records with an optional status filter and
// pagination, most recently created first.
func (s *SQLiteStore) ListJobs(ctx context.Context, status *engine.JobStatus, limit, offset int) ([]*JobRecord, error) {
	query := `
		SELECT id, customer_id, priority, status, progress, due_date, creation_date, start_date, completion_date, last_modified
		FROM jobs
		WHERE (? IS NULL OR status = ?)
		ORDER BY creation_date DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, status, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	records := []*JobRecord{}
	for rows.Next() {
		rec := &JobRecord{}
		err := rows.Scan(
			&rec.ID,
			&rec.CustomerID,
			&rec.Priority,
			&rec.Status,
			&rec.Progress,
			&rec.DueDate,
			&rec.CreationDate,
			&rec.StartDate,
			&rec.CompletionDate,
			&rec.LastModified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return records, nil
}

// DeleteJob deletes a job by ID. Owned actions and allocations cascade.
func (s *SQLiteStore) DeleteJob(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetAction retrieves an action record by ID
func (s *SQLiteStore) GetAction(ctx context.Context, id string) (*ActionRecord, error) {
	query := `
		SELECT id, job_id, name, action_type, status, sequence_nr, duration, progress, location_id, requirements, creation_date, last_modified
		FROM actions
		WHERE id = ?
	`

	rec := &ActionRecord{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.JobID,
		&rec.Name,
		&rec.Type,
		&rec.Status,
		&rec.SequenceNr,
		&rec.Duration,
		&rec.Progress,
		&rec.LocationID,
		&rec.Requirements,
		&rec.CreationDate,
		&rec.LastModified,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("action %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get action: %w", err)
	}

	return rec, nil
}

// ListActionsByJob lists a job's action records in sequence order.
func (s *SQLiteStore) ListActionsByJob(ctx context.Context, jobID string) ([]*ActionRecord, error) {
	query := `
		SELECT id, job_id, name, action_type, status, sequence_nr, duration, progress, location_id, requirements, creation_date, last_modified
		FROM actions
		WHERE job_id = ?
		ORDER BY sequence_nr ASC, creation_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	records := []*ActionRecord{}
	for rows.Next() {
		rec := &ActionRecord{}
		err := rows.Scan(
			&rec.ID,
			&rec.JobID,
			&rec.Name,
			&rec.Type,
			&rec.Status,
			&rec.SequenceNr,
			&rec.Duration,
			&rec.Progress,
			&rec.LocationID,
			&rec.Requirements,
			&rec.CreationDate,
			&rec.LastModified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actions: %w", err)
	}

	return records, nil
}

// UpsertAllocation inserts or updates one allocation ledger entry
func (s *SQLiteStore) UpsertAllocation(ctx context.Context, alloc *AllocationRecord) error {
	query := `
		INSERT INTO allocations (job_id, action_id, resource_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(job_id, action_id) DO UPDATE SET
			resource_id = excluded.resource_id,
			updated_at = excluded.updated_at
	`

	if alloc.UpdatedAt.IsZero() {
		alloc.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query, alloc.JobID, alloc.ActionID, alloc.ResourceID, alloc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert allocation: %w", err)
	}
	return nil
}

// ListAllocationsByJob lists a job's allocation ledger entries.
func (s *SQLiteStore) ListAllocationsByJob(ctx context.Context, jobID string) ([]*AllocationRecord, error) {
	query := `
		SELECT job_id, action_id, resource_id, updated_at
		FROM allocations
		WHERE job_id = ?
		ORDER BY action_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	records := []*AllocationRecord{}
	for rows.Next() {
		rec := &AllocationRecord{}
		if err := rows.Scan(&rec.JobID, &rec.ActionID, &rec.ResourceID, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocations: %w", err)
	}

	return records, nil
}

// AppendEvent appends a new event to the log
func (s *SQLiteStore) AppendEvent(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO events (job_id, action_id, level, message, details, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		event.JobID,
		event.ActionID,
		event.Level,
		event.Message,
		event.Details,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get event ID: %w", err)
	}

	event.ID = id
	return nil
}

// GetEvents retrieves events with optional filters and pagination
func (s *SQLiteStore) GetEvents(ctx context.Context, jobID *string, actionID *string, level *EventLevel, limit, offset int) ([]*Event, error) {
	query := `
		SELECT id, job_id, action_id, level, message, details, timestamp
		FROM events
		WHERE (? IS NULL OR job_id = ?)
		  AND (? IS NULL OR action_id = ?)
		  AND (? IS NULL OR level = ?)
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, jobID, jobID, actionID, actionID, level, level, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		event := &Event{}
		err := rows.Scan(
			&event.ID,
			&event.JobID,
			&event.ActionID,
			&event.Level,
			&event.Message,
			&event.Details,
			&event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// HealthCheck verifies the database connection is healthy
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.PingContext(ctx)
}
