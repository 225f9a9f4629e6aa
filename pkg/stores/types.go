package stores

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/openmfg/openmfg/pkg/engine"
)

// ErrNotFound is returned when a requested record does not exist.
// Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")

// EventLevel represents the severity level of an event.
type EventLevel string

const (
	EventLevelDebug   EventLevel = "debug"
	EventLevelInfo    EventLevel = "info"
	EventLevelWarning EventLevel = "warning"
	EventLevelError   EventLevel = "error"
)

// JobRecord is the persisted form of a job.
type JobRecord struct {
	ID             string             `json:"id"`
	CustomerID     string             `json:"customer_id"`
	Priority       engine.JobPriority `json:"priority"`
	Status         engine.JobStatus   `json:"status"`
	Progress       float64            `json:"progress"`
	DueDate        time.Time          `json:"due_date"`
	CreationDate   time.Time          `json:"creation_date"`
	StartDate      *time.Time         `json:"start_date,omitempty"`
	CompletionDate *time.Time         `json:"completion_date,omitempty"`
	LastModified   time.Time          `json:"last_modified"`
}

// ActionRecord is the persisted form of an action.
type ActionRecord struct {
	ID           string              `json:"id"`
	JobID        string              `json:"job_id"`
	Name         string              `json:"name"`
	Type         engine.ActionType   `json:"action_type"`
	Status       engine.ActionStatus `json:"status"`
	SequenceNr   int                 `json:"sequence_nr"`
	Duration     float64             `json:"duration"`
	Progress     float64             `json:"progress"`
	LocationID   string              `json:"location_id,omitempty"`
	Requirements string              `json:"requirements"` // JSON array of display strings
	CreationDate time.Time           `json:"creation_date"`
	LastModified time.Time           `json:"last_modified"`
}

// AllocationRecord is one persisted ledger entry: the resource
// assigned to one action of a job.
type AllocationRecord struct {
	JobID      string    `json:"job_id"`
	ActionID   string    `json:"action_id"`
	ResourceID string    `json:"resource_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Event represents an append-only log event.
type Event struct {
	ID        int64      `json:"id"`
	JobID     *string    `json:"job_id,omitempty"`
	ActionID  *string    `json:"action_id,omitempty"`
	Level     EventLevel `json:"level"`
	Message   string     `json:"message"`
	Details   *string    `json:"details,omitempty"` // JSON blob
	Timestamp time.Time  `json:"timestamp"`
}

// Store defines the interface for the persistence layer.
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Transaction support
	BeginTx(ctx context.Context) (*sql.Tx, error)
	CommitTx(tx *sql.Tx) error
	RollbackTx(tx *sql.Tx) error

	// Job operations
	SaveJob(ctx context.Context, job *engine.Job) error
	GetJob(ctx context.Context, id string) (*JobRecord, error)
	ListJobs(ctx context.Context, status *engine.JobStatus, limit, offset int) ([]*JobRecord, error)
	DeleteJob(ctx context.Context, id string) error

	// Action operations
	GetAction(ctx context.Context, id string) (*ActionRecord, error)
	ListActionsByJob(ctx context.Context, jobID string) ([]*ActionRecord, error)

	// Allocation operations
	UpsertAllocation(ctx context.Context, alloc *AllocationRecord) error
	ListAllocationsByJob(ctx context.Context, jobID string) ([]*AllocationRecord, error)

	// Event operations
	AppendEvent(ctx context.Context, event *Event) error
	GetEvents(ctx context.Context, jobID *string, actionID *string, level *EventLevel, limit, offset int) ([]*Event, error)

	// Utility
	HealthCheck(ctx context.Context) error
}
