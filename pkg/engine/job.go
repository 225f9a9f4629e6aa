package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// JobPriority represents the urgency level of a job.
type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityMedium JobPriority = "medium"
	JobPriorityHigh   JobPriority = "high"
	JobPriorityUrgent JobPriority = "urgent"
)

// Level returns the numeric urgency, higher is more urgent.
func (p JobPriority) Level() int {
	switch p {
	case JobPriorityLow:
		return 1
	case JobPriorityMedium:
		return 2
	case JobPriorityHigh:
		return 3
	case JobPriorityUrgent:
		return 4
	default:
		return 0
	}
}

// Validate checks if the job priority is valid.
func (p JobPriority) Validate() error {
	switch p {
	case JobPriorityLow, JobPriorityMedium, JobPriorityHigh, JobPriorityUrgent:
		return nil
	default:
		return fmt.Errorf("invalid job priority: %s", p)
	}
}

// Product supplies the actions a job takes ownership of. The concrete
// product entity lives outside the engine; only its identity and
// action sequence matter here.
type Product interface {
	// ProductID returns the product's unique identifier.
	ProductID() string

	// ProductActions returns the product's actions in stable order.
	ProductActions() []*Action
}

// Job is an order-level aggregate owning the actions derived from its
// products, with a guarded lifecycle and a resource-allocation ledger.
//
// Mutating calls against one job (status transitions, ledger writes)
// must be serialized by the caller.
type Job struct {
	// ID is the process-unique identifier.
	ID string

	// CustomerID references the ordering customer, if any.
	CustomerID string

	// Priority is the urgency level, if declared.
	Priority JobPriority

	// DueDate is the required completion instant. It must not be in
	// the past at construction time.
	DueDate time.Time

	// CreationDate is when the job was constructed.
	CreationDate time.Time

	products  []Product
	actions   []*Action
	status    JobStatus
	startDate *time.Time
	endDate   *time.Time

	// allocated maps action IDs to the resource ID assigned to fulfill
	// them. At most one resource per action; later allocations for the
	// same action overwrite earlier ones.
	allocated map[string]string

	lastModified time.Time
	log          zerolog.Logger
}

// JobParams carries the construction attributes of a job. Products and
// DueDate are required; an empty ID generates one.
type JobParams struct {
	ID         string
	CustomerID string
	Products   []Product
	Priority   JobPriority
	DueDate    time.Time
	Logger     zerolog.Logger
}

// NewJob constructs a planned job. Ownership of every action reachable
// through the products is established here, once, by stamping each
// action's job reference. Construction fails with INVALID_JOB on an
// empty product list or a past due date; no partial job is produced.
func NewJob(p JobParams) (*Job, error) {
	if len(p.Products) == 0 {
		return nil, NewValidationError("job must have at least one product", nil).
			WithCode(ErrCodeInvalidJob)
	}
	if p.DueDate.Before(time.Now()) {
		return nil, NewValidationError("due date cannot be in the past", nil).
			WithCode(ErrCodeInvalidJob).
			WithDetail("due_date", p.DueDate)
	}
	if p.Priority != "" {
		if err := p.Priority.Validate(); err != nil {
			return nil, NewValidationError("invalid job priority", err).
				WithCode(ErrCodeInvalidJob)
		}
	}
	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now()
	j := &Job{
		ID:           id,
		CustomerID:   p.CustomerID,
		Priority:     p.Priority,
		DueDate:      p.DueDate,
		CreationDate: now,
		products:     append([]Product(nil), p.Products...),
		status:       JobStatusPlanned,
		allocated:    make(map[string]string),
		lastModified: now,
		log:          p.Logger,
	}
	for _, product := range j.products {
		for _, action := range product.ProductActions() {
			action.SetJob(j.ID)
			j.actions = append(j.actions, action)
		}
	}
	j.log.Info().
		Str("job_id", j.ID).
		Int("products", len(j.products)).
		Int("actions", len(j.actions)).
		Msg("created job")
	return j, nil
}

// Status returns the current lifecycle status.
func (j *Job) Status() JobStatus {
	return j.status
}

// Products returns a copy of the product list, in construction order.
func (j *Job) Products() []Product {
	return append([]Product(nil), j.products...)
}

// Actions returns a copy of the owned action list: the union, in
// stable order, of each product's actions plus any actions added
// afterwards.
func (j *Job) Actions() []*Action {
	return append([]*Action(nil), j.actions...)
}

// AddAction takes ownership of an additional action.
func (j *Job) AddAction(a *Action) {
	a.SetJob(j.ID)
	j.actions = append(j.actions, a)
	j.touch()
	j.log.Info().Str("job_id", j.ID).Str("action_id", a.ID).Msg("added action to job")
}

// RemoveAction releases an action the job owns. Actions owned by a
// different job are left untouched.
func (j *Job) RemoveAction(a *Action) {
	if a.JobID() != j.ID {
		return
	}
	for i, owned := range j.actions {
		if owned.ID == a.ID {
			j.actions = append(j.actions[:i], j.actions[i+1:]...)
			break
		}
	}
	a.RemoveJob()
	delete(j.allocated, a.ID)
	j.touch()
	j.log.Info().Str("job_id", j.ID).Str("action_id", a.ID).Msg("removed action from job")
}

// Start begins execution. Only legal from planned; fails with
// INVALID_TRANSITION otherwise, leaving the status unchanged.
func (j *Job) Start() error {
	if current, ok := jobGuards["start"]; ok && j.status != current {
		return NewPreconditionError(
			fmt.Sprintf("cannot start job in %s status", j.status), nil).
			WithCode(ErrCodeInvalidTransition).
			WithJob(j.ID)
	}
	now := time.Now()
	j.status = JobStatusInProgress
	j.startDate = &now
	j.touch()
	j.log.Info().Str("job_id", j.ID).Msg("started job")
	return nil
}

// PutOnHold suspends the job. Unguarded: legal from any status.
func (j *Job) PutOnHold(reason string) {
	j.status = JobStatusOnHold
	j.touch()
	j.log.Info().Str("job_id", j.ID).Str("reason", reason).Msg("put job on hold")
}

// Resume continues a suspended job. Only legal from on_hold; fails
// with INVALID_TRANSITION otherwise, leaving the status unchanged.
func (j *Job) Resume() error {
	if current, ok := jobGuards["resume"]; ok && j.status != current {
		return NewPreconditionError(
			fmt.Sprintf("cannot resume job in %s status", j.status), nil).
			WithCode(ErrCodeInvalidTransition).
			WithJob(j.ID)
	}
	j.status = JobStatusInProgress
	j.touch()
	j.log.Info().Str("job_id", j.ID).Msg("resumed job")
	return nil
}

// Complete marks the job completed and stamps the completion date.
// Unguarded: legal from any status.
func (j *Job) Complete() {
	now := time.Now()
	j.status = JobStatusCompleted
	j.endDate = &now
	j.touch()
	j.log.Info().Str("job_id", j.ID).Msg("completed job")
}

// Cancel terminates the job. Unguarded: legal from any status.
func (j *Job) Cancel(reason string) {
	j.status = JobStatusCancelled
	j.touch()
	j.log.Info().Str("job_id", j.ID).Str("reason", reason).Msg("cancelled job")
}

// Restore rehydrates lifecycle state from a persisted record: the
// status and the start/completion dates. It bypasses the transition
// guards, which only apply to live transitions, and fails with
// INVALID_JOB on an unknown status, leaving the job unchanged.
func (j *Job) Restore(status JobStatus, startDate, completionDate *time.Time) error {
	if err := status.Validate(); err != nil {
		return NewValidationError("invalid job status", err).
			WithCode(ErrCodeInvalidJob).
			WithJob(j.ID)
	}
	j.status = status
	j.startDate = startDate
	j.endDate = completionDate
	j.touch()
	j.log.Debug().Str("job_id", j.ID).Str("status", string(status)).Msg("restored job state")
	return nil
}

// StartDate returns when execution began, if it has.
func (j *Job) StartDate() *time.Time {
	return j.startDate
}

// CompletionDate returns when the job completed, if it has.
func (j *Job) CompletionDate() *time.Time {
	return j.endDate
}

// LastModified returns the timestamp of the last mutation.
func (j *Job) LastModified() time.Time {
	return j.lastModified
}

// AllocateResource binds a resource to one of the job's actions in the
// allocation ledger. It fails with UNKNOWN_ACTION when the action is
// not owned by this job, leaving the ledger unchanged. A later
// allocation for the same action overwrites the earlier one; no check
// is made that the resource satisfies the action's requirements.
func (j *Job) AllocateResource(action *Action, resourceID string) error {
	if !j.owns(action) {
		return NewNotFoundError(
			fmt.Sprintf("action %s not found in job", action.ID), nil).
			WithCode(ErrCodeUnknownAction).
			WithJob(j.ID).
			WithAction(action.ID)
	}
	j.allocated[action.ID] = resourceID
	j.touch()
	j.log.Info().
		Str("job_id", j.ID).
		Str("action_id", action.ID).
		Str("resource_id", resourceID).
		Msg("allocated resource to action")
	return nil
}

// AllocationFor returns the resource ID allocated to an action.
// Absence means unallocated, not an error.
func (j *Job) AllocationFor(actionID string) (string, bool) {
	id, ok := j.allocated[actionID]
	return id, ok
}

// Allocations returns a copy of the allocation ledger, keyed by
// action ID.
func (j *Job) Allocations() map[string]string {
	out := make(map[string]string, len(j.allocated))
	for k, v := range j.allocated {
		out[k] = v
	}
	return out
}

// owns reports whether the action is among the job's owned actions.
func (j *Job) owns(action *Action) bool {
	for _, a := range j.actions {
		if a.ID == action.ID {
			return true
		}
	}
	return false
}

// Progress returns the percentage of owned actions that completed,
// or 0 for a job with no actions.
func (j *Job) Progress() float64 {
	if len(j.actions) == 0 {
		return 0
	}
	completed := 0
	for _, a := range j.actions {
		if a.Status() == ActionStatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(j.actions)) * 100
}

// IncompleteActions returns the owned actions that have not completed.
func (j *Job) IncompleteActions() []*Action {
	var out []*Action
	for _, a := range j.actions {
		if a.Status() != ActionStatusCompleted {
			out = append(out, a)
		}
	}
	return out
}

// InProgressActions returns the owned actions currently executing.
func (j *Job) InProgressActions() []*Action {
	var out []*Action
	for _, a := range j.actions {
		if a.Status() == ActionStatusInProgress {
			out = append(out, a)
		}
	}
	return out
}

// EstimatedDuration returns the sum of the owned actions' planned
// durations, in hours.
func (j *Job) EstimatedDuration() float64 {
	var total float64
	for _, a := range j.actions {
		total += a.Duration
	}
	return total
}

// IsOverdue reports whether the due date has passed.
func (j *Job) IsOverdue() bool {
	return time.Now().After(j.DueDate)
}

// touch stamps the modification time.
func (j *Job) touch() {
	j.lastModified = time.Now()
}

// ToMap converts the job to a flat map for export.
func (j *Job) ToMap() map[string]interface{} {
	productIDs := make([]string, len(j.products))
	for i, p := range j.products {
		productIDs[i] = p.ProductID()
	}
	return map[string]interface{}{
		"id":                 j.ID,
		"customer_id":        j.CustomerID,
		"products":           productIDs,
		"status":             string(j.status),
		"priority":           string(j.Priority),
		"progress":           j.Progress(),
		"due_date":           j.DueDate,
		"creation_date":      j.CreationDate,
		"start_date":         j.startDate,
		"completion_date":    j.endDate,
		"action_count":       len(j.actions),
		"estimated_duration": j.EstimatedDuration(),
	}
}
