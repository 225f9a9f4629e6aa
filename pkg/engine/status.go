package engine

import (
	"encoding/json"
	"fmt"
)

// ActionStatus represents the lifecycle status of an action.
type ActionStatus string

const (
	// ActionStatusDraft indicates the action is created but not yet ready
	// for execution. This is the initial status of every action.
	ActionStatusDraft ActionStatus = "draft"

	// ActionStatusRequested indicates the action has been submitted for
	// approval or scheduling.
	ActionStatusRequested ActionStatus = "requested"

	// ActionStatusConfirmed indicates the action has been approved and
	// scheduled for execution.
	ActionStatusConfirmed ActionStatus = "confirmed"

	// ActionStatusInProgress indicates the action is currently executing.
	ActionStatusInProgress ActionStatus = "in_progress"

	// ActionStatusCompleted indicates the action finished successfully.
	ActionStatusCompleted ActionStatus = "completed"

	// ActionStatusCancelled indicates the action was terminated before
	// completion or rejected.
	ActionStatusCancelled ActionStatus = "cancelled"
)

// IsTerminal returns true if the action status represents a final state.
// The engine defines no transitions out of a terminal status; reopening
// completed work means creating a new action.
func (s ActionStatus) IsTerminal() bool {
	return s == ActionStatusCompleted || s == ActionStatusCancelled
}

// Validate checks if the action status is valid.
func (s ActionStatus) Validate() error {
	switch s {
	case ActionStatusDraft, ActionStatusRequested, ActionStatusConfirmed,
		ActionStatusInProgress, ActionStatusCompleted, ActionStatusCancelled:
		return nil
	default:
		return fmt.Errorf("invalid action status: %s", s)
	}
}

// CanTransition reports whether the action status machine permits a
// transition to the target status. The action machine is deliberately
// permit-all between non-terminal states: callers own transition
// legality, and the engine's only contract is that every status write
// stamps the action's modification time. The table exists so the gap
// is a documented decision rather than an accident.
func (s ActionStatus) CanTransition(target ActionStatus) bool {
	if target.Validate() != nil {
		return false
	}
	return true
}

// MarshalJSON implements custom JSON marshaling for type-safe enum serialization.
func (s ActionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements custom JSON unmarshaling with validation.
func (s *ActionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ActionStatus(str)
	return s.Validate()
}

// JobStatus represents the lifecycle status of a job.
type JobStatus string

const (
	// JobStatusPlanned indicates the job is scheduled but not yet started.
	// This is the initial status of every job.
	JobStatusPlanned JobStatus = "planned"

	// JobStatusInProgress indicates the job is currently being executed.
	JobStatusInProgress JobStatus = "in_progress"

	// JobStatusOnHold indicates the job is temporarily suspended.
	JobStatusOnHold JobStatus = "on_hold"

	// JobStatusCompleted indicates the job finished successfully.
	JobStatusCompleted JobStatus = "completed"

	// JobStatusCancelled indicates the job was terminated before completion.
	JobStatusCancelled JobStatus = "cancelled"
)

// IsTerminal returns true if the job status represents a final state.
// Terminal statuses are not protected against further transitions:
// Complete and Cancel are unguarded, matching the source model.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// IsActive returns true if the job is planned or running.
func (s JobStatus) IsActive() bool {
	return s == JobStatusPlanned || s == JobStatusInProgress
}

// Validate checks if the job status is valid.
func (s JobStatus) Validate() error {
	switch s {
	case JobStatusPlanned, JobStatusInProgress, JobStatusOnHold,
		JobStatusCompleted, JobStatusCancelled:
		return nil
	default:
		return fmt.Errorf("invalid job status: %s", s)
	}
}

// jobGuards lists the lifecycle methods with a guarded source status.
// Start is only legal from planned, Resume only from on_hold. Hold,
// Complete and Cancel are unguarded and legal from any status.
var jobGuards = map[string]JobStatus{
	"start":  JobStatusPlanned,
	"resume": JobStatusOnHold,
}

// MarshalJSON implements custom JSON marshaling for type-safe enum serialization.
func (s JobStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements custom JSON unmarshaling with validation.
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = JobStatus(str)
	return s.Validate()
}
