package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ActionType represents the kind of operation an action performs. The
// engine treats it as a pass-through attribute; it never influences
// requirement checking or lifecycle rules.
type ActionType string

const (
	ActionTypeStop         ActionType = "stop"
	ActionTypeLoad         ActionType = "load"
	ActionTypeUnload       ActionType = "unload"
	ActionTypeMove         ActionType = "move"
	ActionTypeAttach       ActionType = "attach"
	ActionTypeDetach       ActionType = "detach"
	ActionTypeBreak        ActionType = "break"
	ActionTypeWait         ActionType = "wait"
	ActionTypeProcess      ActionType = "process"
	ActionTypeAssembly     ActionType = "assembly"
	ActionTypeMachining    ActionType = "machining"
	ActionTypeQualityCheck ActionType = "quality_check"
	ActionTypePackaging    ActionType = "packaging"
	ActionTypeStorage      ActionType = "storage"
	ActionTypeSetup        ActionType = "setup"
	ActionTypeClean        ActionType = "clean"
	ActionTypeInspect      ActionType = "inspect"
	ActionTypeRepair       ActionType = "repair"
	ActionTypeMaintenance  ActionType = "maintenance"
)

// Validate checks if the action type is valid.
func (t ActionType) Validate() error {
	switch t {
	case ActionTypeStop, ActionTypeLoad, ActionTypeUnload, ActionTypeMove,
		ActionTypeAttach, ActionTypeDetach, ActionTypeBreak, ActionTypeWait,
		ActionTypeProcess, ActionTypeAssembly, ActionTypeMachining,
		ActionTypeQualityCheck, ActionTypePackaging, ActionTypeStorage,
		ActionTypeSetup, ActionTypeClean, ActionTypeInspect,
		ActionTypeRepair, ActionTypeMaintenance:
		return nil
	default:
		return fmt.Errorf("invalid action type: %s", t)
	}
}

// Action is a discrete unit of manufacturing or logistics work with a
// status and optional declared requirements. Actions are created
// detached and attach to at most one job at a time.
type Action struct {
	// ID is the process-unique identifier, stable for the action's
	// lifetime.
	ID string

	// Name is the human-readable action name.
	Name string

	// Type is the operation category.
	Type ActionType

	// Description is free-form explanatory text.
	Description string

	// Duration is the planned duration in hours.
	Duration float64

	// SequenceNr orders the action within its product's sequence.
	SequenceNr int

	// LocationID, WorkerID, OriginID, DestinationID and RouteID are
	// opaque references to collaborator entities. The engine passes
	// them through unchanged.
	LocationID    string
	WorkerID      string
	OriginID      string
	DestinationID string
	RouteID       string

	// CreationDate is when the action was constructed.
	CreationDate time.Time

	// StartTime and EndTime bracket execution, when known.
	StartTime *time.Time
	EndTime   *time.Time

	status       ActionStatus
	progress     float64
	requirements []Requirement
	jobID        string
	lastModified time.Time
	log          zerolog.Logger
}

// ActionParams carries the construction attributes of an action.
// Name and Type are required; an empty ID generates one.
type ActionParams struct {
	ID            string
	Name          string
	Type          ActionType
	Description   string
	Duration      float64
	SequenceNr    int
	LocationID    string
	WorkerID      string
	OriginID      string
	DestinationID string
	RouteID       string
	Progress      float64
	Logger        zerolog.Logger
}

// NewAction constructs a detached action in draft status.
func NewAction(p ActionParams) (*Action, error) {
	if p.Name == "" {
		return nil, NewValidationError("action name is required", nil).
			WithCode(ErrCodeValidation)
	}
	if err := p.Type.Validate(); err != nil {
		return nil, NewValidationError("invalid action type", err).
			WithCode(ErrCodeValidation)
	}
	if p.Progress < 0 || p.Progress > 100 {
		return nil, NewValidationError("progress must be between 0 and 100", nil).
			WithCode(ErrCodeValidation).
			WithDetail("progress", p.Progress)
	}
	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now()
	a := &Action{
		ID:            id,
		Name:          p.Name,
		Type:          p.Type,
		Description:   p.Description,
		Duration:      p.Duration,
		SequenceNr:    p.SequenceNr,
		LocationID:    p.LocationID,
		WorkerID:      p.WorkerID,
		OriginID:      p.OriginID,
		DestinationID: p.DestinationID,
		RouteID:       p.RouteID,
		CreationDate:  now,
		status:        ActionStatusDraft,
		progress:      p.Progress,
		lastModified:  now,
		log:           p.Logger,
	}
	a.log.Info().Str("action_id", a.ID).Str("name", a.Name).Msg("created action")
	return a, nil
}

// Status returns the current lifecycle status.
func (a *Action) Status() ActionStatus {
	return a.status
}

// SetStatus writes a new status. The action machine accepts any valid
// status (callers own transition legality); the engine's contract is
// that every write stamps the modification time.
func (a *Action) SetStatus(s ActionStatus) error {
	if err := s.Validate(); err != nil {
		return NewValidationError("invalid action status", err).
			WithCode(ErrCodeValidation).
			WithAction(a.ID)
	}
	a.status = s
	a.touch()
	a.log.Debug().Str("action_id", a.ID).Str("status", string(s)).Msg("action status changed")
	return nil
}

// Progress returns the completion percentage.
func (a *Action) Progress() float64 {
	return a.progress
}

// SetProgress writes the completion percentage.
func (a *Action) SetProgress(p float64) error {
	if p < 0 || p > 100 {
		return NewValidationError("progress must be between 0 and 100", nil).
			WithCode(ErrCodeValidation).
			WithAction(a.ID)
	}
	a.progress = p
	a.touch()
	return nil
}

// JobID returns the owning job's ID, or the empty string when the
// action is unassigned.
func (a *Action) JobID() string {
	return a.jobID
}

// SetJob attaches the action to a job.
func (a *Action) SetJob(jobID string) {
	a.jobID = jobID
	a.touch()
	a.log.Debug().Str("action_id", a.ID).Str("job_id", jobID).Msg("action assigned to job")
}

// RemoveJob detaches the action from its job.
func (a *Action) RemoveJob() {
	a.jobID = ""
	a.touch()
}

// LastModified returns the timestamp of the last mutation.
func (a *Action) LastModified() time.Time {
	return a.lastModified
}

// AddRequirement constructs, validates and appends a requirement.
// Insertion order is priority order for diagnostics.
func (a *Action) AddRequirement(kind RequirementKind, specs ...interface{}) error {
	req, err := NewRequirement(kind, specs...)
	if err != nil {
		return err
	}
	a.requirements = append(a.requirements, req)
	a.touch()
	a.log.Info().Str("action_id", a.ID).Stringer("requirement", req).Msg("added requirement")
	return nil
}

// RemoveRequirements removes all requirements of the given kind and
// returns how many were removed.
func (a *Action) RemoveRequirements(kind RequirementKind) int {
	return a.removeRequirements(func(r Requirement) bool {
		return r.Kind() == kind
	})
}

// RemoveRequirement removes the requirements equal to the given kind
// and specs and returns how many were removed.
func (a *Action) RemoveRequirement(kind RequirementKind, specs ...interface{}) int {
	target := Requirement{kind: kind, specs: specs}
	return a.removeRequirements(func(r Requirement) bool {
		return r.Equal(target)
	})
}

func (a *Action) removeRequirements(match func(Requirement) bool) int {
	kept := a.requirements[:0]
	removed := 0
	for _, r := range a.requirements {
		if match(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	a.requirements = kept
	if removed > 0 {
		a.touch()
	}
	return removed
}

// Requirements returns a copy of the requirement sequence, in
// insertion order.
func (a *Action) Requirements() []Requirement {
	out := make([]Requirement, len(a.requirements))
	copy(out, a.requirements)
	return out
}

// RequirementsOf returns the requirements of one kind.
func (a *Action) RequirementsOf(kind RequirementKind) []Requirement {
	var out []Requirement
	for _, r := range a.requirements {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	return out
}

// CheckRequirements checks all requirements against a location
// snapshot with a lenient checker and returns overall satisfaction
// plus a display string per unsatisfied requirement.
func (a *Action) CheckRequirements(snap Snapshot) (bool, []string) {
	c := Checker{Logger: a.log}
	ok, missing, _ := c.CheckAll(a, snap)
	return ok, missing
}

// touch stamps the modification time.
func (a *Action) touch() {
	a.lastModified = time.Now()
}

// ToMap converts the action to a flat map for export.
func (a *Action) ToMap() map[string]interface{} {
	reqs := make([]string, len(a.requirements))
	for i, r := range a.requirements {
		reqs[i] = r.String()
	}
	return map[string]interface{}{
		"id":            a.ID,
		"name":          a.Name,
		"action_type":   string(a.Type),
		"status":        string(a.status),
		"sequence_nr":   a.SequenceNr,
		"duration":      a.Duration,
		"progress":      a.progress,
		"job_id":        a.jobID,
		"location_id":   a.LocationID,
		"requirements":  reqs,
		"creation_date": a.CreationDate,
		"last_modified": a.lastModified,
	}
}
