package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openmfg/openmfg/pkg/engine"
)

// SnapshotSource is anything that can contribute entries to a
// location's resource snapshot.
type SnapshotSource interface {
	SnapshotEntries() []engine.SnapshotEntry
}

// Resource is the base record shared by all equipment types. Concrete
// equipment embeds it and contributes its own snapshot entry.
type Resource struct {
	// ID is the unique identifier.
	ID string

	// Name is the human-readable resource name.
	Name string

	// Kind is the coarse resource category.
	Kind ResourceKind

	// CreationDate is when the resource record was created.
	CreationDate time.Time

	georeference []float64
	status       ResourceStatus
	entries      int
	exits        int
	actors       []*Actor
	actions      []*engine.Action
	sensors      []*Sensor
	lastModified time.Time
	log          zerolog.Logger
}

// newResource builds the shared base record. Equipment constructors
// call it and then layer their own attributes on top.
func newResource(name string, kind ResourceKind, georeference []float64, log zerolog.Logger) (Resource, error) {
	if name == "" {
		return Resource{}, fmt.Errorf("resource name is required")
	}
	if err := kind.Validate(); err != nil {
		return Resource{}, err
	}
	if err := validateGeoreference(georeference); err != nil {
		return Resource{}, err
	}
	now := time.Now()
	return Resource{
		ID:           uuid.New().String(),
		Name:         name,
		Kind:         kind,
		CreationDate: now,
		georeference: append([]float64(nil), georeference...),
		status:       ResourceStatusIdle,
		lastModified: now,
		log:          log,
	}, nil
}

// validateGeoreference accepts [x, y] or [x, y, z] coordinates, or nil
// for resources without a fixed position.
func validateGeoreference(g []float64) error {
	if g == nil {
		return nil
	}
	if len(g) != 2 && len(g) != 3 {
		return fmt.Errorf("georeference must have 2 or 3 coordinates, got %d", len(g))
	}
	return nil
}

// Status returns the operational status.
func (r *Resource) Status() ResourceStatus {
	return r.status
}

// SetStatus writes the operational status.
func (r *Resource) SetStatus(s ResourceStatus) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.status = s
	r.touch()
	return nil
}

// Georeference returns a copy of the position coordinates.
func (r *Resource) Georeference() []float64 {
	return append([]float64(nil), r.georeference...)
}

// SetGeoreference replaces the position coordinates.
func (r *Resource) SetGeoreference(g []float64) error {
	if err := validateGeoreference(g); err != nil {
		return err
	}
	r.georeference = append([]float64(nil), g...)
	r.touch()
	return nil
}

// Entries returns how many items entered this resource.
func (r *Resource) Entries() int {
	return r.entries
}

// RecordEntry increments the entry counter.
func (r *Resource) RecordEntry() {
	r.entries++
	r.touch()
}

// Exits returns how many items exited this resource.
func (r *Resource) Exits() int {
	return r.exits
}

// RecordExit increments the exit counter.
func (r *Resource) RecordExit() {
	r.exits++
	r.touch()
}

// Actions returns a copy of the actions assigned to this resource.
func (r *Resource) Actions() []*engine.Action {
	return append([]*engine.Action(nil), r.actions...)
}

// AddAction assigns an action to this resource.
func (r *Resource) AddAction(a *engine.Action) {
	r.actions = append(r.actions, a)
	r.touch()
}

// RemoveAction unassigns an action.
func (r *Resource) RemoveAction(id string) bool {
	for i, a := range r.actions {
		if a.ID == id {
			r.actions = append(r.actions[:i], r.actions[i+1:]...)
			r.touch()
			return true
		}
	}
	return false
}

// CurrentAction returns the first assigned action that is in progress,
// or nil.
func (r *Resource) CurrentAction() *engine.Action {
	for _, a := range r.actions {
		if a.Status() == engine.ActionStatusInProgress {
			return a
		}
	}
	return nil
}

// Actors returns a copy of the actors operating this resource.
func (r *Resource) Actors() []*Actor {
	return append([]*Actor(nil), r.actors...)
}

// AddActor assigns an actor to this resource.
func (r *Resource) AddActor(a *Actor) {
	r.actors = append(r.actors, a)
	r.touch()
}

// RemoveActor unassigns an actor.
func (r *Resource) RemoveActor(id string) bool {
	for i, a := range r.actors {
		if a.ID == id {
			r.actors = append(r.actors[:i], r.actors[i+1:]...)
			r.touch()
			return true
		}
	}
	return false
}

// UpdateActor replaces an assigned actor in place.
func (r *Resource) UpdateActor(oldID string, replacement *Actor) bool {
	for i, a := range r.actors {
		if a.ID == oldID {
			r.actors[i] = replacement
			r.touch()
			return true
		}
	}
	return false
}

// Sensors returns a copy of the sensors attached to this resource.
func (r *Resource) Sensors() []*Sensor {
	return append([]*Sensor(nil), r.sensors...)
}

// AddSensor attaches a sensor.
func (r *Resource) AddSensor(s *Sensor) {
	r.sensors = append(r.sensors, s)
	r.touch()
}

// LastModified returns the timestamp of the last mutation.
func (r *Resource) LastModified() time.Time {
	return r.lastModified
}

func (r *Resource) touch() {
	r.lastModified = time.Now()
}

// ToMap converts the base record to a flat map for export.
func (r *Resource) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":            r.ID,
		"name":          r.Name,
		"kind":          string(r.Kind),
		"status":        string(r.status),
		"georeference":  r.Georeference(),
		"entries":       r.entries,
		"exits":         r.exits,
		"actions":       len(r.actions),
		"actors":        len(r.actors),
		"sensors":       len(r.sensors),
		"creation_date": r.CreationDate,
		"last_modified": r.lastModified,
	}
}
