package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openmfg/openmfg/pkg/engine"
)

// Actor is a person interacting with the facility, such as a planner
// or a supervisor.
type Actor struct {
	// ID is the unique identifier.
	ID string

	// Name is the actor's display name.
	Name string

	// CreationDate is when the actor record was created.
	CreationDate time.Time

	lastModified time.Time
	log          zerolog.Logger
}

// NewActor creates an actor record.
func NewActor(name string, log zerolog.Logger) (*Actor, error) {
	if name == "" {
		return nil, fmt.Errorf("actor name is required")
	}
	now := time.Now()
	a := &Actor{
		ID:           uuid.New().String(),
		Name:         name,
		CreationDate: now,
		lastModified: now,
		log:          log,
	}
	a.log.Info().Str("actor_id", a.ID).Str("name", name).Msg("created actor")
	return a, nil
}

// LastModified returns the timestamp of the last mutation.
func (a *Actor) LastModified() time.Time {
	return a.lastModified
}

func (a *Actor) touch() {
	a.lastModified = time.Now()
}

// Worker is shop-floor personnel with one or more roles. Worker
// requirements match against role names, so a worker contributes one
// snapshot entry per role it holds.
type Worker struct {
	Actor

	// HourlyRate is the labor cost per hour.
	HourlyRate float64

	// roles maps a role name to the skills it carries.
	roles map[string][]string

	available bool
}

// NewWorker creates a worker with an initial role.
func NewWorker(name, role string, skills []string, hourlyRate float64, log zerolog.Logger) (*Worker, error) {
	base, err := NewActor(name, log)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, fmt.Errorf("worker role is required")
	}
	w := &Worker{
		Actor:      *base,
		HourlyRate: hourlyRate,
		roles:      map[string][]string{role: append([]string(nil), skills...)},
		available:  true,
	}
	w.log.Info().Str("worker_id", w.ID).Str("role", role).Msg("created worker")
	return w, nil
}

// Roles returns the role names in sorted order.
func (w *Worker) Roles() []string {
	out := make([]string, 0, len(w.roles))
	for r := range w.roles {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// HasRole reports whether the worker holds a role.
func (w *Worker) HasRole(role string) bool {
	_, ok := w.roles[role]
	return ok
}

// Skills returns a copy of the skills attached to a role.
func (w *Worker) Skills(role string) []string {
	return append([]string(nil), w.roles[role]...)
}

// AddRole grants a role. When the role already exists the skill lists
// merge, skipping duplicates.
func (w *Worker) AddRole(role string, skills []string) {
	existing, ok := w.roles[role]
	if !ok {
		w.roles[role] = append([]string(nil), skills...)
		w.touch()
		return
	}
	for _, s := range skills {
		dup := false
		for _, have := range existing {
			if have == s {
				dup = true
				break
			}
		}
		if !dup {
			existing = append(existing, s)
		}
	}
	w.roles[role] = existing
	w.touch()
}

// RemoveRole revokes a role. A worker must keep at least one role.
func (w *Worker) RemoveRole(role string) error {
	if _, ok := w.roles[role]; !ok {
		return fmt.Errorf("worker %s does not hold role %q", w.Name, role)
	}
	if len(w.roles) == 1 {
		return fmt.Errorf("worker %s must keep at least one role", w.Name)
	}
	delete(w.roles, role)
	w.touch()
	return nil
}

// CanWorkWith reports whether any of the worker's roles carries the
// given skill.
func (w *Worker) CanWorkWith(skill string) bool {
	for _, skills := range w.roles {
		for _, s := range skills {
			if s == skill {
				return true
			}
		}
	}
	return false
}

// Available reports whether the worker can take on work.
func (w *Worker) Available() bool {
	return w.available
}

// SetAvailable writes the worker's availability.
func (w *Worker) SetAvailable(available bool) {
	w.available = available
	w.touch()
}

// CostFor returns the labor cost of a given number of hours.
func (w *Worker) CostFor(hours float64) float64 {
	return w.HourlyRate * hours
}

// SnapshotEntries implements SnapshotSource: one entry per role, so a
// role-specific requirement can match any of the worker's roles.
func (w *Worker) SnapshotEntries() []engine.SnapshotEntry {
	roles := w.Roles()
	out := make([]engine.SnapshotEntry, 0, len(roles))
	for _, role := range roles {
		out = append(out, engine.SnapshotEntry{
			ResourceID: w.ID,
			Category:   engine.CategoryWorker,
			Subtype:    role,
			Name:       w.Name,
		})
	}
	return out
}
