package engine

import (
	"sort"
	"sync"
)

// Registry is an explicit, caller-owned index from entity IDs to
// engine entities. Nothing registers itself, and an entity exists
// independently of being indexed.
//
// The registry is safe for concurrent use; the entities it hands back
// are not.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]*Action
	jobs    map[string]*Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]*Action),
		jobs:    make(map[string]*Job),
	}
}

// AddAction indexes an action by its ID, replacing any prior entry.
func (r *Registry) AddAction(a *Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[a.ID] = a
}

// Action looks up an action by ID.
func (r *Registry) Action(id string) (*Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[id]
	if !ok {
		return nil, NewNotFoundError("action not found", nil).
			WithCode(ErrCodeNotFound).
			WithAction(id)
	}
	return a, nil
}

// RemoveAction drops an action from the index.
func (r *Registry) RemoveAction(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, id)
}

// ActionsByStatus returns the indexed actions with the given status,
// ordered by ID.
func (r *Registry) ActionsByStatus(s ActionStatus) []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Action
	for _, a := range r.actions {
		if a.Status() == s {
			out = append(out, a)
		}
	}
	sortActions(out)
	return out
}

// ActionsByJob returns the indexed actions owned by the given job,
// ordered by ID.
func (r *Registry) ActionsByJob(jobID string) []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Action
	for _, a := range r.actions {
		if a.JobID() == jobID {
			out = append(out, a)
		}
	}
	sortActions(out)
	return out
}

// AddJob indexes a job by its ID, replacing any prior entry.
func (r *Registry) AddJob(j *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = j
}

// Job looks up a job by ID.
func (r *Registry) Job(id string) (*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, NewNotFoundError("job not found", nil).
			WithCode(ErrCodeNotFound).
			WithJob(id)
	}
	return j, nil
}

// RemoveJob drops a job from the index.
func (r *Registry) RemoveJob(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}

// Jobs returns all indexed jobs, ordered by ID.
func (r *Registry) Jobs() []*Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// JobsByStatus returns the indexed jobs with the given status, ordered
// by ID.
func (r *Registry) JobsByStatus(s JobStatus) []*Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Job
	for _, j := range r.jobs {
		if j.Status() == s {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func sortActions(actions []*Action) {
	sort.Slice(actions, func(i, k int) bool { return actions[i].ID < actions[k].ID })
}
