package engine

import (
	"testing"
)

func TestRegistryActions(t *testing.T) {
	r := NewRegistry()

	a := newTestAction(t, "cut")
	b := newTestAction(t, "bend")
	r.AddAction(a)
	r.AddAction(b)

	got, err := r.Action(a.ID)
	if err != nil || got != a {
		t.Fatalf("Action(%s) = (%v, %v), want the indexed action", a.ID, got, err)
	}

	if _, err := r.Action("missing"); !hasCode(err, ErrCodeNotFound) {
		t.Errorf("lookup of unknown action: error = %v, want NOT_FOUND", err)
	}

	if err := b.SetStatus(ActionStatusInProgress); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if got := r.ActionsByStatus(ActionStatusInProgress); len(got) != 1 || got[0] != b {
		t.Errorf("ActionsByStatus = %v, want [b]", got)
	}

	a.SetJob("job-1")
	b.SetJob("job-1")
	if got := r.ActionsByJob("job-1"); len(got) != 2 {
		t.Errorf("ActionsByJob returned %d actions, want 2", len(got))
	}

	r.RemoveAction(a.ID)
	if _, err := r.Action(a.ID); err == nil {
		t.Error("removed action still indexed")
	}
}

func TestRegistryJobs(t *testing.T) {
	r := NewRegistry()

	j1, _ := newTestJob(t, 1)
	j2, _ := newTestJob(t, 1)
	r.AddJob(j1)
	r.AddJob(j2)

	got, err := r.Job(j1.ID)
	if err != nil || got != j1 {
		t.Fatalf("Job(%s) = (%v, %v), want the indexed job", j1.ID, got, err)
	}
	if _, err := r.Job("missing"); !hasCode(err, ErrCodeNotFound) {
		t.Errorf("lookup of unknown job: error = %v, want NOT_FOUND", err)
	}

	if err := j2.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got := r.JobsByStatus(JobStatusInProgress); len(got) != 1 || got[0] != j2 {
		t.Errorf("JobsByStatus = %v, want [j2]", got)
	}
	if got := r.Jobs(); len(got) != 2 {
		t.Errorf("Jobs() returned %d jobs, want 2", len(got))
	}

	r.RemoveJob(j1.ID)
	if _, err := r.Job(j1.ID); err == nil {
		t.Error("removed job still indexed")
	}
}

func TestRegistryExistenceIndependentOfIndexing(t *testing.T) {
	// An entity keeps working after removal from the index; the index
	// carries no liveness semantics.
	r := NewRegistry()
	j, _ := newTestJob(t, 1)
	r.AddJob(j)
	r.RemoveJob(j.ID)

	if err := j.Start(); err != nil {
		t.Fatalf("Start failed after deindexing: %v", err)
	}
}
