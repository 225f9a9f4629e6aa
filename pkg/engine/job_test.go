package engine

import (
	"testing"
	"time"
)

// stubProduct satisfies the Product interface for tests.
type stubProduct struct {
	id      string
	actions []*Action
}

func (p *stubProduct) ProductID() string         { return p.id }
func (p *stubProduct) ProductActions() []*Action { return p.actions }

func newTestAction(t *testing.T, name string) *Action {
	t.Helper()
	a, err := NewAction(ActionParams{Name: name, Type: ActionTypeProcess})
	if err != nil {
		t.Fatalf("NewAction(%q) failed: %v", name, err)
	}
	return a
}

func newTestJob(t *testing.T, actionCount int) (*Job, []*Action) {
	t.Helper()
	actions := make([]*Action, actionCount)
	for i := range actions {
		actions[i] = newTestAction(t, "step")
	}
	j, err := NewJob(JobParams{
		Products: []Product{&stubProduct{id: "prod-1", actions: actions}},
		DueDate:  time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	return j, actions
}

func TestNewJobStampsActionOwnership(t *testing.T) {
	j, actions := newTestJob(t, 3)
	if j.Status() != JobStatusPlanned {
		t.Errorf("Status() = %v, want planned", j.Status())
	}
	if got := len(j.Actions()); got != 3 {
		t.Fatalf("len(Actions()) = %d, want 3", got)
	}
	for _, a := range actions {
		if a.JobID() != j.ID {
			t.Errorf("action %s JobID() = %q, want %q", a.ID, a.JobID(), j.ID)
		}
	}
}

func TestNewJobConstructionGuards(t *testing.T) {
	future := time.Now().Add(time.Hour)

	if _, err := NewJob(JobParams{DueDate: future}); !IsInvalidJob(err) {
		t.Errorf("empty products: error = %v, want INVALID_JOB", err)
	}

	past := time.Now().Add(-time.Hour)
	_, err := NewJob(JobParams{
		Products: []Product{&stubProduct{id: "p"}},
		DueDate:  past,
	})
	if !IsInvalidJob(err) {
		t.Errorf("past due date: error = %v, want INVALID_JOB", err)
	}

	_, err = NewJob(JobParams{
		Products: []Product{&stubProduct{id: "p"}},
		DueDate:  future,
		Priority: JobPriority("whenever"),
	})
	if !IsInvalidJob(err) {
		t.Errorf("bad priority: error = %v, want INVALID_JOB", err)
	}
}

func TestJobLifecycleGuards(t *testing.T) {
	j, _ := newTestJob(t, 1)

	// Resume before any hold is an invalid transition.
	if err := j.Resume(); !IsInvalidTransition(err) {
		t.Errorf("Resume from planned: error = %v, want INVALID_TRANSITION", err)
	}
	if j.Status() != JobStatusPlanned {
		t.Errorf("failed Resume changed status to %v", j.Status())
	}

	if err := j.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if j.Status() != JobStatusInProgress {
		t.Errorf("Status() = %v after Start, want in_progress", j.Status())
	}
	if j.StartDate() == nil {
		t.Error("Start did not stamp the start date")
	}

	// Starting twice is an invalid transition and changes nothing.
	if err := j.Start(); !IsInvalidTransition(err) {
		t.Errorf("second Start: error = %v, want INVALID_TRANSITION", err)
	}
	if j.Status() != JobStatusInProgress {
		t.Errorf("failed Start changed status to %v", j.Status())
	}

	j.PutOnHold("material shortage")
	if j.Status() != JobStatusOnHold {
		t.Errorf("Status() = %v after hold, want on_hold", j.Status())
	}
	if err := j.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if j.Status() != JobStatusInProgress {
		t.Errorf("Status() = %v after resume, want in_progress", j.Status())
	}

	j.Complete()
	if j.Status() != JobStatusCompleted {
		t.Errorf("Status() = %v after complete, want completed", j.Status())
	}
	if j.CompletionDate() == nil {
		t.Error("Complete did not stamp the completion date")
	}
	if j.StartDate().After(*j.CompletionDate()) {
		t.Error("start date is after completion date")
	}
}

func TestJobCancelUnguarded(t *testing.T) {
	j, _ := newTestJob(t, 1)
	j.Complete()
	// Terminal statuses are not protected; Cancel still applies.
	j.Cancel("customer withdrew the order")
	if j.Status() != JobStatusCancelled {
		t.Errorf("Status() = %v, want cancelled", j.Status())
	}
}

func TestJobProgress(t *testing.T) {
	noActions, err := NewJob(JobParams{
		Products: []Product{&stubProduct{id: "empty"}},
		DueDate:  time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	if got := noActions.Progress(); got != 0 {
		t.Errorf("Progress() = %v with no actions, want 0", got)
	}

	j, actions := newTestJob(t, 5)
	for _, a := range actions[:2] {
		if err := a.SetStatus(ActionStatusCompleted); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
	}
	if got := j.Progress(); got != 40.0 {
		t.Errorf("Progress() = %v with 2 of 5 completed, want 40.0", got)
	}
	if got := len(j.IncompleteActions()); got != 3 {
		t.Errorf("len(IncompleteActions()) = %d, want 3", got)
	}
}

func TestJobAllocationLedger(t *testing.T) {
	j, actions := newTestJob(t, 2)
	owned := actions[0]

	if err := j.AllocateResource(owned, "machine-a"); err != nil {
		t.Fatalf("AllocateResource failed: %v", err)
	}
	// Upsert: a later allocation for the same action overwrites.
	if err := j.AllocateResource(owned, "machine-b"); err != nil {
		t.Fatalf("AllocateResource failed: %v", err)
	}

	got, ok := j.AllocationFor(owned.ID)
	if !ok || got != "machine-b" {
		t.Errorf("AllocationFor = (%q, %v), want (machine-b, true)", got, ok)
	}
	if ledger := j.Allocations(); len(ledger) != 1 {
		t.Errorf("ledger has %d entries, want 1", len(ledger))
	}

	// Allocating to a foreign action fails and leaves the ledger alone.
	foreign := newTestAction(t, "not mine")
	if err := j.AllocateResource(foreign, "machine-c"); !IsUnknownAction(err) {
		t.Errorf("foreign allocation: error = %v, want UNKNOWN_ACTION", err)
	}
	if ledger := j.Allocations(); len(ledger) != 1 {
		t.Errorf("failed allocation changed the ledger: %v", ledger)
	}

	// Absence is unallocated, not an error.
	if _, ok := j.AllocationFor(actions[1].ID); ok {
		t.Error("AllocationFor reported an allocation that was never made")
	}
}

func TestJobAllocationsReturnsCopy(t *testing.T) {
	j, actions := newTestJob(t, 1)
	if err := j.AllocateResource(actions[0], "machine-a"); err != nil {
		t.Fatalf("AllocateResource failed: %v", err)
	}
	ledger := j.Allocations()
	ledger[actions[0].ID] = "tampered"
	if got, _ := j.AllocationFor(actions[0].ID); got != "machine-a" {
		t.Error("mutating the returned ledger changed the job's ledger")
	}
}

func TestJobAddRemoveAction(t *testing.T) {
	j, _ := newTestJob(t, 1)
	extra := newTestAction(t, "extra step")

	j.AddAction(extra)
	if extra.JobID() != j.ID {
		t.Errorf("AddAction did not stamp job ID")
	}
	if got := len(j.Actions()); got != 2 {
		t.Fatalf("len(Actions()) = %d, want 2", got)
	}
	if err := j.AllocateResource(extra, "tool-1"); err != nil {
		t.Fatalf("AllocateResource failed: %v", err)
	}

	j.RemoveAction(extra)
	if extra.JobID() != "" {
		t.Error("RemoveAction did not detach the action")
	}
	if _, ok := j.AllocationFor(extra.ID); ok {
		t.Error("RemoveAction left a dangling ledger entry")
	}
	if got := len(j.Actions()); got != 1 {
		t.Errorf("len(Actions()) = %d after removal, want 1", got)
	}
	// Removing an action owned elsewhere is a no-op.
	foreign := newTestAction(t, "foreign step")
	foreign.SetJob("other-job")
	j.RemoveAction(foreign)
	if foreign.JobID() != "other-job" {
		t.Errorf("RemoveAction detached a foreign action: JobID() = %q", foreign.JobID())
	}
	if got := len(j.Actions()); got != 1 {
		t.Errorf("len(Actions()) = %d after foreign removal, want 1", got)
	}
}

func TestJobRestore(t *testing.T) {
	j, _ := newTestJob(t, 1)
	now := time.Now()

	if err := j.Restore(JobStatus("paused"), &now, nil); !IsInvalidJob(err) {
		t.Errorf("unknown status: error = %v, want INVALID_JOB", err)
	}
	if j.Status() != JobStatusPlanned {
		t.Errorf("failed Restore changed status to %v", j.Status())
	}

	if err := j.Restore(JobStatusOnHold, &now, nil); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if j.Status() != JobStatusOnHold {
		t.Errorf("Status() = %v after restore, want on_hold", j.Status())
	}
	if j.StartDate() == nil || !j.StartDate().Equal(now) {
		t.Errorf("StartDate() = %v, want %v", j.StartDate(), now)
	}
	if j.CompletionDate() != nil {
		t.Errorf("CompletionDate() = %v, want nil", j.CompletionDate())
	}

	// A restored on-hold job passes the resume guard.
	if err := j.Resume(); err != nil {
		t.Fatalf("Resume after restore failed: %v", err)
	}
	if j.Status() != JobStatusInProgress {
		t.Errorf("Status() = %v after resume, want in_progress", j.Status())
	}
}

func TestJobIsOverdue(t *testing.T) {
	j, _ := newTestJob(t, 1)
	if j.IsOverdue() {
		t.Error("job with a future due date reports overdue")
	}
	j.DueDate = time.Now().Add(-time.Minute)
	if !j.IsOverdue() {
		t.Error("job with a past due date does not report overdue")
	}
}

func TestJobEndToEnd(t *testing.T) {
	// One product owning three actions; start then complete.
	j, _ := newTestJob(t, 3)
	if err := j.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	j.Complete()
	if j.Status() != JobStatusCompleted {
		t.Fatalf("Status() = %v, want completed", j.Status())
	}
	if j.StartDate() == nil || j.CompletionDate() == nil {
		t.Fatal("lifecycle dates not stamped")
	}
	if j.StartDate().After(*j.CompletionDate()) {
		t.Error("start date after completion date")
	}
}
