package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/openmfg/openmfg/pkg/engine"
)

func TestRestoreJobNotFound(t *testing.T) {
	store := newTestStore(t)
	job := newStoredJob(t)

	err := RestoreJob(context.Background(), store, job)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RestoreJob error = %v, want ErrNotFound", err)
	}
	if job.Status() != engine.JobStatusPlanned {
		t.Errorf("failed restore changed status to %v", job.Status())
	}
}

func TestRestoreJobAcrossRebuilds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// First process: start the job, hold it and persist.
	first := newStoredJobWithID(t, "job-restore-1")
	if err := first.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	first.PutOnHold("tool change")
	if err := store.SaveJob(ctx, first); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	// Second process: the rebuilt job comes out planned, so a direct
	// resume is an invalid transition.
	second := newStoredJobWithID(t, "job-restore-1")
	if err := second.Resume(); !engine.IsInvalidTransition(err) {
		t.Fatalf("Resume before restore: error = %v, want INVALID_TRANSITION", err)
	}

	if err := RestoreJob(ctx, store, second); err != nil {
		t.Fatalf("RestoreJob failed: %v", err)
	}
	if second.Status() != engine.JobStatusOnHold {
		t.Errorf("Status() = %v after restore, want on_hold", second.Status())
	}
	if second.StartDate() == nil {
		t.Error("restore did not replay the start date")
	}
	if err := second.Resume(); err != nil {
		t.Fatalf("Resume after restore failed: %v", err)
	}
	if err := store.SaveJob(ctx, second); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	rec, err := store.GetJob(ctx, "job-restore-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if rec.Status != engine.JobStatusInProgress {
		t.Errorf("persisted status = %v, want in_progress", rec.Status)
	}
}

func TestRestoreJobReplaysActionsAndAllocations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := newStoredJobWithID(t, "job-restore-2")
	if err := first.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cut := first.Actions()[0]
	if err := cut.SetStatus(engine.ActionStatusCompleted); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if err := cut.SetProgress(100); err != nil {
		t.Fatalf("SetProgress failed: %v", err)
	}
	if err := first.AllocateResource(cut, "machine-1"); err != nil {
		t.Fatalf("AllocateResource failed: %v", err)
	}
	if err := store.SaveJob(ctx, first); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	second := newStoredJobWithID(t, "job-restore-2")
	if err := RestoreJob(ctx, store, second); err != nil {
		t.Fatalf("RestoreJob failed: %v", err)
	}

	// The rebuilt cut action adopts the persisted ID and state.
	restored := second.Actions()[0]
	if restored.ID != cut.ID {
		t.Errorf("restored action ID = %s, want %s", restored.ID, cut.ID)
	}
	if restored.Status() != engine.ActionStatusCompleted {
		t.Errorf("restored action status = %v, want completed", restored.Status())
	}
	if restored.Progress() != 100 {
		t.Errorf("restored action progress = %g, want 100", restored.Progress())
	}
	if got, ok := second.AllocationFor(restored.ID); !ok || got != "machine-1" {
		t.Errorf("AllocationFor = (%q, %v), want (machine-1, true)", got, ok)
	}

	// Re-saving updates the adopted rows instead of inserting new ones.
	if err := store.SaveJob(ctx, second); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}
	actions, err := store.ListActionsByJob(ctx, "job-restore-2")
	if err != nil {
		t.Fatalf("ListActionsByJob failed: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("listed %d actions after re-save, want 2", len(actions))
	}
}
