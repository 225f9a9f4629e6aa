package stores

import (
	"context"
	"fmt"

	"github.com/openmfg/openmfg/pkg/engine"
)

// RestoreJob rehydrates a freshly built job from its persisted records:
// lifecycle status and dates, per-action status and progress, and the
// allocation ledger.
//
// A rebuilt job carries newly generated action IDs, so persisted
// actions are matched to live ones by sequence number and name. Each
// matched action adopts the stored ID; a later SaveJob then updates
// the same rows instead of inserting duplicates. Persisted actions
// with no live counterpart are skipped, as are allocations pointing
// at them.
//
// Returns ErrNotFound (wrapped) when the job was never saved.
func RestoreJob(ctx context.Context, s Store, job *engine.Job) error {
	rec, err := s.GetJob(ctx, job.ID)
	if err != nil {
		return err
	}

	actionRecs, err := s.ListActionsByJob(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to restore actions for job %s: %w", job.ID, err)
	}

	live := job.Actions()
	claimed := make(map[*engine.Action]bool, len(live))
	byStoredID := make(map[string]*engine.Action, len(actionRecs))
	for _, ar := range actionRecs {
		for _, action := range live {
			if claimed[action] || action.SequenceNr != ar.SequenceNr || action.Name != ar.Name {
				continue
			}
			claimed[action] = true
			action.ID = ar.ID
			if err := action.SetStatus(ar.Status); err != nil {
				return fmt.Errorf("failed to restore action %s: %w", ar.ID, err)
			}
			if err := action.SetProgress(ar.Progress); err != nil {
				return fmt.Errorf("failed to restore action %s: %w", ar.ID, err)
			}
			byStoredID[ar.ID] = action
			break
		}
	}

	allocs, err := s.ListAllocationsByJob(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to restore allocations for job %s: %w", job.ID, err)
	}
	for _, alloc := range allocs {
		action, ok := byStoredID[alloc.ActionID]
		if !ok {
			continue
		}
		if err := job.AllocateResource(action, alloc.ResourceID); err != nil {
			return fmt.Errorf("failed to restore allocation for action %s: %w", alloc.ActionID, err)
		}
	}

	return job.Restore(rec.Status, rec.StartDate, rec.CompletionDate)
}
