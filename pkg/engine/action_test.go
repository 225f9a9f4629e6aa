package engine

import (
	"testing"
	"time"
)

func TestNewActionDefaults(t *testing.T) {
	a, err := NewAction(ActionParams{Name: "drill holes", Type: ActionTypeMachining})
	if err != nil {
		t.Fatalf("NewAction failed: %v", err)
	}
	if a.ID == "" {
		t.Error("ID not generated")
	}
	if a.Status() != ActionStatusDraft {
		t.Errorf("Status() = %v, want draft", a.Status())
	}
	if a.JobID() != "" {
		t.Errorf("JobID() = %q, want unassigned", a.JobID())
	}
}

func TestNewActionValidation(t *testing.T) {
	tests := []struct {
		name   string
		params ActionParams
	}{
		{"missing name", ActionParams{Type: ActionTypeMove}},
		{"invalid type", ActionParams{Name: "x", Type: ActionType("teleport")}},
		{"progress out of range", ActionParams{Name: "x", Type: ActionTypeMove, Progress: 150}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAction(tt.params); err == nil {
				t.Error("NewAction succeeded, want error")
			}
		})
	}
}

func TestActionStatusWriteStampsLastModified(t *testing.T) {
	a, err := NewAction(ActionParams{Name: "pack", Type: ActionTypePackaging})
	if err != nil {
		t.Fatalf("NewAction failed: %v", err)
	}

	before := a.LastModified()
	time.Sleep(time.Millisecond)

	// The action machine is permissive: any valid status is accepted,
	// including jumps that a stricter machine would reject.
	for _, s := range []ActionStatus{
		ActionStatusCompleted, ActionStatusDraft, ActionStatusInProgress,
	} {
		if err := a.SetStatus(s); err != nil {
			t.Fatalf("SetStatus(%v) failed: %v", s, err)
		}
		if a.Status() != s {
			t.Errorf("Status() = %v, want %v", a.Status(), s)
		}
	}
	if !a.LastModified().After(before) {
		t.Error("status writes did not advance LastModified")
	}

	if err := a.SetStatus(ActionStatus("exploded")); err == nil {
		t.Error("SetStatus accepted an invalid status value")
	}
}

func TestActionJobAttachment(t *testing.T) {
	a, err := NewAction(ActionParams{Name: "weld", Type: ActionTypeProcess})
	if err != nil {
		t.Fatalf("NewAction failed: %v", err)
	}
	a.SetJob("job-7")
	if a.JobID() != "job-7" {
		t.Errorf("JobID() = %q, want job-7", a.JobID())
	}
	a.RemoveJob()
	if a.JobID() != "" {
		t.Errorf("JobID() = %q after RemoveJob, want empty", a.JobID())
	}
}

func TestActionRequirementListOps(t *testing.T) {
	a, err := NewAction(ActionParams{Name: "assemble", Type: ActionTypeAssembly})
	if err != nil {
		t.Fatalf("NewAction failed: %v", err)
	}
	if err := a.AddRequirement(RequirementMachine, "Press"); err != nil {
		t.Fatalf("AddRequirement failed: %v", err)
	}
	if err := a.AddRequirement(RequirementPart, "Bolt", 12); err != nil {
		t.Fatalf("AddRequirement failed: %v", err)
	}
	if err := a.AddRequirement(RequirementPart, "Washer"); err != nil {
		t.Fatalf("AddRequirement failed: %v", err)
	}

	// Invalid requirements are rejected before touching the list.
	if err := a.AddRequirement(RequirementPart); !IsInvalidRequirement(err) {
		t.Errorf("AddRequirement error = %v, want INVALID_REQUIREMENT", err)
	}
	if got := len(a.Requirements()); got != 3 {
		t.Fatalf("len(Requirements()) = %d, want 3", got)
	}

	if got := len(a.RequirementsOf(RequirementPart)); got != 2 {
		t.Errorf("len(RequirementsOf(PART)) = %d, want 2", got)
	}

	if removed := a.RemoveRequirement(RequirementPart, "Bolt", 12); removed != 1 {
		t.Errorf("RemoveRequirement removed %d, want 1", removed)
	}
	if removed := a.RemoveRequirements(RequirementPart); removed != 1 {
		t.Errorf("RemoveRequirements removed %d, want 1", removed)
	}
	if got := len(a.Requirements()); got != 1 {
		t.Errorf("len(Requirements()) = %d after removals, want 1", got)
	}
}

func TestActionRequirementsReturnsCopy(t *testing.T) {
	a, err := NewAction(ActionParams{Name: "inspect", Type: ActionTypeInspect})
	if err != nil {
		t.Fatalf("NewAction failed: %v", err)
	}
	if err := a.AddRequirement(RequirementTool, "Caliper"); err != nil {
		t.Fatalf("AddRequirement failed: %v", err)
	}
	got := a.Requirements()
	got[0] = Requirement{}
	if reqs := a.Requirements(); reqs[0].Kind() != RequirementTool {
		t.Error("mutating the returned slice changed the action's requirements")
	}
}

func TestActionCheckRequirements(t *testing.T) {
	a, err := NewAction(ActionParams{Name: "mill", Type: ActionTypeMachining})
	if err != nil {
		t.Fatalf("NewAction failed: %v", err)
	}
	if err := a.AddRequirement(RequirementMachine, "CNC Mill"); err != nil {
		t.Fatalf("AddRequirement failed: %v", err)
	}

	ok, missing := a.CheckRequirements(workshopSnapshot())
	if !ok || len(missing) != 0 {
		t.Errorf("CheckRequirements = (%v, %v), want satisfied", ok, missing)
	}

	ok, missing = a.CheckRequirements(Snapshot{})
	if ok || len(missing) != 1 {
		t.Errorf("CheckRequirements = (%v, %v), want one gap", ok, missing)
	}
}
