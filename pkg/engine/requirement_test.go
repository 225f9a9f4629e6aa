package engine

import (
	"testing"
)

func TestNewRequirementSpecCounts(t *testing.T) {
	tests := []struct {
		name    string
		kind    RequirementKind
		specs   []interface{}
		wantErr bool
	}{
		{"machine any", RequirementMachine, nil, false},
		{"machine exact type", RequirementMachine, []interface{}{"CNC Mill"}, false},
		{"machine too many specs", RequirementMachine, []interface{}{"CNC Mill", "extra"}, true},
		{"vehicle any", RequirementVehicle, nil, false},
		{"vehicle exact type", RequirementVehicle, []interface{}{"Forklift"}, false},
		{"vehicle too many specs", RequirementVehicle, []interface{}{"AGV", "Forklift"}, true},
		{"worker any", RequirementWorker, nil, false},
		{"worker role", RequirementWorker, []interface{}{"Technician"}, false},
		{"worker too many specs", RequirementWorker, []interface{}{"Technician", "Operator"}, true},
		{"tool any", RequirementTool, nil, false},
		{"tool type", RequirementTool, []interface{}{"Torque Wrench"}, false},
		{"tool too many specs", RequirementTool, []interface{}{"Torque Wrench", "extra"}, true},
		{"part without name", RequirementPart, nil, true},
		{"part name only", RequirementPart, []interface{}{"Steel Plate"}, false},
		{"part with int quantity", RequirementPart, []interface{}{"Steel Plate", 5}, false},
		{"part with float quantity", RequirementPart, []interface{}{"Resin", 2.5}, false},
		{"part with non-numeric quantity", RequirementPart, []interface{}{"Steel Plate", "five"}, true},
		{"part too many specs", RequirementPart, []interface{}{"Steel Plate", 5, "extra"}, true},
		{"workstation unconstrained", RequirementWorkStation, []interface{}{"a", "b", "c"}, false},
		{"conveyor unconstrained", RequirementConveyor, nil, false},
		{"robotic arm unconstrained", RequirementRoboticArm, []interface{}{"6-axis"}, false},
		{"product unconstrained", RequirementProduct, []interface{}{"Widget", 3}, false},
		{"unknown kind", RequirementKind("PLUMBUS"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequirement(tt.kind, tt.specs...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewRequirement(%s, %v) succeeded, want error", tt.kind, tt.specs)
				}
				if !IsInvalidRequirement(err) {
					t.Errorf("error code = %v, want INVALID_REQUIREMENT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRequirement(%s, %v) failed: %v", tt.kind, tt.specs, err)
			}
		})
	}
}

func TestRequirementImmutability(t *testing.T) {
	specs := []interface{}{"Steel Plate", 5}
	req, err := NewRequirement(RequirementPart, specs...)
	if err != nil {
		t.Fatalf("NewRequirement failed: %v", err)
	}

	// Mutating the input slice must not affect the requirement.
	specs[0] = "Aluminium Sheet"
	if name, _ := req.Subtype(); name != "Steel Plate" {
		t.Errorf("Subtype() = %q after input mutation, want %q", name, "Steel Plate")
	}

	// Mutating the returned copy must not affect the requirement.
	out := req.Specs()
	out[0] = "Aluminium Sheet"
	if name, _ := req.Subtype(); name != "Steel Plate" {
		t.Errorf("Subtype() = %q after output mutation, want %q", name, "Steel Plate")
	}
}

func TestRequirementString(t *testing.T) {
	tests := []struct {
		name  string
		kind  RequirementKind
		specs []interface{}
		want  string
	}{
		{"part with quantity", RequirementPart, []interface{}{"Steel Plate", 5}, "PART(Steel Plate, 5 units)"},
		{"part with fractional quantity", RequirementPart, []interface{}{"Resin", 2.5}, "PART(Resin, 2.5 units)"},
		{"part name only", RequirementPart, []interface{}{"Steel Plate"}, "PART(Steel Plate)"},
		{"machine exact", RequirementMachine, []interface{}{"CNC Mill"}, "MACHINE(CNC Mill)"},
		{"machine any", RequirementMachine, nil, "MACHINE(any)"},
		{"worker any", RequirementWorker, nil, "WORKER(any)"},
		{"worker role", RequirementWorker, []interface{}{"Technician"}, "WORKER(Technician)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewRequirement(tt.kind, tt.specs...)
			if err != nil {
				t.Fatalf("NewRequirement failed: %v", err)
			}
			if got := req.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequirementMinQuantity(t *testing.T) {
	req, err := NewRequirement(RequirementPart, "Steel Plate", 5)
	if err != nil {
		t.Fatalf("NewRequirement failed: %v", err)
	}
	qty, ok := req.MinQuantity()
	if !ok || qty != 5 {
		t.Errorf("MinQuantity() = (%v, %v), want (5, true)", qty, ok)
	}

	nameOnly, err := NewRequirement(RequirementPart, "Steel Plate")
	if err != nil {
		t.Fatalf("NewRequirement failed: %v", err)
	}
	if _, ok := nameOnly.MinQuantity(); ok {
		t.Error("MinQuantity() reported a quantity for a name-only requirement")
	}
}

func TestParseRequirementKind(t *testing.T) {
	tests := []struct {
		in      string
		want    RequirementKind
		wantErr bool
	}{
		{"machine", RequirementMachine, false},
		{"Machine", RequirementMachine, false},
		{"ROBOTIC_ARM", RequirementRoboticArm, false},
		{" part ", RequirementPart, false},
		{"plumbus", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRequirementKind(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRequirementKind(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRequirementKind(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRequirementKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
