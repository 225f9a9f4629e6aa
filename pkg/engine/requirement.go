package engine

import (
	"fmt"
	"strings"
)

// RequirementKind represents the category of need a requirement declares.
type RequirementKind string

const (
	// RequirementMachine requires manufacturing equipment, optionally of
	// an exact machine type.
	RequirementMachine RequirementKind = "MACHINE"

	// RequirementWorkStation requires a workstation.
	RequirementWorkStation RequirementKind = "WORKSTATION"

	// RequirementConveyor requires a conveyor system.
	RequirementConveyor RequirementKind = "CONVEYOR"

	// RequirementRoboticArm requires a robotic arm.
	RequirementRoboticArm RequirementKind = "ROBOTIC_ARM"

	// RequirementVehicle requires transport equipment, optionally of an
	// exact vehicle type.
	RequirementVehicle RequirementKind = "VEHICLE"

	// RequirementPart requires a named part, optionally with a minimum
	// aggregate quantity.
	RequirementPart RequirementKind = "PART"

	// RequirementProduct requires a product.
	RequirementProduct RequirementKind = "PRODUCT"

	// RequirementWorker requires personnel, optionally with an exact role.
	RequirementWorker RequirementKind = "WORKER"

	// RequirementTool requires a tool, optionally of an exact tool type.
	RequirementTool RequirementKind = "TOOL"
)

// Validate checks if the requirement kind is valid.
func (k RequirementKind) Validate() error {
	switch k {
	case RequirementMachine, RequirementWorkStation, RequirementConveyor,
		RequirementRoboticArm, RequirementVehicle, RequirementPart,
		RequirementProduct, RequirementWorker, RequirementTool:
		return nil
	default:
		return fmt.Errorf("invalid requirement kind: %s", k)
	}
}

// ParseRequirementKind converts a case-insensitive kind name to a
// RequirementKind.
func ParseRequirementKind(name string) (RequirementKind, error) {
	k := RequirementKind(strings.ToUpper(strings.TrimSpace(name)))
	if err := k.Validate(); err != nil {
		return "", NewValidationError("unknown requirement kind", err).
			WithCode(ErrCodeInvalidRequirement).
			WithDetail("kind", name)
	}
	return k, nil
}

// Requirement describes one resource, material or personnel need of an
// action. A requirement is immutable once constructed; to change one,
// build a new requirement and replace it on the owning action.
//
// The meaning of the spec values depends on the kind:
//
//	MACHINE, VEHICLE:  [] (any) or [type string] for an exact match
//	PART:              [name] or [name, minimum quantity]
//	WORKER, TOOL:      [] (any) or [role / tool-type string]
//
// WORKSTATION, CONVEYOR, ROBOTIC_ARM and PRODUCT specs are not
// constrained by the engine.
type Requirement struct {
	kind  RequirementKind
	specs []interface{}
}

// NewRequirement constructs a validated requirement. It fails with an
// INVALID_REQUIREMENT error when the spec count is out of range for the
// kind, or when a part quantity spec is present but not numeric.
func NewRequirement(kind RequirementKind, specs ...interface{}) (Requirement, error) {
	if err := kind.Validate(); err != nil {
		return Requirement{}, NewValidationError("unknown requirement kind", err).
			WithCode(ErrCodeInvalidRequirement)
	}
	if err := validateSpecs(kind, specs); err != nil {
		return Requirement{}, err
	}
	r := Requirement{kind: kind}
	if len(specs) > 0 {
		r.specs = make([]interface{}, len(specs))
		copy(r.specs, specs)
	}
	return r, nil
}

// validateSpecs applies the per-kind structural rules. It is pure,
// deterministic and only ever called from NewRequirement.
func validateSpecs(kind RequirementKind, specs []interface{}) error {
	switch kind {
	case RequirementMachine, RequirementVehicle,
		RequirementWorker, RequirementTool:
		if len(specs) > 1 {
			return NewValidationError(
				fmt.Sprintf("%s requirement should have 0 or 1 specification", kind), nil).
				WithCode(ErrCodeInvalidRequirement).
				WithDetail("specs", len(specs))
		}
	case RequirementPart:
		if len(specs) == 0 {
			return NewValidationError(
				"part requirement must specify at least the part name", nil).
				WithCode(ErrCodeInvalidRequirement)
		}
		if len(specs) > 2 {
			return NewValidationError(
				"part requirement should have 1 (name) or 2 (name, quantity) specifications", nil).
				WithCode(ErrCodeInvalidRequirement).
				WithDetail("specs", len(specs))
		}
		if len(specs) == 2 {
			if _, ok := specAsNumber(specs[1]); !ok {
				return NewValidationError("part quantity must be a number", nil).
					WithCode(ErrCodeInvalidRequirement).
					WithDetail("quantity", specs[1])
			}
		}
	}
	return nil
}

// Kind returns the requirement kind.
func (r Requirement) Kind() RequirementKind {
	return r.kind
}

// Specs returns a copy of the specification values.
func (r Requirement) Specs() []interface{} {
	if len(r.specs) == 0 {
		return nil
	}
	out := make([]interface{}, len(r.specs))
	copy(out, r.specs)
	return out
}

// Subtype returns the first spec rendered as a string. For MACHINE and
// VEHICLE this is the required type name, for WORKER the role, for
// TOOL the tool type. The second return is false when specs are empty.
func (r Requirement) Subtype() (string, bool) {
	if len(r.specs) == 0 {
		return "", false
	}
	return fmt.Sprintf("%v", r.specs[0]), true
}

// MinQuantity returns the minimum part quantity. The second return is
// false when no quantity spec is present.
func (r Requirement) MinQuantity() (float64, bool) {
	if r.kind != RequirementPart || len(r.specs) < 2 {
		return 0, false
	}
	return specAsNumber(r.specs[1])
}

// Equal reports whether two requirements have the same kind and specs.
func (r Requirement) Equal(other Requirement) bool {
	if r.kind != other.kind || len(r.specs) != len(other.specs) {
		return false
	}
	for i := range r.specs {
		if fmt.Sprintf("%v", r.specs[i]) != fmt.Sprintf("%v", other.specs[i]) {
			return false
		}
	}
	return true
}

// String renders the requirement for gap diagnostics, e.g.
// "PART(Steel Plate, 5 units)", "MACHINE(CNC Mill)" or "WORKER(any)".
func (r Requirement) String() string {
	if r.kind == RequirementPart && len(r.specs) == 2 {
		qty, _ := specAsNumber(r.specs[1])
		return fmt.Sprintf("%s(%v, %s units)", r.kind, r.specs[0], formatQuantity(qty))
	}
	if len(r.specs) > 0 {
		parts := make([]string, len(r.specs))
		for i, s := range r.specs {
			parts[i] = fmt.Sprintf("%v", s)
		}
		return fmt.Sprintf("%s(%s)", r.kind, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s(any)", r.kind)
}

// specAsNumber normalizes the numeric types a spec value can arrive as
// (Go literals, YAML decoding, JSON decoding).
func specAsNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// formatQuantity renders a quantity without a trailing ".000000" for
// whole numbers.
func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%g", q)
}
