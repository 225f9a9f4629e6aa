package engine

import (
	"github.com/rs/zerolog"
)

// Checker decides whether requirements are satisfied by a location's
// resource snapshot. The zero value is a usable, lenient checker.
//
// Checks are read-only against the snapshot and safe for concurrent
// use, provided the snapshot is not mutated during the call.
type Checker struct {
	// Strict makes kinds without a satisfaction rule (WORKSTATION,
	// CONVEYOR, ROBOTIC_ARM, PRODUCT) fail with UNSUPPORTED_KIND
	// instead of being skipped.
	Strict bool

	// Logger receives per-requirement debug traces. The zero value
	// logs nothing.
	Logger zerolog.Logger
}

// requirementCategory maps the checked requirement kinds to the
// snapshot category they filter on.
var requirementCategory = map[RequirementKind]ResourceCategory{
	RequirementMachine: CategoryMachine,
	RequirementVehicle: CategoryVehicle,
	RequirementPart:    CategoryPart,
	RequirementWorker:  CategoryWorker,
	RequirementTool:    CategoryTool,
}

// CheckOne decides whether a single requirement is met by the snapshot.
// For kinds without a satisfaction rule it returns true in lenient mode
// and an UNSUPPORTED_KIND error in strict mode.
func (c *Checker) CheckOne(req Requirement, snap Snapshot) (bool, error) {
	category, handled := requirementCategory[req.Kind()]
	if !handled {
		if c.Strict {
			return false, NewValidationError("no satisfaction rule for requirement kind", nil).
				WithCode(ErrCodeUnsupportedKind).
				WithDetail("kind", string(req.Kind()))
		}
		return true, nil
	}

	var ok bool
	if req.Kind() == RequirementPart {
		ok = c.checkPart(req, snap)
	} else {
		ok = c.checkSubtype(req, snap, category)
	}

	c.Logger.Debug().
		Str("requirement", req.String()).
		Bool("satisfied", ok).
		Msg("checked requirement")
	return ok, nil
}

// checkSubtype handles MACHINE, VEHICLE, WORKER and TOOL requirements:
// at least one entry of the category must be present, and when a
// subtype spec is given, at least one entry must match it exactly.
// Worker matching is against the flat role string carried by the
// snapshot entry, not the worker's full role mapping.
func (c *Checker) checkSubtype(req Requirement, snap Snapshot, category ResourceCategory) bool {
	entries := snap.ByCategory(category)
	if len(entries) == 0 {
		return false
	}
	want, specified := req.Subtype()
	if !specified {
		return true
	}
	for _, e := range entries {
		if e.Subtype == want {
			return true
		}
	}
	return false
}

// checkPart handles PART requirements: entries matching the part name
// must be present, and when a minimum quantity is given, the sum of
// quantities across all matching entries must reach it.
func (c *Checker) checkPart(req Requirement, snap Snapshot) bool {
	name, _ := req.Subtype()
	if !snap.HasPart(name) {
		return false
	}
	min, specified := req.MinQuantity()
	if !specified {
		return true
	}
	return snap.PartQuantity(name) >= min
}

// CheckAll iterates an action's requirements in order and reports
// overall satisfaction together with a display string for every
// unsatisfied requirement. In lenient mode, kinds without a rule are
// skipped and contribute neither to satisfaction nor to the missing
// list; in strict mode the first such kind aborts the check.
func (c *Checker) CheckAll(action *Action, snap Snapshot) (bool, []string, error) {
	satisfied := true
	var missing []string

	for _, req := range action.Requirements() {
		if _, handled := requirementCategory[req.Kind()]; !handled {
			if c.Strict {
				return false, nil, NewValidationError("no satisfaction rule for requirement kind", nil).
					WithCode(ErrCodeUnsupportedKind).
					WithAction(action.ID).
					WithDetail("kind", string(req.Kind()))
			}
			continue
		}
		ok, err := c.CheckOne(req, snap)
		if err != nil {
			return false, nil, err
		}
		if !ok {
			satisfied = false
			missing = append(missing, req.String())
		}
	}

	c.Logger.Debug().
		Str("action_id", action.ID).
		Bool("satisfied", satisfied).
		Int("missing", len(missing)).
		Msg("checked action requirements")
	return satisfied, missing, nil
}
