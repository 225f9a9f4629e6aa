package engine

import "fmt"

// ResourceCategory tags a snapshot entry with the coarse resource
// category the checker filters on.
type ResourceCategory string

const (
	// CategoryMachine covers stationary manufacturing equipment.
	CategoryMachine ResourceCategory = "machine"

	// CategoryWorkStation covers manual or semi-automated work areas.
	CategoryWorkStation ResourceCategory = "workstation"

	// CategoryConveyor covers fixed material handling systems.
	CategoryConveyor ResourceCategory = "conveyor"

	// CategoryRoboticArm covers programmable manipulators.
	CategoryRoboticArm ResourceCategory = "robotic_arm"

	// CategoryVehicle covers mobile transport equipment.
	CategoryVehicle ResourceCategory = "vehicle"

	// CategoryPart covers parts and materials.
	CategoryPart ResourceCategory = "part"

	// CategoryWorker covers personnel present at the location.
	CategoryWorker ResourceCategory = "worker"

	// CategoryTool covers non-stationary tooling.
	CategoryTool ResourceCategory = "tool"
)

// Validate checks if the resource category is valid.
func (c ResourceCategory) Validate() error {
	switch c {
	case CategoryMachine, CategoryWorkStation, CategoryConveyor,
		CategoryRoboticArm, CategoryVehicle, CategoryPart,
		CategoryWorker, CategoryTool:
		return nil
	default:
		return fmt.Errorf("invalid resource category: %s", c)
	}
}

// SnapshotEntry is one tagged record in a location's resource snapshot.
type SnapshotEntry struct {
	// ResourceID identifies the underlying resource, part or worker.
	ResourceID string `json:"resource_id"`

	// Category is the coarse resource category.
	Category ResourceCategory `json:"category"`

	// Subtype is the declared subtype: machine type for machines,
	// vehicle type for vehicles, tool type for tools, a role for
	// workers. Empty when the resource declares none.
	Subtype string `json:"subtype,omitempty"`

	// Name is the entry name. The checker matches part requirements
	// against it.
	Name string `json:"name,omitempty"`

	// Quantity is the available quantity for part entries.
	Quantity float64 `json:"quantity,omitempty"`
}

// Snapshot is a point-in-time, read-only view of the resources present
// at a location. The engine never mutates a snapshot; callers must not
// mutate one while a check is running against it.
type Snapshot []SnapshotEntry

// ByCategory returns the entries of one category, preserving order.
func (s Snapshot) ByCategory(c ResourceCategory) []SnapshotEntry {
	var out []SnapshotEntry
	for _, e := range s {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// PartQuantity returns the aggregate quantity of part entries with the
// given name. Multiple entries for the same part name sum.
func (s Snapshot) PartQuantity(name string) float64 {
	var total float64
	for _, e := range s {
		if e.Category == CategoryPart && e.Name == name {
			total += e.Quantity
		}
	}
	return total
}

// HasPart reports whether at least one part entry with the given name
// is present, regardless of quantity.
func (s Snapshot) HasPart(name string) bool {
	for _, e := range s {
		if e.Category == CategoryPart && e.Name == name {
			return true
		}
	}
	return false
}
