package config

import "time"

// FacilityConfig is the root of a facility definition document.
type FacilityConfig struct {
	// Facility carries facility-level metadata.
	Facility FacilityMeta `yaml:"facility" validate:"required"`

	// Locations are the places resources live at.
	Locations []LocationConfig `yaml:"locations" validate:"min=1,dive"`

	// Storages are dedicated part storage areas.
	Storages []StorageConfig `yaml:"storages,omitempty" validate:"dive"`

	// Routes connect locations.
	Routes []RouteConfig `yaml:"routes,omitempty" validate:"dive"`

	// Products are the manufacturable goods with their action
	// sequences.
	Products []ProductConfig `yaml:"products,omitempty" validate:"dive"`

	// Jobs are orders over the declared products.
	Jobs []JobConfig `yaml:"jobs,omitempty" validate:"dive"`
}

// FacilityMeta is facility-level metadata.
type FacilityMeta struct {
	// Name is the facility name.
	Name string `yaml:"name" validate:"required"`

	// Description is free-form explanatory text.
	Description string `yaml:"description,omitempty"`
}

// LocationConfig declares a location and its contents.
type LocationConfig struct {
	// Name is the location name, unique within the document.
	Name string `yaml:"name" validate:"required"`

	// Type is the location type (internal, external).
	Type string `yaml:"type" validate:"required,oneof=internal external"`

	// Georeference is the [x, y] or [x, y, z] position.
	Georeference []float64 `yaml:"georeference,omitempty" validate:"omitempty,min=2,max=3"`

	// Machines, Vehicles, Tools, Workers and Parts populate the
	// location.
	Machines []MachineConfig `yaml:"machines,omitempty" validate:"dive"`
	Vehicles []VehicleConfig `yaml:"vehicles,omitempty" validate:"dive"`
	Tools    []ToolConfig    `yaml:"tools,omitempty" validate:"dive"`
	Workers  []WorkerConfig  `yaml:"workers,omitempty" validate:"dive"`
	Parts    []PartConfig    `yaml:"parts,omitempty" validate:"dive"`
}

// MachineConfig declares a machine.
type MachineConfig struct {
	// Name is the machine name.
	Name string `yaml:"name" validate:"required"`

	// MachineType is the subtype requirements match against.
	MachineType string `yaml:"machine_type" validate:"required"`

	// Capabilities lists what the machine can do.
	Capabilities []string `yaml:"capabilities,omitempty"`

	// Georeference is the machine position, if fixed.
	Georeference []float64 `yaml:"georeference,omitempty" validate:"omitempty,min=2,max=3"`
}

// VehicleConfig declares a vehicle.
type VehicleConfig struct {
	// Name is the vehicle name.
	Name string `yaml:"name" validate:"required"`

	// VehicleType is the subtype requirements match against.
	VehicleType string `yaml:"vehicle_type" validate:"required,oneof=generic_automated_vehicle generic_manual_vehicle automated_mobile_robot manual_forklift"`

	// Speed is the travel speed in meters per second.
	Speed float64 `yaml:"speed" validate:"gt=0"`

	// LoadCapacity is the maximum cargo weight in kilograms.
	LoadCapacity float64 `yaml:"load_capacity" validate:"gt=0"`
}

// ToolConfig declares a tool.
type ToolConfig struct {
	// Name is the tool name.
	Name string `yaml:"name" validate:"required"`

	// ToolType is the subtype requirements match against.
	ToolType string `yaml:"tool_type" validate:"required"`
}

// WorkerConfig declares a worker.
type WorkerConfig struct {
	// Name is the worker name.
	Name string `yaml:"name" validate:"required"`

	// Role is the worker's initial role.
	Role string `yaml:"role" validate:"required"`

	// ExtraRoles grants additional roles.
	ExtraRoles []string `yaml:"extra_roles,omitempty"`

	// Skills are attached to the initial role.
	Skills []string `yaml:"skills,omitempty"`

	// HourlyRate is the labor cost per hour.
	HourlyRate float64 `yaml:"hourly_rate,omitempty" validate:"gte=0"`
}

// PartConfig declares a part record with an initial quantity.
type PartConfig struct {
	// Name is the part name requirements match against.
	Name string `yaml:"name" validate:"required"`

	// PartType categorizes the part by source.
	PartType string `yaml:"part_type" validate:"required,oneof=raw_material purchased_component work_in_progress"`

	// Quantity is the initial stock.
	Quantity float64 `yaml:"quantity" validate:"gte=0"`

	// UnitCost is the cost per unit.
	UnitCost float64 `yaml:"unit_cost,omitempty" validate:"gte=0"`

	// MinStock is the reorder threshold.
	MinStock float64 `yaml:"min_stock,omitempty" validate:"gte=0"`

	// Supplier names the source of externally procured parts.
	Supplier string `yaml:"supplier,omitempty"`
}

// StorageConfig declares a part storage area.
type StorageConfig struct {
	// Name is the storage name.
	Name string `yaml:"name" validate:"required"`

	// StorageType classifies the storage area.
	StorageType string `yaml:"storage_type" validate:"required,oneof=general warehouse rack buffer queue"`

	// MaxCapacity is the total storage volume, 0 for unbounded.
	MaxCapacity float64 `yaml:"max_capacity,omitempty" validate:"gte=0"`

	// Georeference is the storage position.
	Georeference []float64 `yaml:"georeference,omitempty" validate:"omitempty,min=2,max=3"`
}

// RouteConfig declares a route between two named locations.
type RouteConfig struct {
	// Name is the route name.
	Name string `yaml:"name" validate:"required"`

	// Origin and Destination are location names from this document.
	Origin      string `yaml:"origin" validate:"required"`
	Destination string `yaml:"destination" validate:"required"`

	// Waypoints is the [x, y] polyline of the route.
	Waypoints [][2]float64 `yaml:"waypoints" validate:"min=2"`

	// Bidirectional allows travel both ways.
	Bidirectional bool `yaml:"bidirectional,omitempty"`
}

// ProductConfig declares a product and its action sequence.
type ProductConfig struct {
	// Name is the product name, unique within the document.
	Name string `yaml:"name" validate:"required"`

	// SKU is the stock keeping unit code.
	SKU string `yaml:"sku,omitempty"`

	// Actions is the production sequence, in order.
	Actions []ActionConfig `yaml:"actions" validate:"min=1,dive"`
}

// ActionConfig declares one action of a product sequence.
type ActionConfig struct {
	// Name is the action name.
	Name string `yaml:"name" validate:"required"`

	// Type is the operation category, e.g. "machining".
	Type string `yaml:"type" validate:"required"`

	// Description is free-form explanatory text.
	Description string `yaml:"description,omitempty"`

	// Duration is the planned duration in hours.
	Duration float64 `yaml:"duration,omitempty" validate:"gte=0"`

	// Location names the location whose snapshot the action's
	// requirements are checked against.
	Location string `yaml:"location,omitempty"`

	// Requirements declare what the action needs.
	Requirements []RequirementConfig `yaml:"requirements,omitempty" validate:"dive"`
}

// RequirementConfig declares one requirement of an action. For part
// requirements Name and MinQuantity map to the two specs; for the
// other kinds Subtype maps to the single optional spec.
type RequirementConfig struct {
	// Kind is the requirement kind, e.g. "MACHINE" or "PART".
	Kind string `yaml:"kind" validate:"required"`

	// Subtype constrains subtype-matched kinds. Empty accepts any
	// resource of the category.
	Subtype string `yaml:"subtype,omitempty"`

	// Name is the part name, for part requirements.
	Name string `yaml:"name,omitempty"`

	// MinQuantity is the minimum part quantity, for part requirements.
	MinQuantity float64 `yaml:"min_quantity,omitempty" validate:"gte=0"`
}

// JobConfig declares an order over declared products.
type JobConfig struct {
	// ID is an optional stable job identifier.
	ID string `yaml:"id,omitempty"`

	// CustomerID references the ordering customer.
	CustomerID string `yaml:"customer_id,omitempty"`

	// Products lists product names from this document.
	Products []string `yaml:"products" validate:"min=1"`

	// Priority is the urgency level (low, medium, high, urgent).
	Priority string `yaml:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`

	// DueDate is the required completion instant.
	DueDate time.Time `yaml:"due_date" validate:"required"`
}
