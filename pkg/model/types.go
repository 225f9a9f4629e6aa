package model

import "fmt"

// LocationType categorizes a location relative to the facility.
type LocationType string

const (
	// LocationInternal is a location within the facility's boundaries.
	LocationInternal LocationType = "internal"

	// LocationExternal is a location outside the facility, such as a
	// supplier or customer site.
	LocationExternal LocationType = "external"
)

// Validate checks if the location type is valid.
func (t LocationType) Validate() error {
	switch t {
	case LocationInternal, LocationExternal:
		return nil
	default:
		return fmt.Errorf("invalid location type: %s", t)
	}
}

// ResourceKind categorizes a resource.
type ResourceKind string

const (
	ResourceGeneral     ResourceKind = "general"
	ResourceMachine     ResourceKind = "machine"
	ResourceWorkStation ResourceKind = "workstation"
	ResourceConveyor    ResourceKind = "conveyor"
	ResourceRoboticArm  ResourceKind = "robotic_arm"
	ResourceVehicle     ResourceKind = "vehicle"
	ResourceTool        ResourceKind = "tool"
)

// Validate checks if the resource kind is valid.
func (k ResourceKind) Validate() error {
	switch k {
	case ResourceGeneral, ResourceMachine, ResourceWorkStation,
		ResourceConveyor, ResourceRoboticArm, ResourceVehicle, ResourceTool:
		return nil
	default:
		return fmt.Errorf("invalid resource kind: %s", k)
	}
}

// ResourceStatus represents the operational state of a resource.
type ResourceStatus string

const (
	ResourceStatusWait    ResourceStatus = "wait"
	ResourceStatusLoad    ResourceStatus = "load"
	ResourceStatusUnload  ResourceStatus = "unload"
	ResourceStatusIdle    ResourceStatus = "idle"
	ResourceStatusWorking ResourceStatus = "working"
	ResourceStatusFailed  ResourceStatus = "failed"
)

// Validate checks if the resource status is valid.
func (s ResourceStatus) Validate() error {
	switch s {
	case ResourceStatusWait, ResourceStatusLoad, ResourceStatusUnload,
		ResourceStatusIdle, ResourceStatusWorking, ResourceStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid resource status: %s", s)
	}
}

// VehicleType categorizes transport equipment.
type VehicleType string

const (
	VehicleGenericAutomated     VehicleType = "generic_automated_vehicle"
	VehicleGenericManual        VehicleType = "generic_manual_vehicle"
	VehicleAutomatedMobileRobot VehicleType = "automated_mobile_robot"
	VehicleManualForklift       VehicleType = "manual_forklift"
)

// Validate checks if the vehicle type is valid.
func (t VehicleType) Validate() error {
	switch t {
	case VehicleGenericAutomated, VehicleGenericManual,
		VehicleAutomatedMobileRobot, VehicleManualForklift:
		return nil
	default:
		return fmt.Errorf("invalid vehicle type: %s", t)
	}
}

// StorageType categorizes storage locations.
type StorageType string

const (
	StorageGeneral   StorageType = "general"
	StorageWarehouse StorageType = "warehouse"
	StorageRack      StorageType = "rack"
	StorageBuffer    StorageType = "buffer"
	StorageQueue     StorageType = "queue"
)

// Validate checks if the storage type is valid.
func (t StorageType) Validate() error {
	switch t {
	case StorageGeneral, StorageWarehouse, StorageRack, StorageBuffer, StorageQueue:
		return nil
	default:
		return fmt.Errorf("invalid storage type: %s", t)
	}
}

// ProductionState represents where a part or product is in the
// production process.
type ProductionState string

const (
	ProductionRaw            ProductionState = "raw"
	ProductionNew            ProductionState = "new"
	ProductionWorkInProgress ProductionState = "work_in_progress"
	ProductionFinished       ProductionState = "finished"
	ProductionDefective      ProductionState = "defective"
	ProductionOnHold         ProductionState = "on_hold"
)

// Validate checks if the production state is valid.
func (s ProductionState) Validate() error {
	switch s {
	case ProductionRaw, ProductionNew, ProductionWorkInProgress,
		ProductionFinished, ProductionDefective, ProductionOnHold:
		return nil
	default:
		return fmt.Errorf("invalid production state: %s", s)
	}
}

// PartType categorizes parts by source and nature.
type PartType string

const (
	PartRawMaterial        PartType = "raw_material"
	PartPurchasedComponent PartType = "purchased_component"
	PartWorkInProgress     PartType = "work_in_progress"
)

// Validate checks if the part type is valid.
func (t PartType) Validate() error {
	switch t {
	case PartRawMaterial, PartPurchasedComponent, PartWorkInProgress:
		return nil
	default:
		return fmt.Errorf("invalid part type: %s", t)
	}
}
