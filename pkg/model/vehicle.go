package model

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openmfg/openmfg/pkg/engine"
)

// Vehicle is mobile transport equipment such as a forklift or an AMR.
type Vehicle struct {
	Resource

	// Type is the declared vehicle type. Vehicle requirements match
	// against it exactly.
	Type VehicleType

	// Speed is the travel speed in meters per second.
	Speed float64

	// LoadCapacity is the maximum cargo weight in kilograms.
	LoadCapacity float64

	batteryLevel float64
	charging     bool
	currentLoad  float64
	routeID      string
}

// NewVehicle creates a vehicle resource with a full battery.
func NewVehicle(name string, vehicleType VehicleType, speed, loadCapacity float64, georeference []float64, log zerolog.Logger) (*Vehicle, error) {
	base, err := newResource(name, ResourceVehicle, georeference, log)
	if err != nil {
		return nil, err
	}
	if err := vehicleType.Validate(); err != nil {
		return nil, err
	}
	if speed <= 0 || loadCapacity <= 0 {
		return nil, fmt.Errorf("vehicle speed and load capacity must be positive")
	}
	v := &Vehicle{
		Resource:     base,
		Type:         vehicleType,
		Speed:        speed,
		LoadCapacity: loadCapacity,
		batteryLevel: 100,
	}
	v.log.Info().Str("vehicle_id", v.ID).Str("vehicle_type", string(vehicleType)).Msg("created vehicle")
	return v, nil
}

// BatteryLevel returns the charge percentage.
func (v *Vehicle) BatteryLevel() float64 {
	return v.batteryLevel
}

// Drain reduces the battery by a percentage. The vehicle fails when
// the battery reaches zero.
func (v *Vehicle) Drain(percent float64) error {
	if percent < 0 {
		return fmt.Errorf("drain percentage must be non-negative")
	}
	v.batteryLevel -= percent
	if v.batteryLevel <= 0 {
		v.batteryLevel = 0
		return v.SetStatus(ResourceStatusFailed)
	}
	v.touch()
	return nil
}

// StartCharging puts the vehicle on a charger.
func (v *Vehicle) StartCharging() error {
	v.charging = true
	return v.SetStatus(ResourceStatusWait)
}

// StopCharging takes the vehicle off the charger at the given charge
// level.
func (v *Vehicle) StopCharging(level float64) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("battery level %g outside 0..100", level)
	}
	v.charging = false
	v.batteryLevel = level
	return v.SetStatus(ResourceStatusIdle)
}

// Charging reports whether the vehicle is on a charger.
func (v *Vehicle) Charging() bool {
	return v.charging
}

// Load places cargo on the vehicle.
func (v *Vehicle) Load(weight float64) error {
	if v.currentLoad+weight > v.LoadCapacity {
		return fmt.Errorf("load %g exceeds capacity %g", v.currentLoad+weight, v.LoadCapacity)
	}
	v.currentLoad += weight
	return v.SetStatus(ResourceStatusLoad)
}

// Unload removes cargo from the vehicle.
func (v *Vehicle) Unload(weight float64) error {
	if weight > v.currentLoad {
		return fmt.Errorf("cannot unload %g, only %g loaded", weight, v.currentLoad)
	}
	v.currentLoad -= weight
	return v.SetStatus(ResourceStatusUnload)
}

// CurrentLoad returns the cargo weight on board.
func (v *Vehicle) CurrentLoad() float64 {
	return v.currentLoad
}

// AssignRoute binds the vehicle to a route.
func (v *Vehicle) AssignRoute(routeID string) {
	v.routeID = routeID
	v.touch()
}

// RouteID returns the assigned route, or empty.
func (v *Vehicle) RouteID() string {
	return v.routeID
}

// TravelTime returns the time in seconds to cover a distance in meters
// at the vehicle's speed.
func (v *Vehicle) TravelTime(distance float64) float64 {
	return distance / v.Speed
}

// SnapshotEntries implements SnapshotSource.
func (v *Vehicle) SnapshotEntries() []engine.SnapshotEntry {
	return []engine.SnapshotEntry{{
		ResourceID: v.ID,
		Category:   engine.CategoryVehicle,
		Subtype:    string(v.Type),
		Name:       v.Name,
	}}
}
