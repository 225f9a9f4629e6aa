package model

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/openmfg/openmfg/pkg/engine"
)

// Machine is stationary manufacturing equipment such as a mill, lathe
// or 3D printer.
type Machine struct {
	Resource

	// MachineType is the declared subtype, e.g. "CNC Mill". Machine
	// requirements match against it exactly.
	MachineType string

	capabilities []string
}

// NewMachine creates a machine resource.
func NewMachine(name, machineType string, georeference []float64, log zerolog.Logger) (*Machine, error) {
	base, err := newResource(name, ResourceMachine, georeference, log)
	if err != nil {
		return nil, err
	}
	if machineType == "" {
		return nil, fmt.Errorf("machine type is required")
	}
	m := &Machine{Resource: base, MachineType: machineType}
	m.log.Info().Str("machine_id", m.ID).Str("machine_type", machineType).Msg("created machine")
	return m, nil
}

// Capabilities returns a copy of the capability list.
func (m *Machine) Capabilities() []string {
	return append([]string(nil), m.capabilities...)
}

// AddCapability registers a capability, ignoring duplicates.
func (m *Machine) AddCapability(capability string) {
	for _, c := range m.capabilities {
		if c == capability {
			return
		}
	}
	m.capabilities = append(m.capabilities, capability)
	m.touch()
}

// RemoveCapability drops a capability.
func (m *Machine) RemoveCapability(capability string) bool {
	for i, c := range m.capabilities {
		if c == capability {
			m.capabilities = append(m.capabilities[:i], m.capabilities[i+1:]...)
			m.touch()
			return true
		}
	}
	return false
}

// HasCapability reports whether the machine offers a capability.
func (m *Machine) HasCapability(capability string) bool {
	for _, c := range m.capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// StartCapability puts the machine to work on one of its capabilities.
func (m *Machine) StartCapability(capability string) error {
	if !m.HasCapability(capability) {
		return fmt.Errorf("machine %s does not support capability %q", m.Name, capability)
	}
	return m.SetStatus(ResourceStatusWorking)
}

// SnapshotEntries implements SnapshotSource.
func (m *Machine) SnapshotEntries() []engine.SnapshotEntry {
	return []engine.SnapshotEntry{{
		ResourceID: m.ID,
		Category:   engine.CategoryMachine,
		Subtype:    m.MachineType,
		Name:       m.Name,
	}}
}

// WorkStation is a manual or semi-automated work area.
type WorkStation struct {
	Resource

	// StationType is the declared subtype, e.g. "Assembly Bench".
	StationType string

	// MaxCapacity is the number of concurrent operators supported.
	MaxCapacity int

	capabilities []string
	occupancy    int
}

// NewWorkStation creates a workstation resource.
func NewWorkStation(name, stationType string, maxCapacity int, georeference []float64, log zerolog.Logger) (*WorkStation, error) {
	base, err := newResource(name, ResourceWorkStation, georeference, log)
	if err != nil {
		return nil, err
	}
	if maxCapacity < 1 {
		return nil, fmt.Errorf("workstation capacity must be at least 1")
	}
	w := &WorkStation{Resource: base, StationType: stationType, MaxCapacity: maxCapacity}
	w.log.Info().Str("workstation_id", w.ID).Msg("created workstation")
	return w, nil
}

// Occupancy returns the current operator count.
func (w *WorkStation) Occupancy() int {
	return w.occupancy
}

// SetOccupancy writes the current operator count.
func (w *WorkStation) SetOccupancy(n int) error {
	if n < 0 || n > w.MaxCapacity {
		return fmt.Errorf("occupancy %d outside 0..%d", n, w.MaxCapacity)
	}
	w.occupancy = n
	w.touch()
	return nil
}

// AddCapability registers a capability, ignoring duplicates.
func (w *WorkStation) AddCapability(capability string) {
	for _, c := range w.capabilities {
		if c == capability {
			return
		}
	}
	w.capabilities = append(w.capabilities, capability)
	w.touch()
}

// Capabilities returns a copy of the capability list.
func (w *WorkStation) Capabilities() []string {
	return append([]string(nil), w.capabilities...)
}

// SnapshotEntries implements SnapshotSource.
func (w *WorkStation) SnapshotEntries() []engine.SnapshotEntry {
	return []engine.SnapshotEntry{{
		ResourceID: w.ID,
		Category:   engine.CategoryWorkStation,
		Subtype:    w.StationType,
		Name:       w.Name,
	}}
}

// Tool is non-stationary tooling a worker can use.
type Tool struct {
	Resource

	// ToolType is the declared subtype, e.g. "Torque Wrench". Tool
	// requirements match against it exactly.
	ToolType string

	usageHours float64
}

// NewTool creates a tool resource.
func NewTool(name, toolType string, log zerolog.Logger) (*Tool, error) {
	base, err := newResource(name, ResourceTool, nil, log)
	if err != nil {
		return nil, err
	}
	if toolType == "" {
		return nil, fmt.Errorf("tool type is required")
	}
	t := &Tool{Resource: base, ToolType: toolType}
	t.log.Info().Str("tool_id", t.ID).Str("tool_type", toolType).Msg("created tool")
	return t, nil
}

// Use records a period of tool usage and marks the tool working.
func (t *Tool) Use(hours float64) error {
	if hours <= 0 {
		return fmt.Errorf("usage duration must be positive")
	}
	t.usageHours += hours
	return t.SetStatus(ResourceStatusWorking)
}

// UsageHours returns the accumulated usage.
func (t *Tool) UsageHours() float64 {
	return t.usageHours
}

// SnapshotEntries implements SnapshotSource.
func (t *Tool) SnapshotEntries() []engine.SnapshotEntry {
	return []engine.SnapshotEntry{{
		ResourceID: t.ID,
		Category:   engine.CategoryTool,
		Subtype:    t.ToolType,
		Name:       t.Name,
	}}
}

// Conveyor is a fixed material handling system following a polyline
// georeference.
type Conveyor struct {
	Resource

	// Speed is the belt speed in meters per second.
	Speed float64

	// CapacityPerMeter is how many items fit on one meter of belt.
	CapacityPerMeter float64

	direction   string
	currentLoad float64
	length      float64
}

// NewConveyor creates a conveyor resource. The georeference is a flat
// polyline of [x1, y1, x2, y2, ...] pairs; the conveyor's length is
// derived from it.
func NewConveyor(name string, speed, capacityPerMeter float64, polyline []float64, log zerolog.Logger) (*Conveyor, error) {
	if len(polyline) < 4 || len(polyline)%2 != 0 {
		return nil, fmt.Errorf("conveyor polyline needs at least two [x, y] points")
	}
	base, err := newResource(name, ResourceConveyor, polyline[:2], log)
	if err != nil {
		return nil, err
	}
	if speed <= 0 {
		return nil, fmt.Errorf("conveyor speed must be positive")
	}
	c := &Conveyor{
		Resource:         base,
		Speed:            speed,
		CapacityPerMeter: capacityPerMeter,
		direction:        "forward",
		length:           polylineLength(polyline),
	}
	c.log.Info().Str("conveyor_id", c.ID).Float64("length", c.length).Msg("created conveyor")
	return c, nil
}

func polylineLength(polyline []float64) float64 {
	var total float64
	for i := 2; i < len(polyline); i += 2 {
		dx := polyline[i] - polyline[i-2]
		dy := polyline[i+1] - polyline[i-1]
		total += math.Hypot(dx, dy)
	}
	return total
}

// Length returns the derived belt length in meters.
func (c *Conveyor) Length() float64 {
	return c.length
}

// TotalCapacity returns the item capacity of the whole belt.
func (c *Conveyor) TotalCapacity() float64 {
	return c.length * c.CapacityPerMeter
}

// CurrentLoad returns the item count currently on the belt.
func (c *Conveyor) CurrentLoad() float64 {
	return c.currentLoad
}

// AddItems places items on the belt.
func (c *Conveyor) AddItems(count float64) error {
	if c.currentLoad+count > c.TotalCapacity() {
		return fmt.Errorf("adding %g items exceeds conveyor capacity %g", count, c.TotalCapacity())
	}
	c.currentLoad += count
	c.touch()
	return nil
}

// RemoveItems takes items off the belt.
func (c *Conveyor) RemoveItems(count float64) error {
	if count > c.currentLoad {
		return fmt.Errorf("cannot remove %g items, only %g on belt", count, c.currentLoad)
	}
	c.currentLoad -= count
	c.touch()
	return nil
}

// Direction returns "forward" or "reverse".
func (c *Conveyor) Direction() string {
	return c.direction
}

// ReverseDirection flips the belt direction.
func (c *Conveyor) ReverseDirection() {
	if c.direction == "forward" {
		c.direction = "reverse"
	} else {
		c.direction = "forward"
	}
	c.touch()
}

// SnapshotEntries implements SnapshotSource.
func (c *Conveyor) SnapshotEntries() []engine.SnapshotEntry {
	return []engine.SnapshotEntry{{
		ResourceID: c.ID,
		Category:   engine.CategoryConveyor,
		Name:       c.Name,
	}}
}

// RoboticArm is a programmable manipulator.
type RoboticArm struct {
	Resource

	// ArmType is the declared model of the arm.
	ArmType string

	// Reach is the maximum reach distance in meters.
	Reach float64

	// Payload is the maximum weight capacity in kilograms.
	Payload float64

	// DegreesOfFreedom is the number of independent joints.
	DegreesOfFreedom int

	endEffector string
	position    []float64
	home        []float64
}

// NewRoboticArm creates a robotic arm resource at its home position.
func NewRoboticArm(name, armType string, reach, payload float64, degreesOfFreedom int, endEffector string, log zerolog.Logger) (*RoboticArm, error) {
	base, err := newResource(name, ResourceRoboticArm, nil, log)
	if err != nil {
		return nil, err
	}
	if degreesOfFreedom < 1 {
		return nil, fmt.Errorf("robotic arm needs at least one degree of freedom")
	}
	if reach <= 0 || payload <= 0 {
		return nil, fmt.Errorf("robotic arm reach and payload must be positive")
	}
	r := &RoboticArm{
		Resource:         base,
		ArmType:          armType,
		Reach:            reach,
		Payload:          payload,
		DegreesOfFreedom: degreesOfFreedom,
		endEffector:      endEffector,
		position:         make([]float64, degreesOfFreedom),
		home:             make([]float64, degreesOfFreedom),
	}
	r.log.Info().Str("arm_id", r.ID).Msg("created robotic arm")
	return r, nil
}

// Position returns a copy of the current joint angles.
func (r *RoboticArm) Position() []float64 {
	return append([]float64(nil), r.position...)
}

// MoveTo drives the joints to the given angles and marks the arm
// working.
func (r *RoboticArm) MoveTo(position []float64) error {
	if len(position) != r.DegreesOfFreedom {
		return fmt.Errorf("position needs %d joint angles, got %d", r.DegreesOfFreedom, len(position))
	}
	r.position = append([]float64(nil), position...)
	return r.SetStatus(ResourceStatusWorking)
}

// Home returns the arm to its safe position and idles it.
func (r *RoboticArm) Home() error {
	r.position = append([]float64(nil), r.home...)
	return r.SetStatus(ResourceStatusIdle)
}

// EndEffector returns the current end-of-arm tooling type.
func (r *RoboticArm) EndEffector() string {
	return r.endEffector
}

// ChangeEndEffector swaps the end-of-arm tooling.
func (r *RoboticArm) ChangeEndEffector(effectorType string) {
	r.endEffector = effectorType
	r.touch()
}

// CheckPayload reports whether a weight is within the arm's capacity.
func (r *RoboticArm) CheckPayload(weight float64) bool {
	return weight <= r.Payload
}

// SnapshotEntries implements SnapshotSource.
func (r *RoboticArm) SnapshotEntries() []engine.SnapshotEntry {
	return []engine.SnapshotEntry{{
		ResourceID: r.ID,
		Category:   engine.CategoryRoboticArm,
		Subtype:    r.ArmType,
		Name:       r.Name,
	}}
}
