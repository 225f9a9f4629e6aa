package model

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/openmfg/openmfg/pkg/engine"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestNewMachine(t *testing.T) {
	m, err := NewMachine("Mill-01", "CNC Mill", []float64{1, 2}, testLogger())
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	if m.Kind != ResourceMachine {
		t.Errorf("Kind = %s, want machine", m.Kind)
	}
	if m.Status() != ResourceStatusIdle {
		t.Errorf("Status = %s, want idle", m.Status())
	}
	if m.ID == "" || m.CreationDate.IsZero() {
		t.Error("machine missing generated ID or creation date")
	}

	if _, err := NewMachine("", "CNC Mill", nil, testLogger()); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := NewMachine("Mill-02", "", nil, testLogger()); err == nil {
		t.Error("expected error for empty machine type")
	}
	if _, err := NewMachine("Mill-03", "CNC Mill", []float64{1}, testLogger()); err == nil {
		t.Error("expected error for 1-coordinate georeference")
	}
}

func TestMachineCapabilities(t *testing.T) {
	m, err := NewMachine("Mill-01", "CNC Mill", nil, testLogger())
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}

	m.AddCapability("milling")
	m.AddCapability("drilling")
	m.AddCapability("milling") // duplicate, ignored
	if got := m.Capabilities(); len(got) != 2 {
		t.Errorf("Capabilities() has %d entries, want 2", len(got))
	}

	if err := m.StartCapability("milling"); err != nil {
		t.Fatalf("StartCapability failed: %v", err)
	}
	if m.Status() != ResourceStatusWorking {
		t.Errorf("Status = %s after StartCapability, want working", m.Status())
	}
	if err := m.StartCapability("welding"); err == nil {
		t.Error("expected error for unsupported capability")
	}

	if !m.RemoveCapability("drilling") {
		t.Error("RemoveCapability returned false for present capability")
	}
	if m.HasCapability("drilling") {
		t.Error("removed capability still present")
	}
}

func TestMachineSnapshotEntry(t *testing.T) {
	m, err := NewMachine("Mill-01", "CNC Mill", nil, testLogger())
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	entries := m.SnapshotEntries()
	if len(entries) != 1 {
		t.Fatalf("SnapshotEntries() has %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Category != engine.CategoryMachine || e.Subtype != "CNC Mill" || e.ResourceID != m.ID {
		t.Errorf("unexpected snapshot entry: %+v", e)
	}
}

func TestResourceEntriesAndExits(t *testing.T) {
	m, err := NewMachine("Mill-01", "CNC Mill", nil, testLogger())
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	m.RecordEntry()
	m.RecordEntry()
	m.RecordExit()
	if m.Entries() != 2 || m.Exits() != 1 {
		t.Errorf("counters = (%d, %d), want (2, 1)", m.Entries(), m.Exits())
	}
}

func TestResourceCurrentAction(t *testing.T) {
	m, err := NewMachine("Mill-01", "CNC Mill", nil, testLogger())
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	a1, err := engine.NewAction(engine.ActionParams{Name: "cut", Type: engine.ActionTypeProcess, Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewAction failed: %v", err)
	}
	a2, err := engine.NewAction(engine.ActionParams{Name: "deburr", Type: engine.ActionTypeProcess, Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewAction failed: %v", err)
	}
	m.AddAction(a1)
	m.AddAction(a2)

	if m.CurrentAction() != nil {
		t.Error("CurrentAction should be nil with no in-progress action")
	}
	if err := a2.SetStatus(engine.ActionStatusInProgress); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if got := m.CurrentAction(); got != a2 {
		t.Errorf("CurrentAction = %v, want a2", got)
	}

	if !m.RemoveAction(a1.ID) {
		t.Error("RemoveAction returned false for assigned action")
	}
	if len(m.Actions()) != 1 {
		t.Errorf("Actions() has %d entries after removal, want 1", len(m.Actions()))
	}
}

func TestToolUsage(t *testing.T) {
	tool, err := NewTool("Wrench-01", "Torque Wrench", testLogger())
	if err != nil {
		t.Fatalf("NewTool failed: %v", err)
	}
	if err := tool.Use(1.5); err != nil {
		t.Fatalf("Use failed: %v", err)
	}
	if err := tool.Use(0.5); err != nil {
		t.Fatalf("Use failed: %v", err)
	}
	if tool.UsageHours() != 2.0 {
		t.Errorf("UsageHours = %g, want 2.0", tool.UsageHours())
	}
	if tool.Status() != ResourceStatusWorking {
		t.Errorf("Status = %s, want working", tool.Status())
	}
	if err := tool.Use(-1); err == nil {
		t.Error("expected error for negative usage")
	}
}

func TestVehicleBatteryAndLoad(t *testing.T) {
	v, err := NewVehicle("AGV-01", VehicleAutomatedMobileRobot, 1.5, 200, []float64{0, 0}, testLogger())
	if err != nil {
		t.Fatalf("NewVehicle failed: %v", err)
	}
	if v.BatteryLevel() != 100 {
		t.Errorf("BatteryLevel = %g, want 100", v.BatteryLevel())
	}

	if err := v.Drain(30); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if v.BatteryLevel() != 70 {
		t.Errorf("BatteryLevel = %g after drain, want 70", v.BatteryLevel())
	}

	// Draining past zero fails the vehicle.
	if err := v.Drain(80); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if v.BatteryLevel() != 0 || v.Status() != ResourceStatusFailed {
		t.Errorf("vehicle = (%g, %s), want (0, failed)", v.BatteryLevel(), v.Status())
	}

	if err := v.StartCharging(); err != nil {
		t.Fatalf("StartCharging failed: %v", err)
	}
	if !v.Charging() || v.Status() != ResourceStatusWait {
		t.Error("vehicle should be charging in wait status")
	}
	if err := v.StopCharging(90); err != nil {
		t.Fatalf("StopCharging failed: %v", err)
	}
	if v.Charging() || v.BatteryLevel() != 90 {
		t.Errorf("vehicle = (%v, %g) after charge, want (false, 90)", v.Charging(), v.BatteryLevel())
	}

	if err := v.Load(150); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := v.Load(100); err == nil {
		t.Error("expected error loading past capacity")
	}
	if err := v.Unload(50); err != nil {
		t.Fatalf("Unload failed: %v", err)
	}
	if v.CurrentLoad() != 100 {
		t.Errorf("CurrentLoad = %g, want 100", v.CurrentLoad())
	}
	if err := v.Unload(500); err == nil {
		t.Error("expected error unloading more than loaded")
	}
}

func TestVehicleSnapshotSubtype(t *testing.T) {
	v, err := NewVehicle("Fork-01", VehicleManualForklift, 2, 1000, nil, testLogger())
	if err != nil {
		t.Fatalf("NewVehicle failed: %v", err)
	}
	entries := v.SnapshotEntries()
	if len(entries) != 1 || entries[0].Subtype != "manual_forklift" {
		t.Errorf("unexpected snapshot entries: %+v", entries)
	}
}

func TestConveyorLoad(t *testing.T) {
	// A 10m straight belt with 2 items per meter.
	c, err := NewConveyor("Belt-01", 0.5, 2, []float64{0, 0, 10, 0}, testLogger())
	if err != nil {
		t.Fatalf("NewConveyor failed: %v", err)
	}
	if c.Length() != 10 {
		t.Errorf("Length = %g, want 10", c.Length())
	}
	if c.TotalCapacity() != 20 {
		t.Errorf("TotalCapacity = %g, want 20", c.TotalCapacity())
	}

	if err := c.AddItems(15); err != nil {
		t.Fatalf("AddItems failed: %v", err)
	}
	if err := c.AddItems(10); err == nil {
		t.Error("expected error adding past capacity")
	}
	if err := c.RemoveItems(5); err != nil {
		t.Fatalf("RemoveItems failed: %v", err)
	}
	if c.CurrentLoad() != 10 {
		t.Errorf("CurrentLoad = %g, want 10", c.CurrentLoad())
	}

	c.ReverseDirection()
	if c.Direction() != "reverse" {
		t.Errorf("Direction = %s, want reverse", c.Direction())
	}

	if _, err := NewConveyor("Belt-02", 0.5, 2, []float64{0, 0}, testLogger()); err == nil {
		t.Error("expected error for single-point polyline")
	}
}

func TestRoboticArmMovement(t *testing.T) {
	r, err := NewRoboticArm("Arm-01", "6-Axis", 1.8, 25, 6, "gripper", testLogger())
	if err != nil {
		t.Fatalf("NewRoboticArm failed: %v", err)
	}

	if err := r.MoveTo([]float64{10, 20, 30, 40, 50, 60}); err != nil {
		t.Fatalf("MoveTo failed: %v", err)
	}
	if r.Status() != ResourceStatusWorking {
		t.Errorf("Status = %s after MoveTo, want working", r.Status())
	}
	if err := r.MoveTo([]float64{10, 20}); err == nil {
		t.Error("expected error for wrong joint count")
	}

	if err := r.Home(); err != nil {
		t.Fatalf("Home failed: %v", err)
	}
	for _, angle := range r.Position() {
		if angle != 0 {
			t.Errorf("Position after Home = %v, want all zeros", r.Position())
			break
		}
	}
	if r.Status() != ResourceStatusIdle {
		t.Errorf("Status = %s after Home, want idle", r.Status())
	}

	r.ChangeEndEffector("welder")
	if r.EndEffector() != "welder" {
		t.Errorf("EndEffector = %s, want welder", r.EndEffector())
	}
	if !r.CheckPayload(20) || r.CheckPayload(30) {
		t.Error("CheckPayload boundary wrong for 25kg capacity")
	}
}
