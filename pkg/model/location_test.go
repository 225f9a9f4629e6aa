package model

import (
	"testing"

	"github.com/openmfg/openmfg/pkg/engine"
)

// workshop builds a location holding a machine, a vehicle, two pooled
// part records, a worker and a tool.
func workshop(t *testing.T) *Location {
	t.Helper()
	loc, err := NewLocation("Workshop", LocationInternal, []float64{0, 0}, testLogger())
	if err != nil {
		t.Fatalf("NewLocation failed: %v", err)
	}

	mill, err := NewMachine("Mill-01", "CNC Mill", nil, testLogger())
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	agv, err := NewVehicle("AGV-01", VehicleAutomatedMobileRobot, 1.5, 200, nil, testLogger())
	if err != nil {
		t.Fatalf("NewVehicle failed: %v", err)
	}
	plateA, err := NewPart("Steel Plate", PartRawMaterial, 2, 4.5, testLogger())
	if err != nil {
		t.Fatalf("NewPart failed: %v", err)
	}
	plateB, err := NewPart("Steel Plate", PartRawMaterial, 4, 4.5, testLogger())
	if err != nil {
		t.Fatalf("NewPart failed: %v", err)
	}
	alice, err := NewWorker("Alice", "technician", []string{"milling"}, 35, testLogger())
	if err != nil {
		t.Fatalf("NewWorker failed: %v", err)
	}
	wrench, err := NewTool("Wrench-01", "Torque Wrench", testLogger())
	if err != nil {
		t.Fatalf("NewTool failed: %v", err)
	}

	loc.Add(mill)
	loc.Add(agv)
	loc.Add(plateA)
	loc.Add(plateB)
	loc.Add(alice)
	loc.Add(wrench)
	return loc
}

func TestLocationSnapshot(t *testing.T) {
	loc := workshop(t)

	snap := loc.Snapshot()
	if len(snap) != 6 {
		t.Fatalf("snapshot has %d entries, want 6", len(snap))
	}
	if got := snap.PartQuantity("Steel Plate"); got != 6 {
		t.Errorf("PartQuantity(Steel Plate) = %g, want pooled 6", got)
	}
	if got := len(snap.ByCategory(engine.CategoryMachine)); got != 1 {
		t.Errorf("machine entries = %d, want 1", got)
	}
}

func TestLocationSnapshotFeedsChecker(t *testing.T) {
	loc := workshop(t)

	action, err := engine.NewAction(engine.ActionParams{Name: "mill plates", Type: engine.ActionTypeMachining, Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewAction failed: %v", err)
	}
	for _, add := range []error{
		action.AddRequirement(engine.RequirementMachine, "CNC Mill"),
		action.AddRequirement(engine.RequirementWorker, "technician"),
		action.AddRequirement(engine.RequirementTool, "Torque Wrench"),
		action.AddRequirement(engine.RequirementPart, "Steel Plate", 5),
	} {
		if add != nil {
			t.Fatalf("AddRequirement failed: %v", add)
		}
	}

	ok, missing := action.CheckRequirements(loc.Snapshot())
	if !ok || len(missing) != 0 {
		t.Fatalf("CheckRequirements = (%v, %v), want satisfied", ok, missing)
	}

	// Consuming part stock flows into the next snapshot.
	for _, src := range loc.Contents() {
		if p, isPart := src.(*Part); isPart {
			if err := p.AdjustQuantity(-p.Quantity()); err != nil {
				t.Fatalf("AdjustQuantity failed: %v", err)
			}
		}
	}
	ok, missing = action.CheckRequirements(loc.Snapshot())
	if ok {
		t.Fatal("requirements satisfied after part stock drained")
	}
	if len(missing) != 1 || missing[0] != "PART(Steel Plate, 5 units)" {
		t.Errorf("missing = %v, want the part requirement display string", missing)
	}
}

func TestLocationRemove(t *testing.T) {
	loc := workshop(t)
	snap := loc.Snapshot()
	machineID := snap.ByCategory(engine.CategoryMachine)[0].ResourceID

	if !loc.Remove(machineID) {
		t.Fatal("Remove returned false for present resource")
	}
	if loc.Remove(machineID) {
		t.Error("Remove returned true for absent resource")
	}
	if got := len(loc.Snapshot().ByCategory(engine.CategoryMachine)); got != 0 {
		t.Errorf("machine entries after removal = %d, want 0", got)
	}
}

func TestLocationRoutes(t *testing.T) {
	a, err := NewLocation("Dock", LocationInternal, []float64{0, 0}, testLogger())
	if err != nil {
		t.Fatalf("NewLocation failed: %v", err)
	}
	b, err := NewLocation("Assembly", LocationInternal, []float64{30, 40}, testLogger())
	if err != nil {
		t.Fatalf("NewLocation failed: %v", err)
	}

	oneWay, err := NewRoute("dock-to-assembly", a.ID, b.ID, [][2]float64{{0, 0}, {30, 40}}, false, testLogger())
	if err != nil {
		t.Fatalf("NewRoute failed: %v", err)
	}
	if oneWay.Length() != 50 {
		t.Errorf("Length = %g, want 50", oneWay.Length())
	}

	if err := a.AddRoute(oneWay); err != nil {
		t.Fatalf("AddRoute failed: %v", err)
	}
	if a.RouteTo(b.ID) != oneWay {
		t.Error("RouteTo did not find the registered route")
	}

	// The one-way route does not serve the reverse trip.
	if err := b.AddRoute(oneWay); err != nil {
		t.Fatalf("AddRoute failed: %v", err)
	}
	if b.RouteTo(a.ID) != nil {
		t.Error("one-way route offered for reverse trip")
	}

	both, err := NewRoute("shuttle", a.ID, b.ID, [][2]float64{{0, 0}, {30, 40}}, true, testLogger())
	if err != nil {
		t.Fatalf("NewRoute failed: %v", err)
	}
	if err := b.AddRoute(both); err != nil {
		t.Fatalf("AddRoute failed: %v", err)
	}
	if b.RouteTo(a.ID) != both {
		t.Error("bidirectional route not offered for reverse trip")
	}

	stray, err := NewRoute("elsewhere", "x", "y", [][2]float64{{0, 0}, {1, 1}}, false, testLogger())
	if err != nil {
		t.Fatalf("NewRoute failed: %v", err)
	}
	if err := a.AddRoute(stray); err == nil {
		t.Error("expected error registering a route that does not touch the location")
	}
}

func TestStorageCapacity(t *testing.T) {
	s, err := NewStorage("Rack-A", StorageRack, 100, nil, testLogger())
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}

	plates, _ := NewPart("Steel Plate", PartRawMaterial, 10, 4.5, testLogger())
	plates.Volume = 6 // 60 total
	bolts, _ := NewPart("Bolt", PartPurchasedComponent, 300, 0.1, testLogger())
	bolts.Volume = 0.5 // 150 total, does not fit

	if err := s.Store(plates); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.Store(plates); err == nil {
		t.Error("expected error storing the same part twice")
	}
	if err := s.Store(bolts); err == nil {
		t.Error("expected error storing past capacity")
	}

	if got := s.UsedCapacity(); got != 60 {
		t.Errorf("UsedCapacity = %g, want 60", got)
	}
	if got := s.AvailableCapacity(); got != 40 {
		t.Errorf("AvailableCapacity = %g, want 40", got)
	}
	if got := s.Utilization(); got != 60 {
		t.Errorf("Utilization = %g, want 60", got)
	}

	// Stored parts appear in the storage's snapshot.
	if got := s.Snapshot().PartQuantity("Steel Plate"); got != 10 {
		t.Errorf("snapshot part quantity = %g, want 10", got)
	}

	got, err := s.Retrieve(plates.ID)
	if err != nil || got != plates {
		t.Fatalf("Retrieve = (%v, %v), want the stored part", got, err)
	}
	if _, err := s.Retrieve(plates.ID); err == nil {
		t.Error("expected error retrieving an absent part")
	}
	if s.UsedCapacity() != 0 {
		t.Errorf("UsedCapacity = %g after retrieval, want 0", s.UsedCapacity())
	}
	if len(s.Snapshot()) != 0 {
		t.Error("retrieved part still in snapshot")
	}
}
