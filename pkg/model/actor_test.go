package model

import (
	"reflect"
	"testing"

	"github.com/openmfg/openmfg/pkg/engine"
)

func TestNewWorker(t *testing.T) {
	w, err := NewWorker("Alice", "technician", []string{"milling"}, 35, testLogger())
	if err != nil {
		t.Fatalf("NewWorker failed: %v", err)
	}
	if !w.HasRole("technician") {
		t.Error("worker missing initial role")
	}
	if !w.Available() {
		t.Error("new worker should be available")
	}
	if got := w.CostFor(8); got != 280 {
		t.Errorf("CostFor(8) = %g, want 280", got)
	}

	if _, err := NewWorker("", "technician", nil, 35, testLogger()); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := NewWorker("Bob", "", nil, 35, testLogger()); err == nil {
		t.Error("expected error for empty role")
	}
}

func TestWorkerRoles(t *testing.T) {
	w, err := NewWorker("Alice", "technician", []string{"milling", "drilling"}, 35, testLogger())
	if err != nil {
		t.Fatalf("NewWorker failed: %v", err)
	}

	// Re-adding an existing role merges skills and skips duplicates.
	w.AddRole("technician", []string{"drilling", "welding"})
	if got := w.Skills("technician"); !reflect.DeepEqual(got, []string{"milling", "drilling", "welding"}) {
		t.Errorf("Skills(technician) = %v, want merged list without duplicates", got)
	}

	w.AddRole("inspector", []string{"measurement"})
	if got := w.Roles(); !reflect.DeepEqual(got, []string{"inspector", "technician"}) {
		t.Errorf("Roles() = %v, want sorted [inspector technician]", got)
	}

	if !w.CanWorkWith("welding") {
		t.Error("CanWorkWith(welding) = false, want true")
	}
	if w.CanWorkWith("painting") {
		t.Error("CanWorkWith(painting) = true, want false")
	}

	if err := w.RemoveRole("inspector"); err != nil {
		t.Fatalf("RemoveRole failed: %v", err)
	}
	if err := w.RemoveRole("technician"); err == nil {
		t.Error("expected error removing the last role")
	}
	if err := w.RemoveRole("welder"); err == nil {
		t.Error("expected error removing a role the worker does not hold")
	}
}

func TestWorkerSnapshotOneEntryPerRole(t *testing.T) {
	w, err := NewWorker("Alice", "technician", nil, 35, testLogger())
	if err != nil {
		t.Fatalf("NewWorker failed: %v", err)
	}
	w.AddRole("inspector", nil)

	entries := w.SnapshotEntries()
	if len(entries) != 2 {
		t.Fatalf("SnapshotEntries() has %d entries, want one per role", len(entries))
	}
	roles := []string{entries[0].Subtype, entries[1].Subtype}
	if !reflect.DeepEqual(roles, []string{"inspector", "technician"}) {
		t.Errorf("entry subtypes = %v, want sorted roles", roles)
	}
	for _, e := range entries {
		if e.Category != engine.CategoryWorker || e.ResourceID != w.ID {
			t.Errorf("unexpected snapshot entry: %+v", e)
		}
	}
}

func TestSensorRetention(t *testing.T) {
	s, err := NewSensor("Temp-01", "temperature", "celsius", 3, testLogger())
	if err != nil {
		t.Fatalf("NewSensor failed: %v", err)
	}

	if _, ok := s.Latest(); ok {
		t.Error("Latest() should report no reading for a fresh sensor")
	}

	for _, v := range []float64{20, 21, 22, 23} {
		s.Record(v)
	}
	if got := len(s.Readings()); got != 3 {
		t.Errorf("retained %d readings, want 3", got)
	}
	latest, ok := s.Latest()
	if !ok || latest.Value != 23 {
		t.Errorf("Latest() = (%v, %v), want value 23", latest, ok)
	}
	if got := s.Average(); got != 22 {
		t.Errorf("Average() = %g, want 22", got)
	}
}

func TestSensorThresholds(t *testing.T) {
	s, err := NewSensor("Temp-02", "temperature", "celsius", 10, testLogger())
	if err != nil {
		t.Fatalf("NewSensor failed: %v", err)
	}

	// Unset range and thresholds accept everything silently.
	if !s.InRange(1e9) {
		t.Error("unbounded sensor rejected a reading")
	}
	if s.Alerting(1e9) {
		t.Error("sensor without thresholds alerted")
	}

	s.RangeMin, s.RangeMax = -40, 120
	s.AlertLow, s.AlertHigh = 5, 90

	if s.InRange(150) {
		t.Error("150 reported in a -40..120 range")
	}
	if !s.Alerting(95) || !s.Alerting(2) {
		t.Error("values beyond the alert band did not alert")
	}
	if s.Alerting(20) {
		t.Error("in-band value alerted")
	}

	// Alerting readings are still retained.
	s.Record(95)
	if got := len(s.Readings()); got != 1 {
		t.Errorf("retained %d readings, want 1", got)
	}
}
