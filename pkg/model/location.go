package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openmfg/openmfg/pkg/engine"
)

// Location is a place in or around the facility where resources,
// parts and workers are present. A location aggregates its contents
// into the resource snapshot the requirement checker runs against.
type Location struct {
	// ID is the unique identifier.
	ID string

	// Name is the location's display name.
	Name string

	// Type classifies the location as internal or external.
	Type LocationType

	// CreationDate is when the location was created.
	CreationDate time.Time

	georeference []float64
	sources      []SnapshotSource
	routes       []*Route
	sensors      []*Sensor
	lastModified time.Time
	log          zerolog.Logger
}

// NewLocation creates a location.
func NewLocation(name string, locationType LocationType, georeference []float64, log zerolog.Logger) (*Location, error) {
	if name == "" {
		return nil, fmt.Errorf("location name is required")
	}
	if err := locationType.Validate(); err != nil {
		return nil, err
	}
	if err := validateGeoreference(georeference); err != nil {
		return nil, err
	}
	now := time.Now()
	l := &Location{
		ID:           uuid.New().String(),
		Name:         name,
		Type:         locationType,
		CreationDate: now,
		georeference: append([]float64(nil), georeference...),
		lastModified: now,
		log:          log,
	}
	l.log.Info().Str("location_id", l.ID).Str("name", name).Msg("created location")
	return l, nil
}

// Georeference returns a copy of the position coordinates.
func (l *Location) Georeference() []float64 {
	return append([]float64(nil), l.georeference...)
}

// Add places a snapshot source (equipment, part, worker) at the
// location.
func (l *Location) Add(s SnapshotSource) {
	l.sources = append(l.sources, s)
	l.touch()
}

// Remove takes a snapshot source away from the location. Identity is
// by the ResourceID of the source's first snapshot entry.
func (l *Location) Remove(resourceID string) bool {
	for i, s := range l.sources {
		entries := s.SnapshotEntries()
		if len(entries) > 0 && entries[0].ResourceID == resourceID {
			l.sources = append(l.sources[:i], l.sources[i+1:]...)
			l.touch()
			return true
		}
	}
	return false
}

// Contents returns a copy of the snapshot sources present.
func (l *Location) Contents() []SnapshotSource {
	return append([]SnapshotSource(nil), l.sources...)
}

// Snapshot produces the point-in-time resource view of the location,
// concatenating every source's entries in placement order.
func (l *Location) Snapshot() engine.Snapshot {
	var snap engine.Snapshot
	for _, s := range l.sources {
		snap = append(snap, s.SnapshotEntries()...)
	}
	return snap
}

// Routes returns a copy of the routes touching this location.
func (l *Location) Routes() []*Route {
	return append([]*Route(nil), l.routes...)
}

// AddRoute registers a route touching this location.
func (l *Location) AddRoute(r *Route) error {
	if r.OriginID != l.ID && r.DestinationID != l.ID {
		return fmt.Errorf("route %s does not touch location %s", r.Name, l.Name)
	}
	l.routes = append(l.routes, r)
	l.touch()
	return nil
}

// RouteTo returns a registered route reaching the given location, or
// nil.
func (l *Location) RouteTo(destinationID string) *Route {
	for _, r := range l.routes {
		if r.Connects(l.ID, destinationID) {
			return r
		}
	}
	return nil
}

// Sensors returns a copy of the sensors attached to the location.
func (l *Location) Sensors() []*Sensor {
	return append([]*Sensor(nil), l.sensors...)
}

// AddSensor attaches a sensor.
func (l *Location) AddSensor(s *Sensor) {
	l.sensors = append(l.sensors, s)
	l.touch()
}

// LastModified returns the timestamp of the last mutation.
func (l *Location) LastModified() time.Time {
	return l.lastModified
}

func (l *Location) touch() {
	l.lastModified = time.Now()
}

// Storage is a location dedicated to holding parts, with a volume
// capacity.
type Storage struct {
	Location

	// StorageType classifies the storage area.
	StorageType StorageType

	// MaxCapacity is the total storage volume. Zero means unbounded.
	MaxCapacity float64

	items map[string]*Part
}

// NewStorage creates a storage location.
func NewStorage(name string, storageType StorageType, maxCapacity float64, georeference []float64, log zerolog.Logger) (*Storage, error) {
	loc, err := NewLocation(name, LocationInternal, georeference, log)
	if err != nil {
		return nil, err
	}
	if err := storageType.Validate(); err != nil {
		return nil, err
	}
	if maxCapacity < 0 {
		return nil, fmt.Errorf("storage capacity cannot be negative")
	}
	s := &Storage{
		Location:    *loc,
		StorageType: storageType,
		MaxCapacity: maxCapacity,
		items:       make(map[string]*Part),
	}
	s.log.Info().Str("storage_id", s.ID).Str("storage_type", string(storageType)).Msg("created storage")
	return s, nil
}

// Store places a part in storage. Storing fails when the part's
// volume would exceed the capacity.
func (s *Storage) Store(p *Part) error {
	if _, ok := s.items[p.ID]; ok {
		return fmt.Errorf("part %s already stored in %s", p.Name, s.Name)
	}
	if s.MaxCapacity > 0 && s.UsedCapacity()+p.TotalVolume() > s.MaxCapacity {
		return fmt.Errorf("storing %s exceeds capacity of %s", p.Name, s.Name)
	}
	s.items[p.ID] = p
	s.Add(p)
	return nil
}

// Retrieve removes a part from storage and returns it.
func (s *Storage) Retrieve(partID string) (*Part, error) {
	p, ok := s.items[partID]
	if !ok {
		return nil, fmt.Errorf("part %s not stored in %s", partID, s.Name)
	}
	delete(s.items, partID)
	s.Remove(partID)
	return p, nil
}

// Item returns a stored part by ID.
func (s *Storage) Item(partID string) (*Part, bool) {
	p, ok := s.items[partID]
	return p, ok
}

// Items returns a copy of the stored parts, keyed by part ID.
func (s *Storage) Items() map[string]*Part {
	out := make(map[string]*Part, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}

// UsedCapacity returns the summed volume of the stored parts.
func (s *Storage) UsedCapacity() float64 {
	var total float64
	for _, p := range s.items {
		total += p.TotalVolume()
	}
	return total
}

// AvailableCapacity returns the free volume, or 0 for unbounded
// storage.
func (s *Storage) AvailableCapacity() float64 {
	if s.MaxCapacity == 0 {
		return 0
	}
	return s.MaxCapacity - s.UsedCapacity()
}

// Utilization returns the used fraction of the capacity as a
// percentage, or 0 for unbounded storage.
func (s *Storage) Utilization() float64 {
	if s.MaxCapacity == 0 {
		return 0
	}
	return s.UsedCapacity() / s.MaxCapacity * 100
}
