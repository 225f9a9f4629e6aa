package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Route is a travel path between two locations, described by an
// ordered list of [x, y] waypoints.
type Route struct {
	// ID is the unique identifier.
	ID string

	// Name is the route's display name.
	Name string

	// OriginID is the starting location.
	OriginID string

	// DestinationID is the ending location.
	DestinationID string

	// CreationDate is when the route was created.
	CreationDate time.Time

	waypoints     [][2]float64
	bidirectional bool
	log           zerolog.Logger
}

// NewRoute creates a route through the given waypoints.
func NewRoute(name, originID, destinationID string, waypoints [][2]float64, bidirectional bool, log zerolog.Logger) (*Route, error) {
	if name == "" {
		return nil, fmt.Errorf("route name is required")
	}
	if originID == "" || destinationID == "" {
		return nil, fmt.Errorf("route origin and destination are required")
	}
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("route needs at least two waypoints")
	}
	r := &Route{
		ID:            uuid.New().String(),
		Name:          name,
		OriginID:      originID,
		DestinationID: destinationID,
		CreationDate:  time.Now(),
		waypoints:     append([][2]float64(nil), waypoints...),
		bidirectional: bidirectional,
		log:           log,
	}
	r.log.Info().Str("route_id", r.ID).Str("name", name).Float64("length", r.Length()).Msg("created route")
	return r, nil
}

// Waypoints returns a copy of the waypoint list.
func (r *Route) Waypoints() [][2]float64 {
	return append([][2]float64(nil), r.waypoints...)
}

// Bidirectional reports whether the route can be traveled both ways.
func (r *Route) Bidirectional() bool {
	return r.bidirectional
}

// Connects reports whether the route links the two locations,
// honoring directionality.
func (r *Route) Connects(fromID, toID string) bool {
	if r.OriginID == fromID && r.DestinationID == toID {
		return true
	}
	return r.bidirectional && r.OriginID == toID && r.DestinationID == fromID
}

// Length returns the summed segment lengths of the waypoint polyline.
func (r *Route) Length() float64 {
	var total float64
	for i := 1; i < len(r.waypoints); i++ {
		dx := r.waypoints[i][0] - r.waypoints[i-1][0]
		dy := r.waypoints[i][1] - r.waypoints[i-1][1]
		total += math.Hypot(dx, dy)
	}
	return total
}
