package route

import (
	"errors"
	"fmt"
	"math"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

const (
	// DefaultWaypointCount is the number of waypoints a newly built route carries.
	DefaultWaypointCount = 100

	// MinWaypointCount is the smallest route that still has an origin and a destination.
	MinWaypointCount = 2
)

var (
	// ErrRouteIsNotConstructed is returned when a Route was not created through NewRoute.
	ErrRouteIsNotConstructed = errors.New("route must be created via NewRoute constructor")
)

// Route is an ordered, immutable sequence of waypoints plus the total distance
// in meters. The parcel owns its route and reconciliation only reads it.
type Route struct {
	waypoints           []kernel.Location
	totalDistanceMeters float64
	isConstructed       bool
}

// NewRoute validates the waypoints and distance and returns a Route holding its
// own copy of the waypoint slice.
//
// Parameters:
//   - waypoints: at least MinWaypointCount constructed locations, origin first
//   - totalDistanceMeters: non-negative, finite distance
//
// Returns:
//   - *Route: the route if every check passes
//   - error: joined validation errors otherwise
func NewRoute(waypoints []kernel.Location, totalDistanceMeters float64) (*Route, error) {
	r := &Route{
		isConstructed: true,
	}

	if err := errors.Join(
		r.setWaypoints(waypoints),
		r.setTotalDistance(totalDistanceMeters),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate ensures the route was built through NewRoute.
func (r *Route) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRouteIsNotConstructed
	}

	return nil
}

// Len returns the number of waypoints N.
func (r *Route) Len() int {
	return len(r.waypoints)
}

// LastIndex returns N-1, the index of the destination.
func (r *Route) LastIndex() int {
	return len(r.waypoints) - 1
}

// Waypoint returns the waypoint at index i.
func (r *Route) Waypoint(i int) (kernel.Location, error) {
	if i < 0 || i > r.LastIndex() {
		return kernel.Location{}, errs.NewValueIsOutOfRangeError("waypoint index", i, 0, r.LastIndex())
	}

	return r.waypoints[i], nil
}

// Waypoints returns a copy of the ordered waypoint sequence.
func (r *Route) Waypoints() []kernel.Location {
	out := make([]kernel.Location, len(r.waypoints))
	copy(out, r.waypoints)
	return out
}

// Origin returns the first waypoint.
func (r *Route) Origin() kernel.Location {
	return r.waypoints[0]
}

// Destination returns the last waypoint.
func (r *Route) Destination() kernel.Location {
	return r.waypoints[r.LastIndex()]
}

// TotalDistanceMeters returns the distance recorded when the route was built.
func (r *Route) TotalDistanceMeters() float64 {
	return r.totalDistanceMeters
}

func (r *Route) setWaypoints(waypoints []kernel.Location) error {
	if len(waypoints) < MinWaypointCount {
		return errs.NewValueIsInvalidErrorWithCause(
			"waypoints",
			fmt.Errorf("%d waypoints given, at least %d required", len(waypoints), MinWaypointCount),
		)
	}

	for i, wp := range waypoints {
		if err := wp.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("waypoint %d", i), err)
		}
	}

	r.waypoints = make([]kernel.Location, len(waypoints))
	copy(r.waypoints, waypoints)
	return nil
}

func (r *Route) setTotalDistance(meters float64) error {
	if meters < 0 || math.IsNaN(meters) || math.IsInf(meters, 0) {
		return errs.NewValueIsInvalidErrorWithCause(
			"total distance",
			fmt.Errorf("%v is not a non-negative finite number of meters", meters),
		)
	}

	r.totalDistanceMeters = meters
	return nil
}
