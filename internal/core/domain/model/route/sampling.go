package route

import (
	"fmt"
	"math"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// Sample reduces a provider path to exactly n waypoints.
//
// Points are picked with a uniform stride of floor(len/n), i.e. indices
// 0, stride, 2*stride, ... When the path is shorter than n the stride would be
// zero, so indices are spread proportionally with round(i*(len-1)/(n-1)) and
// some points repeat. The final sample is always the given destination, which
// keeps the route ending exactly where the parcel is going even when striding
// or the provider's road snapping stopped short of it.
//
// A path with fewer than two points is not a usable route.
func Sample(points []kernel.Location, n int, destination kernel.Location) ([]kernel.Location, error) {
	if n < MinWaypointCount {
		return nil, errs.NewValueIsOutOfRangeError("waypoint count", n, MinWaypointCount, math.MaxInt)
	}
	if len(points) < MinWaypointCount {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"path",
			fmt.Errorf("%d points is a degenerate path", len(points)),
		)
	}
	if err := destination.Validate(); err != nil {
		return nil, err
	}

	out := make([]kernel.Location, n)
	stride := len(points) / n

	for i := range n - 1 {
		var idx int
		if stride > 0 {
			idx = i * stride
		} else {
			idx = int(math.Round(float64(i) * float64(len(points)-1) / float64(n-1)))
		}
		out[i] = points[idx]
	}
	out[n-1] = destination

	return out, nil
}

// Interpolate builds a straight-line route of n points between origin and
// destination. Point i sits at t = i/(n-1) with latitude and longitude
// interpolated independently, so the first point is origin and the last is
// destination exactly. The distance is the haversine distance between the
// endpoints.
func Interpolate(origin, destination kernel.Location, n int) (*Route, error) {
	if n < MinWaypointCount {
		return nil, errs.NewValueIsOutOfRangeError("waypoint count", n, MinWaypointCount, math.MaxInt)
	}

	distance, err := origin.DistanceTo(destination)
	if err != nil {
		return nil, err
	}

	waypoints := make([]kernel.Location, n)
	for i := range n {
		wp, err := origin.Lerp(destination, float64(i)/float64(n-1))
		if err != nil {
			return nil, err
		}
		waypoints[i] = wp
	}

	return NewRoute(waypoints, distance)
}
