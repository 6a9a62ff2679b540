// Package route holds the Route value object: a fixed-cardinality, ordered
// sequence of waypoints from a parcel's origin to its destination together
// with the total travel distance.
//
// The package includes:
//   - Route: the immutable waypoint sequence with accessors used by reconciliation
//   - Sample: uniform stride down-sampling of a provider path to N points
//   - Interpolate: straight-line fallback route between two locations
//   - MarshalWaypoints / UnmarshalWaypoints: the lossless JSON storage format
//
// Key rules:
//   - A route has at least two waypoints
//   - Index 0 is the origin and index N-1 is the destination
//   - A route never changes after it is built
package route
