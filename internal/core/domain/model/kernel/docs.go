// Package kernel provides the value objects shared by every aggregate of the
// parcel tracking domain.
//
// The package includes:
//   - UUID: identifier of tracking events
//   - Location: a validated WGS84 latitude/longitude pair with haversine
//     distance and linear interpolation
//
// Both types are immutable, safe for concurrent use, and reject their zero
// value in Validate so that persistence adapters cannot smuggle unvalidated
// data into the domain.
package kernel
