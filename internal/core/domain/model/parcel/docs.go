// Package parcel provides the Parcel aggregate and its delivery state machine.
//
// The package includes:
//   - Parcel: the aggregate root holding route, progress and delivery status
//   - Status: pending -> in_transit -> out_for_delivery -> delivered
//   - TargetIndex: the elapsed-time to waypoint-index mapping
//   - TrackingEvent: the immutable, append-only history of a parcel
//
// Key business rules:
//   - The progress index depends only on elapsed time since creation, is clamped
//     to the route, and never decreases
//   - Status only moves forward; delivered is terminal
//   - Every change of index or status produces exactly one tracking event
//   - Nothing changes when the parcel is already where it should be
package parcel
