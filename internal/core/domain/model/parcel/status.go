package parcel

import (
	"fmt"

	"parceltrack/internal/pkg/errs"
)

// Status represents the delivery state of a parcel.
//
// State transitions:
//
//	Pending ──> InTransit ──> OutForDelivery ──> Delivered
//	   │            │                               ▲
//	   └────────────┴───────────────────────────────┘
//	         (stages may be skipped, never revisited)
//
// The numeric order of the constants is the lifecycle order, so a status
// never compares lower than the one it replaced.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the status of a freshly created parcel.
	Pending

	// InTransit means the parcel has left the origin.
	InTransit

	// OutForDelivery means the parcel is in the last five percent of its route.
	OutForDelivery

	// Delivered is terminal. Delivered parcels are no longer reconciled.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		InTransit:      "in_transit",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
	}
}

func getValidStatuses() map[string]Status {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[string]Status{
		"pending":          Pending,
		"in_transit":       InTransit,
		"out_for_delivery": OutForDelivery,
		"delivered":        Delivered,
	}
}

// ParseStatus converts the persisted lowercase name back into a Status.
func ParseStatus(s string) (Status, error) {
	status, ok := getValidStatuses()[s]
	if !ok {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%q is not a valid status", s),
		)
	}
	return status, nil
}

// Validate checks that s is one of the four lifecycle states.
func (s Status) Validate() error {
	if s < Pending || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, e.g. "out_for_delivery".
// Invalid values render as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// OutForDeliveryThreshold returns ceil(0.95*n), the first waypoint index at
// which a parcel on an n-point route is out for delivery.
func OutForDeliveryThreshold(n int) int {
	return (95*n + 99) / 100
}

// Next derives the status for a parcel that has just moved to newIndex on an
// n-point route. Rules are evaluated in priority order:
//
//  1. newIndex >= n-1 gives Delivered, from any status
//  2. newIndex >= ceil(0.95*n) gives OutForDelivery
//  3. Pending gives InTransit
//  4. otherwise the status is unchanged
//
// Delivered always stays Delivered.
//
// Example:
//
//	parcel.Pending.Next(99, 100)   // Delivered
//	parcel.InTransit.Next(95, 100) // OutForDelivery
//	parcel.InTransit.Next(94, 100) // InTransit
func (s Status) Next(newIndex, n int) Status {
	if s == Delivered {
		return Delivered
	}

	switch {
	case newIndex >= n-1:
		return Delivered
	case newIndex >= OutForDeliveryThreshold(n):
		return OutForDelivery
	case s == Pending:
		return InTransit
	default:
		return s
	}
}
