// Package ports defines the contracts between the parcel tracking core and its
// infrastructure: storage, geocoding and routing providers, and event publishing.
// Adapters implement them; use cases depend only on these interfaces.
package ports

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/parcel"
)

// ErrConcurrentUpdate is returned by ParcelRepository.Update when the stored
// progress no longer matches what the caller read, i.e. another writer got there first.
var ErrConcurrentUpdate = errors.New("parcel was modified concurrently")

// ParcelRepository defines the persistence contract for parcel aggregates,
// including their route.
type ParcelRepository interface {
	// Add persists a new parcel aggregate to storage.
	// The parcel must be valid and its tracking code must not exist yet.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update persists position, label, progress index, status and last update time.
	// The write only happens if the stored progress index and status still equal
	// expectedIndex and expectedStatus; otherwise ErrConcurrentUpdate is returned.
	Update(ctx context.Context, aggregate *parcel.Parcel, expectedIndex int, expectedStatus parcel.Status) error

	// Get retrieves a parcel by tracking code.
	// Returns errs.ObjectNotFoundError when the code is unknown.
	Get(ctx context.Context, trackingCode string) (*parcel.Parcel, error)

	// ListActive returns every parcel that is not delivered and has a route.
	// These are the reconciliation candidates.
	ListActive(ctx context.Context) ([]*parcel.Parcel, error)
}
