package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/parcel"
)

// TrackingEventRepository stores the append-only event history of parcels.
type TrackingEventRepository interface {
	// Append stores a new event. Events are never updated or deleted.
	Append(ctx context.Context, event *parcel.TrackingEvent) error

	// ListByTrackingCode returns the events of one parcel ordered by timestamp.
	ListByTrackingCode(ctx context.Context, trackingCode string) ([]*parcel.TrackingEvent, error)
}
