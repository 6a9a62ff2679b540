package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/parcel"
)

// EventPublisher announces tracking events to downstream consumers such as the
// receiver notification service. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event *parcel.TrackingEvent) error
}
