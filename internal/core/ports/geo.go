package ports

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
)

var (
	// ErrProviderUnavailable wraps transport failures, timeouts and unexpected
	// responses of an external geo provider. Callers degrade instead of failing.
	ErrProviderUnavailable = errors.New("geo provider unavailable")

	// ErrNoRoute means the provider answered but has no feasible path,
	// e.g. no road connection between the two points.
	ErrNoRoute = errors.New("no route between locations")

	// ErrAddressNotFound means geocoding or reverse geocoding found nothing.
	ErrAddressNotFound = errors.New("address not found")
)

// Geocoder resolves free-text addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.Location, error)
}

// ReverseGeocoder resolves coordinates to a human readable place label.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, location kernel.Location) (string, error)
}

// ProviderPath is a routing provider's native path, usually far more detailed
// than a stored route.
type ProviderPath struct {
	Points         []kernel.Location
	DistanceMeters float64
}

// RoutingProvider computes travel paths between two points.
type RoutingProvider interface {
	Directions(ctx context.Context, origin, destination kernel.Location) (ProviderPath, error)
}
