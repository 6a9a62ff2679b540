package queries

import (
	"errors"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrGetParcelTrackingQueryIsNotConstructed = errors.New(
		"GetParcelTrackingQuery must be created via NewGetParcelTrackingQuery constructor",
	)
)

// GetParcelTrackingQuery retrieves the current state of one parcel together with
// its tracking history.
//
// Example:
//
//	query, err := NewGetParcelTrackingQuery("PT-7F3A2C1B")
//	if err != nil {
//	    return err
//	}
//	tracking, err := handler.Handle(ctx, query)
type GetParcelTrackingQuery struct {
	trackingCode string

	guard guard.ConstructorGuard
}

// NewGetParcelTrackingQuery creates a query for the given tracking code.
// Surrounding whitespace is ignored; a blank code is rejected.
func NewGetParcelTrackingQuery(trackingCode string) (GetParcelTrackingQuery, error) {
	trackingCode = strings.TrimSpace(trackingCode)
	if trackingCode == "" {
		return GetParcelTrackingQuery{}, errs.NewValueIsRequiredError("trackingCode")
	}

	return GetParcelTrackingQuery{
		trackingCode: trackingCode,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// TrackingCode returns the requested tracking code.
func (q GetParcelTrackingQuery) TrackingCode() string {
	return q.trackingCode
}

// Validate ensures the query was created through the constructor.
func (q GetParcelTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelTrackingQueryIsNotConstructed)
}

// GetParcelTrackingQueryResponse is the read model of a parcel.
// Position is nil when the parcel has no route.
type GetParcelTrackingQueryResponse struct {
	TrackingCode      string
	ReceiverName      string
	Status            string
	ProgressIndex     int
	WaypointCount     int
	ProgressPercent   float64
	Position          *kernel.Location
	LocationLabel     string
	CreatedAt         time.Time
	LastUpdated       time.Time
	EstimatedDelivery time.Time
	Events            []TrackingEventResponse
}

// TrackingEventResponse is one entry of the tracking history.
type TrackingEventResponse struct {
	ID            kernel.UUID
	Timestamp     time.Time
	Type          string
	Description   string
	LocationLabel string
	Location      *kernel.Location
}
