package parcel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// EventType classifies a tracking event.
type EventType string

const (
	EventCreated        EventType = "created"
	EventLocationUpdate EventType = "location_update"
	EventDelivered      EventType = "delivered"
)

// ParseEventType validates a persisted event type.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventCreated, EventLocationUpdate, EventDelivered:
		return t, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("event type", fmt.Errorf("%q is not a valid event type", s))
	}
}

func (t EventType) String() string {
	return string(t)
}

var (
	// ErrTrackingEventIsNotConstructed is returned for a TrackingEvent built outside its constructors.
	ErrTrackingEventIsNotConstructed = errors.New("TrackingEvent must be created via a constructor")
)

// TrackingEvent is one immutable entry of a parcel's history. Events are only
// ever appended, never changed or removed.
type TrackingEvent struct {
	id            kernel.UUID
	trackingCode  string
	timestamp     time.Time
	eventType     EventType
	description   string
	locationLabel string
	location      *kernel.Location

	isConstructed bool
}

// NewCreatedEvent records the creation of a parcel. location may be nil when the
// origin could not be geocoded.
func NewCreatedEvent(
	trackingCode string,
	originLabel string,
	location *kernel.Location,
	at time.Time,
) (*TrackingEvent, error) {
	return newTrackingEvent(kernel.NewUUID(), trackingCode, at, EventCreated, "Shipment created", originLabel, location)
}

// RestoreTrackingEvent rebuilds an event read from storage.
func RestoreTrackingEvent(
	id kernel.UUID,
	trackingCode string,
	timestamp time.Time,
	eventType EventType,
	description string,
	locationLabel string,
	location *kernel.Location,
) (*TrackingEvent, error) {
	if _, err := ParseEventType(string(eventType)); err != nil {
		return nil, err
	}
	return newTrackingEvent(id, trackingCode, timestamp, eventType, description, locationLabel, location)
}

func newTrackingEvent(
	id kernel.UUID,
	trackingCode string,
	timestamp time.Time,
	eventType EventType,
	description string,
	locationLabel string,
	location *kernel.Location,
) (*TrackingEvent, error) {
	var locErr error
	if location != nil {
		locErr = location.Validate()
	}

	var codeErr error
	if strings.TrimSpace(trackingCode) == "" {
		codeErr = errs.NewValueIsRequiredError("trackingCode")
	}

	var tsErr error
	if timestamp.IsZero() {
		tsErr = errs.NewValueIsRequiredError("timestamp")
	}

	if err := errors.Join(id.Validate(), codeErr, tsErr, locErr); err != nil {
		return nil, err
	}

	var loc *kernel.Location
	if location != nil {
		l := *location
		loc = &l
	}

	return &TrackingEvent{
		id:            id,
		trackingCode:  trackingCode,
		timestamp:     timestamp,
		eventType:     eventType,
		description:   description,
		locationLabel: locationLabel,
		location:      loc,
		isConstructed: true,
	}, nil
}

// Validate ensures the event was built through a constructor.
func (e *TrackingEvent) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrTrackingEventIsNotConstructed
	}
	return nil
}

func (e *TrackingEvent) ID() kernel.UUID {
	return e.id
}

func (e *TrackingEvent) TrackingCode() string {
	return e.trackingCode
}

func (e *TrackingEvent) Timestamp() time.Time {
	return e.timestamp
}

func (e *TrackingEvent) Type() EventType {
	return e.eventType
}

func (e *TrackingEvent) Description() string {
	return e.description
}

func (e *TrackingEvent) LocationLabel() string {
	return e.locationLabel
}

// Location returns the position the event was recorded at, if known.
func (e *TrackingEvent) Location() (kernel.Location, bool) {
	if e.location == nil {
		return kernel.Location{}, false
	}
	return *e.location, true
}
