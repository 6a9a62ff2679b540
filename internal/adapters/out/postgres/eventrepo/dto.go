// Package eventrepo persists the append-only tracking event history of parcels.
package eventrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// TrackingEventDTO represents one row of the tracking_events table.
type TrackingEventDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackingCode  string    `gorm:"size:64;not null;index:idx_tracking_events_code_time,priority:1"`
	OccurredAt    time.Time `gorm:"not null;index:idx_tracking_events_code_time,priority:2"`
	Type          string    `gorm:"size:32;not null"`
	Description   string
	LocationLabel string
	Lat           *float64
	Lng           *float64
}

// TableName specifies the database table name for tracking events.
func (TrackingEventDTO) TableName() string {
	return "tracking_events"
}

func fromDomain(e *parcel.TrackingEvent) TrackingEventDTO {
	dto := TrackingEventDTO{
		ID:            e.ID().Bytes(),
		TrackingCode:  e.TrackingCode(),
		OccurredAt:    e.Timestamp(),
		Type:          e.Type().String(),
		Description:   e.Description(),
		LocationLabel: e.LocationLabel(),
	}

	if loc, ok := e.Location(); ok {
		lat, lng := loc.Lat(), loc.Lng()
		dto.Lat = &lat
		dto.Lng = &lng
	}

	return dto
}

func toDomain(dto TrackingEventDTO) (*parcel.TrackingEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.Lat != nil && dto.Lng != nil {
		loc, locErr := kernel.NewLocation(*dto.Lat, *dto.Lng)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	return parcel.RestoreTrackingEvent(
		id,
		dto.TrackingCode,
		dto.OccurredAt,
		parcel.EventType(dto.Type),
		dto.Description,
		dto.LocationLabel,
		location,
	)
}
