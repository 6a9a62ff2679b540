// Package parcelrepo provides data transfer objects and mapping functions for parcel persistence.
// This package implements the repository pattern for the parcel aggregate, handling
// the conversion between domain entities and database representations.
package parcelrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/route"
)

// ParcelDTO represents the database structure for persisting parcel aggregates.
// The route is stored as a JSON array of {"lat","lng"} objects in a text column.
type ParcelDTO struct {
	TrackingCode         string    `gorm:"primaryKey;size:64"`
	ReceiverName         string    `gorm:"not null"`
	CreatedAt            time.Time `gorm:"not null"`
	DaysToDeliver        int       `gorm:"not null"`
	Route                *string   `gorm:"type:text"`
	RouteDistanceMeters  *float64
	ProgressIndex        int    `gorm:"not null"`
	Status               string `gorm:"size:32;not null;index"`
	CurrentLat           *float64
	CurrentLng           *float64
	CurrentLocationLabel string
	LastUpdated          time.Time
}

// TableName specifies the database table name for parcel entities.
func (ParcelDTO) TableName() string {
	return "parcels"
}

// fromDomain converts a parcel aggregate to its database representation.
func fromDomain(p *parcel.Parcel) (ParcelDTO, error) {
	dto := ParcelDTO{
		TrackingCode:         p.TrackingCode(),
		ReceiverName:         p.ReceiverName(),
		CreatedAt:            p.CreatedAt(),
		DaysToDeliver:        p.DaysToDeliver(),
		ProgressIndex:        p.ProgressIndex(),
		Status:               p.Status().String(),
		CurrentLocationLabel: p.CurrentLocationLabel(),
		LastUpdated:          p.LastUpdated(),
	}

	if r := p.Route(); r != nil {
		data, err := route.MarshalWaypoints(r.Waypoints())
		if err != nil {
			return ParcelDTO{}, err
		}
		encoded := string(data)
		distance := r.TotalDistanceMeters()
		dto.Route = &encoded
		dto.RouteDistanceMeters = &distance
	}

	if pos, ok := p.CurrentPosition(); ok {
		lat, lng := pos.Lat(), pos.Lng()
		dto.CurrentLat = &lat
		dto.CurrentLng = &lng
	}

	return dto, nil
}

// toDomain converts a database DTO back to a parcel aggregate using RestoreParcel.
func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	status, err := parcel.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var r *route.Route
	if dto.Route != nil {
		waypoints, wpErr := route.UnmarshalWaypoints([]byte(*dto.Route))
		if wpErr != nil {
			return nil, wpErr
		}

		var distance float64
		if dto.RouteDistanceMeters != nil {
			distance = *dto.RouteDistanceMeters
		}

		if r, err = route.NewRoute(waypoints, distance); err != nil {
			return nil, err
		}
	}

	var position *kernel.Location
	if dto.CurrentLat != nil && dto.CurrentLng != nil {
		loc, locErr := kernel.NewLocation(*dto.CurrentLat, *dto.CurrentLng)
		if locErr != nil {
			return nil, locErr
		}
		position = &loc
	}

	return parcel.RestoreParcel(parcel.Snapshot{
		TrackingCode:         dto.TrackingCode,
		ReceiverName:         dto.ReceiverName,
		CreatedAt:            dto.CreatedAt,
		DaysToDeliver:        dto.DaysToDeliver,
		Route:                r,
		ProgressIndex:        dto.ProgressIndex,
		Status:               status,
		CurrentPosition:      position,
		CurrentLocationLabel: dto.CurrentLocationLabel,
		LastUpdated:          dto.LastUpdated,
	})
}
