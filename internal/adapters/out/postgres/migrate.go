package postgres

import (
	"parceltrack/internal/adapters/out/postgres/eventrepo"
	"parceltrack/internal/adapters/out/postgres/parcelrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the parcels and tracking_events tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&parcelrepo.ParcelDTO{}, &eventrepo.TrackingEventDTO{})
}
