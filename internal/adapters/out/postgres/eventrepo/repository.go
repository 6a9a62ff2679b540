package eventrepo

import (
	"context"

	"parceltrack/internal/core/domain/model/parcel"

	"gorm.io/gorm"
)

// GormTrackingEventRepository implements ports.TrackingEventRepository using GORM.
type GormTrackingEventRepository struct {
	db *gorm.DB
}

// NewGormTrackingEventRepository creates a new GORM tracking event repository.
func NewGormTrackingEventRepository(db *gorm.DB) *GormTrackingEventRepository {
	return &GormTrackingEventRepository{db: db}
}

// Append inserts the event. Existing events are never touched.
func (r *GormTrackingEventRepository) Append(ctx context.Context, event *parcel.TrackingEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByTrackingCode returns the history of one parcel, oldest first.
func (r *GormTrackingEventRepository) ListByTrackingCode(
	ctx context.Context,
	trackingCode string,
) ([]*parcel.TrackingEvent, error) {
	var dtos []TrackingEventDTO
	if err := r.db.WithContext(ctx).
		Where("tracking_code = ?", trackingCode).
		Order("occurred_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]*parcel.TrackingEvent, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, nil
}
