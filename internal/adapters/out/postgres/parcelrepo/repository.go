package parcelrepo

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormParcelRepository implements ports.ParcelRepository using GORM.
type GormParcelRepository struct {
	db *gorm.DB
}

// NewGormParcelRepository creates a new GORM parcel repository.
func NewGormParcelRepository(db *gorm.DB) *GormParcelRepository {
	return &GormParcelRepository{db: db}
}

// Add saves a new parcel to the database.
func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes the progress fields of a parcel, guarded by the previously
// stored index and status. Route, receiver and creation data are never rewritten.
func (r *GormParcelRepository) Update(
	ctx context.Context,
	aggregate *parcel.Parcel,
	expectedIndex int,
	expectedStatus parcel.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ParcelDTO{}).
		Where("tracking_code = ? AND progress_index = ? AND status = ?",
			dto.TrackingCode, expectedIndex, expectedStatus.String()).
		Updates(map[string]any{
			"progress_index":         dto.ProgressIndex,
			"status":                 dto.Status,
			"current_lat":            dto.CurrentLat,
			"current_lng":            dto.CurrentLng,
			"current_location_label": dto.CurrentLocationLabel,
			"last_updated":           dto.LastUpdated,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err = r.db.WithContext(ctx).Model(&ParcelDTO{}).
			Where("tracking_code = ?", dto.TrackingCode).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("trackingCode", dto.TrackingCode)
		}
		return ports.ErrConcurrentUpdate
	}

	return nil
}

// Get retrieves a parcel by tracking code.
func (r *GormParcelRepository) Get(ctx context.Context, trackingCode string) (*parcel.Parcel, error) {
	var dto ParcelDTO
	if err := r.db.WithContext(ctx).First(&dto, "tracking_code = ?", trackingCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trackingCode", trackingCode)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListActive retrieves every parcel that is not delivered and has a route,
// oldest first.
func (r *GormParcelRepository) ListActive(ctx context.Context) ([]*parcel.Parcel, error) {
	var dtos []ParcelDTO
	if err := r.db.WithContext(ctx).
		Where("status <> ? AND route IS NOT NULL", parcel.Delivered.String()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	parcels := make([]*parcel.Parcel, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, p)
	}

	return parcels, nil
}
