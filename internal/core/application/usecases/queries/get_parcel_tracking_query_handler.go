package queries

import (
	"context"
	"database/sql"
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetParcelTrackingQueryHandler reads a parcel and its events straight from the
// database, bypassing the aggregate.
//
// Example:
//
//	handler := NewGetParcelTrackingQueryHandler(db)
//	query, _ := NewGetParcelTrackingQuery("PT-7F3A2C1B")
//
//	tracking, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown tracking code
//	}
//	fmt.Printf("%s: %.0f%% (%s)\n", tracking.Status, tracking.ProgressPercent, tracking.LocationLabel)
type GetParcelTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetParcelTrackingQueryHandler creates a handler for parcel tracking queries.
func NewGetParcelTrackingQueryHandler(db *gorm.DB) GetParcelTrackingQueryHandler {
	return GetParcelTrackingQueryHandler{db: db}
}

// Handle returns the parcel summary and its events ordered by time.
// Returns errs.ObjectNotFoundError when the tracking code is unknown.
func (h GetParcelTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetParcelTrackingQuery,
) (GetParcelTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetParcelTrackingQueryResponse{}, err
	}

	resp, err := h.readParcel(ctx, query.TrackingCode())
	if err != nil {
		return GetParcelTrackingQueryResponse{}, err
	}

	resp.Events, err = h.readEvents(ctx, query.TrackingCode())
	if err != nil {
		return GetParcelTrackingQueryResponse{}, err
	}

	return resp, nil
}

func (h GetParcelTrackingQueryHandler) readParcel(
	ctx context.Context,
	trackingCode string,
) (GetParcelTrackingQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			tracking_code,
			receiver_name,
			status,
			progress_index,
			COALESCE(json_array_length(route::json), 0),
			current_lat,
			current_lng,
			current_location_label,
			created_at,
			last_updated,
			days_to_deliver
		FROM parcels
		WHERE tracking_code = ?
	`, trackingCode).Row()

	var (
		resp          GetParcelTrackingQueryResponse
		lat, lng      sql.NullFloat64
		daysToDeliver int
	)
	err := row.Scan(
		&resp.TrackingCode,
		&resp.ReceiverName,
		&resp.Status,
		&resp.ProgressIndex,
		&resp.WaypointCount,
		&lat,
		&lng,
		&resp.LocationLabel,
		&resp.CreatedAt,
		&resp.LastUpdated,
		&daysToDeliver,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetParcelTrackingQueryResponse{}, errs.NewObjectNotFoundError("trackingCode", trackingCode)
	}
	if err != nil {
		return GetParcelTrackingQueryResponse{}, err
	}

	resp.Position, err = toLocation(lat, lng)
	if err != nil {
		return GetParcelTrackingQueryResponse{}, err
	}

	resp.EstimatedDelivery = parcel.EstimatedDeliveryAt(resp.CreatedAt, daysToDeliver)
	resp.ProgressPercent = parcel.PercentAlong(resp.ProgressIndex, resp.WaypointCount)

	return resp, nil
}

func (h GetParcelTrackingQueryHandler) readEvents(
	ctx context.Context,
	trackingCode string,
) ([]TrackingEventResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			occurred_at,
			type,
			description,
			location_label,
			lat,
			lng
		FROM tracking_events
		WHERE tracking_code = ?
		ORDER BY occurred_at, id
	`, trackingCode).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]TrackingEventResponse, 0)
	for rows.Next() {
		var (
			event    TrackingEventResponse
			id       uuid.UUID
			lat, lng sql.NullFloat64
		)

		if err = rows.Scan(
			&id,
			&event.Timestamp,
			&event.Type,
			&event.Description,
			&event.LocationLabel,
			&lat,
			&lng,
		); err != nil {
			return nil, err
		}

		eventID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		event.ID = eventID

		event.Location, err = toLocation(lat, lng)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func toLocation(lat, lng sql.NullFloat64) (*kernel.Location, error) {
	if !lat.Valid || !lng.Valid {
		return nil, nil
	}
	loc, err := kernel.NewLocation(lat.Float64, lng.Float64)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
