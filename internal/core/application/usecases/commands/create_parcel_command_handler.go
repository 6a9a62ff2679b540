package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/route"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
)

// RouteBuilder builds the route of a new parcel. Implemented by services.RouteBuilder.
type RouteBuilder interface {
	Build(ctx context.Context, origin, destination kernel.Location) (services.BuiltRoute, error)
}

// CreateParcelCommandHandler geocodes both addresses, builds the route and
// stores the new parcel with its "created" event.
//
// When either address cannot be geocoded the parcel is still created, without
// a route; it is then never picked up by reconciliation.
//
// Example:
//
//	handler := NewCreateParcelCommandHandler(uowFactory, geocoder, builder, publisher, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("parcel creation failed: %w", err)
//	}
type CreateParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
	geocoder   ports.Geocoder
	builder    RouteBuilder
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCreateParcelCommandHandler creates a handler for parcel creation.
// publisher may be nil.
func NewCreateParcelCommandHandler(
	uowFactory ParcelUoWFactory,
	geocoder ports.Geocoder,
	builder RouteBuilder,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CreateParcelCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return CreateParcelCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		builder:    builder,
		publisher:  publisher,
		logger:     logger.With("component", "create_parcel"),
	}
}

// Handle processes the creation command.
func (h *CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	r, err := h.planRoute(ctx, cmd)
	if err != nil {
		return err
	}

	p, err := parcel.NewParcel(
		cmd.TrackingCode(),
		cmd.ReceiverName(),
		cmd.DaysToDeliver(),
		r,
		cmd.OriginAddress(),
		cmd.CreatedAt(),
	)
	if err != nil {
		return err
	}

	var origin *kernel.Location
	if pos, ok := p.CurrentPosition(); ok {
		origin = &pos
	}

	event, err := parcel.NewCreatedEvent(p.TrackingCode(), cmd.OriginAddress(), origin, cmd.CreatedAt())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ParcelRepository().Add(ctx, p); err != nil {
		return err
	}

	if err = uow.TrackingEventRepository().Append(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if h.publisher != nil {
		if pubErr := h.publisher.Publish(ctx, event); pubErr != nil {
			h.logger.WarnContext(ctx, "failed to publish tracking event",
				"tracking_code", p.TrackingCode(),
				"error", pubErr,
			)
		}
	}

	return nil
}

// planRoute returns nil without error when geocoding fails.
func (h *CreateParcelCommandHandler) planRoute(ctx context.Context, cmd CreateParcelCommand) (*route.Route, error) {
	origin, originErr := h.geocoder.Geocode(ctx, cmd.OriginAddress())
	destination, destErr := h.geocoder.Geocode(ctx, cmd.DestinationAddress())
	if err := errors.Join(originErr, destErr); err != nil {
		h.logger.WarnContext(ctx, "geocoding failed, parcel will have no route",
			"tracking_code", cmd.TrackingCode(),
			"error", err,
		)
		return nil, nil //nolint:nilnil // a parcel without route is valid
	}

	built, err := h.builder.Build(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("build route: %w", err)
	}

	h.logger.InfoContext(ctx, "route built",
		"tracking_code", cmd.TrackingCode(),
		"strategy", built.Strategy,
		"waypoints", built.Route.Len(),
		"distance_m", built.Route.TotalDistanceMeters(),
	)

	return built.Route, nil
}
