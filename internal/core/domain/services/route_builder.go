package services

import (
	"context"
	"errors"
	"log/slog"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/route"
	"parceltrack/internal/pkg/errs"
)

// BuiltRoute is the outcome of RouteBuilder.Build.
type BuiltRoute struct {
	Route *route.Route

	// Strategy is the Name of the strategy that produced Route.
	Strategy string
}

// RouteBuilder produces a route between two locations by trying its strategies
// in order and stopping at the first success.
//
// Business rules:
//   - Every route has exactly the configured number of waypoints
//   - The first waypoint is the origin and the last is the destination
//   - Interpolation is always the final strategy, so valid endpoints always
//     yield a route
//
// Example usage:
//
//	builder, _ := services.NewRouteBuilder(logger, route.DefaultWaypointCount,
//	    services.NewExternalRouteStrategy(orsClient),
//	)
//	built, err := builder.Build(ctx, origin, destination)
//	// built.Strategy is "external" or "interpolate"
type RouteBuilder struct {
	strategies    []RouteStrategy
	waypointCount int
	logger        *slog.Logger
}

// NewRouteBuilder creates a builder with the given strategies. An
// InterpolationStrategy is appended unless the list already ends with one.
//
// Parameters:
//   - logger: receives one warning per failed strategy
//   - waypointCount: N, at least route.MinWaypointCount
//   - strategies: tried in order
func NewRouteBuilder(logger *slog.Logger, waypointCount int, strategies ...RouteStrategy) (*RouteBuilder, error) {
	if waypointCount < route.MinWaypointCount {
		return nil, errs.NewValueIsOutOfRangeError("waypointCount", waypointCount, route.MinWaypointCount, "unbounded")
	}
	if logger == nil {
		logger = slog.Default()
	}

	list := make([]RouteStrategy, 0, len(strategies)+1)
	for _, s := range strategies {
		if s != nil {
			list = append(list, s)
		}
	}
	if len(list) == 0 || !isInterpolation(list[len(list)-1]) {
		list = append(list, NewInterpolationStrategy())
	}

	return &RouteBuilder{
		strategies:    list,
		waypointCount: waypointCount,
		logger:        logger.With("component", "route_builder"),
	}, nil
}

// WaypointCount returns N.
func (b *RouteBuilder) WaypointCount() int {
	return b.waypointCount
}

// Build returns the first route any strategy produces. It only returns an
// error when origin or destination is not a constructed location.
func (b *RouteBuilder) Build(ctx context.Context, origin, destination kernel.Location) (BuiltRoute, error) {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return BuiltRoute{}, err
	}

	var failures []error
	for _, s := range b.strategies {
		r, err := s.Plan(ctx, origin, destination, b.waypointCount)
		if err == nil && r != nil {
			return BuiltRoute{Route: r, Strategy: s.Name()}, nil
		}
		if err == nil {
			err = errors.New("strategy returned no route")
		}

		b.logger.WarnContext(ctx, "route strategy failed",
			"strategy", s.Name(),
			"origin", origin.String(),
			"destination", destination.String(),
			"error", err,
		)
		failures = append(failures, err)
	}

	return BuiltRoute{}, errors.Join(failures...)
}

func isInterpolation(s RouteStrategy) bool {
	switch s.(type) {
	case InterpolationStrategy, *InterpolationStrategy:
		return true
	default:
		return false
	}
}
