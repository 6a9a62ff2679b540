package services

import (
	"context"
	"errors"
	"fmt"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/route"
	"parceltrack/internal/core/ports"
)

// RouteStrategy is one way of producing a route. Strategies are tried in order
// by RouteBuilder until one succeeds.
type RouteStrategy interface {
	// Name identifies the strategy in logs and in BuiltRoute.
	Name() string

	// Plan returns a route of exactly n waypoints or an error.
	Plan(ctx context.Context, origin, destination kernel.Location, n int) (*route.Route, error)
}

const (
	ExternalStrategyName    = "external"
	InterpolateStrategyName = "interpolate"
)

// ExternalRouteStrategy asks a routing provider for a road path and
// down-samples it to n waypoints ending exactly at the destination.
type ExternalRouteStrategy struct {
	provider ports.RoutingProvider
}

// NewExternalRouteStrategy creates a strategy backed by provider.
func NewExternalRouteStrategy(provider ports.RoutingProvider) *ExternalRouteStrategy {
	return &ExternalRouteStrategy{provider: provider}
}

func (s *ExternalRouteStrategy) Name() string {
	return ExternalStrategyName
}

// Plan fails with ports.ErrNoRoute for a path of fewer than two points, or one
// collapsed onto a single position while origin and destination differ. The
// provider distance is used when positive, otherwise the haversine distance
// between the endpoints.
func (s *ExternalRouteStrategy) Plan(
	ctx context.Context,
	origin, destination kernel.Location,
	n int,
) (*route.Route, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("%w: no routing provider configured", ports.ErrProviderUnavailable)
	}

	path, err := s.provider.Directions(ctx, origin, destination)
	if err != nil {
		return nil, err
	}
	if len(path.Points) < route.MinWaypointCount {
		return nil, fmt.Errorf("%w: provider returned %d points", ports.ErrNoRoute, len(path.Points))
	}

	samePlace, err := origin.IsEqual(destination)
	if err != nil {
		return nil, err
	}
	if !samePlace && !hasDistinctPoints(path.Points) {
		return nil, fmt.Errorf("%w: provider path collapsed to one position", ports.ErrNoRoute)
	}

	waypoints, err := route.Sample(path.Points, n, destination)
	if err != nil {
		return nil, errors.Join(ports.ErrNoRoute, err)
	}

	distance := path.DistanceMeters
	if distance <= 0 {
		if distance, err = origin.DistanceTo(destination); err != nil {
			return nil, err
		}
	}

	return route.NewRoute(waypoints, distance)
}

// InterpolationStrategy draws a straight line between origin and destination.
// It only fails on invalid input and is the last resort of every RouteBuilder.
type InterpolationStrategy struct{}

// NewInterpolationStrategy creates the fallback strategy.
func NewInterpolationStrategy() InterpolationStrategy {
	return InterpolationStrategy{}
}

func (InterpolationStrategy) Name() string {
	return InterpolateStrategyName
}

func (InterpolationStrategy) Plan(
	_ context.Context,
	origin, destination kernel.Location,
	n int,
) (*route.Route, error) {
	return route.Interpolate(origin, destination, n)
}

func hasDistinctPoints(points []kernel.Location) bool {
	for _, p := range points[1:] {
		if equal, err := p.IsEqual(points[0]); err != nil || !equal {
			return true
		}
	}
	return false
}
