package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
)

// ORS error codes meaning the request was understood but no path exists.
const (
	errCodeRouteNotFound    = 2009
	errCodePointNotRoutable = 2010
)

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Directions fetches the driving path between two points through
// /v2/directions/{profile}/geojson.
func (c *Client) Directions(ctx context.Context, origin, destination kernel.Location) (ports.ProviderPath, error) {
	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][2]float64{
			{origin.Lng(), origin.Lat()},
			{destination.Lng(), destination.Lat()},
		},
	})
	if err != nil {
		return ports.ProviderPath{}, fmt.Errorf("encode directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, c.profile)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		if isNoRoute(err) {
			return ports.ProviderPath{}, fmt.Errorf("directions %s -> %s: %w: %w",
				origin, destination, ports.ErrNoRoute, err)
		}
		return ports.ProviderPath{}, fmt.Errorf("directions %s -> %s: %w: %w",
			origin, destination, ports.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.ProviderPath{}, fmt.Errorf("directions: %w: decode response: %w", ports.ErrProviderUnavailable, err)
	}

	if len(decoded.Features) == 0 {
		return ports.ProviderPath{}, fmt.Errorf("directions %s -> %s: %w", origin, destination, ports.ErrNoRoute)
	}

	feature := decoded.Features[0]
	points := make([]kernel.Location, 0, len(feature.Geometry.Coordinates))
	for _, coord := range feature.Geometry.Coordinates {
		if len(coord) < 2 {
			return ports.ProviderPath{}, fmt.Errorf("directions: %w: invalid coordinate format",
				ports.ErrProviderUnavailable)
		}
		loc, locErr := kernel.NewLocation(coord[1], coord[0])
		if locErr != nil {
			return ports.ProviderPath{}, fmt.Errorf("directions: %w: %w", ports.ErrProviderUnavailable, locErr)
		}
		points = append(points, loc)
	}

	return ports.ProviderPath{
		Points:         points,
		DistanceMeters: feature.Properties.Summary.Distance,
	}, nil
}

func isNoRoute(err error) bool {
	var he *httpStatusError
	if !errors.As(err, &he) {
		return false
	}
	if he.Code == http.StatusNotFound {
		return true
	}

	var body errorResponse
	if json.Unmarshal([]byte(he.Body), &body) != nil {
		return false
	}
	switch body.Error.Code {
	case errCodeRouteNotFound, errCodePointNotRoutable:
		return true
	}
	return false
}
