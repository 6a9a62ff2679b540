package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label    string `json:"label"`
			Name     string `json:"name"`
			Locality string `json:"locality"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves a free-text address through /geocode/search.
func (c *Client) Geocode(ctx context.Context, address string) (kernel.Location, error) {
	norm := normalize(address)
	if norm == "" {
		return kernel.Location{}, fmt.Errorf("geocode: %w: empty address", ports.ErrAddressNotFound)
	}

	decoded, err := c.getFeatures(ctx, "/geocode/search", func(q map[string]string) {
		q["text"] = norm
	})
	if err != nil {
		return kernel.Location{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if len(decoded.Features) == 0 {
		return kernel.Location{}, fmt.Errorf("geocode %q: %w", norm, ports.ErrAddressNotFound)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return kernel.Location{}, fmt.Errorf("geocode %q: %w: invalid coordinate format",
			norm, ports.ErrProviderUnavailable)
	}

	loc, err := kernel.NewLocation(coords[1], coords[0])
	if err != nil {
		return kernel.Location{}, fmt.Errorf("geocode %q: %w: %w", norm, ports.ErrProviderUnavailable, err)
	}

	return loc, nil
}

// ReverseGeocode resolves coordinates to a place label through /geocode/reverse.
func (c *Client) ReverseGeocode(ctx context.Context, location kernel.Location) (string, error) {
	if err := location.Validate(); err != nil {
		return "", err
	}

	decoded, err := c.getFeatures(ctx, "/geocode/reverse", func(q map[string]string) {
		q["point.lat"] = strconv.FormatFloat(location.Lat(), 'f', 6, 64)
		q["point.lon"] = strconv.FormatFloat(location.Lng(), 'f', 6, 64)
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", location, err)
	}

	for _, f := range decoded.Features {
		for _, label := range []string{f.Properties.Label, f.Properties.Locality, f.Properties.Name} {
			if label = strings.TrimSpace(label); label != "" {
				return label, nil
			}
		}
	}

	return "", fmt.Errorf("reverse geocode %s: %w", location, ports.ErrAddressNotFound)
}

func (c *Client) getFeatures(
	ctx context.Context,
	path string,
	params func(q map[string]string),
) (geocodeResponse, error) {
	endpoint := c.baseURL + path

	query := map[string]string{"size": "1"}
	params(query)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return geocodeResponse{}, fmt.Errorf("%w: %w", ports.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return geocodeResponse{}, fmt.Errorf("%w: decode response: %w", ports.ErrProviderUnavailable, err)
	}

	return decoded, nil
}
