package route

import (
	"encoding/json"
	"fmt"

	"parceltrack/internal/core/domain/model/kernel"
)

type waypointJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MarshalWaypoints encodes waypoints as a JSON array of {"lat","lng"} objects.
// float64 values are written in their shortest exact form and read back bit-for-bit.
func MarshalWaypoints(waypoints []kernel.Location) ([]byte, error) {
	dto := make([]waypointJSON, len(waypoints))
	for i, wp := range waypoints {
		dto[i] = waypointJSON{Lat: wp.Lat(), Lng: wp.Lng()}
	}

	data, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("marshal waypoints: %w", err)
	}
	return data, nil
}

// UnmarshalWaypoints decodes the format written by MarshalWaypoints and
// validates every coordinate.
func UnmarshalWaypoints(data []byte) ([]kernel.Location, error) {
	var dto []waypointJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal waypoints: %w", err)
	}

	waypoints := make([]kernel.Location, len(dto))
	for i, wp := range dto {
		loc, err := kernel.NewLocation(wp.Lat, wp.Lng)
		if err != nil {
			return nil, fmt.Errorf("waypoint %d: %w", i, err)
		}
		waypoints[i] = loc
	}
	return waypoints, nil
}
