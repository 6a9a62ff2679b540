package kernel

import (
	"errors"
	"fmt"
	"math"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

const (
	// MinLatitude and MaxLatitude bound a WGS84 latitude in degrees.
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0

	// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
	EarthRadiusMeters = 6_371_000.0
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is an immutable latitude/longitude pair in degrees. It is used for
// route waypoints, the current position of a parcel and tracking event positions.
//
// The zero value is invalid. Two locations compare equal with == when both
// coordinates are bit-for-bit identical, which is what route endpoints rely on.
//
// Example:
//
//	berlin, _ := kernel.NewLocation(52.5200, 13.4050)
//	paris, _ := kernel.NewLocation(48.8566, 2.3522)
//	meters, _ := berlin.DistanceTo(paris) // ~877 km
type Location struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewLocation validates both coordinates and returns a Location.
//
// Parameters:
//   - lat: latitude in [-90, 90]
//   - lng: longitude in [-180, 180]
//
// Returns:
//   - Location: the constructed value
//   - error: ValueIsOutOfRangeError for each offending coordinate, joined
func NewLocation(lat, lng float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLng(lng)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Validate returns ErrLocationIsNotConstructed for the zero value.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lng returns the longitude in degrees.
func (l Location) Lng() float64 {
	return l.lng
}

// String renders the location as "Location(lat,lng)" with six decimals.
func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.lat, l.lng)
}

// IsEqual reports whether both locations hold exactly the same coordinates.
// Both must be constructed.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.lat == other.lat && l.lng == other.lng, nil
}

// DistanceTo returns the great-circle distance in meters computed with the
// haversine formula and EarthRadiusMeters.
//
// Example:
//
//	a, _ := kernel.NewLocation(0, 0)
//	b, _ := kernel.NewLocation(0, 1)
//	d, _ := a.DistanceTo(b) // 111194.93 (one degree of arc)
func (l Location) DistanceTo(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(l.lat)
	lat2 := toRadians(other.lat)
	dLat := toRadians(other.lat - l.lat)
	dLng := toRadians(other.lng - l.lng)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)

	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h))), nil
}

// Lerp linearly interpolates latitude and longitude independently between l
// (t = 0) and other (t = 1). The endpoints are returned unchanged so that
// t = 1 yields exactly other.
//
// This is a planar approximation, not a great-circle path.
func (l Location) Lerp(other Location, t float64) (Location, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return Location{}, err
	}

	if t < 0 || t > 1 || math.IsNaN(t) {
		return Location{}, errs.NewValueIsOutOfRangeError("t", t, 0, 1)
	}

	switch t {
	case 0:
		return l, nil
	case 1:
		return other, nil
	}

	return NewLocation(
		l.lat+(other.lat-l.lat)*t,
		l.lng+(other.lng-l.lng)*t,
	)
}

func (l *Location) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("lat", lat, MinLatitude, MaxLatitude)
	}

	l.lat = lat
	return nil
}

func (l *Location) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("lng", lng, MinLongitude, MaxLongitude)
	}

	l.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
