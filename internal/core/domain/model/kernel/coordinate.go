package kernel

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in decimal degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in decimal degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in decimal degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in decimal degrees.
	LongitudeMax = 180.0

	// earthRadiusKm is the mean Earth radius used for great-circle distances.
	earthRadiusKm = 6371.0
)

// ErrCoordinateIsNotConstructed is returned when attempting to use an improperly
// initialized Coordinate. Coordinates must be created via NewCoordinate.
var ErrCoordinateIsNotConstructed = errs.NewValueIsRequiredError(
	"coordinate must be created via NewCoordinate constructor")

// ErrNullIslandCoordinate is returned when both latitude and longitude are exactly
// zero. Upstream writers use (0,0) as a placeholder for "no coordinate", so the
// pair is rejected as absent rather than treated as a real position.
var ErrNullIslandCoordinate = errs.NewValueIsRequiredError(
	"coordinate (0,0) is the missing-data sentinel")

// Coordinate is an immutable geographic position with validated latitude and
// longitude in decimal degrees.
//
// Invariants:
//   - |lat| <= 90, |lng| <= 180, neither NaN
//   - (0, 0) is rejected as the upstream missing-data sentinel
//
// The zero value of Coordinate is invalid and fails validation - use
// NewCoordinate to create instances.
//
// Example:
//
//	coord, err := kernel.NewCoordinate(12.9716, 77.5946)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Printf("Position: %s", coord) // Output: Coordinate(12.971600,77.594600)
type Coordinate struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewCoordinate creates a Coordinate from latitude and longitude in decimal degrees.
// Both values are validated against the invariants above.
//
// Returns:
//   - Coordinate: A valid coordinate instance
//   - error: Validation error if either value is out of range, NaN, or the (0,0) sentinel
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	coord := Coordinate{
		guard: guard.NewConstructorGuard(),
	}

	if lat == 0 && lng == 0 {
		return Coordinate{}, ErrNullIslandCoordinate
	}

	if err := errors.Join(coord.setLat(lat), coord.setLng(lng)); err != nil {
		return Coordinate{}, err
	}

	return coord, nil
}

// Validate checks if the Coordinate was properly constructed via NewCoordinate.
// The zero value fails this validation.
func (c Coordinate) Validate() error {
	return c.guard.Validate(ErrCoordinateIsNotConstructed)
}

// Lat returns the latitude in decimal degrees.
func (c Coordinate) Lat() float64 {
	return c.lat
}

// Lng returns the longitude in decimal degrees.
func (c Coordinate) Lng() float64 {
	return c.lng
}

// String returns a human-readable representation in the format
// "Coordinate(lat,lng)". Implements fmt.Stringer.
func (c Coordinate) String() string {
	return fmt.Sprintf("Coordinate(%f,%f)", c.lat, c.lng)
}

// IsEqual compares two coordinates for equality.
// Both coordinates must be properly constructed for the comparison to succeed.
func (c Coordinate) IsEqual(other Coordinate) (bool, error) {
	if err := errors.Join(c.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return c.lat == other.lat && c.lng == other.lng, nil
}

// DistanceKm calculates the haversine great-circle distance to another
// coordinate in kilometers, over a sphere of radius 6371 km:
//
//	a = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlng/2)
//	c = 2·atan2(√a, √(1−a))
//	d = R·c
//
// Distance is symmetric: c.DistanceKm(o) == o.DistanceKm(c).
// Both coordinates must be properly constructed for the calculation to succeed.
func (c Coordinate) DistanceKm(other Coordinate) (float64, error) {
	if err := errors.Join(c.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := toRadians(other.lat - c.lat)
	dLng := toRadians(other.lng - c.lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(c.lat))*math.Cos(toRadians(other.lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	angle := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * angle, nil
}

// setLat sets the latitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use value
// receivers, to enable self-encapsulated validation during object construction.
func (c *Coordinate) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	c.lat = lat
	return nil
}

// setLng sets the longitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use value
// receivers, to enable self-encapsulated validation during object construction.
func (c *Coordinate) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	c.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
