package kernel

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrLocationSampleIsNotConstructed is returned when attempting to use an
// improperly initialized LocationSample.
var ErrLocationSampleIsNotConstructed = errs.NewValueIsRequiredError(
	"location sample must be created via NewLocationSample constructor")

// ErrNegativeSpeed is returned when a sample reports a negative ground speed.
var ErrNegativeSpeed = errs.NewValueIsInvalidError("speed must not be negative")

// LocationSample is a single position report from the courier's location
// provider. Samples are transient: consumers keep only the most recent one.
type LocationSample struct {
	coordinate Coordinate
	speedMps   float64
	recordedAt time.Time
	guard      guard.ConstructorGuard
}

// NewLocationSample creates a LocationSample from a validated coordinate, a
// ground speed in meters per second, and the provider timestamp.
// A zero timestamp is replaced with the current time.
func NewLocationSample(coordinate Coordinate, speedMps float64, recordedAt time.Time) (LocationSample, error) {
	if err := coordinate.Validate(); err != nil {
		return LocationSample{}, err
	}
	if speedMps < 0 {
		return LocationSample{}, ErrNegativeSpeed
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	return LocationSample{
		coordinate: coordinate,
		speedMps:   speedMps,
		recordedAt: recordedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the LocationSample was properly constructed.
func (s LocationSample) Validate() error {
	return errors.Join(
		s.guard.Validate(ErrLocationSampleIsNotConstructed),
		s.coordinate.Validate(),
	)
}

// Coordinate returns the sampled position.
func (s LocationSample) Coordinate() Coordinate {
	return s.coordinate
}

// SpeedMps returns the reported ground speed in meters per second.
func (s LocationSample) SpeedMps() float64 {
	return s.speedMps
}

// RecordedAt returns the provider timestamp of the sample.
func (s LocationSample) RecordedAt() time.Time {
	return s.recordedAt
}
