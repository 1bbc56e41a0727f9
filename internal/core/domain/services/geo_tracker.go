package services

import (
	"errors"
	"fmt"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrNoLocationYet is returned when a distance is requested before any
// location sample has been ingested. Callers typically treat it as "show a
// placeholder", not as a failure.
var ErrNoLocationYet = errors.New("no location sample received yet")

const (
	// ArrivalThresholdKm is the distance below which the courier counts as
	// arrived at the leg target. Crossing it unlocks the leg-completion
	// gesture in the controller; it never completes a leg by itself.
	ArrivalThresholdKm = 0.1

	// FallbackSpeedKmh is the average courier speed assumed for ETA when
	// the device reports no usable speed (stationary or missing reading).
	FallbackSpeedKmh = 25.0
)

// GeoTracker is a domain service that tracks the courier's last known
// position and derives distance, ETA and arrival against a leg target.
//
// Key responsibilities:
//   - Retaining only the most recent location sample
//   - Computing great-circle distance to a target coordinate
//   - Estimating time to arrival from the sampled ground speed
//
// GeoTracker holds no network or persistence dependency; everything is a
// pure computation over the last sample and a caller-supplied target.
//
// Concurrency: Update is called from the location feed while DistanceKm and
// friends are called from status-refresh ticks and HTTP reads, so the last
// sample sits behind a read-write mutex. Derivations never block Update.
type GeoTracker struct {
	mu         sync.RWMutex
	lastSample *kernel.LocationSample
}

// NewGeoTracker creates a GeoTracker with no position yet.
func NewGeoTracker() *GeoTracker {
	return &GeoTracker{}
}

// Update replaces the last known position with the given sample. O(1).
//
// Returns an error only when the sample was not constructed through
// kernel.NewLocationSample.
func (g *GeoTracker) Update(sample kernel.LocationSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	g.lastSample = &sample
	g.mu.Unlock()
	return nil
}

// LastSample returns the most recent sample and whether one exists yet.
func (g *GeoTracker) LastSample() (kernel.LocationSample, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.lastSample == nil {
		return kernel.LocationSample{}, false
	}
	return *g.lastSample, true
}

// DistanceKm returns the great-circle distance from the last known position
// to the target.
//
// Returns:
//   - the distance in kilometers
//   - ErrNoLocationYet when no sample has been ingested
//   - a coordinate validation error when the target was not constructed
//     through kernel.NewCoordinate
func (g *GeoTracker) DistanceKm(target kernel.Coordinate) (float64, error) {
	g.mu.RLock()
	sample := g.lastSample
	g.mu.RUnlock()

	if sample == nil {
		return 0, ErrNoLocationYet
	}

	return sample.Coordinate().DistanceKm(target)
}

// EtaMinutes estimates the whole minutes to cover distanceKm at the given
// ground speed in meters per second. A non-positive speed falls back to the
// assumed average of 25 km/h. The result is truncated, not rounded.
func (g *GeoTracker) EtaMinutes(distanceKm float64, speedMps float64) int {
	if distanceKm <= 0 {
		return 0
	}

	speedKmh := FallbackSpeedKmh
	if speedMps > 0 {
		speedKmh = speedMps * 3.6
	}

	return int(distanceKm / speedKmh * 60)
}

// IsArrived reports whether the given remaining distance counts as arrival
// at the leg target.
func (g *GeoTracker) IsArrived(distanceKm float64) bool {
	return distanceKm < ArrivalThresholdKm
}

// FormatDistance renders a remaining distance for the courier: meters below
// one kilometer, otherwise kilometers with one decimal. Non-positive
// distances render as a placeholder because the position is not known yet.
func FormatDistance(distanceKm float64) string {
	switch {
	case distanceKm <= 0:
		return "Calculating distance..."
	case distanceKm < 1.0:
		return fmt.Sprintf("%dm away", int(distanceKm*1000))
	default:
		return fmt.Sprintf("%.1f km away", distanceKm)
	}
}

// FormatEta renders an ETA in minutes as a short display string, switching
// to hours and minutes from one hour up.
func FormatEta(etaMinutes int) string {
	switch {
	case etaMinutes <= 0:
		return "Calculating ETA..."
	case etaMinutes < 60:
		return fmt.Sprintf("%dmin", etaMinutes)
	default:
		return fmt.Sprintf("%dh %dm", etaMinutes/60, etaMinutes%60)
	}
}
