// Package services contains domain services: operations that belong to the
// journey model but do not fit a single value object or snapshot.
//
// GeoTracker lives here because distance, ETA and arrival are derived from
// two inputs that no single model owns: the courier's latest location sample
// and the active leg's target coordinate.
package services
