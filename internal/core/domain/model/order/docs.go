// Package order holds the read-side order snapshot and its status vocabulary.
//
// The record store behind this service is shared with a dispatch backend that
// also writes to it, so the model here is intentionally a snapshot rather
// than a long-lived aggregate: every engine decision starts from a freshly
// restored Order, and mutations go straight to the store through a port.
//
// Status is an open set of lower-cased strings (see Status) because the
// backend introduces values without coordinated deploys; phase resolution is
// total over it with an explicit fallback.
package order
