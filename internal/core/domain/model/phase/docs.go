// Package phase defines the four-leg journey model and the total mapping
// from persisted order statuses onto legs.
//
// A phase is never stored: it is recomputed from the order status on load
// (Resolve) and advanced explicitly when the courier completes a leg
// (ResolveNext). The derived phase and the persisted status may only
// disagree for the duration of one mutation round-trip.
//
// The package also carries the per-leg presentation metadata (headline,
// badge text, progress percentage, contact phone selection) so the HTTP
// adapter stays free of journey knowledge.
package phase
