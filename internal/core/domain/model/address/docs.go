// Package address normalizes the loosely-typed address payloads attached to
// order rows into one canonical Record with a validated coordinate.
//
// Upstream writers persist addresses in three shapes: a proper JSON object, a
// string that is supposed to contain JSON but is often malformed or
// double-encoded, and a flat string-keyed map. All three funnel through a
// single Normalize function that dispatches on the concrete shape, so the
// tolerant-parsing fragility stays isolated behind this package boundary and
// can be removed once upstream data is cleaned, without touching phase logic.
//
// Normalize never returns an error. Unusable coordinates degrade to "absent"
// and unrecognizable payloads degrade to an empty Record, because a courier
// who cannot be routed can often still be shown a recipient name and phone.
package address
