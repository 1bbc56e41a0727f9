// Package application orchestrates the fulfillment core: the TransitionEngine
// drives the four-leg state machine against the external record store, and
// the OrderFulfillmentController façades the engine, the geo tracker and the
// location feed for transport adapters.
//
// Requests enter as guarded command objects (TrackOrderCommand,
// CompleteLegCommand) that validate their inputs at construction, so the
// engine only ever sees well-formed requests. Reads leave as the StatusView
// model.
//
// All failures surface as typed errors (MissingDestinationError,
// PartialCompletionError, RemoteFailureError, ErrUnknownOrder); nothing in
// this package retries remote calls on its own.
package application
