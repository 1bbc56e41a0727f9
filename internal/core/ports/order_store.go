package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderStore defines the contract against the external assigned-orders
// record store.
//
// The store is a shared system of record with other writers (a dispatch
// backend among them), so the contract is snapshot-read plus targeted
// mutations by id rather than aggregate persistence. Mutations are issued
// one at a time and are never wrapped in a store-side transaction: the
// engine's completion protocol depends on knowing which of the two calls in
// a terminal leg succeeded (see application.PartialCompletionError).
type OrderStore interface {
	// Get retrieves a fresh snapshot of an assignment row by its id.
	// Returns errs.ObjectNotFoundError (wrapping errs.ErrObjectNotFound)
	// when no row with that id exists.
	Get(ctx context.Context, id string) (*order.Order, error)

	// GetAllAssigned retrieves snapshots of every assignment row currently
	// in the store. Used by the background sync to detect externally
	// changed statuses.
	GetAllAssigned(ctx context.Context) ([]*order.Order, error)

	// UpdateStatus sets the status of the assignment row with the given id.
	// The status is persisted in its normalized form.
	UpdateStatus(ctx context.Context, id string, status order.Status) error

	// Delete removes the assignment row with the given id. Deleting an
	// already-absent row is not an error, so a cleanup retry after a
	// partial completion is idempotent.
	Delete(ctx context.Context, id string) error
}
