package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// LocationSubscription is a handle to an active location stream.
type LocationSubscription interface {
	// Samples returns the channel delivering location samples. The channel
	// is closed when the subscription is cancelled or the provider shuts
	// down.
	Samples() <-chan kernel.LocationSample

	// Cancel stops delivery and releases the subscription. Safe to call
	// more than once.
	Cancel()
}

// LocationProvider defines the contract for the courier's live position
// feed. The provider decides the delivery cadence (the device typically
// reports every 1 to 3 seconds); subscribers only see the stream.
type LocationProvider interface {
	// Subscribe opens a stream of location samples for the courier. The
	// subscription is cancelled either explicitly via Cancel or when ctx
	// is done.
	Subscribe(ctx context.Context) (LocationSubscription, error)
}
