package phase

import (
	"fulfillment/internal/core/domain/model/address"
	"fulfillment/internal/core/domain/model/order"
)

// Labels shown next to the destination for each leg.
const (
	LabelCustomerPickup   = "Customer Pickup Address"
	LabelStore            = "Store Address"
	LabelCustomerDelivery = "Customer Delivery Address"
	LabelFallbackPickup   = "Pickup Address"
)

// Resolution is the outcome of mapping an order status onto a leg: the
// active phase, the address the courier should travel to, and a display
// label for that address.
//
// Target may carry no coordinate (or be empty entirely) when the source
// payloads were unusable; callers must check Target.HasCoordinate() before
// starting distance tracking.
type Resolution struct {
	Phase  Phase
	Target address.Record
	Label  string
}

// Resolve maps a persisted order status onto the active leg and its travel
// target.
//
// The mapping is deliberately total: every status yields a phase, because
// the record store is an external system of record with other writers and
// the engine must degrade to a safe default rather than fail closed. Unknown
// and legacy statuses fall back to PickupToPickup targeting the customer
// address, or the store address when the customer payload is empty.
//
// Matching is case-insensitive via order.NormalizeStatus.
func Resolve(status order.Status, customer address.Record, store address.Record) Resolution {
	switch status.Normalized() {
	case order.StatusAssigned, order.StatusAccepted, order.StatusProcessing, order.StatusConfirmed:
		return Resolution{Phase: PickupToPickup, Target: customer, Label: LabelCustomerPickup}
	case order.StatusPickedUp:
		return Resolution{Phase: PickupToStore, Target: store, Label: LabelStore}
	case order.StatusReceived, order.StatusReadyForDelivery:
		return Resolution{Phase: StoreToCollect, Target: store, Label: LabelStore}
	case order.StatusShipped, order.StatusOutForDelivery:
		return Resolution{Phase: StoreToCustomer, Target: customer, Label: LabelCustomerDelivery}
	default:
		target := customer
		if target.IsEmpty() {
			target = store
		}
		return Resolution{Phase: PickupToPickup, Target: target, Label: LabelFallbackPickup}
	}
}

// ResolveNext returns the resolution for the leg that follows p, or false
// when completing p finalizes the order and no next leg exists in this
// service's scope.
func ResolveNext(p Phase, customer address.Record, store address.Record) (Resolution, bool) {
	switch p {
	case PickupToPickup:
		return Resolution{Phase: PickupToStore, Target: store, Label: LabelStore}, true
	case StoreToCollect:
		return Resolution{Phase: StoreToCustomer, Target: customer, Label: LabelCustomerDelivery}, true
	default:
		return Resolution{}, false
	}
}

// ContactPhone returns the phone number the courier should call during the
// given leg. Store-bound legs prefer the store phone and fall back to the
// customer phone, since many store payloads carry no number of their own.
func ContactPhone(p Phase, customer address.Record, store address.Record) string {
	switch p {
	case PickupToStore, StoreToCollect:
		if store.PhoneNumber != "" {
			return store.PhoneNumber
		}
		return customer.PhoneNumber
	default:
		return customer.PhoneNumber
	}
}
