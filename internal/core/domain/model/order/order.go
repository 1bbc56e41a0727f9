package order

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/address"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through the RestoreOrder factory method.
	ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder constructor")
)

// Order is a read-side snapshot of an assigned order row as it exists in the
// record store at one point in time.
//
// Unlike a classic aggregate root, Order carries no state transitions of its
// own: the fulfillment engine mutates the store directly (status updates and
// row deletion) and reloads fresh snapshots, because the store has concurrent
// foreign writers and an in-memory aggregate would go stale immediately.
//
// Order follows these invariants:
//   - Must have a non-empty identifier
//   - Status is normalized at construction
//   - Customer and store addresses are normalized at construction, however
//     little usable data the raw payloads carried
//   - Can only be created through RestoreOrder
type Order struct {
	// id is the record-store identifier of the assignment row
	id string

	// status is the normalized lifecycle status at snapshot time
	status Status

	// customerAddress is the normalized customer address (pickup and final
	// delivery endpoint, depending on phase)
	customerAddress address.Record

	// storeAddress is the normalized store address
	storeAddress address.Record

	guard guard.ConstructorGuard
}

// RestoreOrder reconstructs an Order snapshot from raw record-store data.
// This is the only way to create a valid Order.
//
// Parameters:
//   - id: record-store identifier (must be non-empty after trimming)
//   - rawStatus: status string as stored; normalized here
//   - rawCustomerAddress: customer address payload in any of the shapes
//     address.Normalize accepts
//   - rawStoreAddress: store address payload, same contract
//
// Returns:
//   - *Order: the snapshot if the identifier is present
//   - error: errs.ValueIsRequiredError when the identifier is empty
//
// Address payloads never fail construction: unusable coordinates and
// unparseable payloads degrade inside address.Normalize, and the resolver
// layer decides what a missing coordinate means for the current phase.
func RestoreOrder(id string, rawStatus string, rawCustomerAddress any, rawStoreAddress any) (*Order, error) {
	order := &Order{guard: guard.NewConstructorGuard()}

	if err := order.setID(id); err != nil {
		return nil, err
	}

	order.status = NormalizeStatus(rawStatus)
	order.customerAddress = address.Normalize(rawCustomerAddress)
	order.storeAddress = address.Normalize(rawStoreAddress)

	return order, nil
}

// Validate ensures the Order instance was properly constructed through
// RestoreOrder. This prevents bypassing validation by directly instantiating
// the struct.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}

	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their record-store identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

// ID returns the record-store identifier of the assignment row.
func (o *Order) ID() string {
	return o.id
}

// Status returns the normalized lifecycle status at snapshot time.
func (o *Order) Status() Status {
	return o.status
}

// CustomerAddress returns the normalized customer address.
func (o *Order) CustomerAddress() address.Record {
	return o.customerAddress
}

// StoreAddress returns the normalized store address.
func (o *Order) StoreAddress() address.Record {
	return o.storeAddress
}

// setID validates and sets the record-store identifier.
// This is a private method used only during construction.
func (o *Order) setID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errs.NewValueIsRequiredError("id")
	}
	o.id = id
	return nil
}
