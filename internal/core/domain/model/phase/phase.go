package phase

import "errors"

var (
	// ErrUnknownPhase is returned when a Phase value is outside the four
	// defined legs, typically an uninitialized zero value.
	ErrUnknownPhase = errors.New("phase must be one of the four defined legs")
)

// Phase represents one directional leg of the courier's journey.
// It is a closed enumeration: exactly these four legs exist, and exactly one
// is active per tracked order at a time.
//
// Leg progression:
//
//	PickupToPickup ──> PickupToStore ──> (terminal: dropped at store)
//	StoreToCollect ──> StoreToCustomer ──> (terminal: delivered)
//
// The store drop is a deliberate workflow fork: completing PickupToStore ends
// this service's involvement and an external allocator re-dispatches the
// delivery run as a fresh assignment, which then enters at StoreToCollect.
//
// Phase is derived from the persisted order status (see Resolve), never
// stored independently, and advanced explicitly on leg completion.
type Phase int

const (
	// Unknown represents an invalid or undefined phase.
	// This value (0) helps catch uninitialized Phase values.
	Unknown Phase = iota

	// PickupToPickup is the first leg: travel to the customer pickup
	// address to collect the package. Target is the customer address.
	PickupToPickup

	// PickupToStore is the second leg: carry the collected package to the
	// store. Target is the store address. Completing this leg is terminal.
	PickupToStore

	// StoreToCollect is the third leg: travel to the store to collect the
	// package for the delivery run. Target is the store address.
	StoreToCollect

	// StoreToCustomer is the final leg: deliver the package to the
	// customer. Target is the customer address. Completing this leg is
	// terminal.
	StoreToCustomer
)

// getPhaseStrings returns a map of Phase values to their string
// representations. All phases are included for string conversion.
func getPhaseStrings() map[Phase]string {
	return map[Phase]string{
		Unknown:         "Unknown",
		PickupToPickup:  "PickupToPickup",
		PickupToStore:   "PickupToStore",
		StoreToCollect:  "StoreToCollect",
		StoreToCustomer: "StoreToCustomer",
	}
}

// String returns the phase name.
// This method implements the fmt.Stringer interface and is safe to call on
// any Phase value, including invalid ones.
func (p Phase) String() string {
	if str, ok := getPhaseStrings()[p]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks if the Phase value is one of the four legs.
func (p Phase) Validate() error {
	switch p {
	case PickupToPickup, PickupToStore, StoreToCollect, StoreToCustomer:
		return nil
	default:
		return ErrUnknownPhase
	}
}

// IsTerminalLeg reports whether completing this phase finalizes the order:
// the engine writes the closing status and deletes the assignment row instead
// of advancing to a next leg.
func (p Phase) IsTerminalLeg() bool {
	return p == PickupToStore || p == StoreToCustomer
}

// StatusLine returns the courier-facing headline for the active leg.
func (p Phase) StatusLine() string {
	switch p {
	case PickupToStore:
		return "Delivering to Store"
	case StoreToCollect:
		return "Collecting from Store"
	case StoreToCustomer:
		return "Final Delivery to Customer"
	default:
		return "Navigating to Pickup Address"
	}
}

// ChipText returns the short upper-case badge text for the active leg.
func (p Phase) ChipText() string {
	switch p {
	case PickupToStore:
		return "STORE DELIVERY"
	case StoreToCollect:
		return "STORE COLLECTION"
	case StoreToCustomer:
		return "CUSTOMER DELIVERY"
	default:
		return "PICKUP COLLECTION"
	}
}

// BaseProgress returns the journey completion percentage attributed to
// reaching this leg. Proximity to the leg target adds a bonus on top, see
// ProgressPercent.
func (p Phase) BaseProgress() int {
	switch p {
	case PickupToStore:
		return 40
	case StoreToCollect:
		return 60
	case StoreToCustomer:
		return 80
	default:
		return 20
	}
}

// ProgressPercent returns the journey completion percentage for this leg
// given the remaining distance to the leg target. Being within half a
// kilometer of the target earns a ten point proximity bonus; a non-positive
// distance means "distance unknown" and earns nothing.
func (p Phase) ProgressPercent(distanceKm float64) int {
	progress := p.BaseProgress()
	if distanceKm > 0 && distanceKm < 0.5 {
		progress += 10
	}
	return progress
}
