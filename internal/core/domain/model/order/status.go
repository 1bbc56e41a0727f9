package order

import "strings"

// Status represents the lifecycle state of an assigned order as persisted by
// the record store.
//
// Status is deliberately an open string vocabulary rather than a closed enum:
// the record store is an external system with other writers, and new statuses
// appear there without a coordinated deploy. Values outside the known set are
// tolerated and resolve through a documented fallback instead of failing
// closed. Comparison is always done on the normalized (lower-cased, trimmed)
// form.
//
// Known lifecycle progression:
//
//	assigned/accepted/processing/confirmed ──> picked_up ──> reached
//	received/ready_for_delivery ──> shipped/out_for_delivery ──> completed
//
// The fulfillment engine writes reached and completed as legs finish; the
// statuses before them are written by the dispatch backend.
type Status string

const (
	// StatusAssigned through StatusConfirmed all mean the courier is still
	// heading to the customer pickup point. The dispatch backend uses them
	// interchangeably depending on which flow created the order.
	StatusAssigned   Status = "assigned"
	StatusAccepted   Status = "accepted"
	StatusProcessing Status = "processing"
	StatusConfirmed  Status = "confirmed"

	// StatusPickedUp indicates the package has been collected from the
	// customer and is on its way to the store.
	StatusPickedUp Status = "picked_up"

	// StatusReached indicates the package was dropped at the store. The
	// engine writes this status immediately before deleting the assignment
	// row, so it is visible to the backend but never resolved to a phase.
	StatusReached Status = "reached"

	// StatusReceived and StatusReadyForDelivery indicate the store holds the
	// package and the courier should collect it for the delivery run.
	StatusReceived         Status = "received"
	StatusReadyForDelivery Status = "ready_for_delivery"

	// StatusShipped and StatusOutForDelivery indicate the package left the
	// store and is on its way to the customer.
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"

	// StatusCompleted indicates the package was handed to the customer. Like
	// StatusReached it is written right before the assignment row is deleted.
	StatusCompleted Status = "completed"
)

// getKnownStatuses returns the set of statuses this service understands.
// Membership is informational only and feeds logging; unknown statuses are
// never an error.
func getKnownStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusAssigned:         {},
		StatusAccepted:         {},
		StatusProcessing:       {},
		StatusConfirmed:        {},
		StatusPickedUp:         {},
		StatusReached:          {},
		StatusReceived:         {},
		StatusReadyForDelivery: {},
		StatusShipped:          {},
		StatusOutForDelivery:   {},
		StatusCompleted:        {},
	}
}

// NormalizeStatus converts a raw status string from the record store into its
// canonical comparable form: trimmed and lower-cased.
//
// All status matching in this service goes through NormalizeStatus, so
// "Picked_Up" and " picked_up " behave identically to "picked_up".
func NormalizeStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// Normalized returns the canonical form of the status.
func (s Status) Normalized() Status {
	return NormalizeStatus(string(s))
}

// IsKnown reports whether the status belongs to the known vocabulary.
// Unknown statuses still resolve to a phase via the fallback rule; this
// method only exists so callers can log the fact.
func (s Status) IsKnown() bool {
	_, ok := getKnownStatuses()[s.Normalized()]
	return ok
}

// String returns the normalized status string.
// This method implements the fmt.Stringer interface.
func (s Status) String() string {
	return string(s.Normalized())
}
