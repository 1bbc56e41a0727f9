package application

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/phase"
)

var (
	// ErrUnknownOrder is returned when a transition or query targets an
	// order the engine is not currently tracking, including orders the
	// engine already finalized.
	ErrUnknownOrder = errors.New("order is not tracked by the engine")

	// ErrMissingDestination is returned when a leg has no usable target
	// coordinate. It blocks entry into that leg; the order stays in the
	// prior phase and nothing is mutated.
	ErrMissingDestination = errors.New("no usable destination for this leg")

	// ErrPartialCompletion is returned when the closing status of a
	// terminal leg is already durable but the assignment row could not be
	// deleted. Callers must treat the leg as committed and retry the
	// cleanup alone, never the whole transition.
	ErrPartialCompletion = errors.New("leg committed, cleanup pending")

	// ErrRemoteFailure is returned when a record-store call failed before
	// any part of the transition became durable.
	ErrRemoteFailure = errors.New("record store call failed")
)

// MissingDestinationError reports which leg could not be entered for which
// order. Wraps ErrMissingDestination.
type MissingDestinationError struct {
	OrderID string
	Phase   phase.Phase
}

func NewMissingDestinationError(orderID string, p phase.Phase) *MissingDestinationError {
	return &MissingDestinationError{OrderID: orderID, Phase: p}
}

func (e *MissingDestinationError) Error() string {
	return fmt.Sprintf("no usable destination for this leg: order %s, leg %s", e.OrderID, e.Phase)
}

func (e *MissingDestinationError) Unwrap() error {
	return ErrMissingDestination
}

// PartialCompletionError reports a terminal leg whose closing status was
// persisted but whose row deletion failed. Status is already durable in the
// record store. Wraps ErrPartialCompletion.
type PartialCompletionError struct {
	OrderID string
	Status  order.Status
	Cause   error
}

func NewPartialCompletionError(orderID string, status order.Status, cause error) *PartialCompletionError {
	return &PartialCompletionError{OrderID: orderID, Status: status, Cause: cause}
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("leg committed, cleanup pending: order %s already marked %s (cause: %s)",
		e.OrderID, e.Status, e.Cause)
}

func (e *PartialCompletionError) Unwrap() error {
	return ErrPartialCompletion
}

// RemoteFailureError reports a record-store call that failed without leaving
// any part of the transition durable. Wraps both ErrRemoteFailure and the
// underlying store error.
type RemoteFailureError struct {
	OrderID   string
	Operation string
	Cause     error
}

func NewRemoteFailureError(orderID string, operation string, cause error) *RemoteFailureError {
	return &RemoteFailureError{OrderID: orderID, Operation: operation, Cause: cause}
}

func (e *RemoteFailureError) Error() string {
	return fmt.Sprintf("record store call failed: %s for order %s (cause: %s)",
		e.Operation, e.OrderID, e.Cause)
}

func (e *RemoteFailureError) Unwrap() []error {
	return []error{ErrRemoteFailure, e.Cause}
}
