package application

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/guard"
)

var (
	ErrCompleteLegCommandIsNotConstructed = errors.New(
		"CompleteLegCommand must be created via NewCompleteLegCommand constructor",
	)
)

// CompleteLegCommand represents the courier's explicit confirmation that the
// active leg is done. Issuing it is the commit point of a transition: the
// controller normally gates it on arrival, but an override gesture may issue
// it from anywhere, so the engine never re-checks proximity.
type CompleteLegCommand struct { //nolint:recvcheck //using for validation
	orderID string

	guard guard.ConstructorGuard
}

// NewCompleteLegCommand creates a command to complete the active leg of the
// given order. Returns an error when the order id is empty.
func NewCompleteLegCommand(orderID string) (CompleteLegCommand, error) {
	command := CompleteLegCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return CompleteLegCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteLegCommand) Validate() error {
	return c.guard.Validate(ErrCompleteLegCommandIsNotConstructed)
}

// OrderID returns the record-store identifier of the order.
func (c CompleteLegCommand) OrderID() string {
	return c.orderID
}

func (c *CompleteLegCommand) setOrderID(orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ErrOrderIDIsRequired
	}

	c.orderID = orderID
	return nil
}
