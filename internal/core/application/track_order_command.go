package application

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrTrackOrderCommandIsNotConstructed = errors.New(
		"TrackOrderCommand must be created via NewTrackOrderCommand constructor",
	)
	ErrOrderIDIsRequired = errors.New("order id is required")
)

// TrackOrderCommand represents a request to start tracking an order through
// its fulfillment legs. An optional destination override steers the active
// leg to an explicit coordinate instead of the resolved target address,
// which dispatch uses when the caller already knows the exact drop point.
//
// Example:
//
//	cmd, err := NewTrackOrderCommand("order-123")
//	if err != nil {
//	    return err
//	}
//	pc, err := engine.Track(ctx, cmd)
type TrackOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  string
	override *kernel.Coordinate

	guard guard.ConstructorGuard
}

// NewTrackOrderCommand creates a command to track the given order.
// Returns an error when the order id is empty.
func NewTrackOrderCommand(orderID string) (TrackOrderCommand, error) {
	command := TrackOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return TrackOrderCommand{}, err
	}

	return command, nil
}

// NewTrackOrderCommandWithOverride creates a tracking command that steers
// the first leg to an explicit destination coordinate. The coordinate is
// validated with the same rules as any other (range check, (0,0) rejected).
func NewTrackOrderCommandWithOverride(orderID string, lat float64, lng float64) (TrackOrderCommand, error) {
	command, err := NewTrackOrderCommand(orderID)
	if err != nil {
		return TrackOrderCommand{}, err
	}

	coord, err := kernel.NewCoordinate(lat, lng)
	if err != nil {
		return TrackOrderCommand{}, err
	}

	command.override = &coord
	return command, nil
}

// Validate ensures the command was created through a constructor.
func (c TrackOrderCommand) Validate() error {
	return c.guard.Validate(ErrTrackOrderCommandIsNotConstructed)
}

// OrderID returns the record-store identifier of the order to track.
func (c TrackOrderCommand) OrderID() string {
	return c.orderID
}

// Override returns the destination override coordinate, if any.
func (c TrackOrderCommand) Override() (kernel.Coordinate, bool) {
	if c.override == nil {
		return kernel.Coordinate{}, false
	}
	return *c.override, true
}

func (c *TrackOrderCommand) setOrderID(orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ErrOrderIDIsRequired
	}

	c.orderID = orderID
	return nil
}
