package application

import (
	"fulfillment/internal/core/domain/model/address"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/phase"
)

// PhaseContext is the live working state for one tracked order: the active
// leg, the address the courier is heading to, and its display label.
//
// A PhaseContext is created when an order is loaded, replaced (never mutated
// in place) on every phase advance, and discarded when the order is
// finalized. It is a value and safe to copy out of the engine.
type PhaseContext struct {
	phase      phase.Phase
	target     address.Record
	coordinate *kernel.Coordinate
	label      string
}

func newPhaseContext(res phase.Resolution) PhaseContext {
	ctx := PhaseContext{
		phase:  res.Phase,
		target: res.Target,
		label:  res.Label,
	}
	if coord, ok := res.Target.Coordinate(); ok {
		ctx.coordinate = &coord
	}
	return ctx
}

// withDestinationOverride returns a copy of the context steering to the
// given coordinate instead of the target address's own coordinate. The
// postal fields of the target are kept for display.
func (c PhaseContext) withDestinationOverride(coord kernel.Coordinate) PhaseContext {
	c.coordinate = &coord
	return c
}

// Phase returns the active leg.
func (c PhaseContext) Phase() phase.Phase {
	return c.phase
}

// Target returns the address the courier is heading to. It may carry no
// coordinate; see Coordinate.
func (c PhaseContext) Target() address.Record {
	return c.target
}

// Coordinate returns the destination coordinate and whether one is known.
// Tracking and leg completion require a known coordinate.
func (c PhaseContext) Coordinate() (kernel.Coordinate, bool) {
	if c.coordinate == nil {
		return kernel.Coordinate{}, false
	}
	return *c.coordinate, true
}

// Label returns the display label for the destination.
func (c PhaseContext) Label() string {
	return c.label
}
