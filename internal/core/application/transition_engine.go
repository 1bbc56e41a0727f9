package application

import (
	"context"
	"fmt"
	"sync"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/phase"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// LegCompletion is the outcome of a successful leg completion: either the
// engine advanced to the next leg, or the order was finalized and left the
// engine's scope.
type LegCompletion struct {
	// Finalized is true when the completed leg was terminal: the closing
	// status is durable and the assignment row was deleted.
	Finalized bool

	// ClosingStatus is the status written for a finalized order
	// (order.StatusReached or order.StatusCompleted).
	ClosingStatus order.Status

	// Next is the new phase context when the engine advanced. Only valid
	// when Finalized is false.
	Next PhaseContext
}

// session is the engine's working state for one tracked order.
type session struct {
	order   *order.Order
	context PhaseContext

	// cleanupPending marks a terminal leg whose closing status is durable
	// but whose row deletion failed. Only RetryCleanup can move the
	// session out of this state.
	cleanupPending bool
	cleanupErr     *PartialCompletionError

	// transitionMu serializes CompleteLeg and RetryCleanup for this order:
	// both read-then-mutate the context and issue ordered remote calls.
	transitionMu sync.Mutex
}

// TransitionEngine is the state machine over the four journey legs.
//
// It tracks one session per order id, derives the initial phase from the
// persisted status on Track, and advances or finalizes the phase on
// CompleteLeg by issuing the status mutations each leg requires against the
// record store.
//
// Failure semantics:
//   - A completion whose next leg has no usable coordinate fails fast with
//     MissingDestinationError before any network call; nothing is mutated.
//   - A failed status update fails with RemoteFailureError; nothing durable
//     happened and the transition may simply be retried.
//   - On a terminal leg, a durable status update followed by a failed
//     deletion yields PartialCompletionError; the session stays tracked in
//     a cleanup-pending state and only RetryCleanup (the delete alone) can
//     finish it. The engine never retries anything on its own.
//
// Concurrency: transitions for one order are serialized; transitions for
// different orders run independently. Context reads never wait on in-flight
// remote calls.
type TransitionEngine struct {
	store ports.OrderStore

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewTransitionEngine creates a TransitionEngine backed by the given record
// store.
func NewTransitionEngine(store ports.OrderStore) (*TransitionEngine, error) {
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}

	return &TransitionEngine{
		store:    store,
		sessions: make(map[string]*session),
	}, nil
}

// Track loads a fresh snapshot of the order and starts (or restarts) a
// tracking session for it, deriving the active leg from the persisted
// status.
//
// When the resolved leg has no usable destination coordinate, the session is
// still registered — at the prior leg when one exists, so the order remains
// queryable — and a MissingDestinationError for the unreachable leg is
// returned. The caller must not start distance tracking in that case.
func (e *TransitionEngine) Track(ctx context.Context, cmd TrackOrderCommand) (PhaseContext, error) {
	if err := cmd.Validate(); err != nil {
		return PhaseContext{}, err
	}

	snapshot, err := e.store.Get(ctx, cmd.OrderID())
	if err != nil {
		return PhaseContext{}, err
	}
	if err = snapshot.Validate(); err != nil {
		return PhaseContext{}, err
	}

	res := phase.Resolve(snapshot.Status(), snapshot.CustomerAddress(), snapshot.StoreAddress())
	pc := newPhaseContext(res)
	if override, ok := cmd.Override(); ok {
		pc = pc.withDestinationOverride(override)
	}

	if _, ok := pc.Coordinate(); !ok {
		registered := pc
		if prior, ok := priorResolution(res.Phase, snapshot); ok {
			registered = newPhaseContext(prior)
		}
		e.register(snapshot, registered)
		return registered, NewMissingDestinationError(snapshot.ID(), res.Phase)
	}

	e.register(snapshot, pc)
	return pc, nil
}

// CompleteLeg commits the active leg of a tracked order.
//
// Non-terminal legs write the status of the next leg and advance the phase
// context. Terminal legs write the closing status and delete the assignment
// row, removing the session; a later CompleteLeg for the same id is an
// ErrUnknownOrder.
func (e *TransitionEngine) CompleteLeg(ctx context.Context, cmd CompleteLegCommand) (LegCompletion, error) {
	if err := cmd.Validate(); err != nil {
		return LegCompletion{}, err
	}

	s, err := e.session(cmd.OrderID())
	if err != nil {
		return LegCompletion{}, err
	}

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	// The session may have been finalized while waiting for the lock.
	if _, err = e.session(cmd.OrderID()); err != nil {
		return LegCompletion{}, err
	}

	e.mu.RLock()
	current := s.context
	pending := s.cleanupErr
	e.mu.RUnlock()

	if pending != nil {
		return LegCompletion{}, pending
	}

	switch current.Phase() {
	case phase.PickupToPickup:
		return e.advance(ctx, s, order.StatusPickedUp)
	case phase.StoreToCollect:
		return e.advance(ctx, s, order.StatusShipped)
	case phase.PickupToStore:
		return e.finalize(ctx, s, order.StatusReached)
	case phase.StoreToCustomer:
		return e.finalize(ctx, s, order.StatusCompleted)
	default:
		return LegCompletion{}, phase.ErrUnknownPhase
	}
}

// RetryCleanup retries the row deletion of a partially completed terminal
// leg. The closing status is already durable, so only the delete is
// reissued. Succeeds trivially when no cleanup is pending.
func (e *TransitionEngine) RetryCleanup(ctx context.Context, orderID string) error {
	s, err := e.session(orderID)
	if err != nil {
		return err
	}

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	e.mu.RLock()
	pending := s.cleanupPending
	status := s.order.Status()
	if s.cleanupErr != nil {
		status = s.cleanupErr.Status
	}
	e.mu.RUnlock()

	if !pending {
		return nil
	}

	if err = e.store.Delete(ctx, orderID); err != nil {
		failure := NewPartialCompletionError(orderID, status, err)
		e.mu.Lock()
		s.cleanupErr = failure
		e.mu.Unlock()
		return failure
	}

	e.mu.Lock()
	delete(e.sessions, orderID)
	e.mu.Unlock()
	return nil
}

// Refresh replaces a tracked order's snapshot with a newer one and
// re-derives the phase when the persisted status changed externally.
// Returns the (possibly unchanged) context and whether the phase moved.
//
// Cleanup-pending sessions are left alone: their row is about to disappear.
func (e *TransitionEngine) Refresh(snapshot *order.Order) (PhaseContext, bool, error) {
	if err := snapshot.Validate(); err != nil {
		return PhaseContext{}, false, err
	}

	s, err := e.session(snapshot.ID())
	if err != nil {
		return PhaseContext{}, false, err
	}

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if s.cleanupPending {
		return s.context, false, nil
	}

	if snapshot.Status() == s.order.Status() {
		s.order = snapshot
		return s.context, false, nil
	}

	res := phase.Resolve(snapshot.Status(), snapshot.CustomerAddress(), snapshot.StoreAddress())
	pc := newPhaseContext(res)
	s.order = snapshot

	if _, ok := pc.Coordinate(); !ok {
		if prior, ok := priorResolution(res.Phase, snapshot); ok {
			pc = newPhaseContext(prior)
		}
		s.context = pc
		return pc, true, NewMissingDestinationError(snapshot.ID(), res.Phase)
	}

	s.context = pc
	return pc, true, nil
}

// CurrentContext returns the live phase context of a tracked order.
func (e *TransitionEngine) CurrentContext(orderID string) (PhaseContext, error) {
	s, err := e.session(orderID)
	if err != nil {
		return PhaseContext{}, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return s.context, nil
}

// Snapshot returns the order snapshot a tracked session was last loaded
// with.
func (e *TransitionEngine) Snapshot(orderID string) (*order.Order, error) {
	s, err := e.session(orderID)
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return s.order, nil
}

// CleanupPending reports whether the order sits in the "leg committed,
// cleanup pending" state after a partial completion.
func (e *TransitionEngine) CleanupPending(orderID string) bool {
	s, err := e.session(orderID)
	if err != nil {
		return false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	return s.cleanupPending
}

// TrackedIDs returns the ids of all orders with an active session.
func (e *TransitionEngine) TrackedIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Untrack drops the session for the given order without touching the record
// store. Used on controller teardown.
func (e *TransitionEngine) Untrack(orderID string) {
	e.mu.Lock()
	delete(e.sessions, orderID)
	e.mu.Unlock()
}

func (e *TransitionEngine) register(snapshot *order.Order, pc PhaseContext) {
	e.mu.Lock()
	existing, ok := e.sessions[snapshot.ID()]
	if !ok {
		e.sessions[snapshot.ID()] = &session{order: snapshot, context: pc}
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	// Re-tracking an order must not replace the working state underneath an
	// in-flight transition, so take the session's transition lock first
	// (same lock order as CompleteLeg: transitionMu, then mu).
	existing.transitionMu.Lock()
	defer existing.transitionMu.Unlock()

	e.mu.Lock()
	existing.order = snapshot
	existing.context = pc
	// A transition may have finalized the session while we waited for its
	// lock; the fresh snapshot re-registers it either way.
	e.sessions[snapshot.ID()] = existing
	e.mu.Unlock()
}

func (e *TransitionEngine) session(orderID string) (*session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.sessions[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOrder, orderID)
	}
	return s, nil
}

// advance commits a non-terminal leg: one status update, then a new context
// for the next leg. Fails fast before the network call when the next leg has
// no usable coordinate.
func (e *TransitionEngine) advance(ctx context.Context, s *session, newStatus order.Status) (LegCompletion, error) {
	next, ok := phase.ResolveNext(s.context.Phase(), s.order.CustomerAddress(), s.order.StoreAddress())
	if !ok {
		return LegCompletion{}, phase.ErrUnknownPhase
	}

	nextCtx := newPhaseContext(next)
	if _, hasCoord := nextCtx.Coordinate(); !hasCoord {
		return LegCompletion{}, NewMissingDestinationError(s.order.ID(), next.Phase)
	}

	if err := e.store.UpdateStatus(ctx, s.order.ID(), newStatus); err != nil {
		return LegCompletion{}, NewRemoteFailureError(s.order.ID(), "update status", err)
	}

	e.mu.Lock()
	s.context = nextCtx
	e.mu.Unlock()

	return LegCompletion{Next: nextCtx}, nil
}

// finalize commits a terminal leg: the closing status update followed by
// the row deletion. A failed update leaves nothing durable; a failed delete
// after a durable update parks the session as cleanup-pending.
func (e *TransitionEngine) finalize(ctx context.Context, s *session, closing order.Status) (LegCompletion, error) {
	if err := e.store.UpdateStatus(ctx, s.order.ID(), closing); err != nil {
		return LegCompletion{}, NewRemoteFailureError(s.order.ID(), "update status", err)
	}

	if err := e.store.Delete(ctx, s.order.ID()); err != nil {
		failure := NewPartialCompletionError(s.order.ID(), closing, err)
		e.mu.Lock()
		s.cleanupPending = true
		s.cleanupErr = failure
		e.mu.Unlock()
		return LegCompletion{}, failure
	}

	e.mu.Lock()
	delete(e.sessions, s.order.ID())
	e.mu.Unlock()

	return LegCompletion{Finalized: true, ClosingStatus: closing}, nil
}

// priorResolution maps a leg that cannot be entered back onto the leg the
// order effectively stays in, so the session remains queryable.
func priorResolution(p phase.Phase, snapshot *order.Order) (phase.Resolution, bool) {
	switch p {
	case phase.PickupToStore:
		return phase.Resolution{
			Phase:  phase.PickupToPickup,
			Target: snapshot.CustomerAddress(),
			Label:  phase.LabelCustomerPickup,
		}, true
	case phase.StoreToCustomer:
		return phase.Resolution{
			Phase:  phase.StoreToCollect,
			Target: snapshot.StoreAddress(),
			Label:  phase.LabelStore,
		}, true
	default:
		return phase.Resolution{}, false
	}
}
