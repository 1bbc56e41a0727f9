package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fulfillment/internal/core/application"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/phase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderStore struct{ mock.Mock }

func (m *MockOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderStore) GetAllAssigned(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderStore) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func customerPayload() map[string]any {
	return map[string]any{
		"recipient_name": "Asha Rao",
		"phone_number":   "+919876543210",
		"latitude":       12.9716,
		"longitude":      77.5946,
	}
}

func storePayload() map[string]any {
	return map[string]any{
		"recipient_name": "MG Road Store",
		"latitude":       12.9352,
		"longitude":      77.6245,
	}
}

func restoredOrder(t *testing.T, id string, status string, customer any, store any) *order.Order {
	t.Helper()

	o, err := order.RestoreOrder(id, status, customer, store)
	require.NoError(t, err)
	return o
}

func trackedEngine(t *testing.T, store *MockOrderStore, o *order.Order) *application.TransitionEngine {
	t.Helper()

	engine, err := application.NewTransitionEngine(store)
	require.NoError(t, err)

	store.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()

	cmd, err := application.NewTrackOrderCommand(o.ID())
	require.NoError(t, err)

	_, err = engine.Track(t.Context(), cmd)
	require.NoError(t, err)
	return engine
}

func TestTransitionEngine_Track(t *testing.T) {
	t.Run("should resolve initial phase from status", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "assigned", customerPayload(), storePayload())
		store.On("Get", mock.Anything, "order-1").Return(o, nil).Once()

		engine, err := application.NewTransitionEngine(store)
		require.NoError(t, err)

		cmd, err := application.NewTrackOrderCommand("order-1")
		require.NoError(t, err)

		pc, err := engine.Track(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, phase.PickupToPickup, pc.Phase())
		assert.Equal(t, phase.LabelCustomerPickup, pc.Label())
		coord, ok := pc.Coordinate()
		require.True(t, ok)
		assert.InDelta(t, 12.9716, coord.Lat(), 1e-9)
		store.AssertExpectations(t)
	})

	t.Run("should resolve picked_up to store leg", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "picked_up", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)

		pc, err := engine.CurrentContext("order-1")

		require.NoError(t, err)
		assert.Equal(t, phase.PickupToStore, pc.Phase())
		assert.Equal(t, phase.LabelStore, pc.Label())
	})

	t.Run("should fall back for unknown status", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "totally_unknown_status", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)

		pc, err := engine.CurrentContext("order-1")

		require.NoError(t, err)
		assert.Equal(t, phase.PickupToPickup, pc.Phase())
		assert.Equal(t, phase.LabelFallbackPickup, pc.Label())
	})

	t.Run("should steer to destination override", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "assigned", customerPayload(), storePayload())
		store.On("Get", mock.Anything, "order-1").Return(o, nil).Once()

		engine, err := application.NewTransitionEngine(store)
		require.NoError(t, err)

		cmd, err := application.NewTrackOrderCommandWithOverride("order-1", 13.0, 77.6)
		require.NoError(t, err)

		pc, err := engine.Track(t.Context(), cmd)

		require.NoError(t, err)
		coord, ok := pc.Coordinate()
		require.True(t, ok)
		assert.InDelta(t, 13.0, coord.Lat(), 1e-9)
		assert.InDelta(t, 77.6, coord.Lng(), 1e-9)
	})

	t.Run("should propagate store failures", func(t *testing.T) {
		store := &MockOrderStore{}
		storeErr := errors.New("connection refused")
		store.On("Get", mock.Anything, "order-1").Return(nil, storeErr).Once()

		engine, err := application.NewTransitionEngine(store)
		require.NoError(t, err)

		cmd, err := application.NewTrackOrderCommand("order-1")
		require.NoError(t, err)

		_, err = engine.Track(t.Context(), cmd)

		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("should stay queryable in prior leg when destination is missing", func(t *testing.T) {
		store := &MockOrderStore{}
		bareStore := map[string]any{"recipient_name": "MG Road Store"}
		o := restoredOrder(t, "order-1", "picked_up", customerPayload(), bareStore)
		store.On("Get", mock.Anything, "order-1").Return(o, nil).Once()

		engine, err := application.NewTransitionEngine(store)
		require.NoError(t, err)

		cmd, err := application.NewTrackOrderCommand("order-1")
		require.NoError(t, err)

		pc, err := engine.Track(t.Context(), cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, application.ErrMissingDestination)

		var missing *application.MissingDestinationError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, phase.PickupToStore, missing.Phase)

		assert.Equal(t, phase.PickupToPickup, pc.Phase())

		current, err := engine.CurrentContext("order-1")
		require.NoError(t, err)
		assert.Equal(t, phase.PickupToPickup, current.Phase())
	})

	t.Run("should require a constructed command", func(t *testing.T) {
		store := &MockOrderStore{}
		engine, err := application.NewTransitionEngine(store)
		require.NoError(t, err)

		var cmd application.TrackOrderCommand
		_, err = engine.Track(t.Context(), cmd)

		assert.ErrorIs(t, err, application.ErrTrackOrderCommandIsNotConstructed)
	})
}

func TestTransitionEngine_CompleteLeg(t *testing.T) {
	completeLeg := func(t *testing.T, engine *application.TransitionEngine, orderID string) (application.LegCompletion, error) {
		t.Helper()
		cmd, err := application.NewCompleteLegCommand(orderID)
		require.NoError(t, err)
		return engine.CompleteLeg(t.Context(), cmd)
	}

	t.Run("should advance first leg to store leg", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "assigned", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)
		store.On("UpdateStatus", mock.Anything, "order-1", order.StatusPickedUp).Return(nil).Once()

		completion, err := completeLeg(t, engine, "order-1")

		require.NoError(t, err)
		assert.False(t, completion.Finalized)
		assert.Equal(t, phase.PickupToStore, completion.Next.Phase())
		assert.Equal(t, phase.LabelStore, completion.Next.Label())
		store.AssertExpectations(t)
	})

	t.Run("should finalize store drop with update then delete", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "picked_up", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)
		store.On("UpdateStatus", mock.Anything, "order-1", order.StatusReached).Return(nil).Once()
		store.On("Delete", mock.Anything, "order-1").Return(nil).Once()

		completion, err := completeLeg(t, engine, "order-1")

		require.NoError(t, err)
		assert.True(t, completion.Finalized)
		assert.Equal(t, order.StatusReached, completion.ClosingStatus)

		// The order left the engine's scope.
		_, err = completeLeg(t, engine, "order-1")
		assert.ErrorIs(t, err, application.ErrUnknownOrder)
		store.AssertExpectations(t)
	})

	t.Run("should advance collection leg to final leg", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "ready_for_delivery", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)
		store.On("UpdateStatus", mock.Anything, "order-1", order.StatusShipped).Return(nil).Once()

		completion, err := completeLeg(t, engine, "order-1")

		require.NoError(t, err)
		assert.Equal(t, phase.StoreToCustomer, completion.Next.Phase())
		assert.Equal(t, phase.LabelCustomerDelivery, completion.Next.Label())
	})

	t.Run("should finalize final delivery as completed", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "shipped", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)
		store.On("UpdateStatus", mock.Anything, "order-1", order.StatusCompleted).Return(nil).Once()
		store.On("Delete", mock.Anything, "order-1").Return(nil).Once()

		completion, err := completeLeg(t, engine, "order-1")

		require.NoError(t, err)
		assert.True(t, completion.Finalized)
		assert.Equal(t, order.StatusCompleted, completion.ClosingStatus)
		store.AssertExpectations(t)
	})

	t.Run("should fail fast when next leg has no destination", func(t *testing.T) {
		store := &MockOrderStore{}
		bareStore := map[string]any{"recipient_name": "MG Road Store"}
		o := restoredOrder(t, "order-1", "assigned", customerPayload(), bareStore)
		engine := trackedEngine(t, store, o)

		_, err := completeLeg(t, engine, "order-1")

		require.Error(t, err)
		assert.ErrorIs(t, err, application.ErrMissingDestination)

		// Nothing was mutated and the phase did not move.
		store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		current, err := engine.CurrentContext("order-1")
		require.NoError(t, err)
		assert.Equal(t, phase.PickupToPickup, current.Phase())
	})

	t.Run("should surface update failure without mutating state", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "assigned", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)
		storeErr := errors.New("gateway timeout")
		store.On("UpdateStatus", mock.Anything, "order-1", order.StatusPickedUp).Return(storeErr).Once()

		_, err := completeLeg(t, engine, "order-1")

		require.Error(t, err)
		assert.ErrorIs(t, err, application.ErrRemoteFailure)
		assert.ErrorIs(t, err, storeErr)

		current, err := engine.CurrentContext("order-1")
		require.NoError(t, err)
		assert.Equal(t, phase.PickupToPickup, current.Phase())
	})

	t.Run("should report partial completion when delete fails after update", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "shipped", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)
		deleteErr := errors.New("row locked")
		store.On("UpdateStatus", mock.Anything, "order-1", order.StatusCompleted).Return(nil).Once()
		store.On("Delete", mock.Anything, "order-1").Return(deleteErr).Once()

		_, err := completeLeg(t, engine, "order-1")

		require.Error(t, err)
		assert.ErrorIs(t, err, application.ErrPartialCompletion)

		var partial *application.PartialCompletionError
		require.ErrorAs(t, err, &partial)
		assert.Equal(t, order.StatusCompleted, partial.Status)

		assert.True(t, engine.CleanupPending("order-1"))

		// Completing again must not reissue the whole transition.
		_, err = completeLeg(t, engine, "order-1")
		assert.ErrorIs(t, err, application.ErrPartialCompletion)
		store.AssertExpectations(t)
	})

	t.Run("should fail for untracked order", func(t *testing.T) {
		store := &MockOrderStore{}
		engine, err := application.NewTransitionEngine(store)
		require.NoError(t, err)

		_, err = completeLeg(t, engine, "order-404")

		assert.ErrorIs(t, err, application.ErrUnknownOrder)
	})
}

func TestTransitionEngine_RetryCleanup(t *testing.T) {
	t.Run("should retry the delete alone and finish the order", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "picked_up", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)
		store.On("UpdateStatus", mock.Anything, "order-1", order.StatusReached).Return(nil).Once()
		store.On("Delete", mock.Anything, "order-1").Return(errors.New("row locked")).Once()

		cmd, err := application.NewCompleteLegCommand("order-1")
		require.NoError(t, err)
		_, err = engine.CompleteLeg(t.Context(), cmd)
		require.ErrorIs(t, err, application.ErrPartialCompletion)

		store.On("Delete", mock.Anything, "order-1").Return(nil).Once()

		require.NoError(t, engine.RetryCleanup(t.Context(), "order-1"))

		_, err = engine.CurrentContext("order-1")
		assert.ErrorIs(t, err, application.ErrUnknownOrder)

		// Only the delete was reissued.
		store.AssertNumberOfCalls(t, "UpdateStatus", 1)
		store.AssertExpectations(t)
	})

	t.Run("should succeed trivially when nothing is pending", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "assigned", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)

		require.NoError(t, engine.RetryCleanup(t.Context(), "order-1"))
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestTransitionEngine_Refresh(t *testing.T) {
	t.Run("should re-derive phase when status changed externally", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "assigned", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)

		updated := restoredOrder(t, "order-1", "ready_for_delivery", customerPayload(), storePayload())

		pc, changed, err := engine.Refresh(updated)

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, phase.StoreToCollect, pc.Phase())
	})

	t.Run("should keep phase when status is unchanged", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "assigned", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)

		same := restoredOrder(t, "order-1", "assigned", customerPayload(), storePayload())

		pc, changed, err := engine.Refresh(same)

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, phase.PickupToPickup, pc.Phase())
	})

	t.Run("should fail for untracked order", func(t *testing.T) {
		store := &MockOrderStore{}
		engine, err := application.NewTransitionEngine(store)
		require.NoError(t, err)

		foreign := restoredOrder(t, "order-404", "assigned", customerPayload(), storePayload())

		_, _, err = engine.Refresh(foreign)

		assert.ErrorIs(t, err, application.ErrUnknownOrder)
	})
}

func TestTransitionEngine_Untrack(t *testing.T) {
	t.Run("should drop the session without store calls", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "assigned", customerPayload(), storePayload())
		engine := trackedEngine(t, store, o)

		engine.Untrack("order-1")

		_, err := engine.CurrentContext("order-1")
		assert.ErrorIs(t, err, application.ErrUnknownOrder)
		store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestTransitionEngine_ConcurrentTrackAndComplete(t *testing.T) {
	t.Run("should keep re-tracking safe during leg completion", func(t *testing.T) {
		store := &MockOrderStore{}
		o := restoredOrder(t, "order-1", "assigned", customerPayload(), storePayload())
		store.On("Get", mock.Anything, "order-1").Return(o, nil)
		store.On("UpdateStatus", mock.Anything, "order-1", mock.Anything).Return(nil)
		store.On("Delete", mock.Anything, "order-1").Return(nil)

		engine, err := application.NewTransitionEngine(store)
		require.NoError(t, err)

		trackCmd, err := application.NewTrackOrderCommand("order-1")
		require.NoError(t, err)
		completeCmd, err := application.NewCompleteLegCommand("order-1")
		require.NoError(t, err)

		_, err = engine.Track(t.Context(), trackCmd)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			for range 200 {
				if _, trackErr := engine.Track(t.Context(), trackCmd); trackErr != nil {
					t.Error("track failed:", trackErr)
					return
				}
			}
		}()

		go func() {
			defer wg.Done()
			for range 200 {
				_, completeErr := engine.CompleteLeg(t.Context(), completeCmd)
				// The order may have been finalized and not yet re-tracked.
				if completeErr != nil && !errors.Is(completeErr, application.ErrUnknownOrder) {
					t.Error("complete leg failed:", completeErr)
					return
				}
			}
		}()

		wg.Wait()

		// The working state must still be coherent after the storm.
		pc, err := engine.Track(t.Context(), trackCmd)
		require.NoError(t, err)
		assert.Equal(t, phase.PickupToPickup, pc.Phase())
	})
}
