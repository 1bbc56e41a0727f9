package phase_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/address"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/phase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerAddress() address.Record {
	return address.Normalize(map[string]any{
		"recipient_name": "Asha Rao",
		"phone_number":   "+919876543210",
		"latitude":       12.9716,
		"longitude":      77.5946,
	})
}

func storeAddress() address.Record {
	return address.Normalize(map[string]any{
		"recipient_name": "MG Road Store",
		"latitude":       12.9352,
		"longitude":      77.6245,
	})
}

func TestResolve(t *testing.T) {
	customer := customerAddress()
	store := storeAddress()

	t.Run("should map pickup statuses to first leg", func(t *testing.T) {
		for _, status := range []order.Status{
			order.StatusAssigned,
			order.StatusAccepted,
			order.StatusProcessing,
			order.StatusConfirmed,
		} {
			res := phase.Resolve(status, customer, store)

			assert.Equal(t, phase.PickupToPickup, res.Phase, "status %s", status)
			assert.Equal(t, customer, res.Target, "status %s", status)
			assert.Equal(t, phase.LabelCustomerPickup, res.Label, "status %s", status)
		}
	})

	t.Run("should map picked_up to store leg", func(t *testing.T) {
		res := phase.Resolve(order.StatusPickedUp, customer, store)

		assert.Equal(t, phase.PickupToStore, res.Phase)
		assert.Equal(t, store, res.Target)
		assert.Equal(t, phase.LabelStore, res.Label)
	})

	t.Run("should map store-hold statuses to collection leg", func(t *testing.T) {
		for _, status := range []order.Status{order.StatusReceived, order.StatusReadyForDelivery} {
			res := phase.Resolve(status, customer, store)

			assert.Equal(t, phase.StoreToCollect, res.Phase, "status %s", status)
			assert.Equal(t, store, res.Target, "status %s", status)
			assert.Equal(t, phase.LabelStore, res.Label, "status %s", status)
		}
	})

	t.Run("should map shipped statuses to final leg", func(t *testing.T) {
		for _, status := range []order.Status{order.StatusShipped, order.StatusOutForDelivery} {
			res := phase.Resolve(status, customer, store)

			assert.Equal(t, phase.StoreToCustomer, res.Phase, "status %s", status)
			assert.Equal(t, customer, res.Target, "status %s", status)
			assert.Equal(t, phase.LabelCustomerDelivery, res.Label, "status %s", status)
		}
	})

	t.Run("should be case-insensitive", func(t *testing.T) {
		res := phase.Resolve(order.Status(" Picked_Up "), customer, store)

		assert.Equal(t, phase.PickupToStore, res.Phase)
	})

	t.Run("should fall back to first leg for unknown status", func(t *testing.T) {
		res := phase.Resolve("totally_unknown_status", customer, store)

		assert.Equal(t, phase.PickupToPickup, res.Phase)
		assert.Equal(t, customer, res.Target)
		assert.Equal(t, phase.LabelFallbackPickup, res.Label)
	})

	t.Run("should fall back to store address when customer is empty", func(t *testing.T) {
		res := phase.Resolve("totally_unknown_status", address.Record{}, store)

		assert.Equal(t, phase.PickupToPickup, res.Phase)
		assert.Equal(t, store, res.Target)
	})

	t.Run("should yield coordinate-less target rather than fail", func(t *testing.T) {
		bare := address.Normalize(map[string]any{"recipient_name": "MG Road Store"})

		res := phase.Resolve(order.StatusPickedUp, customer, bare)

		assert.Equal(t, phase.PickupToStore, res.Phase)
		assert.False(t, res.Target.HasCoordinate())
	})
}

func TestResolveNext(t *testing.T) {
	customer := customerAddress()
	store := storeAddress()

	t.Run("should advance first leg to store leg", func(t *testing.T) {
		res, ok := phase.ResolveNext(phase.PickupToPickup, customer, store)

		require.True(t, ok)
		assert.Equal(t, phase.PickupToStore, res.Phase)
		assert.Equal(t, store, res.Target)
		assert.Equal(t, phase.LabelStore, res.Label)
	})

	t.Run("should advance collection leg to final leg", func(t *testing.T) {
		res, ok := phase.ResolveNext(phase.StoreToCollect, customer, store)

		require.True(t, ok)
		assert.Equal(t, phase.StoreToCustomer, res.Phase)
		assert.Equal(t, customer, res.Target)
		assert.Equal(t, phase.LabelCustomerDelivery, res.Label)
	})

	t.Run("should report terminal legs as having no next", func(t *testing.T) {
		_, ok := phase.ResolveNext(phase.PickupToStore, customer, store)
		assert.False(t, ok)

		_, ok = phase.ResolveNext(phase.StoreToCustomer, customer, store)
		assert.False(t, ok)
	})
}

func TestContactPhone(t *testing.T) {
	customer := customerAddress()

	t.Run("should use customer phone on customer-bound legs", func(t *testing.T) {
		store := storeAddress()

		assert.Equal(t, "+919876543210", phase.ContactPhone(phase.PickupToPickup, customer, store))
		assert.Equal(t, "+919876543210", phase.ContactPhone(phase.StoreToCustomer, customer, store))
	})

	t.Run("should prefer store phone on store-bound legs", func(t *testing.T) {
		store := address.Normalize(map[string]any{"phone_number": "+918012345678"})

		assert.Equal(t, "+918012345678", phase.ContactPhone(phase.PickupToStore, customer, store))
		assert.Equal(t, "+918012345678", phase.ContactPhone(phase.StoreToCollect, customer, store))
	})

	t.Run("should fall back to customer phone when store has none", func(t *testing.T) {
		store := storeAddress()

		assert.Equal(t, "+919876543210", phase.ContactPhone(phase.PickupToStore, customer, store))
	})
}
