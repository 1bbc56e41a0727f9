package phase_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/phase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhase_String(t *testing.T) {
	t.Run("should name all legs", func(t *testing.T) {
		assert.Equal(t, "PickupToPickup", phase.PickupToPickup.String())
		assert.Equal(t, "PickupToStore", phase.PickupToStore.String())
		assert.Equal(t, "StoreToCollect", phase.StoreToCollect.String())
		assert.Equal(t, "StoreToCustomer", phase.StoreToCustomer.String())
	})

	t.Run("should return Unknown for invalid values", func(t *testing.T) {
		assert.Equal(t, "Unknown", phase.Unknown.String())
		assert.Equal(t, "Unknown", phase.Phase(42).String())
	})
}

func TestPhase_Validate(t *testing.T) {
	t.Run("should accept the four legs", func(t *testing.T) {
		for _, p := range []phase.Phase{
			phase.PickupToPickup,
			phase.PickupToStore,
			phase.StoreToCollect,
			phase.StoreToCustomer,
		} {
			require.NoError(t, p.Validate())
		}
	})

	t.Run("should reject the zero value", func(t *testing.T) {
		assert.ErrorIs(t, phase.Unknown.Validate(), phase.ErrUnknownPhase)
	})
}

func TestPhase_IsTerminalLeg(t *testing.T) {
	t.Run("should finalize on store drop and final delivery", func(t *testing.T) {
		assert.False(t, phase.PickupToPickup.IsTerminalLeg())
		assert.True(t, phase.PickupToStore.IsTerminalLeg())
		assert.False(t, phase.StoreToCollect.IsTerminalLeg())
		assert.True(t, phase.StoreToCustomer.IsTerminalLeg())
	})
}

func TestPhase_ProgressPercent(t *testing.T) {
	t.Run("should attribute base progress per leg", func(t *testing.T) {
		assert.Equal(t, 20, phase.PickupToPickup.ProgressPercent(5))
		assert.Equal(t, 40, phase.PickupToStore.ProgressPercent(5))
		assert.Equal(t, 60, phase.StoreToCollect.ProgressPercent(5))
		assert.Equal(t, 80, phase.StoreToCustomer.ProgressPercent(5))
	})

	t.Run("should add proximity bonus within half a kilometer", func(t *testing.T) {
		assert.Equal(t, 30, phase.PickupToPickup.ProgressPercent(0.4))
		assert.Equal(t, 90, phase.StoreToCustomer.ProgressPercent(0.09))
	})

	t.Run("should not grant bonus for unknown distance", func(t *testing.T) {
		assert.Equal(t, 20, phase.PickupToPickup.ProgressPercent(0))
		assert.Equal(t, 20, phase.PickupToPickup.ProgressPercent(-1))
	})
}

func TestPhase_Presentation(t *testing.T) {
	t.Run("should carry leg headline and badge", func(t *testing.T) {
		assert.Equal(t, "Navigating to Pickup Address", phase.PickupToPickup.StatusLine())
		assert.Equal(t, "Delivering to Store", phase.PickupToStore.StatusLine())
		assert.Equal(t, "Collecting from Store", phase.StoreToCollect.StatusLine())
		assert.Equal(t, "Final Delivery to Customer", phase.StoreToCustomer.StatusLine())

		assert.Equal(t, "PICKUP COLLECTION", phase.PickupToPickup.ChipText())
		assert.Equal(t, "STORE DELIVERY", phase.PickupToStore.ChipText())
		assert.Equal(t, "STORE COLLECTION", phase.StoreToCollect.ChipText())
		assert.Equal(t, "CUSTOMER DELIVERY", phase.StoreToCustomer.ChipText())
	})
}
