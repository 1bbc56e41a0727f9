package kernel_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocationSample(t *testing.T) {
	coord, _ := kernel.NewCoordinate(12.9716, 77.5946)

	t.Run("should create valid sample", func(t *testing.T) {
		at := time.Date(2025, 8, 4, 10, 30, 0, 0, time.UTC)

		sample, err := kernel.NewLocationSample(coord, 8.5, at)

		require.NoError(t, err)
		require.NoError(t, sample.Validate())
		assert.Equal(t, coord, sample.Coordinate())
		assert.InDelta(t, 8.5, sample.SpeedMps(), 1e-9)
		assert.Equal(t, at, sample.RecordedAt())
	})

	t.Run("should default a zero timestamp to now", func(t *testing.T) {
		before := time.Now()

		sample, err := kernel.NewLocationSample(coord, 0, time.Time{})

		require.NoError(t, err)
		assert.False(t, sample.RecordedAt().Before(before))
	})

	t.Run("should reject an unconstructed coordinate", func(t *testing.T) {
		var zero kernel.Coordinate

		_, err := kernel.NewLocationSample(zero, 8.5, time.Now())

		require.Error(t, err)
	})

	t.Run("should reject negative speed", func(t *testing.T) {
		_, err := kernel.NewLocationSample(coord, -1, time.Now())

		require.Error(t, err)
		assert.Equal(t, kernel.ErrNegativeSpeed, err)
	})
}

func TestLocationSample_Validate(t *testing.T) {
	t.Run("should fail for zero value", func(t *testing.T) {
		var sample kernel.LocationSample

		require.Error(t, sample.Validate())
	})
}
