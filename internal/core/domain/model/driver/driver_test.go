package driver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
)

func TestNewDriver(t *testing.T) {
	t.Run("should create driver resting with no position", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Ramesh")

		require.NoError(t, err)
		assert.NoError(t, d.Validate())
		assert.Equal(t, driver.ModeRest, d.Mode())
		assert.False(t, d.IsAvailable())
		assert.Nil(t, d.LastKnownPosition())
		assert.Nil(t, d.PositionUpdatedAt())
		assert.Nil(t, d.ModeChangedAt())
	})

	t.Run("should fail without a name", func(t *testing.T) {
		_, err := driver.NewDriver(kernel.NewUUID(), "")

		assert.Error(t, err)
	})

	t.Run("should fail validation for zero value driver", func(t *testing.T) {
		var d driver.Driver

		assert.ErrorIs(t, d.Validate(), driver.ErrDriverIsNotConstructed)
	})
}

func TestDriverSetMode(t *testing.T) {
	now := time.Now()

	t.Run("should switch between work and rest", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Ramesh")
		require.NoError(t, err)

		require.NoError(t, d.SetMode(driver.ModeWork, now))
		assert.True(t, d.IsAvailable())
		require.NotNil(t, d.ModeChangedAt())
		assert.Equal(t, now, *d.ModeChangedAt())

		require.NoError(t, d.SetMode(driver.ModeRest, now))
		assert.False(t, d.IsAvailable())
	})

	t.Run("should not restamp when setting the same mode twice", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Ramesh")
		require.NoError(t, err)
		require.NoError(t, d.SetMode(driver.ModeWork, now))

		later := now.Add(time.Hour)
		require.NoError(t, d.SetMode(driver.ModeWork, later))

		assert.Equal(t, now, *d.ModeChangedAt())
	})

	t.Run("should reject unknown modes", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Ramesh")
		require.NoError(t, err)

		assert.Error(t, d.SetMode(driver.Mode("sleep_mode"), now))
	})
}

func TestDriverReportPosition(t *testing.T) {
	t.Run("should record position and time", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Ramesh")
		require.NoError(t, err)
		point, err := kernel.NewGeoPoint(18.52, 73.85)
		require.NoError(t, err)
		now := time.Now()

		require.NoError(t, d.ReportPosition(point, now))

		require.NotNil(t, d.LastKnownPosition())
		equal, err := d.LastKnownPosition().IsEqual(point)
		require.NoError(t, err)
		assert.True(t, equal)
		require.NotNil(t, d.PositionUpdatedAt())
		assert.Equal(t, now, *d.PositionUpdatedAt())
	})

	t.Run("should reject an unconstructed position", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Ramesh")
		require.NoError(t, err)

		assert.Error(t, d.ReportPosition(kernel.GeoPoint{}, time.Now()))
		assert.Nil(t, d.LastKnownPosition())
	})
}

func TestParseMode(t *testing.T) {
	t.Run("should parse known modes", func(t *testing.T) {
		for raw, expected := range map[string]driver.Mode{
			"work_mode": driver.ModeWork,
			"rest_mode": driver.ModeRest,
		} {
			got, err := driver.ParseMode(raw)

			assert.NoError(t, err)
			assert.Equal(t, expected, got)
		}
	})

	t.Run("should fail on unknown mode", func(t *testing.T) {
		_, err := driver.ParseMode("offline")

		assert.Error(t, err)
	})
}
