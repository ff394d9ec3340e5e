package kernel_test

import (
	"testing"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("should create valid point with valid coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(19.0760, 72.8777)

		require.NoError(t, err)
		require.NoError(t, point.Validate())
		assert.InDelta(t, 19.0760, point.Lat(), 1e-9)
		assert.InDelta(t, 72.8777, point.Lng(), 1e-9)
	})

	t.Run("should accept boundary coordinates", func(t *testing.T) {
		for _, coords := range [][2]float64{
			{kernel.LatitudeMin, kernel.LongitudeMin},
			{kernel.LatitudeMax, kernel.LongitudeMax},
			{0, 0},
		} {
			point, err := kernel.NewGeoPoint(coords[0], coords[1])
			require.NoError(t, err)
			require.NoError(t, point.Validate())
		}
	})

	t.Run("should treat equator prime meridian as a real position", func(t *testing.T) {
		// (0,0) must not be conflated with "no position"
		point, err := kernel.NewGeoPoint(0, 0)

		require.NoError(t, err)
		require.NoError(t, point.Validate())
	})

	t.Run("should fail with latitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90.5, 72.8777)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should fail with longitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(19.0760, -180.1)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should join errors for both invalid coordinates", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(-91, 181)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "lat")
		assert.Contains(t, err.Error(), "lng")
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value should fail validation", func(t *testing.T) {
		var point kernel.GeoPoint

		err := point.Validate()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	t.Run("should report equal coordinates as equal", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		p2, _ := kernel.NewGeoPoint(12.9716, 77.5946)

		equal, err := p1.IsEqual(p2)

		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("should report different coordinates as not equal", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		p2, _ := kernel.NewGeoPoint(13.0827, 80.2707)

		equal, err := p1.IsEqual(p2)

		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("should fail when comparing with zero value", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		var p2 kernel.GeoPoint

		_, err := p1.IsEqual(p2)

		require.Error(t, err)
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	t.Run("should compute haversine distance between cities", func(t *testing.T) {
		mumbai, _ := kernel.NewGeoPoint(19.0760, 72.8777)
		pune, _ := kernel.NewGeoPoint(18.5204, 73.8567)

		km, err := mumbai.DistanceKm(pune)

		require.NoError(t, err)
		assert.InDelta(t, 120.0, km, 5.0)
	})

	t.Run("should be symmetric", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(28.7041, 77.1025)
		b, _ := kernel.NewGeoPoint(13.0827, 80.2707)

		d1, err1 := a.DistanceKm(b)
		d2, err2 := b.DistanceKm(a)

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.InDelta(t, d1, d2, 1e-9)
	})

	t.Run("should return zero for identical points", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(28.7041, 77.1025)

		km, err := a.DistanceKm(a)

		require.NoError(t, err)
		assert.InDelta(t, 0, km, 1e-9)
	})

	t.Run("should fail for unconstructed point", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(28.7041, 77.1025)
		var b kernel.GeoPoint

		_, err := a.DistanceKm(b)

		require.Error(t, err)
	})
}
