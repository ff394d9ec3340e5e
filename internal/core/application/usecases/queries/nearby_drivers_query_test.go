package queries_test

import (
	"testing"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNearbyDriversQuery_Valid(t *testing.T) {
	center, err := kernel.NewGeoPoint(18.52, 73.85)
	require.NoError(t, err)

	query, err := queries.NewNearbyDriversQuery(center, 25, driver.ModeWork, 10)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, center, query.Center())
	assert.InDelta(t, 25.0, query.RadiusKm(), 0.0001)
	assert.Equal(t, driver.ModeWork, query.Mode())
	assert.Equal(t, 10, query.Limit())
}

func TestNewNearbyDriversQuery_RestMode(t *testing.T) {
	center, err := kernel.NewGeoPoint(18.52, 73.85)
	require.NoError(t, err)

	query, err := queries.NewNearbyDriversQuery(center, 25, driver.ModeRest, 10)
	require.NoError(t, err)
	assert.Equal(t, driver.ModeRest, query.Mode())
}

func TestNewNearbyDriversQuery_InvalidParameters(t *testing.T) {
	center, err := kernel.NewGeoPoint(18.52, 73.85)
	require.NoError(t, err)

	tests := []struct {
		name     string
		radiusKm float64
		mode     driver.Mode
		limit    int
	}{
		{"zero radius", 0, driver.ModeWork, 10},
		{"negative radius", -5, driver.ModeWork, 10},
		{"radius above cap", 501, driver.ModeWork, 10},
		{"unknown mode", 25, driver.Mode("sleep_mode"), 10},
		{"empty mode", 25, driver.Mode(""), 10},
		{"zero limit", 25, driver.ModeWork, 0},
		{"limit above cap", 25, driver.ModeWork, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queries.NewNearbyDriversQuery(center, tt.radiusKm, tt.mode, tt.limit)
			require.Error(t, err)
		})
	}
}

func TestNearbyDriversQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.NearbyDriversQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrNearbyDriversQueryIsNotConstructed)
}
