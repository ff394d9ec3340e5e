package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

const (
	maxSearchRadiusKm = 500.0
	maxSearchLimit    = 100
)

var (
	// ErrNearbyDriversQueryIsNotConstructed is returned when the query was
	// not created via its constructor.
	ErrNearbyDriversQueryIsNotConstructed = errors.New(
		"NearbyDriversQuery must be created via NewNearbyDriversQuery constructor",
	)
)

// NearbyDriversQuery searches one mode partition of the location index for
// drivers around a point. Dispatch searches the work partition; the rest
// partition is reachable for operator tooling.
type NearbyDriversQuery struct {
	center   kernel.GeoPoint
	radiusKm float64
	mode     driver.Mode
	limit    int
	guard    guard.ConstructorGuard
}

// NewNearbyDriversQuery creates a proximity search around center over the
// given mode partition. The radius is capped to keep searches bounded; the
// limit caps result size.
func NewNearbyDriversQuery(
	center kernel.GeoPoint, radiusKm float64, mode driver.Mode, limit int,
) (NearbyDriversQuery, error) {
	if err := center.Validate(); err != nil {
		return NearbyDriversQuery{}, err
	}
	if radiusKm <= 0 || radiusKm > maxSearchRadiusKm {
		return NearbyDriversQuery{}, errs.NewValueIsOutOfRangeError("radiusKm", radiusKm, 0, maxSearchRadiusKm)
	}
	if err := mode.Validate(); err != nil {
		return NearbyDriversQuery{}, err
	}
	if limit <= 0 || limit > maxSearchLimit {
		return NearbyDriversQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxSearchLimit)
	}

	return NearbyDriversQuery{
		center:   center,
		radiusKm: radiusKm,
		mode:     mode,
		limit:    limit,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q NearbyDriversQuery) Validate() error {
	return q.guard.Validate(ErrNearbyDriversQueryIsNotConstructed)
}

// Center returns the search origin.
func (q NearbyDriversQuery) Center() kernel.GeoPoint {
	return q.center
}

// RadiusKm returns the search radius in kilometers.
func (q NearbyDriversQuery) RadiusKm() float64 {
	return q.radiusKm
}

// Mode returns the availability partition to search.
func (q NearbyDriversQuery) Mode() driver.Mode {
	return q.mode
}

// Limit returns the maximum number of results.
func (q NearbyDriversQuery) Limit() int {
	return q.limit
}

// NearbyDriverResponse is one driver hit from a proximity search, enriched
// with the driver's profile fields.
type NearbyDriverResponse struct {
	DriverID          kernel.UUID
	Name              string
	Lat               float64
	Lng               float64
	DistanceKm        float64
	PositionUpdatedAt *time.Time
}
