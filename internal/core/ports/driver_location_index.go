package ports

import (
	"context"

	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
)

// NearbyDriver is one hit from a proximity search.
type NearbyDriver struct {
	DriverID   kernel.UUID
	Point      kernel.GeoPoint
	DistanceKm float64
}

// DriverLocationIndex is the geospatial index of driver positions used by
// dispatch. The index is a cache over driver position reports, partitioned
// by availability mode so a search over one partition never sees drivers
// in the other. It may lag the repository; the repository stays the source
// of truth.
type DriverLocationIndex interface {
	// UpdatePosition upserts the driver's position in the partition for
	// its current mode.
	UpdatePosition(ctx context.Context, driverID kernel.UUID, mode driver.Mode, point kernel.GeoPoint) error

	// SetMode moves the driver between mode partitions, keeping its last
	// position if one is indexed.
	SetMode(ctx context.Context, driverID kernel.UUID, mode driver.Mode) error

	// Remove drops the driver from the index entirely.
	Remove(ctx context.Context, driverID kernel.UUID) error

	// SearchNearby returns drivers from the given mode partition within
	// radiusKm of the point, closest first, at most limit entries.
	SearchNearby(
		ctx context.Context, center kernel.GeoPoint, radiusKm float64, mode driver.Mode, limit int,
	) ([]NearbyDriver, error)
}
