package redis

import (
	"context"
	"fmt"

	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const driverGeoKeyPrefix = "freight:drivers:geo:"

// DriverIndex is the Redis-backed geospatial index of driver positions. Each
// availability mode has its own geo set, so proximity searches over the work
// partition never return resting drivers. The index is a cache over position
// reports; the driver repository stays the source of truth.
type DriverIndex struct {
	client *redis.Client
}

// NewDriverIndex creates a Redis-backed driver location index.
func NewDriverIndex(client *redis.Client) *DriverIndex {
	return &DriverIndex{client: client}
}

// UpdatePosition upserts the driver's position in the partition for its
// current mode and removes it from the other partition, so a stale entry
// never survives a mode change observed through a position report.
func (i *DriverIndex) UpdatePosition(
	ctx context.Context, driverID kernel.UUID, mode driver.Mode, point kernel.GeoPoint,
) error {
	member := driverID.String()

	err := i.client.GeoAdd(ctx, geoKey(mode), &redis.GeoLocation{
		Name:      member,
		Longitude: point.Lng(),
		Latitude:  point.Lat(),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index driver position: %w", err)
	}

	if err := i.client.ZRem(ctx, geoKey(otherMode(mode)), member).Err(); err != nil {
		return fmt.Errorf("failed to clear stale partition entry: %w", err)
	}

	return nil
}

// SetMode moves the driver between mode partitions, carrying over its last
// indexed position. A driver with no indexed position is simply removed from
// the old partition.
func (i *DriverIndex) SetMode(ctx context.Context, driverID kernel.UUID, mode driver.Mode) error {
	member := driverID.String()
	from := geoKey(otherMode(mode))

	positions, err := i.client.GeoPos(ctx, from, member).Result()
	if err != nil {
		return fmt.Errorf("failed to read indexed position: %w", err)
	}

	if len(positions) > 0 && positions[0] != nil {
		err = i.client.GeoAdd(ctx, geoKey(mode), &redis.GeoLocation{
			Name:      member,
			Longitude: positions[0].Longitude,
			Latitude:  positions[0].Latitude,
		}).Err()
		if err != nil {
			return fmt.Errorf("failed to move driver between partitions: %w", err)
		}
	}

	if err := i.client.ZRem(ctx, from, member).Err(); err != nil {
		return fmt.Errorf("failed to clear old partition entry: %w", err)
	}

	return nil
}

// Remove drops the driver from every partition.
func (i *DriverIndex) Remove(ctx context.Context, driverID kernel.UUID) error {
	member := driverID.String()

	for _, mode := range []driver.Mode{driver.ModeWork, driver.ModeRest} {
		if err := i.client.ZRem(ctx, geoKey(mode), member).Err(); err != nil {
			return fmt.Errorf("failed to remove driver from index: %w", err)
		}
	}

	return nil
}

// SearchNearby returns drivers from the mode partition within radiusKm of
// the point, closest first, at most limit entries. Entries with identifiers
// the domain rejects are skipped rather than failing the whole search.
func (i *DriverIndex) SearchNearby(
	ctx context.Context, center kernel.GeoPoint, radiusKm float64, mode driver.Mode, limit int,
) ([]ports.NearbyDriver, error) {
	locations, err := i.client.GeoSearchLocation(ctx, geoKey(mode), &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  center.Lng(),
			Latitude:   center.Lat(),
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to search driver index: %w", err)
	}

	drivers := make([]ports.NearbyDriver, 0, len(locations))
	for _, location := range locations {
		driverID, idErr := kernel.UUIDFromString(location.Name)
		if idErr != nil {
			continue
		}

		point, pointErr := kernel.NewGeoPoint(location.Latitude, location.Longitude)
		if pointErr != nil {
			continue
		}

		drivers = append(drivers, ports.NearbyDriver{
			DriverID:   driverID,
			Point:      point,
			DistanceKm: location.Dist,
		})
	}

	return drivers, nil
}

func geoKey(mode driver.Mode) string {
	return driverGeoKeyPrefix + string(mode)
}

func otherMode(mode driver.Mode) driver.Mode {
	if mode == driver.ModeWork {
		return driver.ModeRest
	}
	return driver.ModeWork
}
