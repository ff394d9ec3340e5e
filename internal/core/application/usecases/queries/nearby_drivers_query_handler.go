package queries

import (
	"context"
	"database/sql"
	"time"

	"freight/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NearbyDriversQueryHandler answers proximity searches from the driver
// location index and enriches the hits with profile data from the drivers
// table. The index is the authority on who is nearby; the database only
// supplies names. Hits whose profile row is missing are dropped, since the
// index may briefly lag a driver deletion.
type NearbyDriversQueryHandler struct {
	index ports.DriverLocationIndex
	db    *gorm.DB
}

// NewNearbyDriversQueryHandler creates a handler for driver proximity queries.
func NewNearbyDriversQueryHandler(index ports.DriverLocationIndex, db *gorm.DB) NearbyDriversQueryHandler {
	return NearbyDriversQueryHandler{index: index, db: db}
}

// Handle executes the proximity search. Results come back closest first.
func (h NearbyDriversQueryHandler) Handle(
	ctx context.Context,
	query NearbyDriversQuery,
) ([]NearbyDriverResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	hits, err := h.index.SearchNearby(ctx, query.Center(), query.RadiusKm(), query.Mode(), query.Limit())
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return []NearbyDriverResponse{}, nil
	}

	profiles, err := h.loadProfiles(ctx, hits)
	if err != nil {
		return nil, err
	}

	drivers := make([]NearbyDriverResponse, 0, len(hits))
	for _, hit := range hits {
		profile, ok := profiles[hit.DriverID.Bytes()]
		if !ok {
			continue
		}

		drivers = append(drivers, NearbyDriverResponse{
			DriverID:          hit.DriverID,
			Name:              profile.name,
			Lat:               hit.Point.Lat(),
			Lng:               hit.Point.Lng(),
			DistanceKm:        hit.DistanceKm,
			PositionUpdatedAt: profile.positionUpdatedAt,
		})
	}

	return drivers, nil
}

type driverProfile struct {
	name              string
	positionUpdatedAt *time.Time
}

func (h NearbyDriversQueryHandler) loadProfiles(
	ctx context.Context,
	hits []ports.NearbyDriver,
) (map[uuid.UUID]driverProfile, error) {
	ids := make([]uuid.UUID, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.DriverID.Bytes())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			position_updated_at
		FROM drivers
		WHERE id IN ?
	`, ids).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make(map[uuid.UUID]driverProfile, len(hits))
	for rows.Next() {
		var (
			id        uuid.UUID
			name      string
			updatedAt sql.NullTime
		)

		err = rows.Scan(&id, &name, &updatedAt)
		if err != nil {
			return nil, err
		}
		profiles[id] = driverProfile{name: name, positionUpdatedAt: nullableTime(updatedAt)}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
