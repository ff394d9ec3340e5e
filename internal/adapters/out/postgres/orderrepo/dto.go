// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between the domain model and its relational
// representation across the orders, drop_stops and track_points tables.
package orderrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by driver, status and the bidding window so the active-order lookup
// and the scheduled sweeps stay cheap.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	TransporterID *uuid.UUID `gorm:"type:uuid;index"`
	DriverID      *uuid.UUID `gorm:"type:uuid;index"`
	TruckID       *uuid.UUID `gorm:"type:uuid"`

	PickupAddress string      `gorm:"type:varchar(512);not null"`
	Pickup        GeoPointDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	SizeCategory  string      `gorm:"type:varchar(32);not null"`
	BodyType      string      `gorm:"type:varchar(32);not null"`
	DistanceKm    float64     `gorm:"type:double precision;not null"`

	Status          int `gorm:"type:int;not null;index"`
	AssignmentEpoch int `gorm:"type:int;not null"`
	CompletedStops  int `gorm:"type:int;not null"`

	CurrentLat *float64   `gorm:"type:double precision"`
	CurrentLng *float64   `gorm:"type:double precision"`
	CurrentAt  *time.Time `gorm:""`

	StartedAt      *time.Time `gorm:""`
	LastProgressAt *time.Time `gorm:"index"`
	CompletedAt    *time.Time `gorm:""`

	BiddingOpen      bool       `gorm:"not null;index"`
	BiddingExpiresAt *time.Time `gorm:"index"`

	DropStops   []DropStopDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TrackPoints []TrackPointDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// GeoPointDTO represents embedded WGS-84 coordinates within a table row.
type GeoPointDTO struct {
	Lat float64 `gorm:"type:double precision;not null"`
	Lng float64 `gorm:"type:double precision;not null"`
}

// DropStopDTO represents one delivery stop of an order. The composite key
// keeps stop indexes unique per order.
type DropStopDTO struct {
	OrderID      uuid.UUID   `gorm:"type:uuid;primaryKey"`
	StopIndex    int         `gorm:"primaryKey"`
	Address      string      `gorm:"type:varchar(512);not null"`
	Point        GeoPointDTO `gorm:"embedded;embeddedPrefix:point_"`
	ContactName  string      `gorm:"type:varchar(255)"`
	ContactPhone string      `gorm:"type:varchar(32)"`
	Instructions string      `gorm:"type:text"`
}

// TableName specifies the database table name for drop stop entities.
func (DropStopDTO) TableName() string {
	return "drop_stops"
}

// TrackPointDTO represents one entry in an order's append-only tracking
// history. Rows are only ever inserted; the auto-increment key preserves
// submission order.
type TrackPointDTO struct {
	ID         uint        `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	Point      GeoPointDTO `gorm:"embedded;embeddedPrefix:point_"`
	RecordedAt time.Time   `gorm:"not null"`
}

// TableName specifies the database table name for track point entities.
func (TrackPointDTO) TableName() string {
	return "track_points"
}

// fromDomain converts an order aggregate to its database representation.
// Tracking history is deliberately not mapped: track points are written
// through AppendTrackPoint only, never rewritten with the aggregate.
func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		CustomerID:    o.CustomerID().Bytes(),
		TransporterID: optionalUUID(o.TransporterID()),
		DriverID:      optionalUUID(o.DriverID()),
		TruckID:       optionalUUID(o.TruckID()),
		PickupAddress: o.PickupAddress(),
		Pickup: GeoPointDTO{
			Lat: o.Pickup().Lat(),
			Lng: o.Pickup().Lng(),
		},
		SizeCategory:     o.Load().SizeCategory(),
		BodyType:         o.Load().BodyType(),
		DistanceKm:       o.DistanceKm(),
		Status:           int(o.Status()),
		AssignmentEpoch:  o.AssignmentEpoch(),
		CompletedStops:   o.CompletedStops(),
		StartedAt:        o.Timeline().StartedAt(),
		LastProgressAt:   o.Timeline().LastProgressAt(),
		CompletedAt:      o.Timeline().CompletedAt(),
		BiddingOpen:      o.IsBiddingOpen(),
		BiddingExpiresAt: o.BiddingExpiresAt(),
	}

	if current := o.CurrentLocation(); current != nil {
		lat, lng, at := current.Point().Lat(), current.Point().Lng(), current.RecordedAt()
		dto.CurrentLat = &lat
		dto.CurrentLng = &lng
		dto.CurrentAt = &at
	}

	for _, stop := range o.DropStops() {
		dto.DropStops = append(dto.DropStops, DropStopDTO{
			OrderID:   dto.ID,
			StopIndex: stop.Index(),
			Address:   stop.Address(),
			Point: GeoPointDTO{
				Lat: stop.Point().Lat(),
				Lng: stop.Point().Lng(),
			},
			ContactName:  stop.ContactName(),
			ContactPhone: stop.ContactPhone(),
			Instructions: stop.Instructions(),
		})
	}

	return dto
}

// toDomain converts a database DTO to an order aggregate using RestoreOrder.
// The DTO must have its DropStops and TrackPoints associations loaded.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	transporterID, err := domainUUID(dto.TransporterID)
	if err != nil {
		return nil, err
	}
	driverID, err := domainUUID(dto.DriverID)
	if err != nil {
		return nil, err
	}
	truckID, err := domainUUID(dto.TruckID)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewGeoPoint(dto.Pickup.Lat, dto.Pickup.Lng)
	if err != nil {
		return nil, err
	}

	stops := make([]order.DropStop, 0, len(dto.DropStops))
	for _, stopDTO := range dto.DropStops {
		point, stopErr := kernel.NewGeoPoint(stopDTO.Point.Lat, stopDTO.Point.Lng)
		if stopErr != nil {
			return nil, stopErr
		}

		stop, stopErr := order.NewDropStop(stopDTO.StopIndex, stopDTO.Address, point,
			stopDTO.ContactName, stopDTO.ContactPhone, stopDTO.Instructions)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	load, err := order.NewLoad(dto.SizeCategory, dto.BodyType)
	if err != nil {
		return nil, err
	}

	var current *order.TrackPoint
	if dto.CurrentLat != nil && dto.CurrentLng != nil && dto.CurrentAt != nil {
		point, tpErr := kernel.NewGeoPoint(*dto.CurrentLat, *dto.CurrentLng)
		if tpErr != nil {
			return nil, tpErr
		}
		tp, tpErr := order.NewTrackPoint(point, *dto.CurrentAt)
		if tpErr != nil {
			return nil, tpErr
		}
		current = &tp
	}

	history := make([]order.TrackPoint, 0, len(dto.TrackPoints))
	for _, tpDTO := range dto.TrackPoints {
		point, tpErr := kernel.NewGeoPoint(tpDTO.Point.Lat, tpDTO.Point.Lng)
		if tpErr != nil {
			return nil, tpErr
		}
		tp, tpErr := order.NewTrackPoint(point, tpDTO.RecordedAt)
		if tpErr != nil {
			return nil, tpErr
		}
		history = append(history, tp)
	}

	return order.RestoreOrder(
		id,
		customerID,
		transporterID,
		driverID,
		truckID,
		dto.PickupAddress,
		pickup,
		stops,
		load,
		dto.DistanceKm,
		order.Status(dto.Status),
		dto.AssignmentEpoch,
		dto.CompletedStops,
		current,
		history,
		order.RestoreTimeline(dto.StartedAt, dto.LastProgressAt, dto.CompletedAt),
		dto.BiddingOpen,
		dto.BiddingExpiresAt,
	)
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil //absence is a valid mapping result
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
