package orderrepo

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its drop stops to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves the order's scalar state. Drop stops are immutable after
// creation and track points only grow through AppendTrackPoint, so neither
// association is rewritten here.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "DropStops", "TrackPoints").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID with its stops and tracking history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByDriver retrieves the driver's current non-terminal order.
// A driver moves one load at a time, so at most one row matches.
func (r *GormOrderRepository) GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*order.Order, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.preloaded(ctx).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(), activeStatuses()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active order for driver", driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetWithExpiredBidding retrieves orders whose auction deadline passed while
// bidding was still open.
func (r *GormOrderRepository) GetWithExpiredBidding(ctx context.Context, now time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("bidding_open = ? AND bidding_expires_at IS NOT NULL AND bidding_expires_at <= ?", true, now).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetStaleInTransit retrieves moving orders whose last progress event is
// older than the cutoff (or that never reported progress).
func (r *GormOrderRepository) GetStaleInTransit(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("status = ? AND (last_progress_at IS NULL OR last_progress_at <= ?)", int(order.InTransit), cutoff).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// AppendTrackPoint inserts a single tracking history row. History rows are
// never updated or deleted, which keeps concurrent reports append-only.
func (r *GormOrderRepository) AppendTrackPoint(ctx context.Context, orderID kernel.UUID, point order.TrackPoint) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	dto := TrackPointDTO{
		OrderID: orderID.Bytes(),
		Point: GeoPointDTO{
			Lat: point.Point().Lat(),
			Lng: point.Point().Lng(),
		},
		RecordedAt: point.RecordedAt(),
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("DropStops", func(db *gorm.DB) *gorm.DB {
			return db.Order("stop_index ASC")
		}).
		Preload("TrackPoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func activeStatuses() []int {
	return []int{int(order.AtPickup), int(order.InTransit), int(order.Delayed)}
}
