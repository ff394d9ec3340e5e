package biddingrepo

import (
	"context"
	"errors"

	"freight/internal/core/domain/model/bidding"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBiddingRepository implements BiddingRepository using GORM.
type GormBiddingRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormBiddingRepository creates a new GORM bidding repository.
func NewGormBiddingRepository(db *gorm.DB, tracker aggregateTracker) *GormBiddingRepository {
	return &GormBiddingRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new bidding ledger with its bids to the database.
func (r *GormBiddingRepository) Add(ctx context.Context, aggregate *bidding.Bidding) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.OrderID(), aggregate)
	return nil
}

// Update saves an existing ledger. Bids are reconciled against the aggregate:
// new bids are inserted, changed bids upserted, and bids the domain removed
// (cancellations) are deleted.
func (r *GormBiddingRepository) Update(ctx context.Context, aggregate *bidding.Bidding) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Model(&BiddingDTO{}).
		Where("order_id = ?", dto.OrderID).
		Select("fair_price", "is_closed").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	keep := make([]uuid.UUID, 0, len(dto.Bids))
	for _, bid := range dto.Bids {
		keep = append(keep, bid.ID)
	}

	stale := r.db.WithContext(ctx).Where("order_id = ?", dto.OrderID)
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	if err := stale.Delete(&BidDTO{}).Error; err != nil {
		return err
	}

	if len(dto.Bids) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&dto.Bids).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.OrderID(), aggregate)
	return nil
}

// GetByOrderID retrieves the ledger for an order with its bids in placement
// order.
func (r *GormBiddingRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*bidding.Bidding, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto BiddingDTO
	err := r.db.WithContext(ctx).
		Preload("Bids", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&dto, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("bidding", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
