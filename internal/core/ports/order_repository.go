package ports

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status, assignment, and tracking activity.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. Scalar state
	// only: tracking history is append-only and written through
	// AppendTrackPoint, never rewritten here.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier, including
	// drop stops and tracking history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveByDriver retrieves the driver's current non-terminal order,
	// if any. A driver works at most one order at a time.
	GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*order.Order, error)

	// GetWithExpiredBidding retrieves orders whose bidding window is still
	// open but whose auction deadline has passed. Used by the expiry sweep.
	GetWithExpiredBidding(ctx context.Context, now time.Time) ([]*order.Order, error)

	// GetStaleInTransit retrieves moving orders with no progress event
	// since the cutoff. Used by delay detection.
	GetStaleInTransit(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// AppendTrackPoint appends a single position report to the order's
	// tracking history without touching the rest of the aggregate.
	AppendTrackPoint(ctx context.Context, orderID kernel.UUID, point order.TrackPoint) error
}
