package ports

import (
	"context"

	"freight/internal/core/domain/model/bidding"
	"freight/internal/core/domain/model/kernel"
)

// BiddingRepository defines the persistence contract for bidding ledgers.
// A ledger is stored with all of its bids and loaded as a whole; the
// competitive invariants only hold over the complete bid set.
type BiddingRepository interface {
	// Add persists a new ledger to storage.
	Add(ctx context.Context, aggregate *bidding.Bidding) error

	// Update persists changes to an existing ledger, including bids that
	// were placed, revised, withdrawn, or settled since it was loaded.
	Update(ctx context.Context, aggregate *bidding.Bidding) error

	// GetByOrderID retrieves the ledger attached to an order with all bids.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*bidding.Bidding, error)
}
