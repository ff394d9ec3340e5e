// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, per-order locking
// where state is read before being written, transaction management, and
// persistence. Event publishing happens after commit and is best effort.
package commands

import (
	"context"

	"freight/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// BiddingRepoFactory provides access to bidding repository within a transaction.
	BiddingRepoFactory interface {
		BiddingRepository() ports.BiddingRepository
	}

	// DriverRepoFactory provides access to driver repository within a transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// OrderUoW manages transactions for order-only operations.
	// Used when commands only modify order aggregates.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// BidUoW manages transactions spanning an order and its bidding ledger.
	// Used by auction commands, which settle both aggregates atomically.
	BidUoW interface {
		TxManager
		OrderRepoFactory
		BiddingRepoFactory
	}

	// BidUoWFactory creates new bid unit of work instances.
	BidUoWFactory interface {
		Create() BidUoW
	}

	// TrackingUoW manages transactions spanning a driver and its active
	// order. Used by the tracking ingest commands.
	TrackingUoW interface {
		TxManager
		OrderRepoFactory
		DriverRepoFactory
	}

	// TrackingUoWFactory creates new tracking unit of work instances.
	TrackingUoWFactory interface {
		Create() TrackingUoW
	}

	// DriverUoW manages transactions for driver-only operations, such as
	// registering a new driver.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	// DriverUoWFactory creates new driver unit of work instances.
	DriverUoWFactory interface {
		Create() DriverUoW
	}
)
