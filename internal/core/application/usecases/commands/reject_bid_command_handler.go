package commands

import (
	"context"

	"freight/internal/pkg/keylock"
)

// RejectBidCommandHandler handles declining a single bid. The operation is
// idempotent and never closes the ledger, so customers can work through
// offers one by one while the auction stays live.
type RejectBidCommandHandler struct {
	uowFactory BidUoWFactory
	locks      *keylock.KeyedMutex
}

// NewRejectBidCommandHandler creates a handler for bid rejection operations.
func NewRejectBidCommandHandler(uowFactory BidUoWFactory, locks *keylock.KeyedMutex) RejectBidCommandHandler {
	return RejectBidCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the bid rejection command, serialized per order.
func (h *RejectBidCommandHandler) Handle(ctx context.Context, cmd RejectBidCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.locks.Lock(cmd.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	biddingRepo := uow.BiddingRepository()
	ledger, err := biddingRepo.GetByOrderID(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = ledger.RejectBid(cmd.BidID()); err != nil {
		return err
	}

	if err = biddingRepo.Update(ctx, ledger); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
