package commands

import (
	"context"

	"freight/internal/pkg/keylock"
)

// CancelBidCommandHandler handles bid withdrawal. A withdrawn bid leaves
// the ledger entirely, reopening the undercut window for other
// transporters at the withdrawn amount.
type CancelBidCommandHandler struct {
	uowFactory BidUoWFactory
	locks      *keylock.KeyedMutex
}

// NewCancelBidCommandHandler creates a handler for bid withdrawal operations.
func NewCancelBidCommandHandler(uowFactory BidUoWFactory, locks *keylock.KeyedMutex) CancelBidCommandHandler {
	return CancelBidCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the bid withdrawal command, serialized per order.
func (h *CancelBidCommandHandler) Handle(ctx context.Context, cmd CancelBidCommand) error {
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

	if err = ledger.CancelBid(cmd.TransporterID()); err != nil {
		return err
	}

	if err = biddingRepo.Update(ctx, ledger); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
