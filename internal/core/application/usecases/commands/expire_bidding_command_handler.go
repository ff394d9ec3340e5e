package commands

import (
	"context"
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/keylock"
)

// ExpireBiddingCommandHandler closes every auction whose deadline passed
// while still open. The order stays Pending and can be cancelled or
// reassigned manually; expiry only stops further bids, it does not pick a
// winner.
type ExpireBiddingCommandHandler struct {
	uowFactory BidUoWFactory
	locks      *keylock.KeyedMutex
}

// NewExpireBiddingCommandHandler creates a handler for the expiry sweep.
func NewExpireBiddingCommandHandler(uowFactory BidUoWFactory, locks *keylock.KeyedMutex) ExpireBiddingCommandHandler {
	return ExpireBiddingCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle sweeps expired auctions one order at a time, each in its own
// transaction under the order's lock, so a failure on one order does not
// block the rest of the sweep.
func (h *ExpireBiddingCommandHandler) Handle(ctx context.Context, cmd ExpireBiddingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	expired, err := uow.OrderRepository().GetWithExpiredBidding(ctx, cmd.Now())
	rollbackErr := uow.Rollback(ctx)
	if err != nil {
		return err
	}
	if rollbackErr != nil {
		return rollbackErr
	}

	var sweepErrs []error
	for _, ord := range expired {
		if err := h.expireOne(ctx, ord.ID()); err != nil {
			sweepErrs = append(sweepErrs, err)
		}
	}

	return errors.Join(sweepErrs...)
}

func (h *ExpireBiddingCommandHandler) expireOne(ctx context.Context, orderID kernel.UUID) error {
	unlock := h.locks.Lock(orderID.String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	// re-check under the lock; a bid may have been accepted meanwhile
	if !ord.IsBiddingOpen() {
		return nil
	}

	ord.CloseBidding()
	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	biddingRepo := uow.BiddingRepository()
	ledger, err := biddingRepo.GetByOrderID(ctx, ord.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return err
	default:
		ledger.Close()
		if err = biddingRepo.Update(ctx, ledger); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
