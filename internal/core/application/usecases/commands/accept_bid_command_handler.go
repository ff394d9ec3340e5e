package commands

import (
	"context"

	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

// AcceptBidCommandHandler settles an auction: the chosen bid wins, every
// other pending bid is rejected, the ledger closes and the order is
// awarded to the winning transporter, all in one transaction. A second
// accept on the same order surfaces as a conflict.
type AcceptBidCommandHandler struct {
	uowFactory BidUoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
}

// NewAcceptBidCommandHandler creates a handler for bid acceptance operations.
func NewAcceptBidCommandHandler(
	uowFactory BidUoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) AcceptBidCommandHandler {
	return AcceptBidCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes the bid acceptance command, serialized per order.
func (h *AcceptBidCommandHandler) Handle(ctx context.Context, cmd AcceptBidCommand) error {
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

	ord, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	biddingRepo := uow.BiddingRepository()
	ledger, err := biddingRepo.GetByOrderID(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	accepted, err := ledger.AcceptBid(cmd.BidID())
	if err != nil {
		return err
	}

	if err = ord.AwardTo(accepted.TransporterID(), accepted.TruckID()); err != nil {
		return err
	}

	if err = biddingRepo.Update(ctx, ledger); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.OrderTopic(cmd.OrderID().String()), ports.EventBidAccepted,
		map[string]any{
			"bidId":         accepted.ID().String(),
			"orderId":       cmd.OrderID().String(),
			"transporterId": accepted.TransporterID().String(),
			"amount":        accepted.Amount().String(),
		})

	return nil
}
