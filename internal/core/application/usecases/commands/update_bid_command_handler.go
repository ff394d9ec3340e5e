package commands

import (
	"context"

	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

// UpdateBidCommandHandler handles in-place revision of a pending bid.
// The new amount is validated against every other pending bid but not
// against the transporter's own, so the current leader can keep lowering
// its offer.
type UpdateBidCommandHandler struct {
	uowFactory BidUoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
}

// NewUpdateBidCommandHandler creates a handler for bid revision operations.
func NewUpdateBidCommandHandler(
	uowFactory BidUoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) UpdateBidCommandHandler {
	return UpdateBidCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes the bid revision command, serialized per order.
func (h *UpdateBidCommandHandler) Handle(ctx context.Context, cmd UpdateBidCommand) error {
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

	bid, err := ledger.UpdateBid(cmd.TransporterID(), cmd.Amount())
	if err != nil {
		return err
	}

	if err = biddingRepo.Update(ctx, ledger); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.OrderTopic(cmd.OrderID().String()), ports.EventBidPlaced,
		map[string]any{
			"bidId":         bid.ID().String(),
			"orderId":       cmd.OrderID().String(),
			"transporterId": bid.TransporterID().String(),
			"amount":        bid.Amount().String(),
			"revised":       true,
		})

	return nil
}
