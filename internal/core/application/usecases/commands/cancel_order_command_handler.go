package commands

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/keylock"
)

// CancelOrderCommandHandler terminates an order and shuts its auction.
// Any ledger attached to the order closes without a winner.
type CancelOrderCommandHandler struct {
	uowFactory BidUoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
}

// NewCancelOrderCommandHandler creates a handler for order cancellation
// operations.
func NewCancelOrderCommandHandler(
	uowFactory BidUoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes the cancellation command, serialized per order.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = ord.Cancel(time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	// orders cancelled before the first bid have no ledger yet
	biddingRepo := uow.BiddingRepository()
	ledger, err := biddingRepo.GetByOrderID(ctx, cmd.OrderID())
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

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.OrderTopic(cmd.OrderID().String()), ports.EventStatusUpdate,
		map[string]any{
			"orderId":  cmd.OrderID().String(),
			"status":   ord.Status().String(),
			"progress": ord.Status().Progress(),
		})

	return nil
}
