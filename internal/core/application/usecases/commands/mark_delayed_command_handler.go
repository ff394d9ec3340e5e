package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

// MarkDelayedCommandHandler flags a moving order as delayed. Delayed
// orders keep tracking positions and return to InTransit on the next
// driver signal; stop progress is untouched.
type MarkDelayedCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
}

// NewMarkDelayedCommandHandler creates a handler for delay flagging
// operations.
func NewMarkDelayedCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) MarkDelayedCommandHandler {
	return MarkDelayedCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes the delay command, serialized per order.
func (h *MarkDelayedCommandHandler) Handle(ctx context.Context, cmd MarkDelayedCommand) error {
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

	if err = ord.MarkDelayed(time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
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
