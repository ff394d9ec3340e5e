package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

// MarkStopReachedCommandHandler completes drop stops in sequence.
// Completing the final stop delivers the order and closes whatever is
// left of its auction.
type MarkStopReachedCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
}

// NewMarkStopReachedCommandHandler creates a handler for stop completion
// operations.
func NewMarkStopReachedCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) MarkStopReachedCommandHandler {
	return MarkStopReachedCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes the stop completion command, serialized per order so
// two concurrent completions cannot both pass the sequence check.
func (h *MarkStopReachedCommandHandler) Handle(ctx context.Context, cmd MarkStopReachedCommand) error {
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

	previousStatus := ord.Status()
	now := time.Now()
	if cmd.SkipRemaining() {
		err = ord.SkipRemainingStops(now)
	} else {
		err = ord.MarkStopReached(cmd.StopIndex(), now)
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if ord.Status() != previousStatus {
		h.publisher.Publish(ctx, ports.OrderTopic(cmd.OrderID().String()), ports.EventStatusUpdate,
			map[string]any{
				"orderId":        cmd.OrderID().String(),
				"status":         ord.Status().String(),
				"progress":       ord.Status().Progress(),
				"completedStops": ord.CompletedStops(),
			})
	}

	return nil
}
