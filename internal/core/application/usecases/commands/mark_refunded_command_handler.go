package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

// MarkRefundedCommandHandler moves a delivered order to Refunded, the only
// sanctioned mutation of a terminal order. The payment collaborator is
// consulted first; a refusal fails the command without touching the order.
type MarkRefundedCommandHandler struct {
	uowFactory    OrderUoWFactory
	refundChecker ports.RefundChecker
	publisher     ports.EventPublisher
	locks         *keylock.KeyedMutex
}

// NewMarkRefundedCommandHandler creates a handler for refund operations.
func NewMarkRefundedCommandHandler(
	uowFactory OrderUoWFactory,
	refundChecker ports.RefundChecker,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) MarkRefundedCommandHandler {
	return MarkRefundedCommandHandler{
		uowFactory:    uowFactory,
		refundChecker: refundChecker,
		publisher:     publisher,
		locks:         locks,
	}
}

// Handle processes the refund command, serialized per order.
func (h *MarkRefundedCommandHandler) Handle(ctx context.Context, cmd MarkRefundedCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	canRefund, err := h.refundChecker.CanRefund(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if !canRefund {
		return ErrRefundNotPossible
	}

	unlock := h.locks.Lock(cmd.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
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

	if err = ord.MarkRefunded(time.Now()); err != nil {
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
