package commands

import (
	"context"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

// UpdateDriverProgressCommandHandler applies driver milestone signals to
// orders. Only the assigned driver may report; mismatches surface as
// authorization errors before any state changes.
type UpdateDriverProgressCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
}

// NewUpdateDriverProgressCommandHandler creates a handler for driver
// milestone reports.
func NewUpdateDriverProgressCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) UpdateDriverProgressCommandHandler {
	return UpdateDriverProgressCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes the milestone report, serialized per order. Emits a
// driverStatusUpdate event, plus a statusUpdate when the signal moved the
// order's lifecycle status.
func (h *UpdateDriverProgressCommandHandler) Handle(ctx context.Context, cmd UpdateDriverProgressCommand) error {
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
	if err = ord.RecordDriverProgress(cmd.DriverID(), cmd.Signal(), time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	topic := ports.OrderTopic(cmd.OrderID().String())
	h.publisher.Publish(ctx, topic, ports.EventDriverStatusUpdate, map[string]any{
		"orderId":  cmd.OrderID().String(),
		"driverId": cmd.DriverID().String(),
		"signal":   string(cmd.Signal()),
	})

	if ord.Status() != previousStatus {
		h.publisher.Publish(ctx, topic, ports.EventStatusUpdate, map[string]any{
			"orderId":  cmd.OrderID().String(),
			"status":   ord.Status().String(),
			"progress": ord.Status().Progress(),
		})
	}

	return nil
}
