package commands

import (
	"context"

	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

// ReassignOrderCommandHandler overwrites an order's assignment. Physical
// progress survives the swap: status, completed stops and tracking history
// stay untouched, only the parties and the assignment epoch change.
type ReassignOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
}

// NewReassignOrderCommandHandler creates a handler for reassignment
// operations.
func NewReassignOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) ReassignOrderCommandHandler {
	return ReassignOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes the reassignment command, serialized per order.
func (h *ReassignOrderCommandHandler) Handle(ctx context.Context, cmd ReassignOrderCommand) error {
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

	if err = ord.Reassign(cmd.TransporterID(), cmd.DriverID(), cmd.TruckID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.OrderTopic(cmd.OrderID().String()), ports.EventDriverStatusUpdate,
		map[string]any{
			"orderId":         cmd.OrderID().String(),
			"driverId":        cmd.DriverID().String(),
			"transporterId":   cmd.TransporterID().String(),
			"assignmentEpoch": ord.AssignmentEpoch(),
		})

	return nil
}
