package commands

import (
	"context"
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
	"freight/internal/pkg/keylock"
)

// DetectDelaysCommandHandler flags moving orders as delayed when nothing
// has been heard from them within the threshold. Each flagged order emits
// a statusUpdate so watchers learn about the delay without polling.
type DetectDelaysCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
}

// NewDetectDelaysCommandHandler creates a handler for the delay sweep.
func NewDetectDelaysCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) DetectDelaysCommandHandler {
	return DetectDelaysCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle sweeps stale orders one at a time, each in its own transaction
// under the order's lock.
func (h *DetectDelaysCommandHandler) Handle(ctx context.Context, cmd DetectDelaysCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	cutoff := cmd.Now().Add(-cmd.Threshold())
	stale, err := uow.OrderRepository().GetStaleInTransit(ctx, cutoff)
	rollbackErr := uow.Rollback(ctx)
	if err != nil {
		return err
	}
	if rollbackErr != nil {
		return rollbackErr
	}

	var sweepErrs []error
	for _, ord := range stale {
		if err := h.delayOne(ctx, ord.ID(), cmd); err != nil {
			sweepErrs = append(sweepErrs, err)
		}
	}

	return errors.Join(sweepErrs...)
}

func (h *DetectDelaysCommandHandler) delayOne(ctx context.Context, orderID kernel.UUID, cmd DetectDelaysCommand) error {
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

	// re-check under the lock; a report may have arrived meanwhile
	if ord.Status() != order.InTransit {
		return nil
	}
	if at := ord.Timeline().LastProgressAt(); at != nil && at.After(cmd.Now().Add(-cmd.Threshold())) {
		return nil
	}

	if err = ord.MarkDelayed(cmd.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(ctx, ports.OrderTopic(orderID.String()), ports.EventStatusUpdate,
		map[string]any{
			"orderId":  orderID.String(),
			"status":   ord.Status().String(),
			"progress": ord.Status().Progress(),
		})

	return nil
}
