package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/keylock"
)

// ReportModeCommandHandler switches a driver's availability mode, moves
// the driver between mode partitions of the dispatch index, and notifies
// the topic of the driver's active order, if there is one.
type ReportModeCommandHandler struct {
	uowFactory TrackingUoWFactory
	index      ports.DriverLocationIndex
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
	logger     *slog.Logger
}

// NewReportModeCommandHandler creates a handler for mode switches.
func NewReportModeCommandHandler(
	uowFactory TrackingUoWFactory,
	index ports.DriverLocationIndex,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
	logger *slog.Logger,
) ReportModeCommandHandler {
	return ReportModeCommandHandler{
		uowFactory: uowFactory,
		index:      index,
		publisher:  publisher,
		locks:      locks,
		logger:     logger,
	}
}

// Handle processes the mode switch, serialized per driver.
func (h *ReportModeCommandHandler) Handle(ctx context.Context, cmd ReportModeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.locks.Lock("driver_" + cmd.DriverID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()
	drv, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = drv.SetMode(cmd.Mode(), time.Now()); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, drv); err != nil {
		return err
	}

	ord, err := uow.OrderRepository().GetActiveByDriver(ctx, cmd.DriverID())
	hasActiveOrder := true
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		hasActiveOrder = false
	case err != nil:
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// The mode switch is already committed; an index failure only leaves the
	// driver in the wrong partition until the next position report.
	if err = h.index.SetMode(ctx, cmd.DriverID(), cmd.Mode()); err != nil {
		h.logger.Warn("failed to move driver between index partitions",
			"driverId", cmd.DriverID().String(),
			"mode", string(cmd.Mode()),
			"error", err)
	}

	if hasActiveOrder {
		h.publisher.Publish(ctx, ports.OrderTopic(ord.ID().String()), ports.EventDriverStatusUpdate,
			map[string]any{
				"orderId":  ord.ID().String(),
				"driverId": cmd.DriverID().String(),
				"mode":     string(cmd.Mode()),
			})
	}

	return nil
}
