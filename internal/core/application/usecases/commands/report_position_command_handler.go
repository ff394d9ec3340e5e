package commands

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/keylock"
)

// ReportPositionCommandHandler is the tracking ingest pipeline. Every
// report updates the driver's last known position; if the driver is moving
// an order, the report also becomes the order's current location, an
// append-only history entry, and a locationUpdate event on the order
// topic. A driver without an active order still gets its position stored,
// so reports never fail for being off duty.
type ReportPositionCommandHandler struct {
	uowFactory TrackingUoWFactory
	index      ports.DriverLocationIndex
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
}

// NewReportPositionCommandHandler creates a handler for position reports.
func NewReportPositionCommandHandler(
	uowFactory TrackingUoWFactory,
	index ports.DriverLocationIndex,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) ReportPositionCommandHandler {
	return ReportPositionCommandHandler{
		uowFactory: uowFactory,
		index:      index,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes one position report. Reports are serialized per driver,
// which also serializes appends to the driver's active order, so history
// preserves submission order.
func (h *ReportPositionCommandHandler) Handle(ctx context.Context, cmd ReportPositionCommand) error {
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

	now := time.Now()

	driverRepo := uow.DriverRepository()
	drv, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = drv.ReportPosition(cmd.Point(), now); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, drv); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.GetActiveByDriver(ctx, cmd.DriverID())
	tracked := false
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return err
	case ord.Status().IsTracking():
		// Order commands serialize on the order ID, so writing to the order
		// needs that lock too (driver lock first, then order lock, in every
		// path). Reload once it is held: the snapshot above may predate a
		// cancellation or delivery that committed in between.
		unlockOrder := h.locks.Lock(ord.ID().String())
		defer unlockOrder()

		ord, err = orderRepo.Get(ctx, ord.ID())
		if err != nil {
			return err
		}
		if !ord.Status().IsTracking() {
			break
		}

		tp, recordErr := ord.RecordPosition(cmd.Point(), now)
		if recordErr != nil {
			return recordErr
		}

		if err = orderRepo.Update(ctx, ord); err != nil {
			return err
		}
		if err = orderRepo.AppendTrackPoint(ctx, ord.ID(), tp); err != nil {
			return err
		}
		tracked = true
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// the index is a cache over committed state; a failed refresh is not
	// worth failing the report over
	_ = h.index.UpdatePosition(ctx, cmd.DriverID(), drv.Mode(), cmd.Point())

	if tracked {
		h.publisher.Publish(ctx, ports.OrderTopic(ord.ID().String()), ports.EventLocationUpdate,
			map[string]any{
				"orderId":  ord.ID().String(),
				"driverId": cmd.DriverID().String(),
				"lat":      cmd.Point().Lat(),
				"lng":      cmd.Point().Lng(),
				"at":       now,
			})
	}

	return nil
}
