package commands

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Resolves pickup and drop addresses to coordinates, routes the full trip
// for its distance, and persists a new order in Pending status with
// bidding open.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	geocoder   ports.Geocoder
	router     ports.Router
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	geocoder ports.Geocoder,
	router ports.Router,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		router:     router,
	}
}

// Handle processes the order creation command.
// All geo resolution happens before the transaction opens; a failed
// geocode or route leaves no partial order behind.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pickup, err := h.geocoder.Geocode(ctx, cmd.PickupAddress())
	if err != nil {
		return err
	}

	drops := cmd.Drops()
	waypoints := make([]kernel.GeoPoint, 0, len(drops)+1)
	waypoints = append(waypoints, pickup)

	stops := make([]order.DropStop, 0, len(drops))
	for i, drop := range drops {
		point, err := h.geocoder.Geocode(ctx, drop.Address)
		if err != nil {
			return err
		}

		stop, err := order.NewDropStop(i, drop.Address, point,
			drop.ContactName, drop.ContactPhone, drop.Instructions)
		if err != nil {
			return err
		}

		stops = append(stops, stop)
		waypoints = append(waypoints, point)
	}

	route, err := h.router.Route(ctx, waypoints)
	if err != nil {
		return err
	}

	load, err := order.NewLoad(cmd.SizeCategory(), cmd.BodyType())
	if err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.PickupAddress(),
		pickup,
		stops,
		load,
		route.DistanceKm,
		cmd.BiddingExpiresAt(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
