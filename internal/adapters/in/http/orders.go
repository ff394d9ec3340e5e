package http

import (
	"strconv"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type dropStopRequest struct {
	Address      string `json:"address"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	Instructions string `json:"instructions"`
}

type createOrderRequest struct {
	CustomerID       string            `json:"customerId"`
	PickupAddress    string            `json:"pickupAddress"`
	Drops            []dropStopRequest `json:"drops"`
	SizeCategory     string            `json:"sizeCategory"`
	BodyType         string            `json:"bodyType"`
	BiddingExpiresAt *time.Time        `json:"biddingExpiresAt"`
}

// CreateOrder handles POST /api/v1/orders. The order ID is generated here
// and returned to the caller; addresses are geocoded by the handler.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request createOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	customerID, err := kernel.UUIDFromString(request.CustomerID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("customerId", err))
	}

	drops := make([]commands.DropInput, 0, len(request.Drops))
	for _, drop := range request.Drops {
		drops = append(drops, commands.DropInput{
			Address:      drop.Address,
			ContactName:  drop.ContactName,
			ContactPhone: drop.ContactPhone,
			Instructions: drop.Instructions,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, request.PickupAddress,
		drops, request.SizeCategory, request.BodyType, request.BiddingExpiresAt)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondCreated(ctx, "order created", map[string]string{"orderId": orderID.String()})
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "order cancelled", nil)
}

type reassignOrderRequest struct {
	TransporterID string `json:"transporterId"`
	DriverID      string `json:"driverId"`
	TruckID       string `json:"truckId"`
}

// ReassignOrder handles POST /api/v1/orders/:orderId/reassign.
func (s *Server) ReassignOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request reassignOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	transporterID, err := kernel.UUIDFromString(request.TransporterID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("transporterId", err))
	}
	driverID, err := kernel.UUIDFromString(request.DriverID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("driverId", err))
	}
	truckID, err := kernel.UUIDFromString(request.TruckID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("truckId", err))
	}

	cmd, err := commands.NewReassignOrderCommand(orderID, transporterID, driverID, truckID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.reassignOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "order reassigned", nil)
}

// RefundOrder handles POST /api/v1/orders/:orderId/refund.
func (s *Server) RefundOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewMarkRefundedCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.markRefundedHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "order refunded", nil)
}

// MarkStopReached handles POST /api/v1/orders/:orderId/stops/:stopIndex/reached.
func (s *Server) MarkStopReached(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	stopIndex, err := strconv.Atoi(ctx.Param("stopIndex"))
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("stopIndex", err))
	}

	cmd, err := commands.NewMarkStopReachedCommand(orderID, stopIndex)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.markStopHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "stop marked reached", nil)
}

// SkipRemainingStops handles POST /api/v1/orders/:orderId/stops/skip. Used
// when remaining drops are abandoned and the order should complete as is.
func (s *Server) SkipRemainingStops(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewSkipRemainingStopsCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.markStopHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "remaining stops skipped", nil)
}

// MarkOrderDelayed handles POST /api/v1/orders/:orderId/delayed. Operators
// use it to flag a moving order when the automated sweep has not caught it.
func (s *Server) MarkOrderDelayed(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewMarkDelayedCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.markDelayedHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "order marked delayed", nil)
}

type trackPointResponse struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recordedAt"`
}

type orderTrackingResponse struct {
	OrderID         string               `json:"orderId"`
	Status          string               `json:"status"`
	Progress        string               `json:"progress"`
	AssignmentEpoch int                  `json:"assignmentEpoch"`
	CompletedStops  int                  `json:"completedStops"`
	TotalStops      int                  `json:"totalStops"`
	CurrentLocation *trackPointResponse  `json:"currentLocation,omitempty"`
	History         []trackPointResponse `json:"history"`
	StartedAt       *time.Time           `json:"startedAt,omitempty"`
	CompletedAt     *time.Time           `json:"completedAt,omitempty"`
}

// GetOrderTracking handles GET /api/v1/orders/:orderId/tracking.
func (s *Server) GetOrderTracking(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	tracking, err := s.orderTrackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := orderTrackingResponse{
		OrderID:         tracking.OrderID.String(),
		Status:          tracking.Status,
		Progress:        tracking.Progress,
		AssignmentEpoch: tracking.AssignmentEpoch,
		CompletedStops:  tracking.CompletedStops,
		TotalStops:      tracking.TotalStops,
		History:         make([]trackPointResponse, 0, len(tracking.History)),
		StartedAt:       tracking.StartedAt,
		CompletedAt:     tracking.CompletedAt,
	}
	if tracking.CurrentLocation != nil {
		response.CurrentLocation = &trackPointResponse{
			Lat:        tracking.CurrentLocation.Lat,
			Lng:        tracking.CurrentLocation.Lng,
			RecordedAt: tracking.CurrentLocation.RecordedAt,
		}
	}
	for _, point := range tracking.History {
		response.History = append(response.History, trackPointResponse(point))
	}

	return respondOK(ctx, "order tracking", response)
}
