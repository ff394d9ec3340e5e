// Package http exposes the application over REST. Handlers translate JSON
// requests into commands and queries, and domain refusals into HTTP statuses
// through a uniform response envelope.
package http

import (
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server holds the command and query handlers behind the REST API.
type Server struct {
	createOrderHandler    *commands.CreateOrderCommandHandler
	cancelOrderHandler    *commands.CancelOrderCommandHandler
	reassignOrderHandler  *commands.ReassignOrderCommandHandler
	markRefundedHandler   *commands.MarkRefundedCommandHandler
	markStopHandler       *commands.MarkStopReachedCommandHandler
	markDelayedHandler    *commands.MarkDelayedCommandHandler
	placeBidHandler       *commands.PlaceBidCommandHandler
	updateBidHandler      *commands.UpdateBidCommandHandler
	cancelBidHandler      *commands.CancelBidCommandHandler
	acceptBidHandler      *commands.AcceptBidCommandHandler
	rejectBidHandler      *commands.RejectBidCommandHandler
	createDriverHandler   *commands.CreateDriverCommandHandler
	driverProgressHandler *commands.UpdateDriverProgressCommandHandler
	reportPositionHandler *commands.ReportPositionCommandHandler
	reportModeHandler     *commands.ReportModeCommandHandler

	orderTrackingHandler queries.GetOrderTrackingQueryHandler
	openBidsHandler      queries.GetOpenBidsQueryHandler
	nearbyDriversHandler queries.NearbyDriversQueryHandler
}

// NewServer creates the REST server over the given handlers.
func NewServer(
	createOrderHandler *commands.CreateOrderCommandHandler,
	cancelOrderHandler *commands.CancelOrderCommandHandler,
	reassignOrderHandler *commands.ReassignOrderCommandHandler,
	markRefundedHandler *commands.MarkRefundedCommandHandler,
	markStopHandler *commands.MarkStopReachedCommandHandler,
	markDelayedHandler *commands.MarkDelayedCommandHandler,
	placeBidHandler *commands.PlaceBidCommandHandler,
	updateBidHandler *commands.UpdateBidCommandHandler,
	cancelBidHandler *commands.CancelBidCommandHandler,
	acceptBidHandler *commands.AcceptBidCommandHandler,
	rejectBidHandler *commands.RejectBidCommandHandler,
	createDriverHandler *commands.CreateDriverCommandHandler,
	driverProgressHandler *commands.UpdateDriverProgressCommandHandler,
	reportPositionHandler *commands.ReportPositionCommandHandler,
	reportModeHandler *commands.ReportModeCommandHandler,
	orderTrackingHandler queries.GetOrderTrackingQueryHandler,
	openBidsHandler queries.GetOpenBidsQueryHandler,
	nearbyDriversHandler queries.NearbyDriversQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:    createOrderHandler,
		cancelOrderHandler:    cancelOrderHandler,
		reassignOrderHandler:  reassignOrderHandler,
		markRefundedHandler:   markRefundedHandler,
		markStopHandler:       markStopHandler,
		markDelayedHandler:    markDelayedHandler,
		placeBidHandler:       placeBidHandler,
		updateBidHandler:      updateBidHandler,
		cancelBidHandler:      cancelBidHandler,
		acceptBidHandler:      acceptBidHandler,
		rejectBidHandler:      rejectBidHandler,
		createDriverHandler:   createDriverHandler,
		driverProgressHandler: driverProgressHandler,
		reportPositionHandler: reportPositionHandler,
		reportModeHandler:     reportModeHandler,
		orderTrackingHandler:  orderTrackingHandler,
		openBidsHandler:       openBidsHandler,
		nearbyDriversHandler:  nearbyDriversHandler,
	}
}

// RegisterRoutes mounts every endpoint under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/reassign", s.ReassignOrder)
	api.POST("/orders/:orderId/refund", s.RefundOrder)
	api.POST("/orders/:orderId/stops/:stopIndex/reached", s.MarkStopReached)
	api.POST("/orders/:orderId/stops/skip", s.SkipRemainingStops)
	api.POST("/orders/:orderId/delayed", s.MarkOrderDelayed)
	api.GET("/orders/:orderId/tracking", s.GetOrderTracking)

	api.POST("/orders/:orderId/bids", s.PlaceBid)
	api.PUT("/orders/:orderId/bids", s.UpdateBid)
	api.DELETE("/orders/:orderId/bids/:transporterId", s.CancelBid)
	api.POST("/orders/:orderId/bids/:bidId/accept", s.AcceptBid)
	api.POST("/orders/:orderId/bids/:bidId/reject", s.RejectBid)
	api.GET("/orders/:orderId/bids", s.GetOpenBids)

	api.POST("/drivers", s.CreateDriver)
	api.POST("/drivers/:driverId/progress", s.ReportDriverProgress)
	api.POST("/drivers/:driverId/position", s.ReportDriverPosition)
	api.POST("/drivers/:driverId/mode", s.ReportDriverMode)
	api.GET("/drivers/nearby", s.GetNearbyDrivers)
}

// pathUUID parses a UUID path parameter, yielding a validation error the
// envelope maps to 400.
func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}
