package http

import (
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type placeBidRequest struct {
	TransporterID string          `json:"transporterId"`
	TruckID       string          `json:"truckId"`
	Amount        decimal.Decimal `json:"amount"`
}

type placeBidResponse struct {
	BidID     string          `json:"bidId"`
	Amount    decimal.Decimal `json:"amount"`
	LowestBid decimal.Decimal `json:"lowestBid"`
	BidCount  int             `json:"bidCount"`
}

// PlaceBid handles POST /api/v1/orders/:orderId/bids.
func (s *Server) PlaceBid(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request placeBidRequest
	if err := ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	transporterID, err := kernel.UUIDFromString(request.TransporterID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("transporterId", err))
	}
	truckID, err := kernel.UUIDFromString(request.TruckID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("truckId", err))
	}

	bidID := kernel.NewUUID()
	cmd, err := commands.NewPlaceBidCommand(bidID, orderID, transporterID, truckID, request.Amount)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.placeBidHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return respondCreated(ctx, "bid placed", placeBidResponse{
		BidID:     result.BidID.String(),
		Amount:    result.Amount,
		LowestBid: result.LowestBid,
		BidCount:  result.BidCount,
	})
}

type updateBidRequest struct {
	TransporterID string          `json:"transporterId"`
	Amount        decimal.Decimal `json:"amount"`
}

// UpdateBid handles PUT /api/v1/orders/:orderId/bids.
func (s *Server) UpdateBid(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	var request updateBidRequest
	if err := ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	transporterID, err := kernel.UUIDFromString(request.TransporterID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("transporterId", err))
	}

	cmd, err := commands.NewUpdateBidCommand(orderID, transporterID, request.Amount)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.updateBidHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "bid updated", nil)
}

// CancelBid handles DELETE /api/v1/orders/:orderId/bids/:transporterId.
func (s *Server) CancelBid(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	transporterID, err := pathUUID(ctx, "transporterId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCancelBidCommand(orderID, transporterID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.cancelBidHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "bid cancelled", nil)
}

// AcceptBid handles POST /api/v1/orders/:orderId/bids/:bidId/accept.
func (s *Server) AcceptBid(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	bidID, err := pathUUID(ctx, "bidId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewAcceptBidCommand(orderID, bidID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.acceptBidHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "bid accepted", nil)
}

// RejectBid handles POST /api/v1/orders/:orderId/bids/:bidId/reject.
func (s *Server) RejectBid(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	bidID, err := pathUUID(ctx, "bidId")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRejectBidCommand(orderID, bidID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.rejectBidHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return respondOK(ctx, "bid rejected", nil)
}

type bidResponse struct {
	BidID         string          `json:"bidId"`
	TransporterID string          `json:"transporterId"`
	TruckID       string          `json:"truckId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type openBidsResponse struct {
	OrderID    string          `json:"orderId"`
	FairPrice  decimal.Decimal `json:"fairPrice"`
	FloorPrice decimal.Decimal `json:"floorPrice"`
	IsClosed   bool            `json:"isClosed"`
	Bids       []bidResponse   `json:"bids"`
}

// GetOpenBids handles GET /api/v1/orders/:orderId/bids.
func (s *Server) GetOpenBids(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOpenBidsQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	auction, err := s.openBidsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := openBidsResponse{
		OrderID:    auction.OrderID.String(),
		FairPrice:  auction.FairPrice,
		FloorPrice: auction.FloorPrice,
		IsClosed:   auction.IsClosed,
		Bids:       make([]bidResponse, 0, len(auction.Bids)),
	}
	for _, bid := range auction.Bids {
		response.Bids = append(response.Bids, bidResponse{
			BidID:         bid.BidID.String(),
			TransporterID: bid.TransporterID.String(),
			TruckID:       bid.TruckID.String(),
			Amount:        bid.Amount,
			Status:        bid.Status,
			CreatedAt:     bid.CreatedAt,
		})
	}

	return respondOK(ctx, "order bids", response)
}
