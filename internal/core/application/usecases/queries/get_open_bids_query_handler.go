package queries

import (
	"context"
	"database/sql"
	"errors"

	"freight/internal/core/domain/model/bidding"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOpenBidsQueryHandler builds the auction view of an order straight from
// the biddings and bids tables. Bids come back cheapest first so the
// front-runner is always the head of the list.
type GetOpenBidsQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenBidsQueryHandler creates a handler for auction queries.
func NewGetOpenBidsQueryHandler(db *gorm.DB) GetOpenBidsQueryHandler {
	return GetOpenBidsQueryHandler{db: db}
}

// Handle executes the auction query. Returns a not-found error when no ledger
// exists for the order.
func (h GetOpenBidsQueryHandler) Handle(
	ctx context.Context,
	query GetOpenBidsQuery,
) (GetOpenBidsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOpenBidsQueryResponse{}, err
	}

	var (
		orderIDRaw uuid.UUID
		fairPrice  decimal.Decimal
		isClosed   bool
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			fair_price,
			is_closed
		FROM biddings
		WHERE order_id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(&orderIDRaw, &fairPrice, &isClosed)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOpenBidsQueryResponse{}, errs.NewObjectNotFoundError("bidding", query.OrderID())
	}
	if err != nil {
		return GetOpenBidsQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(orderIDRaw[:])
	if err != nil {
		return GetOpenBidsQueryResponse{}, err
	}

	bids, err := h.loadBids(ctx, query.OrderID())
	if err != nil {
		return GetOpenBidsQueryResponse{}, err
	}

	return GetOpenBidsQueryResponse{
		OrderID:    orderID,
		FairPrice:  fairPrice,
		FloorPrice: bidding.FloorFor(fairPrice),
		IsClosed:   isClosed,
		Bids:       bids,
	}, nil
}

func (h GetOpenBidsQueryHandler) loadBids(
	ctx context.Context,
	orderID kernel.UUID,
) ([]BidResponse, error) {
	bids := make([]BidResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			transporter_id,
			truck_id,
			amount,
			status,
			created_at
		FROM bids
		WHERE order_id = ?
		ORDER BY amount ASC, created_at ASC
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id            uuid.UUID
			transporterID uuid.UUID
			truckID       uuid.UUID
			amount        decimal.Decimal
			status        int
			bidResp       BidResponse
		)

		err = rows.Scan(&id, &transporterID, &truckID, &amount, &status, &bidResp.CreatedAt)
		if err != nil {
			return nil, err
		}

		bidResp.BidID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		bidResp.TransporterID, err = kernel.UUIDFromBytes(transporterID[:])
		if err != nil {
			return nil, err
		}
		bidResp.TruckID, err = kernel.UUIDFromBytes(truckID[:])
		if err != nil {
			return nil, err
		}
		bidResp.Amount = amount
		bidResp.Status = bidding.BidStatus(status).String()

		bids = append(bids, bidResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bids, nil
}
