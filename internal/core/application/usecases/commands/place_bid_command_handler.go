package commands

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"freight/internal/core/domain/model/bidding"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/keylock"
)

// PlaceBidCommandHandler handles the business logic for placing bids.
// The ledger is created lazily on the first bid, anchored to the fair
// price estimated from the order's load and routed distance; every later
// bid competes against that same anchor.
type PlaceBidCommandHandler struct {
	uowFactory BidUoWFactory
	estimator  services.FairPriceEstimator
	publisher  ports.EventPublisher
	locks      *keylock.KeyedMutex
}

// NewPlaceBidCommandHandler creates a handler for bid placement operations.
func NewPlaceBidCommandHandler(
	uowFactory BidUoWFactory,
	estimator services.FairPriceEstimator,
	publisher ports.EventPublisher,
	locks *keylock.KeyedMutex,
) PlaceBidCommandHandler {
	return PlaceBidCommandHandler{
		uowFactory: uowFactory,
		estimator:  estimator,
		publisher:  publisher,
		locks:      locks,
	}
}

// PlaceBidResult reports what the ledger looks like right after a bid was
// accepted: the new bid, the amount currently leading the auction, and how
// many bids the ledger holds in total.
type PlaceBidResult struct {
	BidID     kernel.UUID
	Amount    decimal.Decimal
	LowestBid decimal.Decimal
	BidCount  int
}

// Handle processes the bid placement command.
// Serialized per order so two concurrent bids cannot both pass the
// undercut check against the same stale lowest bid.
func (h *PlaceBidCommandHandler) Handle(ctx context.Context, cmd PlaceBidCommand) (PlaceBidResult, error) {
	if err := cmd.Validate(); err != nil {
		return PlaceBidResult{}, err
	}

	unlock := h.locks.Lock(cmd.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PlaceBidResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return PlaceBidResult{}, err
	}

	now := time.Now()
	if !ord.IsBiddingOpen() {
		return PlaceBidResult{}, bidding.ErrBiddingClosed
	}
	if exp := ord.BiddingExpiresAt(); exp != nil && now.After(*exp) {
		return PlaceBidResult{}, bidding.ErrBiddingClosed
	}

	biddingRepo := uow.BiddingRepository()
	ledger, err := biddingRepo.GetByOrderID(ctx, cmd.OrderID())
	firstBid := false
	if errors.Is(err, errs.ErrObjectNotFound) {
		estimate, estErr := h.estimator.Estimate(ord.Load(), ord.DistanceKm())
		if estErr != nil {
			return PlaceBidResult{}, estErr
		}

		ledger, err = bidding.NewBidding(cmd.OrderID(), estimate.FairPrice)
		firstBid = true
	}
	if err != nil {
		return PlaceBidResult{}, err
	}

	bid, err := ledger.PlaceBid(cmd.BidID(), cmd.TransporterID(), cmd.TruckID(), cmd.Amount(), now)
	if err != nil {
		return PlaceBidResult{}, err
	}

	if firstBid {
		err = biddingRepo.Add(ctx, ledger)
	} else {
		err = biddingRepo.Update(ctx, ledger)
	}
	if err != nil {
		return PlaceBidResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PlaceBidResult{}, err
	}

	h.publisher.Publish(ctx, ports.OrderTopic(cmd.OrderID().String()), ports.EventBidPlaced,
		map[string]any{
			"bidId":         bid.ID().String(),
			"orderId":       cmd.OrderID().String(),
			"transporterId": bid.TransporterID().String(),
			"amount":        bid.Amount().String(),
		})

	result := PlaceBidResult{
		BidID:    bid.ID(),
		Amount:   bid.Amount(),
		BidCount: len(ledger.Bids()),
	}
	if lowest := ledger.LowestBid(); lowest != nil {
		result.LowestBid = lowest.Amount()
	}

	return result, nil
}
