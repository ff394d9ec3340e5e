package bidding

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// MaxBids is the cap on bids a single ledger accepts, counting every bid
// ever placed in it, not just pending ones.
const MaxBids = 10

// floorRatio is the fraction of the fair price below which bids are
// rejected as suspiciously low.
var floorRatio = decimal.NewFromFloat(0.8)

// Domain errors for bidding operations.
var (
	// ErrBiddingIsNotConstructed is returned when a Bidding instance was
	// not created through NewBidding or RestoreBidding.
	ErrBiddingIsNotConstructed = errors.New("Bidding must be created via NewBidding constructor")
	// ErrBiddingClosed is returned when mutating a closed ledger.
	ErrBiddingClosed = errors.New("bidding is closed")
	// ErrBidLimitReached is returned when the ledger already holds MaxBids bids.
	ErrBidLimitReached = errors.New("bid limit reached")
	// ErrDuplicateBid is returned when a transporter who already has a bid
	// in the ledger, whatever its status, places another one.
	ErrDuplicateBid = errors.New("transporter already has a bid in this ledger")
	// ErrBidTooLow is returned when a bid falls below the fair-price floor.
	ErrBidTooLow = errors.New("bid is below the fair price floor")
	// ErrBidNotCompetitive is returned when a bid does not strictly
	// undercut the current lowest pending bid.
	ErrBidNotCompetitive = errors.New("bid does not undercut the current lowest bid")
	// ErrBidAlreadyAccepted is returned when rejecting the accepted bid.
	ErrBidAlreadyAccepted = errors.New("bid is already accepted")
)

// Bidding is the reverse-auction ledger attached to an order. Transporters
// place bids for the job; lower amounts win, each new bid must strictly
// undercut the current lowest, and no bid may fall below 80% of the
// platform's fair price estimate.
//
// The ledger closes when a bid is accepted, when the order leaves the
// biddable phase, or when the auction deadline sweep fires. A closed
// ledger rejects every mutation except the idempotent RejectBid.
type Bidding struct {
	orderID   kernel.UUID
	fairPrice decimal.Decimal
	bids      []*Bid
	isClosed  bool

	guard guard.ConstructorGuard
}

// NewBidding opens an empty ledger for an order. The fair price must be
// positive; it anchors the bid floor for the ledger's whole lifetime.
func NewBidding(orderID kernel.UUID, fairPrice decimal.Decimal) (*Bidding, error) {
	return restoreBidding(orderID, fairPrice, nil, false)
}

// RestoreBidding reconstructs a ledger from persistent storage.
func RestoreBidding(
	orderID kernel.UUID,
	fairPrice decimal.Decimal,
	bids []*Bid,
	isClosed bool,
) (*Bidding, error) {
	return restoreBidding(orderID, fairPrice, bids, isClosed)
}

func restoreBidding(
	orderID kernel.UUID,
	fairPrice decimal.Decimal,
	bids []*Bid,
	isClosed bool,
) (*Bidding, error) {
	b := &Bidding{
		isClosed: isClosed,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setOrderID(orderID),
		b.setFairPrice(fairPrice),
		b.setBids(bids),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// Validate ensures the Bidding instance was properly constructed.
func (b *Bidding) Validate() error {
	if b == nil {
		return ErrBiddingIsNotConstructed
	}
	return b.guard.Validate(ErrBiddingIsNotConstructed)
}

// OrderID returns the order this ledger belongs to.
func (b *Bidding) OrderID() kernel.UUID {
	return b.orderID
}

// FairPrice returns the platform's fair price estimate for the order.
func (b *Bidding) FairPrice() decimal.Decimal {
	return b.fairPrice
}

// Bids returns a copy of the ledger's bid list in placement order.
func (b *Bidding) Bids() []*Bid {
	bids := make([]*Bid, len(b.bids))
	copy(bids, b.bids)
	return bids
}

// IsClosed reports whether the ledger accepts further bids.
func (b *Bidding) IsClosed() bool {
	return b.isClosed
}

// FloorPrice returns the minimum acceptable bid amount.
func (b *Bidding) FloorPrice() decimal.Decimal {
	return FloorFor(b.fairPrice)
}

// FloorFor returns the minimum acceptable bid amount for a fair price.
func FloorFor(fairPrice decimal.Decimal) decimal.Decimal {
	return fairPrice.Mul(floorRatio)
}

// LowestBid returns the lowest pending bid, or nil if no bid is pending.
// Ties go to the earlier bid, so a matching later bid never displaces it.
func (b *Bidding) LowestBid() *Bid {
	var lowest *Bid
	for _, bid := range b.bids {
		if !bid.IsPending() {
			continue
		}
		if lowest == nil || bid.amount.LessThan(lowest.amount) {
			lowest = bid
		}
	}
	return lowest
}

// AcceptedBid returns the winning bid, or nil if none was accepted.
func (b *Bidding) AcceptedBid() *Bid {
	for _, bid := range b.bids {
		if bid.status == BidStatusAccepted {
			return bid
		}
	}
	return nil
}

// PlaceBid adds a new pending bid to the ledger.
//
// Fails with:
//   - ErrBiddingClosed if the ledger is closed
//   - ErrBidLimitReached if MaxBids bids were already placed
//   - ErrDuplicateBid if the transporter already has a bid, pending or
//     resolved; one bid per transporter per ledger
//   - ErrBidTooLow if the amount is below 80% of the fair price
//   - ErrBidNotCompetitive if the amount does not strictly undercut the
//     current lowest pending bid
func (b *Bidding) PlaceBid(
	id kernel.UUID,
	transporterID kernel.UUID,
	truckID kernel.UUID,
	amount decimal.Decimal,
	now time.Time,
) (*Bid, error) {
	if b.isClosed {
		return nil, ErrBiddingClosed
	}
	if len(b.bids) >= MaxBids {
		return nil, fmt.Errorf("%w: %d bids already placed", ErrBidLimitReached, len(b.bids))
	}
	if err := transporterID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("transporterID", err)
	}
	if b.bidOf(transporterID) != nil {
		return nil, ErrDuplicateBid
	}
	if err := b.checkCompetitive(amount, kernel.UUID{}); err != nil {
		return nil, err
	}

	bid, err := NewBid(id, transporterID, truckID, amount, now)
	if err != nil {
		return nil, err
	}

	b.bids = append(b.bids, bid)
	return bid, nil
}

// UpdateBid lowers (or corrects) the transporter's pending bid. The new
// amount is checked against the floor and against the lowest pending bid
// excluding the transporter's own, so the current leader can still revise
// its offer.
func (b *Bidding) UpdateBid(transporterID kernel.UUID, amount decimal.Decimal) (*Bid, error) {
	if b.isClosed {
		return nil, ErrBiddingClosed
	}

	bid := b.pendingBidOf(transporterID)
	if bid == nil {
		return nil, errs.NewObjectNotFoundError("bid for transporter", transporterID)
	}
	if err := b.checkCompetitive(amount, bid.id); err != nil {
		return nil, err
	}
	if err := bid.setAmount(amount); err != nil {
		return nil, err
	}

	return bid, nil
}

// CancelBid withdraws the transporter's pending bid from the ledger.
func (b *Bidding) CancelBid(transporterID kernel.UUID) error {
	if b.isClosed {
		return ErrBiddingClosed
	}

	for i, bid := range b.bids {
		if bid.IsPending() && bid.transporterID.IsEqual(transporterID) {
			b.bids = append(b.bids[:i], b.bids[i+1:]...)
			return nil
		}
	}

	return errs.NewObjectNotFoundError("bid for transporter", transporterID)
}

// AcceptBid marks the given bid as the winner, rejects every other pending
// bid and closes the ledger. Accepting on an already closed ledger fails
// with ErrBiddingClosed, which callers surface as a conflict.
func (b *Bidding) AcceptBid(bidID kernel.UUID) (*Bid, error) {
	if b.isClosed {
		return nil, ErrBiddingClosed
	}

	accepted := b.findBid(bidID)
	if accepted == nil {
		return nil, errs.NewObjectNotFoundError("bid", bidID)
	}
	if !accepted.IsPending() {
		return nil, errs.NewObjectNotFoundError("pending bid", bidID)
	}

	for _, bid := range b.bids {
		if bid.IsPending() {
			bid.status = BidStatusRejected
		}
	}
	accepted.status = BidStatusAccepted
	b.isClosed = true

	return accepted, nil
}

// RejectBid declines a single bid without closing the ledger. Rejecting an
// already rejected bid is a no-op, so retried requests succeed. Rejecting
// the accepted bid fails with ErrBidAlreadyAccepted.
func (b *Bidding) RejectBid(bidID kernel.UUID) error {
	bid := b.findBid(bidID)
	if bid == nil {
		return errs.NewObjectNotFoundError("bid", bidID)
	}

	switch bid.status {
	case BidStatusRejected:
		return nil
	case BidStatusAccepted:
		return ErrBidAlreadyAccepted
	default:
		bid.status = BidStatusRejected
		return nil
	}
}

// Close shuts the ledger without a winner. Used when the order is
// cancelled or the auction deadline passes; a no-op if already closed.
func (b *Bidding) Close() {
	b.isClosed = true
}

func (b *Bidding) checkCompetitive(amount decimal.Decimal, excludeBidID kernel.UUID) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is not greater than 0", amount))
	}

	if floor := b.FloorPrice(); amount.LessThan(floor) {
		return fmt.Errorf("%w: %s is below %s", ErrBidTooLow, amount, floor)
	}

	var lowest *Bid
	for _, bid := range b.bids {
		if !bid.IsPending() || bid.id.IsEqual(excludeBidID) {
			continue
		}
		if lowest == nil || bid.amount.LessThan(lowest.amount) {
			lowest = bid
		}
	}
	if lowest != nil && !amount.LessThan(lowest.amount) {
		return fmt.Errorf("%w: lowest pending bid is %s", ErrBidNotCompetitive, lowest.amount)
	}

	return nil
}

func (b *Bidding) bidOf(transporterID kernel.UUID) *Bid {
	for _, bid := range b.bids {
		if bid.transporterID.IsEqual(transporterID) {
			return bid
		}
	}
	return nil
}

func (b *Bidding) pendingBidOf(transporterID kernel.UUID) *Bid {
	for _, bid := range b.bids {
		if bid.IsPending() && bid.transporterID.IsEqual(transporterID) {
			return bid
		}
	}
	return nil
}

func (b *Bidding) findBid(bidID kernel.UUID) *Bid {
	for _, bid := range b.bids {
		if bid.id.IsEqual(bidID) {
			return bid
		}
	}
	return nil
}

func (b *Bidding) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	b.orderID = orderID
	return nil
}

func (b *Bidding) setFairPrice(fairPrice decimal.Decimal) error {
	if !fairPrice.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("fairPrice",
			fmt.Errorf("%s is not greater than 0", fairPrice))
	}
	b.fairPrice = fairPrice
	return nil
}

func (b *Bidding) setBids(bids []*Bid) error {
	if len(bids) > MaxBids {
		return errs.NewValueIsOutOfRangeError("bids", len(bids), 0, MaxBids)
	}
	for _, bid := range bids {
		if err := bid.Validate(); err != nil {
			return err
		}
	}

	b.bids = make([]*Bid, len(bids))
	copy(b.bids, bids)
	return nil
}
