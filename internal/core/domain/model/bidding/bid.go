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

// ErrBidIsNotConstructed is returned when using an improperly initialized Bid.
var ErrBidIsNotConstructed = errors.New("Bid must be created via NewBid constructor")

// BidStatus is the lifecycle state of a single bid within a ledger.
type BidStatus int

const (
	// BidStatusUnknown represents an invalid or undefined bid status.
	BidStatusUnknown BidStatus = iota

	// BidStatusPending is a live bid competing in the auction.
	BidStatusPending

	// BidStatusAccepted is the winning bid. At most one per ledger.
	BidStatusAccepted

	// BidStatusRejected is a bid declined by the customer or displaced
	// when another bid was accepted.
	BidStatusRejected
)

func getBidStatusStrings() map[BidStatus]string {
	return map[BidStatus]string{
		BidStatusUnknown:  "unknown",
		BidStatusPending:  "pending",
		BidStatusAccepted: "accepted",
		BidStatusRejected: "rejected",
	}
}

// Validate checks if the BidStatus value is valid.
func (s BidStatus) Validate() error {
	switch s {
	case BidStatusPending, BidStatusAccepted, BidStatusRejected:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("bid status",
			fmt.Errorf("%d is not a valid bid status", s))
	}
}

// String returns the persisted name of the bid status.
func (s BidStatus) String() string {
	if str, ok := getBidStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Bid is a single transporter offer inside a Bidding ledger. The auction is
// a reverse one: lower amounts win. Bids are entities owned by the ledger;
// all mutation happens through Bidding methods.
type Bid struct {
	id            kernel.UUID
	transporterID kernel.UUID
	truckID       kernel.UUID
	amount        decimal.Decimal
	status        BidStatus
	createdAt     time.Time

	guard guard.ConstructorGuard
}

// NewBid creates a pending bid. Amount must be positive; the competitive
// checks against the fair price and the current lowest bid belong to the
// ledger, not here.
func NewBid(
	id kernel.UUID,
	transporterID kernel.UUID,
	truckID kernel.UUID,
	amount decimal.Decimal,
	createdAt time.Time,
) (*Bid, error) {
	return restoreBid(id, transporterID, truckID, amount, BidStatusPending, createdAt)
}

// RestoreBid reconstructs a Bid from persistent storage.
func RestoreBid(
	id kernel.UUID,
	transporterID kernel.UUID,
	truckID kernel.UUID,
	amount decimal.Decimal,
	status BidStatus,
	createdAt time.Time,
) (*Bid, error) {
	return restoreBid(id, transporterID, truckID, amount, status, createdAt)
}

func restoreBid(
	id kernel.UUID,
	transporterID kernel.UUID,
	truckID kernel.UUID,
	amount decimal.Decimal,
	status BidStatus,
	createdAt time.Time,
) (*Bid, error) {
	b := &Bid{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setTransporterID(transporterID),
		b.setTruckID(truckID),
		b.setAmount(amount),
		b.setStatus(status),
		b.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return b, nil
}

// Validate ensures the Bid was created via a constructor.
func (b *Bid) Validate() error {
	if b == nil {
		return ErrBidIsNotConstructed
	}
	return b.guard.Validate(ErrBidIsNotConstructed)
}

// ID returns the bid's unique identifier.
func (b *Bid) ID() kernel.UUID {
	return b.id
}

// TransporterID returns the transporter who placed the bid.
func (b *Bid) TransporterID() kernel.UUID {
	return b.transporterID
}

// TruckID returns the truck the transporter offered for the job.
func (b *Bid) TruckID() kernel.UUID {
	return b.truckID
}

// Amount returns the offered price.
func (b *Bid) Amount() decimal.Decimal {
	return b.amount
}

// Status returns the bid's lifecycle status.
func (b *Bid) Status() BidStatus {
	return b.status
}

// CreatedAt returns when the bid was first placed.
func (b *Bid) CreatedAt() time.Time {
	return b.createdAt
}

// IsPending reports whether the bid is still competing.
func (b *Bid) IsPending() bool {
	return b.status == BidStatusPending
}

func (b *Bid) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Bid) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("transporterID", err)
	}
	b.transporterID = transporterID
	return nil
}

func (b *Bid) setTruckID(truckID kernel.UUID) error {
	if err := truckID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("truckID", err)
	}
	b.truckID = truckID
	return nil
}

func (b *Bid) setAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is not greater than 0", amount))
	}
	b.amount = amount
	return nil
}

func (b *Bid) setStatus(status BidStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	b.status = status
	return nil
}

func (b *Bid) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	b.createdAt = createdAt
	return nil
}
