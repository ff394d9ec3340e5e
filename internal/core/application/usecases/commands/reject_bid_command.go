package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrRejectBidCommandIsNotConstructed = errors.New(
	"RejectBidCommand must be created via NewRejectBidCommand constructor",
)

// RejectBidCommand represents the customer declining one bid while keeping
// the auction open for everyone else.
type RejectBidCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	bidID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewRejectBidCommand creates a command to reject a bid on an order.
func NewRejectBidCommand(orderID, bidID kernel.UUID) (RejectBidCommand, error) {
	cmd := RejectBidCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setBidID(bidID),
	); err != nil {
		return RejectBidCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectBidCommand) Validate() error {
	return c.guard.Validate(ErrRejectBidCommandIsNotConstructed)
}

// OrderID returns the order whose ledger holds the bid.
func (c RejectBidCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BidID returns the bid being declined.
func (c RejectBidCommand) BidID() kernel.UUID {
	return c.bidID
}

func (c *RejectBidCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RejectBidCommand) setBidID(bidID kernel.UUID) error {
	if err := bidID.Validate(); err != nil {
		return err
	}

	c.bidID = bidID
	return nil
}
