package commands

import (
	"errors"

	"github.com/shopspring/decimal"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var (
	ErrPlaceBidCommandIsNotConstructed = errors.New(
		"PlaceBidCommand must be created via NewPlaceBidCommand constructor",
	)
	ErrBidAmountIsInvalid = errors.New("bid amount must be greater than 0")
)

// PlaceBidCommand represents a transporter's offer to carry an order for
// the given amount with the given truck.
type PlaceBidCommand struct { //nolint:recvcheck //using for validation
	bidID         kernel.UUID
	orderID       kernel.UUID
	transporterID kernel.UUID
	truckID       kernel.UUID
	amount        decimal.Decimal

	guard guard.ConstructorGuard
}

// NewPlaceBidCommand creates a command to place a bid on an order's ledger.
func NewPlaceBidCommand(
	bidID kernel.UUID,
	orderID kernel.UUID,
	transporterID kernel.UUID,
	truckID kernel.UUID,
	amount decimal.Decimal,
) (PlaceBidCommand, error) {
	cmd := PlaceBidCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBidID(bidID),
		cmd.setOrderID(orderID),
		cmd.setTransporterID(transporterID),
		cmd.setTruckID(truckID),
		cmd.setAmount(amount),
	); err != nil {
		return PlaceBidCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceBidCommand) Validate() error {
	return c.guard.Validate(ErrPlaceBidCommandIsNotConstructed)
}

// BidID returns the identifier the new bid will be created under.
func (c PlaceBidCommand) BidID() kernel.UUID {
	return c.bidID
}

// OrderID returns the order being bid on.
func (c PlaceBidCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TransporterID returns the bidding transporter.
func (c PlaceBidCommand) TransporterID() kernel.UUID {
	return c.transporterID
}

// TruckID returns the truck offered for the job.
func (c PlaceBidCommand) TruckID() kernel.UUID {
	return c.truckID
}

// Amount returns the offered price.
func (c PlaceBidCommand) Amount() decimal.Decimal {
	return c.amount
}

func (c *PlaceBidCommand) setBidID(bidID kernel.UUID) error {
	if err := bidID.Validate(); err != nil {
		return err
	}

	c.bidID = bidID
	return nil
}

func (c *PlaceBidCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PlaceBidCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}

func (c *PlaceBidCommand) setTruckID(truckID kernel.UUID) error {
	if err := truckID.Validate(); err != nil {
		return err
	}

	c.truckID = truckID
	return nil
}

func (c *PlaceBidCommand) setAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrBidAmountIsInvalid
	}

	c.amount = amount
	return nil
}
