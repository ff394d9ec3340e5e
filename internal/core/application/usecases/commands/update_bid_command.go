package commands

import (
	"errors"

	"github.com/shopspring/decimal"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrUpdateBidCommandIsNotConstructed = errors.New(
	"UpdateBidCommand must be created via NewUpdateBidCommand constructor",
)

// UpdateBidCommand represents a transporter revising its pending bid amount.
type UpdateBidCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	transporterID kernel.UUID
	amount        decimal.Decimal

	guard guard.ConstructorGuard
}

// NewUpdateBidCommand creates a command to revise a pending bid.
func NewUpdateBidCommand(
	orderID kernel.UUID,
	transporterID kernel.UUID,
	amount decimal.Decimal,
) (UpdateBidCommand, error) {
	cmd := UpdateBidCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTransporterID(transporterID),
		cmd.setAmount(amount),
	); err != nil {
		return UpdateBidCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateBidCommand) Validate() error {
	return c.guard.Validate(ErrUpdateBidCommandIsNotConstructed)
}

// OrderID returns the order whose ledger holds the bid.
func (c UpdateBidCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TransporterID returns the transporter revising its bid.
func (c UpdateBidCommand) TransporterID() kernel.UUID {
	return c.transporterID
}

// Amount returns the new offered price.
func (c UpdateBidCommand) Amount() decimal.Decimal {
	return c.amount
}

func (c *UpdateBidCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateBidCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}

func (c *UpdateBidCommand) setAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrBidAmountIsInvalid
	}

	c.amount = amount
	return nil
}
