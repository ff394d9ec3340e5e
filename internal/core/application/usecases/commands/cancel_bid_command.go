package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrCancelBidCommandIsNotConstructed = errors.New(
	"CancelBidCommand must be created via NewCancelBidCommand constructor",
)

// CancelBidCommand represents a transporter withdrawing its pending bid.
type CancelBidCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	transporterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelBidCommand creates a command to withdraw a pending bid.
func NewCancelBidCommand(orderID, transporterID kernel.UUID) (CancelBidCommand, error) {
	cmd := CancelBidCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTransporterID(transporterID),
	); err != nil {
		return CancelBidCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelBidCommand) Validate() error {
	return c.guard.Validate(ErrCancelBidCommandIsNotConstructed)
}

// OrderID returns the order whose ledger holds the bid.
func (c CancelBidCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TransporterID returns the transporter withdrawing its bid.
func (c CancelBidCommand) TransporterID() kernel.UUID {
	return c.transporterID
}

func (c *CancelBidCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelBidCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}
