package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/guard"
)

var ErrUpdateDriverProgressCommandIsNotConstructed = errors.New(
	"UpdateDriverProgressCommand must be created via NewUpdateDriverProgressCommand constructor",
)

// UpdateDriverProgressCommand represents a driver reporting a milestone on
// the order assigned to them.
type UpdateDriverProgressCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID
	signal   order.ProgressSignal

	guard guard.ConstructorGuard
}

// NewUpdateDriverProgressCommand creates a command for a driver milestone
// report. The raw signal is parsed and validated here.
func NewUpdateDriverProgressCommand(
	orderID kernel.UUID,
	driverID kernel.UUID,
	rawSignal string,
) (UpdateDriverProgressCommand, error) {
	cmd := UpdateDriverProgressCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
		cmd.setSignal(rawSignal),
	); err != nil {
		return UpdateDriverProgressCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDriverProgressCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverProgressCommandIsNotConstructed)
}

// OrderID returns the order the driver reports on.
func (c UpdateDriverProgressCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the reporting driver.
func (c UpdateDriverProgressCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Signal returns the parsed milestone signal.
func (c UpdateDriverProgressCommand) Signal() order.ProgressSignal {
	return c.signal
}

func (c *UpdateDriverProgressCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateDriverProgressCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *UpdateDriverProgressCommand) setSignal(rawSignal string) error {
	signal, err := order.ParseProgressSignal(rawSignal)
	if err != nil {
		return err
	}

	c.signal = signal
	return nil
}
