package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrReassignOrderCommandIsNotConstructed = errors.New(
	"ReassignOrderCommand must be created via NewReassignOrderCommand constructor",
)

// ReassignOrderCommand represents an admin overwriting an order's
// transporter, driver and truck assignment mid-flight.
type ReassignOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	transporterID kernel.UUID
	driverID      kernel.UUID
	truckID       kernel.UUID

	guard guard.ConstructorGuard
}

// NewReassignOrderCommand creates a command to reassign an order. All
// three parties must be provided; partial reassignment is not supported.
func NewReassignOrderCommand(
	orderID kernel.UUID,
	transporterID kernel.UUID,
	driverID kernel.UUID,
	truckID kernel.UUID,
) (ReassignOrderCommand, error) {
	cmd := ReassignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTransporterID(transporterID),
		cmd.setDriverID(driverID),
		cmd.setTruckID(truckID),
	); err != nil {
		return ReassignOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReassignOrderCommand) Validate() error {
	return c.guard.Validate(ErrReassignOrderCommandIsNotConstructed)
}

// OrderID returns the order being reassigned.
func (c ReassignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TransporterID returns the new transporter.
func (c ReassignOrderCommand) TransporterID() kernel.UUID {
	return c.transporterID
}

// DriverID returns the new driver.
func (c ReassignOrderCommand) DriverID() kernel.UUID {
	return c.driverID
}

// TruckID returns the new truck.
func (c ReassignOrderCommand) TruckID() kernel.UUID {
	return c.truckID
}

func (c *ReassignOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ReassignOrderCommand) setTransporterID(transporterID kernel.UUID) error {
	if err := transporterID.Validate(); err != nil {
		return err
	}

	c.transporterID = transporterID
	return nil
}

func (c *ReassignOrderCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *ReassignOrderCommand) setTruckID(truckID kernel.UUID) error {
	if err := truckID.Validate(); err != nil {
		return err
	}

	c.truckID = truckID
	return nil
}
