package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrMarkDelayedCommandIsNotConstructed = errors.New(
	"MarkDelayedCommand must be created via NewMarkDelayedCommand constructor",
)

// MarkDelayedCommand represents flagging a moving order as delayed.
type MarkDelayedCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkDelayedCommand creates a command to mark an order delayed.
func NewMarkDelayedCommand(orderID kernel.UUID) (MarkDelayedCommand, error) {
	cmd := MarkDelayedCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return MarkDelayedCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkDelayedCommand) Validate() error {
	return c.guard.Validate(ErrMarkDelayedCommandIsNotConstructed)
}

// OrderID returns the order being flagged.
func (c MarkDelayedCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *MarkDelayedCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
