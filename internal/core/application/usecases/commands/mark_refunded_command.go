package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var (
	ErrMarkRefundedCommandIsNotConstructed = errors.New(
		"MarkRefundedCommand must be created via NewMarkRefundedCommand constructor",
	)
	// ErrRefundNotPossible is returned when the payment collaborator
	// reports the order's payment can no longer be refunded.
	ErrRefundNotPossible = errors.New("payment can no longer be refunded")
)

// MarkRefundedCommand represents an admin refunding a delivered order.
type MarkRefundedCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkRefundedCommand creates a command to refund a delivered order.
func NewMarkRefundedCommand(orderID kernel.UUID) (MarkRefundedCommand, error) {
	cmd := MarkRefundedCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return MarkRefundedCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkRefundedCommand) Validate() error {
	return c.guard.Validate(ErrMarkRefundedCommandIsNotConstructed)
}

// OrderID returns the order being refunded.
func (c MarkRefundedCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *MarkRefundedCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
