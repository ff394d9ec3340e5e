package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var (
	ErrMarkStopReachedCommandIsNotConstructed = errors.New(
		"MarkStopReachedCommand must be created via NewMarkStopReachedCommand constructor",
	)
	ErrStopIndexIsInvalid = errors.New("stop index must not be negative")
)

// MarkStopReachedCommand represents completing one drop stop of an order.
// The admin override skips the sequence check and completes every
// remaining stop at once.
type MarkStopReachedCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	stopIndex     int
	skipRemaining bool

	guard guard.ConstructorGuard
}

// NewMarkStopReachedCommand creates a command to complete the drop stop at
// stopIndex. Stops complete strictly in order; the handler surfaces the
// expected index on a mismatch.
func NewMarkStopReachedCommand(orderID kernel.UUID, stopIndex int) (MarkStopReachedCommand, error) {
	cmd := MarkStopReachedCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStopIndex(stopIndex),
	); err != nil {
		return MarkStopReachedCommand{}, err
	}

	return cmd, nil
}

// NewSkipRemainingStopsCommand creates the admin override that completes
// all remaining stops and delivers the order.
func NewSkipRemainingStopsCommand(orderID kernel.UUID) (MarkStopReachedCommand, error) {
	cmd := MarkStopReachedCommand{
		skipRemaining: true,
		guard:         guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return MarkStopReachedCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkStopReachedCommand) Validate() error {
	return c.guard.Validate(ErrMarkStopReachedCommandIsNotConstructed)
}

// OrderID returns the order whose stop is being completed.
func (c MarkStopReachedCommand) OrderID() kernel.UUID {
	return c.orderID
}

// StopIndex returns the zero-based stop to complete. Meaningless when
// SkipRemaining is set.
func (c MarkStopReachedCommand) StopIndex() int {
	return c.stopIndex
}

// SkipRemaining reports whether this is the admin complete-all override.
func (c MarkStopReachedCommand) SkipRemaining() bool {
	return c.skipRemaining
}

func (c *MarkStopReachedCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkStopReachedCommand) setStopIndex(stopIndex int) error {
	if stopIndex < 0 {
		return ErrStopIndexIsInvalid
	}

	c.stopIndex = stopIndex
	return nil
}
