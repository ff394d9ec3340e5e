package commands

import (
	"errors"
	"time"

	"freight/internal/pkg/guard"
)

var ErrExpireBiddingCommandIsNotConstructed = errors.New(
	"ExpireBiddingCommand must be created via NewExpireBiddingCommand constructor",
)

// ExpireBiddingCommand triggers the sweep that closes auctions whose
// deadline has passed without a winner.
type ExpireBiddingCommand struct {
	now time.Time

	guard guard.ConstructorGuard
}

// NewExpireBiddingCommand creates a sweep command evaluated at the given
// instant.
func NewExpireBiddingCommand(now time.Time) ExpireBiddingCommand {
	return ExpireBiddingCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *ExpireBiddingCommand) Validate() error {
	return c.guard.Validate(ErrExpireBiddingCommandIsNotConstructed)
}

// Now returns the sweep's evaluation instant.
func (c *ExpireBiddingCommand) Now() time.Time {
	return c.now
}
