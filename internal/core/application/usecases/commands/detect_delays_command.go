package commands

import (
	"errors"
	"time"

	"freight/internal/pkg/guard"
)

var (
	ErrDetectDelaysCommandIsNotConstructed = errors.New(
		"DetectDelaysCommand must be created via NewDetectDelaysCommand constructor",
	)
	ErrDelayThresholdIsInvalid = errors.New("delay threshold must be greater than 0")
)

// DetectDelaysCommand triggers the sweep that flags moving orders as
// delayed when they have gone silent for longer than the threshold.
type DetectDelaysCommand struct { //nolint:recvcheck //using for validation
	now       time.Time
	threshold time.Duration

	guard guard.ConstructorGuard
}

// NewDetectDelaysCommand creates a sweep command evaluated at now with
// the given silence threshold.
func NewDetectDelaysCommand(now time.Time, threshold time.Duration) (DetectDelaysCommand, error) {
	cmd := DetectDelaysCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setThreshold(threshold); err != nil {
		return DetectDelaysCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DetectDelaysCommand) Validate() error {
	return c.guard.Validate(ErrDetectDelaysCommandIsNotConstructed)
}

// Now returns the sweep's evaluation instant.
func (c DetectDelaysCommand) Now() time.Time {
	return c.now
}

// Threshold returns how long an order may go without progress before it
// counts as delayed.
func (c DetectDelaysCommand) Threshold() time.Duration {
	return c.threshold
}

func (c *DetectDelaysCommand) setThreshold(threshold time.Duration) error {
	if threshold <= 0 {
		return ErrDelayThresholdIsInvalid
	}

	c.threshold = threshold
	return nil
}
