package commands

import (
	"errors"

	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrReportModeCommandIsNotConstructed = errors.New(
	"ReportModeCommand must be created via NewReportModeCommand constructor",
)

// ReportModeCommand represents a driver switching between work and rest.
type ReportModeCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	mode     driver.Mode

	guard guard.ConstructorGuard
}

// NewReportModeCommand creates a command from a raw mode string.
func NewReportModeCommand(driverID kernel.UUID, rawMode string) (ReportModeCommand, error) {
	cmd := ReportModeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setMode(rawMode),
	); err != nil {
		return ReportModeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportModeCommand) Validate() error {
	return c.guard.Validate(ErrReportModeCommandIsNotConstructed)
}

// DriverID returns the driver switching modes.
func (c ReportModeCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Mode returns the parsed target mode.
func (c ReportModeCommand) Mode() driver.Mode {
	return c.mode
}

func (c *ReportModeCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *ReportModeCommand) setMode(rawMode string) error {
	mode, err := driver.ParseMode(rawMode)
	if err != nil {
		return err
	}

	c.mode = mode
	return nil
}
