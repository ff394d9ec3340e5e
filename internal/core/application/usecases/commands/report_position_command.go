package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrReportPositionCommandIsNotConstructed = errors.New(
	"ReportPositionCommand must be created via NewReportPositionCommand constructor",
)

// ReportPositionCommand represents a driver device reporting its current
// coordinates.
type ReportPositionCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	point    kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewReportPositionCommand creates a command from raw coordinates. The
// coordinates are validated here, before the report enters the pipeline.
func NewReportPositionCommand(driverID kernel.UUID, lat, lng float64) (ReportPositionCommand, error) {
	cmd := ReportPositionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setPoint(lat, lng),
	); err != nil {
		return ReportPositionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportPositionCommand) Validate() error {
	return c.guard.Validate(ErrReportPositionCommandIsNotConstructed)
}

// DriverID returns the reporting driver.
func (c ReportPositionCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Point returns the validated reported position.
func (c ReportPositionCommand) Point() kernel.GeoPoint {
	return c.point
}

func (c *ReportPositionCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *ReportPositionCommand) setPoint(lat, lng float64) error {
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return err
	}

	c.point = point
	return nil
}
