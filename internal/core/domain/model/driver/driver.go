package driver

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrDriverIsNotConstructed is returned when a Driver instance was not
// created through NewDriver or RestoreDriver.
var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")

// Mode is a driver's self-declared availability.
type Mode string

const (
	// ModeWork means the driver accepts jobs and appears in nearby-driver
	// search results.
	ModeWork Mode = "work_mode"
	// ModeRest means the driver is off duty and hidden from dispatch.
	ModeRest Mode = "rest_mode"
)

// ParseMode validates a raw mode string from the transport layer.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeWork, ModeRest:
		return Mode(raw), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("mode",
			fmt.Errorf("%q is not one of work_mode, rest_mode", raw))
	}
}

// Validate checks if the Mode value is valid.
func (m Mode) Validate() error {
	_, err := ParseMode(string(m))
	return err
}

// Driver is a truck driver registered on the platform. Availability mode
// and last known position feed the dispatch-side driver index; progress on
// specific orders lives on the Order aggregate, not here.
type Driver struct {
	id   kernel.UUID
	name string
	mode Mode

	lastKnownPosition *kernel.GeoPoint
	positionUpdatedAt *time.Time
	modeChangedAt     *time.Time

	guard guard.ConstructorGuard
}

// NewDriver registers a driver, starting in rest mode with no known position.
func NewDriver(id kernel.UUID, name string) (*Driver, error) {
	return restoreDriver(id, name, ModeRest, nil, nil, nil)
}

// RestoreDriver reconstructs a Driver from persistent storage.
func RestoreDriver(
	id kernel.UUID,
	name string,
	mode Mode,
	lastKnownPosition *kernel.GeoPoint,
	positionUpdatedAt *time.Time,
	modeChangedAt *time.Time,
) (*Driver, error) {
	return restoreDriver(id, name, mode, lastKnownPosition, positionUpdatedAt, modeChangedAt)
}

func restoreDriver(
	id kernel.UUID,
	name string,
	mode Mode,
	lastKnownPosition *kernel.GeoPoint,
	positionUpdatedAt *time.Time,
	modeChangedAt *time.Time,
) (*Driver, error) {
	d := &Driver{
		positionUpdatedAt: positionUpdatedAt,
		modeChangedAt:     modeChangedAt,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setMode(mode),
		d.setLastKnownPosition(lastKnownPosition),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate ensures the Driver instance was properly constructed.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's display name.
func (d *Driver) Name() string {
	return d.name
}

// Mode returns the driver's availability mode.
func (d *Driver) Mode() Mode {
	return d.mode
}

// IsAvailable reports whether the driver is dispatchable.
func (d *Driver) IsAvailable() bool {
	return d.mode == ModeWork
}

// LastKnownPosition returns the most recent reported position, or nil if
// the driver has never reported one.
func (d *Driver) LastKnownPosition() *kernel.GeoPoint {
	return d.lastKnownPosition
}

// PositionUpdatedAt returns when the driver last reported a position, or nil.
func (d *Driver) PositionUpdatedAt() *time.Time {
	return d.positionUpdatedAt
}

// ModeChangedAt returns when the driver last switched modes, or nil if the
// mode was never changed after registration.
func (d *Driver) ModeChangedAt() *time.Time {
	return d.modeChangedAt
}

// SetMode switches the driver's availability mode and stamps the change
// time. Setting the current mode again is a no-op, so repeated app
// heartbeats do not churn the timestamp.
func (d *Driver) SetMode(mode Mode, now time.Time) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	if d.mode == mode {
		return nil
	}

	d.mode = mode
	at := now
	d.modeChangedAt = &at
	return nil
}

// ReportPosition records the driver's current position and the time it
// was observed.
func (d *Driver) ReportPosition(point kernel.GeoPoint, now time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}

	d.lastKnownPosition = &point
	at := now
	d.positionUpdatedAt = &at
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	d.name = name
	return nil
}

func (d *Driver) setMode(mode Mode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	d.mode = mode
	return nil
}

func (d *Driver) setLastKnownPosition(point *kernel.GeoPoint) error {
	if point == nil {
		return nil
	}
	if err := point.Validate(); err != nil {
		return err
	}
	d.lastKnownPosition = point
	return nil
}
