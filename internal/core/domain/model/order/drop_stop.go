package order

import (
	"errors"
	"fmt"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrDropStopIsNotConstructed is returned when using an improperly
// initialized DropStop.
var ErrDropStopIsNotConstructed = errs.NewValueIsRequiredError(
	"drop stop must be created via NewDropStop constructor")

// DropStop is one delivery stop in an order's drop sequence. The sequence
// position is load-bearing: stops must be completed in index order.
// DropStop is an immutable value object.
type DropStop struct { //nolint:recvcheck //using for validation
	index        int
	address      string
	point        kernel.GeoPoint
	contactName  string
	contactPhone string
	instructions string
	guard        guard.ConstructorGuard
}

// NewDropStop creates a validated DropStop.
// The index must be non-negative, the address non-empty and the point a
// properly constructed coordinate. Contact details and instructions are
// optional.
func NewDropStop(
	index int,
	address string,
	point kernel.GeoPoint,
	contactName string,
	contactPhone string,
	instructions string,
) (DropStop, error) {
	stop := DropStop{
		contactName:  contactName,
		contactPhone: contactPhone,
		instructions: instructions,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stop.setIndex(index),
		stop.setAddress(address),
		stop.setPoint(point),
	); err != nil {
		return DropStop{}, err
	}

	return stop, nil
}

// Validate ensures the DropStop was created via NewDropStop.
func (d DropStop) Validate() error {
	return d.guard.Validate(ErrDropStopIsNotConstructed)
}

// Index returns the zero-based position of this stop in the delivery order.
func (d DropStop) Index() int {
	return d.index
}

// Address returns the human-readable drop address.
func (d DropStop) Address() string {
	return d.address
}

// Point returns the drop coordinates.
func (d DropStop) Point() kernel.GeoPoint {
	return d.point
}

// ContactName returns the consignee contact name, if any.
func (d DropStop) ContactName() string {
	return d.contactName
}

// ContactPhone returns the consignee contact phone, if any.
func (d DropStop) ContactPhone() string {
	return d.contactPhone
}

// Instructions returns free-form delivery instructions, if any.
func (d DropStop) Instructions() string {
	return d.instructions
}

func (d *DropStop) setIndex(index int) error {
	if index < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stop index",
			fmt.Errorf("%d is negative", index))
	}
	d.index = index
	return nil
}

func (d *DropStop) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("drop address")
	}
	d.address = address
	return nil
}

func (d *DropStop) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	d.point = point
	return nil
}
