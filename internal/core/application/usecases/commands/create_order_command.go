package commands

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrPickupAddressIsRequired = errors.New("pickup address is required")
	ErrDropsAreRequired        = errors.New("at least one drop is required")
	ErrDropAddressIsRequired   = errors.New("every drop needs an address")
	ErrSizeCategoryIsRequired  = errors.New("size category is required")
	ErrBodyTypeIsRequired      = errors.New("body type is required")
)

// DropInput is one requested drop stop, in delivery order. Coordinates are
// resolved by the handler through the geocoder, so callers submit addresses
// only.
type DropInput struct {
	Address      string
	ContactName  string
	ContactPhone string
	Instructions string
}

// CreateOrderCommand represents a customer's request to create a freight
// order: where to pick the load up, where to drop it, and what kind of
// truck the cargo needs.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	customerID       kernel.UUID
	pickupAddress    string
	drops            []DropInput
	sizeCategory     string
	bodyType         string
	biddingExpiresAt *time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new freight order.
// Validates identifiers, the pickup address, the drop list, and the load
// description. The bidding deadline is optional.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	pickupAddress string,
	drops []DropInput,
	sizeCategory string,
	bodyType string,
	biddingExpiresAt *time.Time,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		biddingExpiresAt: biddingExpiresAt,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setPickupAddress(pickupAddress),
		cmd.setDrops(drops),
		cmd.setLoad(sizeCategory, bodyType),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will be created under.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the shipper creating the order.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// PickupAddress returns the pickup address to geocode.
func (c CreateOrderCommand) PickupAddress() string {
	return c.pickupAddress
}

// Drops returns the requested drop stops in delivery order.
func (c CreateOrderCommand) Drops() []DropInput {
	drops := make([]DropInput, len(c.drops))
	copy(drops, c.drops)
	return drops
}

// SizeCategory returns the requested vehicle size category.
func (c CreateOrderCommand) SizeCategory() string {
	return c.sizeCategory
}

// BodyType returns the requested truck body type.
func (c CreateOrderCommand) BodyType() string {
	return c.bodyType
}

// BiddingExpiresAt returns the optional auction deadline.
func (c CreateOrderCommand) BiddingExpiresAt() *time.Time {
	return c.biddingExpiresAt
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setPickupAddress(pickupAddress string) error {
	if pickupAddress == "" {
		return ErrPickupAddressIsRequired
	}

	c.pickupAddress = pickupAddress
	return nil
}

func (c *CreateOrderCommand) setDrops(drops []DropInput) error {
	if len(drops) == 0 {
		return ErrDropsAreRequired
	}
	for _, drop := range drops {
		if drop.Address == "" {
			return ErrDropAddressIsRequired
		}
	}

	c.drops = make([]DropInput, len(drops))
	copy(c.drops, drops)
	return nil
}

func (c *CreateOrderCommand) setLoad(sizeCategory, bodyType string) error {
	if sizeCategory == "" {
		return ErrSizeCategoryIsRequired
	}
	if bodyType == "" {
		return ErrBodyTypeIsRequired
	}

	c.sizeCategory = sizeCategory
	c.bodyType = bodyType
	return nil
}
