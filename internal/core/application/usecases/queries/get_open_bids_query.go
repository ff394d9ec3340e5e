package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrGetOpenBidsQueryIsNotConstructed is returned when the query was not
	// created via its constructor.
	ErrGetOpenBidsQueryIsNotConstructed = errors.New(
		"GetOpenBidsQuery must be created via NewGetOpenBidsQuery constructor",
	)
)

// GetOpenBidsQuery retrieves the auction view of one order: the fair price,
// the acceptance floor and every recorded bid, cheapest first.
type GetOpenBidsQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewGetOpenBidsQuery creates an auction query for the given order.
func NewGetOpenBidsQuery(orderID kernel.UUID) (GetOpenBidsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOpenBidsQuery{}, err
	}

	return GetOpenBidsQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOpenBidsQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenBidsQueryIsNotConstructed)
}

// OrderID returns the order whose auction is requested.
func (q GetOpenBidsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// BidResponse is one transporter bid in the auction view.
type BidResponse struct {
	BidID         kernel.UUID
	TransporterID kernel.UUID
	TruckID       kernel.UUID
	Amount        decimal.Decimal
	Status        string
	CreatedAt     time.Time
}

// GetOpenBidsQueryResponse is the auction read model for one order.
type GetOpenBidsQueryResponse struct {
	OrderID    kernel.UUID
	FairPrice  decimal.Decimal
	FloorPrice decimal.Decimal
	IsClosed   bool
	Bids       []BidResponse
}
