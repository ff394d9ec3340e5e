// Package queries contains the read side of the application. Query handlers
// bypass the domain aggregates and read the database (or the driver location
// index) directly, returning flat response models.
package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var (
	// ErrGetOrderTrackingQueryIsNotConstructed is returned when the query
	// was not created via its constructor.
	ErrGetOrderTrackingQueryIsNotConstructed = errors.New(
		"GetOrderTrackingQuery must be created via NewGetOrderTrackingQuery constructor",
	)
)

// GetOrderTrackingQuery retrieves the live tracking view of one order:
// lifecycle status, stop progress, current position and the full position
// history.
type GetOrderTrackingQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewGetOrderTrackingQuery creates a tracking query for the given order.
func NewGetOrderTrackingQuery(orderID kernel.UUID) (GetOrderTrackingQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTrackingQuery{}, err
	}

	return GetOrderTrackingQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackingQueryIsNotConstructed)
}

// OrderID returns the order being tracked.
func (q GetOrderTrackingQuery) OrderID() kernel.UUID {
	return q.orderID
}

// TrackPointResponse is one recorded position in the tracking history.
type TrackPointResponse struct {
	Lat        float64
	Lng        float64
	RecordedAt time.Time
}

// GetOrderTrackingQueryResponse is the tracking read model for one order.
type GetOrderTrackingQueryResponse struct {
	OrderID         kernel.UUID
	Status          string
	Progress        string
	AssignmentEpoch int
	CompletedStops  int
	TotalStops      int
	CurrentLocation *TrackPointResponse
	History         []TrackPointResponse
	StartedAt       *time.Time
	CompletedAt     *time.Time
}
