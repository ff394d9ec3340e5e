package ports

import "context"

// Order event topics follow the pattern "order_<id>"; every consumer
// interested in one order subscribes to its topic and receives all event
// kinds for it.

// Event kinds published on order topics.
const (
	EventLocationUpdate     = "locationUpdate"
	EventDriverStatusUpdate = "driverStatusUpdate"
	EventStatusUpdate       = "statusUpdate"
	EventBidPlaced          = "bidPlaced"
	EventBidAccepted        = "bidAccepted"
)

// EventPublisher broadcasts domain events to live subscribers (customer
// apps, dispatch dashboards). Delivery is best effort: publishing happens
// after the owning transaction commits and a lost event never rolls back
// state. Implementations log failures instead of returning them, which is
// why Publish has no error result.
type EventPublisher interface {
	// Publish sends one event to the given topic. The payload is
	// serialized by the implementation.
	Publish(ctx context.Context, topic string, event string, payload any)
}

// OrderTopic builds the pub/sub topic name for an order ID.
func OrderTopic(orderID string) string {
	return "order_" + orderID
}
