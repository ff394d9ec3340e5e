package order

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status represents the lifecycle state of a freight order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct business workflow.
//
// State transitions:
//
//	Pending ──> AtPickup ──> InTransit <──> Delayed
//	   │            │            │             │
//	   │            │            ├──> Delivered ──> Refunded
//	   └────────────┴────────────┴──> Cancelled
//
// Delivered, Cancelled and Refunded are terminal: no outgoing transitions
// other than Delivered -> Refunded, which is reserved for the admin refund
// flow. Status is a value object that validates state transitions and
// provides string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created.
	// Orders in this status are open for bidding and await pickup.
	Pending

	// AtPickup indicates the assigned driver has arrived at the pickup
	// location but the load is not yet moving.
	AtPickup

	// InTransit indicates the load has been picked up and is moving
	// toward its drop stops.
	InTransit

	// Delayed indicates an in-progress order that has stopped reporting
	// progress. Orders can return to InTransit from here.
	Delayed

	// Delivered indicates all drop stops were completed or the driver
	// reported unloading. Terminal except for the refund flow.
	Delivered

	// Cancelled indicates the order was cancelled before completion.
	// This is a terminal state.
	Cancelled

	// Refunded indicates a delivered order whose payment was refunded
	// by an administrator. This is a terminal state.
	Refunded
)

// allowedTransitions defines the directed graph of permitted status changes.
// Same-state transitions are always permitted and not listed here.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {AtPickup, InTransit, Delayed, Delivered, Cancelled},
		AtPickup:  {InTransit, Delayed, Delivered, Cancelled},
		InTransit: {Delayed, Delivered, Cancelled},
		Delayed:   {InTransit, Delivered, Cancelled},
		Delivered: {Refunded},
		Cancelled: {},
		Refunded:  {},
	}
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		AtPickup:  "at_pickup",
		InTransit: "in_transit",
		Delayed:   "delayed",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Refunded:  "refunded",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := allowedTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status.
// Implements the fmt.Stringer interface and is safe to call on any Status
// value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further order mutation.
// Delivered counts as terminal even though Delivered -> Refunded exists:
// the refund flow is the single sanctioned exception and is checked
// explicitly by Order.MarkRefunded.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Refunded
}

// IsTracking reports whether position reports mutate an order in this
// status. Only moving orders accumulate tracking history.
func (s Status) IsTracking() bool {
	return s == InTransit || s == Delayed
}

// CanTransitionTo reports whether the transition from s to target is a
// permitted status change. Same-state transitions are allowed, making
// repeated driver signals idempotent.
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return true
	}
	for _, allowed := range allowedTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns the target status if the transition is permitted.
//
// Returns:
//   - (target, nil) on a valid transition
//   - (Unknown, error) wrapping ErrInvalidStatusTransition otherwise
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return Unknown, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, s, target)
	}
	return target, nil
}

// Progress returns the coarse progress indicator derived from the status.
// This replaces the legacy secondary progress field: AtPickup, InTransit and
// Delayed all present as "in-progress" to consumers.
func (s Status) Progress() string {
	switch s {
	case AtPickup, InTransit, Delayed:
		return "in-progress"
	case Delivered:
		return "delivered"
	case Cancelled:
		return "cancelled"
	case Refunded:
		return "refunded"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}
