package order

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	// ErrOrderTerminal is returned when mutating an order in a terminal
	// status (delivered, cancelled, refunded).
	ErrOrderTerminal = errors.New("order is in a terminal status")
	// ErrInvalidStatusTransition is returned when a status change is not
	// permitted by the lifecycle state machine.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrInvalidStopSequence is returned when a drop stop is completed out
	// of order. The wrapped message names the expected index.
	ErrInvalidStopSequence = errors.New("stops must be completed in sequence")
	// ErrOrderNotAssignedToDriver is returned when a driver reports
	// progress for an order assigned to someone else (or to no one).
	ErrOrderNotAssignedToDriver = errs.NewNotAuthorizedError("order is not assigned to this driver")
	// ErrOrderNotInTransit is returned when recording a position against
	// an order that is not currently moving.
	ErrOrderNotInTransit = errors.New("order is not in transit")
	// ErrOrderNotDelivered is returned when refunding an order that was
	// never delivered.
	ErrOrderNotDelivered = errors.New("only delivered orders can be refunded")
	// ErrBiddingNotOpen is returned when awarding an order whose bidding
	// window is already closed.
	ErrBiddingNotOpen = errors.New("bidding is not open for this order")
)

// Order represents a freight shipment from one pickup to one or more ordered
// drop stops. It is the aggregate root governing the order lifecycle:
// status transitions, stop sequencing, party assignment, and live tracking
// state.
//
// Order maintains these invariants:
//   - completedStops is non-decreasing and never exceeds the stop count
//   - completedStops == len(dropStops) implies status == Delivered
//   - once the status is terminal, no status, stop, or location mutation
//     is accepted
//   - trackingHistory is append-only and preserves submission order
//
// All mutation goes through validated methods; the struct uses private
// fields to keep the invariants enforceable.
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID

	// assignment; nil until a bid is accepted or an admin reassigns
	transporterID *kernel.UUID
	driverID      *kernel.UUID
	truckID       *kernel.UUID

	pickupAddress string
	pickup        kernel.GeoPoint
	dropStops     []DropStop
	load          Load
	distanceKm    float64

	status          Status
	assignmentEpoch int
	completedStops  int

	currentLocation *TrackPoint
	trackingHistory []TrackPoint
	timeline        Timeline

	biddingOpen      bool
	biddingExpiresAt *time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Pending status with bidding open.
//
// Parameters:
//   - id, customerID: valid UUIDs
//   - pickupAddress / pickup: human-readable address and validated coordinates
//   - dropStops: at least one stop; indexes must be contiguous from 0 in
//     delivery order
//   - load: validated cargo description
//   - distanceKm: routed pickup-to-last-drop distance, must be positive
//   - biddingExpiresAt: optional auction deadline enforced by a scheduled
//     sweep, nil for no deadline
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	pickupAddress string,
	pickup kernel.GeoPoint,
	dropStops []DropStop,
	load Load,
	distanceKm float64,
	biddingExpiresAt *time.Time,
) (*Order, error) {
	o := &Order{
		status:           Pending,
		biddingOpen:      true,
		biddingExpiresAt: biddingExpiresAt,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setPickup(pickupAddress, pickup),
		o.setDropStops(dropStops),
		o.setLoad(load),
		o.setDistanceKm(distanceKm),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder it accepts the full persisted state, including status,
// assignment, stop progress and tracking history, and validates it as a
// whole. The restored order behaves identically to one mutated through
// normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	transporterID *kernel.UUID,
	driverID *kernel.UUID,
	truckID *kernel.UUID,
	pickupAddress string,
	pickup kernel.GeoPoint,
	dropStops []DropStop,
	load Load,
	distanceKm float64,
	status Status,
	assignmentEpoch int,
	completedStops int,
	currentLocation *TrackPoint,
	trackingHistory []TrackPoint,
	timeline Timeline,
	biddingOpen bool,
	biddingExpiresAt *time.Time,
) (*Order, error) {
	o := &Order{
		assignmentEpoch:  assignmentEpoch,
		currentLocation:  currentLocation,
		trackingHistory:  trackingHistory,
		timeline:         timeline,
		biddingOpen:      biddingOpen,
		biddingExpiresAt: biddingExpiresAt,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setPickup(pickupAddress, pickup),
		o.setDropStops(dropStops),
		o.setLoad(load),
		o.setDistanceKm(distanceKm),
		o.setStatus(status),
		o.setCompletedStops(completedStops),
		o.setTransporterID(transporterID),
		o.setDriverID(driverID),
		o.setTruckID(truckID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the identifier of the shipper who created the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// TransporterID returns the assigned transporter, or nil if unassigned.
func (o *Order) TransporterID() *kernel.UUID {
	return o.transporterID
}

// DriverID returns the assigned driver, or nil if unassigned.
func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

// TruckID returns the assigned truck, or nil if unassigned.
func (o *Order) TruckID() *kernel.UUID {
	return o.truckID
}

// PickupAddress returns the human-readable pickup address.
func (o *Order) PickupAddress() string {
	return o.pickupAddress
}

// Pickup returns the pickup coordinates.
func (o *Order) Pickup() kernel.GeoPoint {
	return o.pickup
}

// DropStops returns a copy of the ordered drop stop sequence.
func (o *Order) DropStops() []DropStop {
	stops := make([]DropStop, len(o.dropStops))
	copy(stops, o.dropStops)
	return stops
}

// Load returns the cargo description.
func (o *Order) Load() Load {
	return o.load
}

// DistanceKm returns the routed shipment distance in kilometers.
func (o *Order) DistanceKm() float64 {
	return o.distanceKm
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// AssignmentEpoch returns how many times the order's assignment has been
// overwritten by an admin reassignment. Zero means the original assignment
// (if any) is still in force.
func (o *Order) AssignmentEpoch() int {
	return o.assignmentEpoch
}

// CompletedStops returns the number of drop stops completed so far.
func (o *Order) CompletedStops() int {
	return o.completedStops
}

// CurrentLocation returns the most recent known position, or nil if the
// order has never reported one.
func (o *Order) CurrentLocation() *TrackPoint {
	return o.currentLocation
}

// TrackingHistory returns a copy of the append-only position history.
func (o *Order) TrackingHistory() []TrackPoint {
	history := make([]TrackPoint, len(o.trackingHistory))
	copy(history, o.trackingHistory)
	return history
}

// Timeline returns the delivery milestone timestamps.
func (o *Order) Timeline() Timeline {
	return o.timeline
}

// IsBiddingOpen reports whether the order still accepts bids.
func (o *Order) IsBiddingOpen() bool {
	return o.biddingOpen
}

// BiddingExpiresAt returns the optional auction deadline.
func (o *Order) BiddingExpiresAt() *time.Time {
	return o.biddingExpiresAt
}

// RecordDriverProgress applies a driver milestone signal to the order.
//
// Signal effects:
//   - arrived: status AtPickup, timeline.startedAt set once
//   - loaded / reached: status InTransit
//   - unloaded: status Delivered, timeline.completedAt set
//
// Fails with ErrOrderNotAssignedToDriver if driverID is not the assigned
// driver, and with ErrOrderTerminal if the order is already terminal.
func (o *Order) RecordDriverProgress(driverID kernel.UUID, signal ProgressSignal, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return ErrOrderNotAssignedToDriver
	}
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}

	switch signal {
	case SignalArrived:
		newStatus, err := o.status.TransitionTo(AtPickup)
		if err != nil {
			return err
		}
		o.status = newStatus
		o.timeline.markStarted(now)
	case SignalLoaded, SignalReached:
		newStatus, err := o.status.TransitionTo(InTransit)
		if err != nil {
			return err
		}
		o.status = newStatus
		o.timeline.markProgress(now)
	case SignalUnloaded:
		newStatus, err := o.status.TransitionTo(Delivered)
		if err != nil {
			return err
		}
		o.status = newStatus
		o.biddingOpen = false
		o.timeline.markCompleted(now)
	default:
		return errs.NewValueIsInvalidErrorWithCause("signal",
			fmt.Errorf("%q is not a known progress signal", signal))
	}

	return nil
}

// MarkStopReached completes the drop stop at stopIndex.
//
// The index must equal the number of already-completed stops (the next
// expected index); anything else fails with ErrInvalidStopSequence naming
// the expected index. Completing the final stop transitions the order to
// Delivered and stamps the completion time.
func (o *Order) MarkStopReached(stopIndex int, now time.Time) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}
	if stopIndex != o.completedStops {
		return fmt.Errorf("%w: expected stop index %d, got %d",
			ErrInvalidStopSequence, o.completedStops, stopIndex)
	}

	o.completedStops++
	o.timeline.markProgress(now)

	if o.completedStops == len(o.dropStops) {
		return o.deliver(now)
	}

	return nil
}

// SkipRemainingStops is the admin override that marks every remaining stop
// complete and delivers the order regardless of driver-reported progress.
func (o *Order) SkipRemainingStops(now time.Time) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}

	o.completedStops = len(o.dropStops)
	return o.deliver(now)
}

// Cancel terminates the order. Fails with ErrOrderTerminal if the order
// was already delivered, cancelled or refunded. Cancelling closes bidding.
func (o *Order) Cancel(now time.Time) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}

	newStatus, err := o.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.biddingOpen = false
	o.timeline.markProgress(now)
	return nil
}

// MarkDelayed flags an order as delayed. The stop progress is untouched;
// delayed orders keep accepting position reports and can return to
// InTransit via driver signals.
func (o *Order) MarkDelayed(now time.Time) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}

	newStatus, err := o.status.TransitionTo(Delayed)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.timeline.markProgress(now)
	return nil
}

// MarkRefunded transitions a delivered order to Refunded. This is the only
// permitted mutation of a terminal order and requires the caller to have
// confirmed refund capability with the payment collaborator beforehand.
func (o *Order) MarkRefunded(now time.Time) error {
	if o.status != Delivered {
		return fmt.Errorf("%w: status is %s", ErrOrderNotDelivered, o.status)
	}

	o.status = Refunded
	o.timeline.markProgress(now)
	return nil
}

// Reassign overwrites the transporter/driver/truck assignment and bumps the
// assignment epoch. The lifecycle status is deliberately untouched: a
// reassignment mid-transit does not reset physical progress.
func (o *Order) Reassign(transporterID, driverID, truckID kernel.UUID) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}
	if err := errors.Join(
		transporterID.Validate(),
		driverID.Validate(),
		truckID.Validate(),
	); err != nil {
		return err
	}

	o.transporterID = &transporterID
	o.driverID = &driverID
	o.truckID = &truckID
	o.assignmentEpoch++
	return nil
}

// AwardTo assigns the order to the transporter whose bid was accepted and
// closes bidding. The driver is attached later by the transporter through
// reassignment.
func (o *Order) AwardTo(transporterID, truckID kernel.UUID) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}
	if !o.biddingOpen {
		return ErrBiddingNotOpen
	}
	if err := errors.Join(transporterID.Validate(), truckID.Validate()); err != nil {
		return err
	}

	o.transporterID = &transporterID
	o.truckID = &truckID
	o.biddingOpen = false
	return nil
}

// CloseBidding shuts the auction window without awarding the order.
// Used by the expiry sweep; a no-op if bidding is already closed.
func (o *Order) CloseBidding() {
	o.biddingOpen = false
}

// RecordPosition appends a position report to the tracking history and
// updates the current location. Only moving orders (InTransit, Delayed)
// accumulate history; others fail with ErrOrderNotInTransit (terminal
// orders with ErrOrderTerminal). Returns the appended TrackPoint.
func (o *Order) RecordPosition(point kernel.GeoPoint, now time.Time) (TrackPoint, error) {
	if o.status.IsTerminal() {
		return TrackPoint{}, fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}
	if !o.status.IsTracking() {
		return TrackPoint{}, fmt.Errorf("%w: status is %s", ErrOrderNotInTransit, o.status)
	}

	tp, err := NewTrackPoint(point, now)
	if err != nil {
		return TrackPoint{}, err
	}

	o.currentLocation = &tp
	o.trackingHistory = append(o.trackingHistory, tp)
	o.timeline.markProgress(now)
	return tp, nil
}

func (o *Order) deliver(now time.Time) error {
	newStatus, err := o.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.biddingOpen = false
	o.timeline.markCompleted(now)
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setPickup(address string, point kernel.GeoPoint) error {
	if address == "" {
		return errs.NewValueIsRequiredError("pickup address")
	}
	if err := point.Validate(); err != nil {
		return err
	}
	o.pickupAddress = address
	o.pickup = point
	return nil
}

func (o *Order) setDropStops(stops []DropStop) error {
	if len(stops) == 0 {
		return errs.NewValueIsRequiredError("drop stops")
	}
	for i, stop := range stops {
		if err := stop.Validate(); err != nil {
			return err
		}
		if stop.Index() != i {
			return errs.NewValueIsInvalidErrorWithCause("drop stops",
				fmt.Errorf("stop at position %d has index %d", i, stop.Index()))
		}
	}

	o.dropStops = make([]DropStop, len(stops))
	copy(o.dropStops, stops)
	return nil
}

func (o *Order) setLoad(load Load) error {
	if err := load.Validate(); err != nil {
		return err
	}
	o.load = load
	return nil
}

func (o *Order) setDistanceKm(distanceKm float64) error {
	if distanceKm <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%f is not greater than 0", distanceKm))
	}
	o.distanceKm = distanceKm
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setCompletedStops(completedStops int) error {
	if completedStops < 0 || completedStops > len(o.dropStops) {
		return errs.NewValueIsOutOfRangeError("completedStops", completedStops, 0, len(o.dropStops))
	}
	o.completedStops = completedStops
	return nil
}

func (o *Order) setTransporterID(transporterID *kernel.UUID) error {
	if transporterID == nil {
		return nil
	}
	if err := transporterID.Validate(); err != nil {
		return err
	}
	o.transporterID = transporterID
	return nil
}

func (o *Order) setDriverID(driverID *kernel.UUID) error {
	if driverID == nil {
		return nil
	}
	if err := driverID.Validate(); err != nil {
		return err
	}
	o.driverID = driverID
	return nil
}

func (o *Order) setTruckID(truckID *kernel.UUID) error {
	if truckID == nil {
		return nil
	}
	if err := truckID.Validate(); err != nil {
		return err
	}
	o.truckID = truckID
	return nil
}
