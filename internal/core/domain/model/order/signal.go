package order

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// ProgressSignal is a driver-reported milestone in the physical execution of
// an order. Signals drive status transitions without exposing the status
// machine to drivers directly.
type ProgressSignal string

const (
	// SignalArrived means the driver reached the pickup location.
	SignalArrived ProgressSignal = "arrived"
	// SignalLoaded means the cargo is on the truck.
	SignalLoaded ProgressSignal = "loaded"
	// SignalReached means the driver reached a drop location.
	SignalReached ProgressSignal = "reached"
	// SignalUnloaded means the cargo was handed over at the final drop.
	SignalUnloaded ProgressSignal = "unloaded"
)

// ParseProgressSignal validates a raw signal string from the transport layer.
func ParseProgressSignal(raw string) (ProgressSignal, error) {
	switch ProgressSignal(raw) {
	case SignalArrived, SignalLoaded, SignalReached, SignalUnloaded:
		return ProgressSignal(raw), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("signal",
			fmt.Errorf("%q is not one of arrived, loaded, reached, unloaded", raw))
	}
}
