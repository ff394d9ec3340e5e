package commands_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"freight/internal/core/domain/model/bidding"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
)

func geoPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return point
}

// pendingOrder builds an order in Pending status with bidding open and the
// given number of drop stops.
func pendingOrder(t *testing.T, stopCount int) *order.Order {
	t.Helper()

	stops := make([]order.DropStop, 0, stopCount)
	for i := range stopCount {
		stop, err := order.NewDropStop(i, "Warehouse", geoPoint(t, 18.52+float64(i)*0.1, 73.85),
			"", "", "")
		require.NoError(t, err)
		stops = append(stops, stop)
	}

	load, err := order.NewLoad("MCV", "open")
	require.NoError(t, err)

	ord, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(),
		"Mumbai Port Gate 4", geoPoint(t, 18.95, 72.84), stops, load, 150, nil)
	require.NoError(t, err)
	return ord
}

// assignedOrder builds an order with a driver attached, ready for progress
// reports.
func assignedOrder(t *testing.T, stopCount int) (*order.Order, kernel.UUID) {
	t.Helper()

	ord := pendingOrder(t, stopCount)
	transporterID, driverID, truckID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	require.NoError(t, ord.AwardTo(transporterID, truckID))
	require.NoError(t, ord.Reassign(transporterID, driverID, truckID))
	return ord, driverID
}

// openLedger builds a bidding ledger with fair price 1000 (floor 800).
func openLedger(t *testing.T, orderID kernel.UUID) *bidding.Bidding {
	t.Helper()

	ledger, err := bidding.NewBidding(orderID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	return ledger
}

func ledgerBid(t *testing.T, ledger *bidding.Bidding, amount int64) *bidding.Bid {
	t.Helper()

	bid, err := ledger.PlaceBid(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		decimal.NewFromInt(amount), time.Now())
	require.NoError(t, err)
	return bid
}
