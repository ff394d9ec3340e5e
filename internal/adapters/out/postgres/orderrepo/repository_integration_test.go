package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres/orderrepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for
// OrderRepository using PostgreSQL containers.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.DropStopDTO{}, &orderrepo.TrackPointDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders CASCADE").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	original := suite.createTestOrder(2, nil)
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.CustomerID(), retrieved.CustomerID())
	suite.Equal(original.PickupAddress(), retrieved.PickupAddress())
	suite.Equal(order.Pending, retrieved.Status())
	suite.True(retrieved.IsBiddingOpen())
	suite.Nil(retrieved.TransporterID())

	stops := retrieved.DropStops()
	suite.Require().Len(stops, 2)
	suite.Equal(0, stops[0].Index())
	suite.Equal(1, stops[1].Index())
	suite.Equal("Warehouse 0", stops[0].Address())
	suite.InDelta(original.DistanceKm(), retrieved.DistanceKm(), 0.0001)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsAssignmentAndStatus() {
	ctx := context.Background()

	ord := suite.createTestOrder(1, nil)
	suite.Require().NoError(suite.repository.Add(ctx, ord))

	transporterID, driverID, truckID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	suite.Require().NoError(ord.AwardTo(transporterID, truckID))
	suite.Require().NoError(ord.Reassign(transporterID, driverID, truckID))
	suite.Require().NoError(ord.RecordDriverProgress(driverID, order.SignalArrived, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, ord))

	retrieved, err := suite.repository.Get(ctx, ord.ID())
	suite.Require().NoError(err)

	suite.Equal(order.AtPickup, retrieved.Status())
	suite.False(retrieved.IsBiddingOpen())
	suite.Equal(1, retrieved.AssignmentEpoch())
	suite.Require().NotNil(retrieved.DriverID())
	suite.True(retrieved.DriverID().IsEqual(driverID))
	suite.NotNil(retrieved.Timeline().StartedAt())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	err := suite.repository.Update(context.Background(), suite.createTestOrder(1, nil))

	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetActiveByDriver_ReturnsOnlyMovingOrder() {
	ctx := context.Background()

	active, driverID := suite.createAssignedOrder(ctx)
	suite.Require().NoError(active.RecordDriverProgress(driverID, order.SignalLoaded, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, active))

	// a pending order for another driver must not match
	other := suite.createTestOrder(1, nil)
	suite.Require().NoError(suite.repository.Add(ctx, other))

	retrieved, err := suite.repository.GetActiveByDriver(ctx, driverID)
	suite.Require().NoError(err)
	suite.Equal(active.ID(), retrieved.ID())
	suite.Equal(order.InTransit, retrieved.Status())

	_, err = suite.repository.GetActiveByDriver(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetWithExpiredBidding_FiltersOnDeadline() {
	ctx := context.Background()
	now := time.Now()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := suite.createTestOrder(1, &past)
	open := suite.createTestOrder(1, &future)
	noDeadline := suite.createTestOrder(1, nil)
	suite.Require().NoError(suite.repository.Add(ctx, expired))
	suite.Require().NoError(suite.repository.Add(ctx, open))
	suite.Require().NoError(suite.repository.Add(ctx, noDeadline))

	result, err := suite.repository.GetWithExpiredBidding(ctx, now)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(expired.ID(), result[0].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetStaleInTransit_FiltersOnLastProgress() {
	ctx := context.Background()

	stale, driverID := suite.createAssignedOrder(ctx)
	suite.Require().NoError(stale.RecordDriverProgress(driverID, order.SignalLoaded, time.Now().Add(-2*time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, stale))

	fresh, freshDriverID := suite.createAssignedOrder(ctx)
	suite.Require().NoError(fresh.RecordDriverProgress(freshDriverID, order.SignalLoaded, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, fresh))

	result, err := suite.repository.GetStaleInTransit(ctx, time.Now().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(stale.ID(), result[0].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAppendTrackPoint_HistorySurvivesReload() {
	ctx := context.Background()

	ord, driverID := suite.createAssignedOrder(ctx)
	suite.Require().NoError(ord.RecordDriverProgress(driverID, order.SignalLoaded, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, ord))

	base := time.Now().Truncate(time.Millisecond)
	for i := range 3 {
		point, err := kernel.NewGeoPoint(18.50+float64(i)*0.01, 73.85)
		suite.Require().NoError(err)

		tp, err := ord.RecordPosition(point, base.Add(time.Duration(i)*time.Minute))
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.AppendTrackPoint(ctx, ord.ID(), tp))
	}
	suite.Require().NoError(suite.repository.Update(ctx, ord))

	retrieved, err := suite.repository.Get(ctx, ord.ID())
	suite.Require().NoError(err)

	history := retrieved.TrackingHistory()
	suite.Require().Len(history, 3)
	for i := range 2 {
		suite.True(history[i].RecordedAt().Before(history[i+1].RecordedAt()),
			"history must preserve submission order")
	}
	suite.Require().NotNil(retrieved.CurrentLocation())
	suite.InDelta(18.52, retrieved.CurrentLocation().Point().Lat(), 0.0001)
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(
	stopCount int, biddingExpiresAt *time.Time,
) *order.Order {
	stops := make([]order.DropStop, 0, stopCount)
	for i := range stopCount {
		point, err := kernel.NewGeoPoint(18.52+float64(i)*0.1, 73.85)
		suite.Require().NoError(err)

		stop, err := order.NewDropStop(i, "Warehouse "+string(rune('0'+i)), point, "", "", "")
		suite.Require().NoError(err)
		stops = append(stops, stop)
	}

	pickup, err := kernel.NewGeoPoint(18.95, 72.84)
	suite.Require().NoError(err)

	load, err := order.NewLoad("MCV", "open")
	suite.Require().NoError(err)

	ord, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(),
		"Mumbai Port Gate 4", pickup, stops, load, 150, biddingExpiresAt)
	suite.Require().NoError(err)
	return ord
}

func (suite *OrderRepositoryIntegrationTestSuite) createAssignedOrder(ctx context.Context) (*order.Order, kernel.UUID) {
	ord := suite.createTestOrder(1, nil)
	transporterID, driverID, truckID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	suite.Require().NoError(ord.AwardTo(transporterID, truckID))
	suite.Require().NoError(ord.Reassign(transporterID, driverID, truckID))
	suite.Require().NoError(suite.repository.Add(ctx, ord))
	return ord, driverID
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
