package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/biddingrepo"
	"freight/internal/adapters/out/postgres/driverrepo"
	"freight/internal/adapters/out/postgres/orderrepo"
	"freight/internal/core/domain/model/bidding"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.DropStopDTO{}, &orderrepo.TrackPointDTO{},
		&biddingrepo.BiddingDTO{}, &biddingrepo.BidDTO{},
		&driverrepo.DriverDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, drop_stops, track_points, biddings, bids, drivers").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCreate_InstancesAreIsolated() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.BiddingRepository())
	suite.NotNil(uow1.DriverRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	// repeated Begin is a no-op, not a nested transaction
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))

	// rollback after commit is a harmless no-op
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	ord := suite.createTestOrder()
	ledger, err := bidding.NewBidding(ord.ID(), decimal.NewFromInt(1000))
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, ord))
	suite.Require().NoError(uow.BiddingRepository().Add(ctx, ledger))
	suite.Require().NoError(uow.Commit(ctx))

	check := suite.factory.Create()
	retrieved, err := check.OrderRepository().Get(ctx, ord.ID())
	suite.Require().NoError(err)
	suite.Equal(ord.ID(), retrieved.ID())

	retrievedLedger, err := check.BiddingRepository().GetByOrderID(ctx, ord.ID())
	suite.Require().NoError(err)
	suite.True(retrievedLedger.FairPrice().Equal(decimal.NewFromInt(1000)))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllWrites() {
	ctx := context.Background()
	uow := suite.factory.Create()

	ord := suite.createTestOrder()
	ledger, err := bidding.NewBidding(ord.ID(), decimal.NewFromInt(1000))
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, ord))
	suite.Require().NoError(uow.BiddingRepository().Add(ctx, ledger))
	suite.Require().NoError(uow.Rollback(ctx))

	check := suite.factory.Create()
	_, err = check.OrderRepository().Get(ctx, ord.ID())
	suite.Require().Error(err)

	_, err = check.BiddingRepository().GetByOrderID(ctx, ord.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	pickup, err := kernel.NewGeoPoint(18.95, 72.84)
	suite.Require().NoError(err)

	dropPoint, err := kernel.NewGeoPoint(18.52, 73.85)
	suite.Require().NoError(err)

	stop, err := order.NewDropStop(0, "Pune Warehouse 7", dropPoint, "", "", "")
	suite.Require().NoError(err)

	load, err := order.NewLoad("MCV", "open")
	suite.Require().NoError(err)

	expires := time.Now().Add(time.Hour)
	ord, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(),
		"Mumbai Port Gate 4", pickup, []order.DropStop{stop}, load, 150, &expires)
	suite.Require().NoError(err)
	return ord
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
