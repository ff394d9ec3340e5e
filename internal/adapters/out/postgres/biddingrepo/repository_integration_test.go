package biddingrepo_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres/biddingrepo"
	"freight/internal/core/domain/model/bidding"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
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

// BiddingRepositoryIntegrationTestSuite provides integration tests for
// BiddingRepository using PostgreSQL containers.
type BiddingRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *biddingrepo.GormBiddingRepository
	bidClock   time.Time
}

func (suite *BiddingRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&biddingrepo.BiddingDTO{}, &biddingrepo.BidDTO{}))
}

func (suite *BiddingRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE biddings CASCADE").Error)
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE bids").Error)

	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Maybe()
	suite.repository = biddingrepo.NewGormBiddingRepository(suite.db, tracker)
	suite.bidClock = time.Now().Truncate(time.Millisecond)
}

func (suite *BiddingRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *BiddingRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	ledger := suite.newLedger()
	first := suite.placeBid(ledger, 950)
	second := suite.placeBid(ledger, 900)
	suite.Require().NoError(suite.repository.Add(ctx, ledger))

	retrieved, err := suite.repository.GetByOrderID(ctx, ledger.OrderID())
	suite.Require().NoError(err)

	suite.Equal(ledger.OrderID(), retrieved.OrderID())
	suite.True(ledger.FairPrice().Equal(retrieved.FairPrice()))
	suite.False(retrieved.IsClosed())

	bids := retrieved.Bids()
	suite.Require().Len(bids, 2)
	suite.Equal(first.ID(), bids[0].ID())
	suite.Equal(second.ID(), bids[1].ID())
	suite.True(bids[1].Amount().Equal(decimal.NewFromInt(900)))
}

func (suite *BiddingRepositoryIntegrationTestSuite) TestGetByOrderID_Missing_ReturnsNotFoundError() {
	retrieved, err := suite.repository.GetByOrderID(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *BiddingRepositoryIntegrationTestSuite) TestUpdate_PersistsAcceptance() {
	ctx := context.Background()

	ledger := suite.newLedger()
	winner := suite.placeBid(ledger, 950)
	suite.placeBid(ledger, 900)
	suite.Require().NoError(suite.repository.Add(ctx, ledger))

	_, err := ledger.AcceptBid(winner.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, ledger))

	retrieved, err := suite.repository.GetByOrderID(ctx, ledger.OrderID())
	suite.Require().NoError(err)

	suite.True(retrieved.IsClosed())
	accepted := retrieved.AcceptedBid()
	suite.Require().NotNil(accepted)
	suite.Equal(winner.ID(), accepted.ID())
	for _, bid := range retrieved.Bids() {
		if bid.ID() != winner.ID() {
			suite.Equal(bidding.BidStatusRejected, bid.Status())
		}
	}
}

func (suite *BiddingRepositoryIntegrationTestSuite) TestUpdate_RemovesCancelledBids() {
	ctx := context.Background()

	ledger := suite.newLedger()
	cancelled := suite.placeBid(ledger, 950)
	suite.placeBid(ledger, 900)
	suite.Require().NoError(suite.repository.Add(ctx, ledger))

	suite.Require().NoError(ledger.CancelBid(cancelled.TransporterID()))
	suite.Require().NoError(suite.repository.Update(ctx, ledger))

	retrieved, err := suite.repository.GetByOrderID(ctx, ledger.OrderID())
	suite.Require().NoError(err)
	suite.Require().Len(retrieved.Bids(), 1)
	suite.NotEqual(cancelled.ID(), retrieved.Bids()[0].ID())
}

func (suite *BiddingRepositoryIntegrationTestSuite) TestUpdate_NonExistentLedger_ReturnsError() {
	err := suite.repository.Update(context.Background(), suite.newLedger())

	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *BiddingRepositoryIntegrationTestSuite) newLedger() *bidding.Bidding {
	ledger, err := bidding.NewBidding(kernel.NewUUID(), decimal.NewFromInt(1000))
	suite.Require().NoError(err)
	return ledger
}

// placeBid advances the bid clock by a second per bid so created_at ordering
// is unambiguous when read back.
func (suite *BiddingRepositoryIntegrationTestSuite) placeBid(ledger *bidding.Bidding, amount int64) *bidding.Bid {
	suite.bidClock = suite.bidClock.Add(time.Second)
	bid, err := ledger.PlaceBid(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		decimal.NewFromInt(amount), suite.bidClock)
	suite.Require().NoError(err)
	return bid
}

func TestBiddingRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(BiddingRepositoryIntegrationTestSuite))
}
