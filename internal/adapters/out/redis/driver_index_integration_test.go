package redis_test

import (
	"context"
	"testing"

	redis_adapter "freight/internal/adapters/out/redis"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// DriverIndexIntegrationTestSuite provides integration tests for the
// geospatial driver index against a real Redis instance.
type DriverIndexIntegrationTestSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
	index     *redis_adapter.DriverIndex
}

func (suite *DriverIndexIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	suite.Require().NoError(err)
	suite.container = container

	uri, err := container.ConnectionString(ctx)
	suite.Require().NoError(err)

	options, err := redis.ParseURL(uri)
	suite.Require().NoError(err)

	suite.client = redis.NewClient(options)
	suite.index = redis_adapter.NewDriverIndex(suite.client)
}

func (suite *DriverIndexIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
}

func (suite *DriverIndexIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DriverIndexIntegrationTestSuite) TestSearchNearby_ReturnsWorkingDriversClosestFirst() {
	ctx := context.Background()

	center := suite.point(18.5204, 73.8567)
	near := kernel.NewUUID()
	far := kernel.NewUUID()

	suite.Require().NoError(suite.index.UpdatePosition(ctx, near, driver.ModeWork, suite.point(18.53, 73.86)))
	suite.Require().NoError(suite.index.UpdatePosition(ctx, far, driver.ModeWork, suite.point(18.60, 73.95)))

	result, err := suite.index.SearchNearby(ctx, center, 50, driver.ModeWork, 10)
	suite.Require().NoError(err)

	suite.Require().Len(result, 2)
	suite.Equal(near, result[0].DriverID)
	suite.Equal(far, result[1].DriverID)
	suite.Less(result[0].DistanceKm, result[1].DistanceKm)
	suite.InDelta(18.53, result[0].Point.Lat(), 0.001)
}

func (suite *DriverIndexIntegrationTestSuite) TestSearchNearby_RestingDriversNeverMatch() {
	ctx := context.Background()

	resting := kernel.NewUUID()
	suite.Require().NoError(suite.index.UpdatePosition(ctx, resting, driver.ModeRest, suite.point(18.53, 73.86)))

	result, err := suite.index.SearchNearby(ctx, suite.point(18.52, 73.85), 50, driver.ModeWork, 10)
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *DriverIndexIntegrationTestSuite) TestSearchNearby_RestPartitionIsSearchable() {
	ctx := context.Background()

	working := kernel.NewUUID()
	resting := kernel.NewUUID()
	suite.Require().NoError(suite.index.UpdatePosition(ctx, working, driver.ModeWork, suite.point(18.53, 73.86)))
	suite.Require().NoError(suite.index.UpdatePosition(ctx, resting, driver.ModeRest, suite.point(18.54, 73.87)))

	result, err := suite.index.SearchNearby(ctx, suite.point(18.52, 73.85), 50, driver.ModeRest, 10)
	suite.Require().NoError(err)

	suite.Require().Len(result, 1)
	suite.Equal(resting, result[0].DriverID)
}

func (suite *DriverIndexIntegrationTestSuite) TestSearchNearby_HonorsRadiusAndLimit() {
	ctx := context.Background()

	inside := kernel.NewUUID()
	alsoInside := kernel.NewUUID()
	outside := kernel.NewUUID()
	suite.Require().NoError(suite.index.UpdatePosition(ctx, inside, driver.ModeWork, suite.point(18.53, 73.86)))
	suite.Require().NoError(suite.index.UpdatePosition(ctx, alsoInside, driver.ModeWork, suite.point(18.54, 73.87)))
	suite.Require().NoError(suite.index.UpdatePosition(ctx, outside, driver.ModeWork, suite.point(19.99, 75.00)))

	result, err := suite.index.SearchNearby(ctx, suite.point(18.52, 73.85), 10, driver.ModeWork, 1)
	suite.Require().NoError(err)

	suite.Require().Len(result, 1)
	suite.Equal(inside, result[0].DriverID)
}

func (suite *DriverIndexIntegrationTestSuite) TestUpdatePosition_ClearsOtherPartition() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	suite.Require().NoError(suite.index.UpdatePosition(ctx, driverID, driver.ModeWork, suite.point(18.53, 73.86)))

	// the same driver reporting in rest mode must vanish from search results
	suite.Require().NoError(suite.index.UpdatePosition(ctx, driverID, driver.ModeRest, suite.point(18.53, 73.86)))

	result, err := suite.index.SearchNearby(ctx, suite.point(18.52, 73.85), 50, driver.ModeWork, 10)
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *DriverIndexIntegrationTestSuite) TestSetMode_CarriesPositionBetweenPartitions() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	suite.Require().NoError(suite.index.UpdatePosition(ctx, driverID, driver.ModeRest, suite.point(18.53, 73.86)))

	suite.Require().NoError(suite.index.SetMode(ctx, driverID, driver.ModeWork))

	result, err := suite.index.SearchNearby(ctx, suite.point(18.52, 73.85), 50, driver.ModeWork, 10)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(driverID, result[0].DriverID)
	suite.InDelta(18.53, result[0].Point.Lat(), 0.001)
}

func (suite *DriverIndexIntegrationTestSuite) TestSetMode_WithoutIndexedPositionIsANoOp() {
	ctx := context.Background()

	suite.Require().NoError(suite.index.SetMode(ctx, kernel.NewUUID(), driver.ModeWork))

	result, err := suite.index.SearchNearby(ctx, suite.point(18.52, 73.85), 50, driver.ModeWork, 10)
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *DriverIndexIntegrationTestSuite) TestRemove_DropsDriverFromEveryPartition() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	suite.Require().NoError(suite.index.UpdatePosition(ctx, driverID, driver.ModeWork, suite.point(18.53, 73.86)))

	suite.Require().NoError(suite.index.Remove(ctx, driverID))

	result, err := suite.index.SearchNearby(ctx, suite.point(18.52, 73.85), 50, driver.ModeWork, 10)
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *DriverIndexIntegrationTestSuite) point(lat, lng float64) kernel.GeoPoint {
	point, err := kernel.NewGeoPoint(lat, lng)
	suite.Require().NoError(err)
	return point
}

func TestDriverIndexIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverIndexIntegrationTestSuite))
}
