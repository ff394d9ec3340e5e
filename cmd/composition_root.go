package cmd

import (
	"log/slog"
	"time"

	httpin "freight/internal/adapters/in/http"
	"freight/internal/adapters/out/geoapi"
	"freight/internal/adapters/out/paymentapi"
	"freight/internal/adapters/out/postgres"
	redisout "freight/internal/adapters/out/redis"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/services"
	"freight/internal/jobs"
	"freight/internal/pkg/keylock"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. Handlers share one
// keyed mutex, so every construction path serializes on the same locks.
type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	locks       *keylock.KeyedMutex
	broadcaster *redisout.Broadcaster
	driverIndex *redisout.DriverIndex
	geocoder    *geoapi.Geocoder
	router      *geoapi.Router
	refunds     *paymentapi.RefundChecker
	estimator   services.FairPriceEstimator
	logger      *slog.Logger
}

// NewCompositionRoot builds the object graph from the configuration and the
// shared connections.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *goredis.Client,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	geocoder, err := geoapi.NewGeocoder(config.GeoAPIBaseURL)
	if err != nil {
		return nil, err
	}

	router, err := geoapi.NewRouter(config.RoutingAPIBaseURL)
	if err != nil {
		return nil, err
	}

	refunds, err := paymentapi.NewRefundChecker(config.PaymentAPIBaseURL)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		locks:       keylock.NewKeyedMutex(),
		broadcaster: redisout.NewBroadcaster(redisClient, logger),
		driverIndex: redisout.NewDriverIndex(redisClient),
		geocoder:    geocoder,
		router:      router,
		refunds:     refunds,
		estimator:   services.NewFairPriceEstimator(),
		logger:      logger,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) bidUoWFactory() commands.BidUoWFactory {
	return FuncBidUoWFactory(func() commands.BidUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) trackingUoWFactory() commands.TrackingUoWFactory {
	return FuncTrackingUoWFactory(func() commands.TrackingUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW { return c.uowFactory.Create() })
}

// NewHTTPServer builds the REST server over freshly wired handlers.
func (c *CompositionRoot) NewHTTPServer() *httpin.Server {
	createOrder := commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.geocoder, c.router)
	cancelOrder := commands.NewCancelOrderCommandHandler(c.bidUoWFactory(), c.broadcaster, c.locks)
	reassignOrder := commands.NewReassignOrderCommandHandler(c.orderUoWFactory(), c.broadcaster, c.locks)
	markRefunded := commands.NewMarkRefundedCommandHandler(c.orderUoWFactory(), c.refunds, c.broadcaster, c.locks)
	markStop := commands.NewMarkStopReachedCommandHandler(c.orderUoWFactory(), c.broadcaster, c.locks)
	markDelayed := commands.NewMarkDelayedCommandHandler(c.orderUoWFactory(), c.broadcaster, c.locks)
	placeBid := commands.NewPlaceBidCommandHandler(c.bidUoWFactory(), c.estimator, c.broadcaster, c.locks)
	updateBid := commands.NewUpdateBidCommandHandler(c.bidUoWFactory(), c.broadcaster, c.locks)
	cancelBid := commands.NewCancelBidCommandHandler(c.bidUoWFactory(), c.locks)
	acceptBid := commands.NewAcceptBidCommandHandler(c.bidUoWFactory(), c.broadcaster, c.locks)
	rejectBid := commands.NewRejectBidCommandHandler(c.bidUoWFactory(), c.locks)
	createDriver := commands.NewCreateDriverCommandHandler(c.driverUoWFactory())
	driverProgress := commands.NewUpdateDriverProgressCommandHandler(c.orderUoWFactory(), c.broadcaster, c.locks)
	reportPosition := commands.NewReportPositionCommandHandler(c.trackingUoWFactory(), c.driverIndex, c.broadcaster, c.locks)
	reportMode := commands.NewReportModeCommandHandler(c.trackingUoWFactory(), c.driverIndex, c.broadcaster, c.locks, c.logger)

	return httpin.NewServer(
		&createOrder,
		&cancelOrder,
		&reassignOrder,
		&markRefunded,
		&markStop,
		&markDelayed,
		&placeBid,
		&updateBid,
		&cancelBid,
		&acceptBid,
		&rejectBid,
		&createDriver,
		&driverProgress,
		&reportPosition,
		&reportMode,
		queries.NewGetOrderTrackingQueryHandler(c.gormDB),
		queries.NewGetOpenBidsQueryHandler(c.gormDB),
		queries.NewNearbyDriversQueryHandler(c.driverIndex, c.gormDB),
	)
}

// NewJobManager builds the scheduled sweeps.
func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	expireBidding := commands.NewExpireBiddingCommandHandler(c.bidUoWFactory(), c.locks)
	detectDelays := commands.NewDetectDelaysCommandHandler(c.orderUoWFactory(), c.broadcaster, c.locks)

	return jobs.NewJobManager(
		&expireBidding,
		&detectDelays,
		c.config.BiddingExpiryCron,
		c.config.DelayDetectionCron,
		time.Duration(c.config.DelayAfterMinutes)*time.Minute,
		c.logger,
	)
}

// FuncOrderUoWFactory adapts a closure to commands.OrderUoWFactory.
type FuncOrderUoWFactory func() commands.OrderUoW

// Create builds a new order unit of work.
func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// FuncBidUoWFactory adapts a closure to commands.BidUoWFactory.
type FuncBidUoWFactory func() commands.BidUoW

// Create builds a new bid unit of work.
func (f FuncBidUoWFactory) Create() commands.BidUoW {
	return f()
}

// FuncTrackingUoWFactory adapts a closure to commands.TrackingUoWFactory.
type FuncTrackingUoWFactory func() commands.TrackingUoW

// Create builds a new tracking unit of work.
func (f FuncTrackingUoWFactory) Create() commands.TrackingUoW {
	return f()
}

// FuncDriverUoWFactory adapts a closure to commands.DriverUoWFactory.
type FuncDriverUoWFactory func() commands.DriverUoW

// Create builds a new driver unit of work.
func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}
