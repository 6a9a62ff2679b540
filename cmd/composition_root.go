package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"parceltrack/internal/adapters/out/ors"
	"parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/rabbitmq"
	"parceltrack/internal/adapters/out/rediscache"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"

	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	orsClient       *ors.Client
	reverseGeocoder ports.ReverseGeocoder
	publisher       ports.EventPublisher
	routeBuilder    *services.RouteBuilder
	limiter         *rate.Limiter

	closers []func() error
}

// NewCompositionRoot wires the adapters. Redis and RabbitMQ are connected only
// when their URLs are configured.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	orsClient, err := ors.NewClient(cfg.ORSAPIKey, logger,
		ors.WithBaseURL(cfg.ORSBaseURL),
		ors.WithProfile(cfg.ORSProfile),
	)
	if err != nil {
		return nil, err
	}

	routeBuilder, err := services.NewRouteBuilder(logger, cfg.WaypointCount,
		services.NewExternalRouteStrategy(orsClient),
	)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:             cfg,
		gormDB:          gormDB,
		uowFactory:      *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:          logger,
		orsClient:       orsClient,
		reverseGeocoder: orsClient,
		routeBuilder:    routeBuilder,
		limiter:         rate.NewLimiter(rate.Every(cfg.GeocodeRateInterval), 1),
	}

	if cfg.RedisURL != "" {
		cache, cacheErr := rediscache.NewLabelCache(cfg.RedisURL, cfg.LabelCacheTTL)
		if cacheErr != nil {
			return nil, cacheErr
		}
		c.closers = append(c.closers, cache.Close)
		c.reverseGeocoder = rediscache.NewCachingReverseGeocoder(orsClient, cache, logger)
	}

	if cfg.RabbitMQURL != "" {
		publisher, pubErr := rabbitmq.Dial(cfg.RabbitMQURL, cfg.EventsExchange)
		if pubErr != nil {
			_ = c.Close()
			return nil, fmt.Errorf("connect event publisher: %w", pubErr)
		}
		c.closers = append(c.closers, publisher.Close)
		c.publisher = publisher
	}

	return c, nil
}

func (c *CompositionRoot) CreateCreateParcelCommandHandler() *commands.CreateParcelCommandHandler {
	var f commands.ParcelUoWFactory = FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewCreateParcelCommandHandler(f, c.orsClient, c.routeBuilder, c.publisher, c.logger)
	return &h
}

func (c *CompositionRoot) CreateReconcileProgressCommandHandler() *commands.ReconcileProgressCommandHandler {
	var f commands.ParcelUoWFactory = FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewReconcileProgressCommandHandler(
		f, c.reverseGeocoder, c.publisher, c.limiter, c.cfg.ReconcileWorkers, c.logger,
	)
	return &h
}

func (c *CompositionRoot) CreateGetParcelTrackingQueryHandler() queries.GetParcelTrackingQueryHandler {
	return queries.NewGetParcelTrackingQueryHandler(c.gormDB)
}

// Close releases the optional integrations.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errList = append(errList, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errList...)
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}
