package cmd

import (
	"log/slog"

	adapterhttp "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/locationfeed"
	"fulfillment/internal/adapters/out/postgres/orderstore"
	"fulfillment/internal/core/application"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires the fulfillment core to its adapters once at
// startup. All Create* methods hand out components built over the same
// shared store, feed and engine.
type CompositionRoot struct {
	gormDB *gorm.DB
	logger *slog.Logger

	store      *orderstore.GormOrderStore
	feed       *locationfeed.Feed
	engine     *application.TransitionEngine
	controller *application.OrderFulfillmentController
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	store, err := orderstore.NewGormOrderStore(gormDB)
	if err != nil {
		return nil, err
	}

	feed := locationfeed.NewFeed(logger)

	engine, err := application.NewTransitionEngine(store)
	if err != nil {
		return nil, err
	}

	controller, err := application.NewOrderFulfillmentController(
		engine, services.NewGeoTracker(), feed, logger)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		gormDB:     gormDB,
		logger:     logger,
		store:      store,
		feed:       feed,
		engine:     engine,
		controller: controller,
	}, nil
}

// Controller returns the order fulfillment controller.
func (c *CompositionRoot) Controller() *application.OrderFulfillmentController {
	return c.controller
}

// CreateHTTPServer creates the HTTP server over the controller and the
// location feed.
func (c *CompositionRoot) CreateHTTPServer() *adapterhttp.Server {
	return adapterhttp.NewServer(c.controller, c.feed)
}

// CreateJobManager creates the manager for the background ticks.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.controller, c.engine, c.store, c.logger)
}

// Close releases the controller's location subscription and the feed.
func (c *CompositionRoot) Close() {
	c.controller.Close()
	c.feed.Close()
}
