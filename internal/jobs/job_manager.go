package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application"
	"fulfillment/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	statusRefreshJob *StatusRefreshJob
	orderSyncJob     *OrderSyncJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	controller *application.OrderFulfillmentController,
	engine *application.TransitionEngine,
	store ports.OrderStore,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		statusRefreshJob: NewStatusRefreshJob(controller, logger),
		orderSyncJob:     NewOrderSyncJob(engine, store, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.statusRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start status refresh job: %w", err)
	}

	if err := jm.orderSyncJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.statusRefreshJob.Stop()
		return fmt.Errorf("failed to start order sync job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.orderSyncJob.Stop()
	jm.statusRefreshJob.Stop()
}
