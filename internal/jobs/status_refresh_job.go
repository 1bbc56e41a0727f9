package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"fulfillment/internal/core/application"

	"github.com/robfig/cron/v3"
)

// StatusRefreshJob periodically recomputes distance, ETA and arrival for the
// active order from the latest location sample. Purely a read-side tick: it
// keeps the navigation view warm and logs arrival transitions, and never
// mutates the record store.
type StatusRefreshJob struct {
	controller *application.OrderFulfillmentController
	cron       *cron.Cron
	logger     *slog.Logger

	// wasArrived latches the last observed arrival state so the transition
	// is logged once. Atomic because cron runs overlapping ticks in their
	// own goroutines.
	wasArrived atomic.Bool
}

// NewStatusRefreshJob creates the status refresh job running every two
// seconds.
func NewStatusRefreshJob(controller *application.OrderFulfillmentController, logger *slog.Logger) *StatusRefreshJob {
	return &StatusRefreshJob{
		controller: controller,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "status_refresh_job"),
	}
}

// Start begins the status refresh job to run every two seconds.
func (j *StatusRefreshJob) Start() error {
	_, err := j.cron.AddFunc("*/2 * * * * *", func() {
		j.refreshOnce(context.Background())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Status refresh job started (running every 2 seconds)")
	return nil
}

// Stop stops the status refresh job.
func (j *StatusRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Status refresh job stopped")
}

// refreshOnce performs one read-side tick. Safe to run from overlapping cron
// invocations.
func (j *StatusRefreshJob) refreshOnce(ctx context.Context) {
	view, err := j.controller.CurrentStatusView()
	if err != nil {
		// No order loaded is the normal idle state.
		if errors.Is(err, application.ErrUnknownOrder) {
			return
		}
		j.logger.ErrorContext(ctx, "Status refresh failed", "error", err)
		return
	}

	if wasArrived := j.wasArrived.Swap(view.Arrived); view.Arrived && !wasArrived {
		j.logger.InfoContext(ctx, "Arrived at leg destination",
			"order_id", view.OrderID,
			"phase", view.Phase.String(),
			"distance", view.DistanceText)
	}

	j.logger.DebugContext(ctx, "Status refreshed",
		"order_id", view.OrderID,
		"phase", view.Phase.String(),
		"distance", view.DistanceText,
		"eta", view.EtaText,
		"progress", view.ProgressPercent)
}
