package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// OrderSyncJob periodically reloads tracked orders from the record store and
// re-derives their phase when another writer changed the persisted status.
// The store is shared with a dispatch backend, so a tracked order can move
// (or disappear) underneath the engine between legs.
type OrderSyncJob struct {
	engine *application.TransitionEngine
	store  ports.OrderStore
	cron   *cron.Cron
	logger *slog.Logger
}

// NewOrderSyncJob creates the order sync job running every five seconds.
func NewOrderSyncJob(engine *application.TransitionEngine, store ports.OrderStore, logger *slog.Logger) *OrderSyncJob {
	return &OrderSyncJob{
		engine: engine,
		store:  store,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "order_sync_job"),
	}
}

// Start begins the order sync job to run every five seconds.
func (j *OrderSyncJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		j.syncTrackedOrders(context.Background())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order sync job started (running every 5 seconds)")
	return nil
}

// Stop stops the order sync job.
func (j *OrderSyncJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order sync job stopped")
}

func (j *OrderSyncJob) syncTrackedOrders(ctx context.Context) {
	tracked := j.engine.TrackedIDs()
	if len(tracked) == 0 {
		return
	}

	rows, err := j.store.GetAllAssigned(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Order sync could not reload assignments", "error", err)
		return
	}

	byID := make(map[string]*order.Order, len(rows))
	for _, row := range rows {
		byID[row.ID()] = row
	}

	for _, id := range tracked {
		snapshot, ok := byID[id]
		if !ok {
			// The dispatch backend pulled the assignment. Keep the session:
			// the courier may be mid-leg and the row can reappear.
			j.logger.WarnContext(ctx, "Tracked order no longer among assignments", "order_id", id)
			continue
		}

		pc, changed, err := j.engine.Refresh(snapshot)
		if err != nil {
			// A destination-less leg is surfaced to the user elsewhere;
			// here it only warrants a log line.
			if errors.Is(err, application.ErrMissingDestination) {
				j.logger.WarnContext(ctx, "Externally changed order has no usable destination",
					"order_id", id, "phase", pc.Phase().String())
				continue
			}
			j.logger.ErrorContext(ctx, "Order sync failed", "order_id", id, "error", err)
			continue
		}

		if changed {
			j.logger.InfoContext(ctx, "Order phase re-derived after external status change",
				"order_id", id,
				"status", snapshot.Status().String(),
				"phase", pc.Phase().String())
		}
	}
}
