package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"fulfillment/internal/core/domain/model/address"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/phase"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// StatusView is the read model for the active order: everything a client
// needs to render the navigation screen in one call.
type StatusView struct {
	OrderID string
	Status  order.Status

	Phase      phase.Phase
	Label      string
	StatusLine string
	ChipText   string

	Destination address.Record

	DistanceKm   float64
	DistanceText string
	EtaMinutes   int
	EtaText      string

	Arrived         bool
	ProgressPercent int
	ContactPhone    string
	CleanupPending  bool
}

// OrderFulfillmentController is the façade over the fulfillment core for one
// active order: it loads the order into the TransitionEngine, feeds live
// location samples into the GeoTracker, serves the combined status view, and
// forwards the courier's leg-completion gesture.
//
// One controller instance tracks one order at a time; loading another order
// replaces the previous one. Location ingestion and status reads run
// concurrently with each other, while leg completion is serialized by the
// engine.
type OrderFulfillmentController struct {
	engine   *TransitionEngine
	tracker  *services.GeoTracker
	provider ports.LocationProvider
	logger   *slog.Logger

	mu           sync.RWMutex
	orderID      string
	subscription ports.LocationSubscription
	cancelFeed   context.CancelFunc
	feedDone     chan struct{}
}

// NewOrderFulfillmentController wires the fulfillment core together.
// The location provider may be nil when the deployment feeds locations
// through OnLocation directly (e.g. the HTTP adapter).
func NewOrderFulfillmentController(
	engine *TransitionEngine,
	tracker *services.GeoTracker,
	provider ports.LocationProvider,
	logger *slog.Logger,
) (*OrderFulfillmentController, error) {
	if engine == nil {
		return nil, errs.NewValueIsRequiredError("engine")
	}
	if tracker == nil {
		return nil, errs.NewValueIsRequiredError("tracker")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &OrderFulfillmentController{
		engine:   engine,
		tracker:  tracker,
		provider: provider,
		logger:   logger.With("component", "fulfillment-controller"),
	}, nil
}

// LoadOrder starts tracking the order named by the command and makes it the
// controller's active order.
//
// A MissingDestinationError does not abort the load: the engine registers
// the session at the last reachable leg and the order stays queryable, so
// the error is returned alongside a usable context for user-visible
// messaging.
func (c *OrderFulfillmentController) LoadOrder(ctx context.Context, cmd TrackOrderCommand) (PhaseContext, error) {
	pc, err := c.engine.Track(ctx, cmd)
	if err != nil && !errors.Is(err, ErrMissingDestination) {
		return PhaseContext{}, err
	}

	c.mu.Lock()
	c.orderID = cmd.OrderID()
	c.mu.Unlock()

	c.logger.Info("order loaded",
		"order_id", cmd.OrderID(),
		"phase", pc.Phase().String(),
		"label", pc.Label())

	return pc, err
}

// StartLocationFeed subscribes to the location provider and pumps samples
// into the tracker until Close is called or ctx is done.
func (c *OrderFulfillmentController) StartLocationFeed(ctx context.Context) error {
	if c.provider == nil {
		return errs.NewValueIsRequiredError("location provider")
	}

	feedCtx, cancel := context.WithCancel(ctx)
	subscription, err := c.provider.Subscribe(feedCtx)
	if err != nil {
		cancel()
		return err
	}

	done := make(chan struct{})

	c.mu.Lock()
	c.subscription = subscription
	c.cancelFeed = cancel
	c.feedDone = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		for sample := range subscription.Samples() {
			if err := c.OnLocation(sample); err != nil {
				c.logger.Warn("dropping location sample", "error", err)
			}
		}
	}()

	return nil
}

// OnLocation ingests one live location sample. Safe to call concurrently
// with status reads; never blocks on an in-flight transition.
func (c *OrderFulfillmentController) OnLocation(sample kernel.LocationSample) error {
	return c.tracker.Update(sample)
}

// CompleteCurrentLeg commits the active leg of the loaded order. The caller
// is expected to gate this on arrival or an explicit courier override; the
// controller itself does not re-check proximity.
//
// When the completed leg finalizes the order, the controller forgets it.
func (c *OrderFulfillmentController) CompleteCurrentLeg(ctx context.Context) (LegCompletion, error) {
	orderID, err := c.activeOrderID()
	if err != nil {
		return LegCompletion{}, err
	}

	cmd, err := NewCompleteLegCommand(orderID)
	if err != nil {
		return LegCompletion{}, err
	}

	completion, err := c.engine.CompleteLeg(ctx, cmd)
	if err != nil {
		return LegCompletion{}, err
	}

	if completion.Finalized {
		c.mu.Lock()
		c.orderID = ""
		c.mu.Unlock()
		c.logger.Info("order finalized",
			"order_id", orderID,
			"closing_status", completion.ClosingStatus.String())
	} else {
		c.logger.Info("leg completed",
			"order_id", orderID,
			"next_phase", completion.Next.Phase().String())
	}

	return completion, nil
}

// RetryCleanup retries the pending row deletion after a partial completion.
func (c *OrderFulfillmentController) RetryCleanup(ctx context.Context) error {
	orderID, err := c.activeOrderID()
	if err != nil {
		return err
	}

	if err = c.engine.RetryCleanup(ctx, orderID); err != nil {
		return err
	}

	c.mu.Lock()
	c.orderID = ""
	c.mu.Unlock()
	return nil
}

// CurrentStatusView assembles the full read model for the loaded order from
// the live phase context and the latest location sample. Purely a read-side
// operation; it never mutates anything.
func (c *OrderFulfillmentController) CurrentStatusView() (StatusView, error) {
	orderID, err := c.activeOrderID()
	if err != nil {
		return StatusView{}, err
	}

	pc, err := c.engine.CurrentContext(orderID)
	if err != nil {
		return StatusView{}, err
	}

	snapshot, err := c.engine.Snapshot(orderID)
	if err != nil {
		return StatusView{}, err
	}

	view := StatusView{
		OrderID:        orderID,
		Status:         snapshot.Status(),
		Phase:          pc.Phase(),
		Label:          pc.Label(),
		StatusLine:     pc.Phase().StatusLine(),
		ChipText:       pc.Phase().ChipText(),
		Destination:    pc.Target(),
		ContactPhone:   phase.ContactPhone(pc.Phase(), snapshot.CustomerAddress(), snapshot.StoreAddress()),
		CleanupPending: c.engine.CleanupPending(orderID),
	}

	target, hasTarget := pc.Coordinate()
	if !hasTarget {
		view.DistanceText = services.FormatDistance(0)
		view.EtaText = services.FormatEta(0)
		view.ProgressPercent = pc.Phase().ProgressPercent(0)
		return view, nil
	}

	distance, err := c.tracker.DistanceKm(target)
	if err != nil {
		// No sample yet: render placeholders rather than failing the read.
		if errors.Is(err, services.ErrNoLocationYet) {
			view.DistanceText = services.FormatDistance(0)
			view.EtaText = services.FormatEta(0)
			view.ProgressPercent = pc.Phase().ProgressPercent(0)
			return view, nil
		}
		return StatusView{}, err
	}

	speedMps := 0.0
	if sample, ok := c.tracker.LastSample(); ok {
		speedMps = sample.SpeedMps()
	}

	view.DistanceKm = distance
	view.DistanceText = services.FormatDistance(distance)
	view.EtaMinutes = c.tracker.EtaMinutes(distance, speedMps)
	view.EtaText = services.FormatEta(view.EtaMinutes)
	view.Arrived = c.tracker.IsArrived(distance)
	view.ProgressPercent = pc.Phase().ProgressPercent(distance)

	return view, nil
}

// ActiveOrderID returns the id of the loaded order, or empty when none is
// loaded.
func (c *OrderFulfillmentController) ActiveOrderID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.orderID
}

// Close stops the location feed and forgets the active order. The engine
// session is dropped without touching the record store; an in-flight
// transition finishes on its own.
func (c *OrderFulfillmentController) Close() {
	c.mu.Lock()
	orderID := c.orderID
	c.orderID = ""
	subscription := c.subscription
	cancel := c.cancelFeed
	done := c.feedDone
	c.subscription = nil
	c.cancelFeed = nil
	c.feedDone = nil
	c.mu.Unlock()

	if subscription != nil {
		subscription.Cancel()
	}
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	if orderID != "" {
		c.engine.Untrack(orderID)
	}
}

func (c *OrderFulfillmentController) activeOrderID() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.orderID == "" {
		return "", ErrUnknownOrder
	}
	return c.orderID, nil
}
