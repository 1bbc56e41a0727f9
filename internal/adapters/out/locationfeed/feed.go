package locationfeed

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

// ErrFeedClosed is returned when subscribing to a feed that was shut down.
var ErrFeedClosed = errors.New("location feed is closed")

// sampleBuffer bounds each subscriber channel. The stream carries only the
// courier's latest position, so when a subscriber lags the oldest sample is
// dropped in favor of the newest.
const sampleBuffer = 8

// Feed is an in-process location provider: the HTTP adapter publishes the
// device's position reports into it and any number of subscribers receive
// them. It implements ports.LocationProvider.
//
// Delivery is best-effort per subscriber: a slow consumer loses old samples,
// never blocks the publisher.
type Feed struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[string]*subscription
	closed      bool
}

type subscription struct {
	id     string
	ch     chan kernel.LocationSample
	cancel func()
	once   sync.Once
}

// Samples returns the channel delivering location samples.
func (s *subscription) Samples() <-chan kernel.LocationSample {
	return s.ch
}

// Cancel stops delivery and releases the subscription. Safe to call more
// than once.
func (s *subscription) Cancel() {
	s.once.Do(s.cancel)
}

// NewFeed creates an empty location feed.
func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}

	return &Feed{
		logger:      logger.With("component", "location-feed"),
		subscribers: make(map[string]*subscription),
	}
}

// Subscribe opens a stream of location samples. The subscription ends when
// Cancel is called, ctx is done, or the feed is closed.
func (f *Feed) Subscribe(ctx context.Context) (ports.LocationSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrFeedClosed
	}

	id := uuid.NewString()
	sub := &subscription{
		id: id,
		ch: make(chan kernel.LocationSample, sampleBuffer),
	}
	sub.cancel = func() { f.remove(id) }
	f.subscribers[id] = sub

	go func() {
		<-ctx.Done()
		sub.Cancel()
	}()

	return sub, nil
}

// Publish fans a sample out to all subscribers. Returns an error only when
// the sample was not constructed through kernel.NewLocationSample.
func (f *Feed) Publish(sample kernel.LocationSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, sub := range f.subscribers {
		select {
		case sub.ch <- sample:
		default:
			// Subscriber lags: drop its oldest sample for the newest.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- sample:
			default:
			}
		}
	}

	return nil
}

// SubscriberCount returns the number of active subscriptions.
func (f *Feed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

// Close cancels every subscription and rejects future ones.
func (f *Feed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	subs := make([]*subscription, 0, len(f.subscribers))
	for _, sub := range f.subscribers {
		subs = append(subs, sub)
	}
	f.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

func (f *Feed) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.subscribers[id]
	if !ok {
		return
	}
	delete(f.subscribers, id)
	close(sub.ch)
}
