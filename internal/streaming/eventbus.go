package streaming

import (
	"context"
	"strconv"
	"sync"

	"mamoritalk-ai/pkg/logger"
)

// EventBus distributes alert events to subscribers
type EventBus struct {
	nats   *NATSPublisher
	logger *logger.Logger

	mu          sync.RWMutex
	subscribers map[string]*busSubscriber
	nextID      int
}

// busSubscriber pairs the delivery channel with its removal signal.
// For bridged subscribers the forwarding goroutine owns the channel
// close; for local-only subscribers removal closes it directly. One
// owner per channel, so removal can never race a pending bridge send.
type busSubscriber struct {
	ch      chan *AlertEvent
	done    chan struct{}
	bridged bool
}

// NewEventBus creates a new event bus
func NewEventBus(nats *NATSPublisher, log *logger.Logger) *EventBus {
	return &EventBus{
		nats:        nats,
		logger:      log.WithComponent("event-bus"),
		subscribers: make(map[string]*busSubscriber),
	}
}

// Publish publishes an alert event to all subscribers
func (eb *EventBus) Publish(ctx context.Context, event *AlertEvent) error {
	if eb.nats != nil && eb.nats.IsConnected() {
		if err := eb.nats.PublishAlert(ctx, event); err != nil {
			eb.logger.Warn().Err(err).Msg("failed to publish to NATS, using local broadcast only")
		}
	}

	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for id, sub := range eb.subscribers {
		select {
		case sub.ch <- event:
		default:
			eb.logger.Debug().Str("subscriber", id).Msg("subscriber channel full, dropping event")
		}
	}

	return nil
}

// Subscribe creates a new subscription and returns a channel for events
func (eb *EventBus) Subscribe(ctx context.Context, sub *Subscription) (<-chan *AlertEvent, func()) {
	s := &busSubscriber{
		ch:   make(chan *AlertEvent, 100),
		done: make(chan struct{}),
	}

	eb.mu.Lock()
	eb.nextID++
	id := strconv.Itoa(eb.nextID)
	eb.subscribers[id] = s
	eb.mu.Unlock()

	eb.logger.Debug().Str("subscriber_id", id).Msg("new subscriber")

	// NATS delivers events published by other instances
	if eb.nats != nil && eb.nats.IsConnected() {
		natsCh, err := eb.nats.Subscribe(ctx, sub)
		if err == nil {
			eb.mu.Lock()
			s.bridged = true
			eb.mu.Unlock()
			go bridgeAlerts(natsCh, s.ch, s.done)
		}
	}

	unsubscribe := func() {
		eb.remove(id)
	}

	return s.ch, unsubscribe
}

// bridgeAlerts forwards NATS events into the subscriber channel. It is
// the sole closer of ch, and closes it only after done is closed, which
// happens strictly after the subscriber left the map. Local publishes
// can therefore never hit a closed channel.
func bridgeAlerts(natsCh <-chan *AlertEvent, ch chan *AlertEvent, done chan struct{}) {
	defer close(ch)
	for {
		select {
		case event, ok := <-natsCh:
			if !ok {
				<-done
				return
			}
			select {
			case ch <- event:
			case <-done:
				return
			}
		case <-done:
			return
		}
	}
}

// remove drops a subscriber from the map and signals its removal.
// Idempotent: repeat calls for the same id are no-ops.
func (eb *EventBus) remove(id string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	s, ok := eb.subscribers[id]
	if !ok {
		return
	}
	delete(eb.subscribers, id)
	close(s.done)
	if !s.bridged {
		close(s.ch)
	}
	eb.logger.Debug().Str("subscriber_id", id).Msg("subscriber removed")
}

// SubscriberCount returns the number of active subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// Close closes the event bus
func (eb *EventBus) Close() {
	eb.mu.Lock()
	for id, s := range eb.subscribers {
		delete(eb.subscribers, id)
		close(s.done)
		if !s.bridged {
			close(s.ch)
		}
	}
	eb.mu.Unlock()

	if eb.nats != nil {
		eb.nats.Close()
	}
}
