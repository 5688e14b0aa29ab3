// Package eventbus is an in-process pub/sub the dispatcher publishes
// lifecycle events to, so a host application can observe dispatch activity
// without threading a callback through every router.
// Delivery is non-blocking: a slow subscriber drops events rather than
// stalling the publisher, since the publisher here is the long-poll loop
// itself.
package eventbus

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 100

// Event is one message published on the bus.
type Event struct {
	Topic   string
	Payload any
}

// Dispatcher lifecycle event topics.
const (
	// TopicUpdateReceived fires once per update pulled off getUpdates,
	// before it is handed to the root router.
	TopicUpdateReceived = "update.received"
	// TopicUpdateFinished fires once propagate_event returns for an
	// update, carrying the terminal EventReturn.
	TopicUpdateFinished = "update.finished"
	// TopicPollError fires when a getUpdates call fails and the poller is
	// about to back off and retry.
	TopicPollError = "poll.error"
)

// UpdateReceivedEvent is the payload of TopicUpdateReceived.
type UpdateReceivedEvent struct {
	UpdateID int
	Kind     string
}

// UpdateFinishedEvent is the payload of TopicUpdateFinished.
type UpdateFinishedEvent struct {
	UpdateID int
	Kind     string
	Result   string
	Err      error
}

// PollErrorEvent is the payload of TopicPollError.
type PollErrorEvent struct {
	Err     error
	Backoff string
}

// Subscription is an active subscription to a topic prefix.
type Subscription struct {
	id     int
	prefix string
	ch     chan Event
}

// Ch returns the channel events matching this subscription's prefix arrive
// on.
func (s *Subscription) Ch() <-chan Event { return s.ch }

// Bus is a simple in-process pub/sub message bus with topic-prefix
// matching.
type Bus struct {
	mu              sync.RWMutex
	subs            map[int]*Subscription
	nextID          int
	logger          *slog.Logger
	droppedEvents   atomic.Int64
	lastDropWarning atomic.Int64
}

// New creates a Bus with no logging of dropped events.
func New() *Bus { return NewWithLogger(nil) }

// NewWithLogger creates a Bus that logs a warning each time the dropped
// event count crosses an exponential threshold (1, 10, 100, ...).
func NewWithLogger(logger *slog.Logger) *Bus {
	return &Bus{subs: make(map[int]*Subscription), logger: logger}
}

// Subscribe creates a subscription for events whose topic has the given
// prefix. An empty prefix matches every topic. The returned channel has a
// fixed buffer; a slow consumer misses events rather than blocking
// Publish.
func (b *Bus) Subscribe(topicPrefix string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{id: b.nextID, prefix: topicPrefix, ch: make(chan Event, defaultBufferSize)}
	b.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub.id]; ok {
		delete(b.subs, sub.id)
		close(sub.ch)
	}
}

// Publish delivers an event to every subscriber whose prefix matches
// topic. Delivery is non-blocking: if a subscriber's buffer is full, the
// event is dropped and the drop counter increments.
func (b *Bus) Publish(topic string, payload any) {
	event := Event{Topic: topic, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.prefix == "" || strings.HasPrefix(topic, sub.prefix) {
			select {
			case sub.ch <- event:
			default:
				newCount := b.droppedEvents.Add(1)
				b.maybeLogDropWarning(newCount, topic)
			}
		}
	}
}

// SubscriberCount reports how many subscriptions are currently active.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// DroppedEventCount reports how many events were dropped because a
// subscriber's buffer was full.
func (b *Bus) DroppedEventCount() int64 { return b.droppedEvents.Load() }

func dropThreshold(count int64) int64 {
	threshold := int64(1)
	for threshold*10 <= count {
		threshold *= 10
	}
	return threshold
}

func (b *Bus) maybeLogDropWarning(newCount int64, topic string) {
	if b.logger == nil {
		return
	}
	threshold := dropThreshold(newCount)
	if newCount != threshold {
		return
	}
	lastWarned := b.lastDropWarning.Load()
	if threshold <= lastWarned {
		return
	}
	if b.lastDropWarning.CompareAndSwap(lastWarned, threshold) {
		b.logger.Warn("eventbus dropped events reached threshold",
			slog.Int64("count", newCount),
			slog.String("topic", topic),
		)
	}
}
