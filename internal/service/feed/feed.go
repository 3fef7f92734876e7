package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quickrest/items-api/internal/model/item"
)

// EventType identifies the store mutation an event describes.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event is a snapshot of a single item mutation.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`
	Item item.Item `json:"item"`
	At   time.Time `json:"at"`
}

// Broadcaster fans item change events out to stream subscribers.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	buffer int
}

// NewBroadcaster creates a broadcaster whose subscriber channels hold up to
// buffer pending events.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		subs:   make(map[chan Event]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber. The returned cancel function removes
// the subscription and closes the channel; it is safe to call more than once.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber. Sends never block: a
// subscriber whose buffer is full misses the event instead of stalling the
// request that triggered it. A nil broadcaster is a no-op so handlers can be
// wired without a feed.
func (b *Broadcaster) Publish(evtType EventType, it item.Item) {
	if b == nil {
		return
	}

	evt := Event{
		ID:   uuid.NewString(),
		Type: evtType,
		Item: it,
		At:   time.Now().UTC(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// SubscriberCount reports the number of active subscriptions.
func (b *Broadcaster) SubscriberCount() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
