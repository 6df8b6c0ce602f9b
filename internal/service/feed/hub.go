package feed

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/bookshelf/backend/internal/model/book"
)

// DefaultBuffer is used when Subscribe is called with a non-positive buffer.
const DefaultBuffer = 16

// Hub fans catalogue events out to live subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]chan book.Event
	closed bool
	log    logrus.FieldLogger
}

// NewHub creates an empty hub. A nil logger falls back to the logrus standard logger.
func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		subs: make(map[string]chan book.Event),
		log:  log.WithField("component", "feed"),
	}
}

// Subscribe registers a new listener. The returned cancel func unregisters it
// and closes the channel; calling it more than once is safe.
func (h *Hub) Subscribe(buffer int) (<-chan book.Event, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	id := uuid.NewString()
	ch := make(chan book.Event, buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber without blocking. Subscribers whose
// buffer is full miss the event.
func (h *Hub) Publish(ev book.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.log.WithFields(logrus.Fields{
				"subscriber": id,
				"event":      ev.Type,
				"book_id":    ev.BookID,
			}).Warn("dropping event for slow subscriber")
		}
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close disconnects every subscriber. Later subscriptions receive a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
