package channel

import (
	"slot-swapper/core/constants"
	"slot-swapper/core/logger"
	"slot-swapper/core/utils"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type Subscription struct {
	ID     string
	UserID uuid.UUID

	events  chan Event
	once    sync.Once
	dropped atomic.Int64
}

// Events yields this subscription's events in publish order. It is closed by Unsubscribe.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Dropped counts events discarded because the buffer was full.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.events) })
}

// Hub is the in-process Channel. Each subscription owns a buffered queue; publishers
// never wait on a slow reader.
type Hub struct {
	mu         sync.RWMutex
	subs       map[uuid.UUID]map[string]*Subscription
	bufferSize int
	dropped    atomic.Int64
}

func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = constants.NotificationBufferSize
	}
	return &Hub{
		subs:       make(map[uuid.UUID]map[string]*Subscription),
		bufferSize: bufferSize,
	}
}

func (h *Hub) Subscribe(userID uuid.UUID) *Subscription {
	sub := &Subscription{
		ID:     utils.GenerateID(),
		UserID: userID,
		events: make(chan Event, h.bufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	userSubs, ok := h.subs[userID]
	if !ok {
		userSubs = make(map[string]*Subscription)
		h.subs[userID] = userSubs
	}
	userSubs[sub.ID] = sub

	logger.Debug("Hub:Subscribe", "user_id", userID, "subscription_id", sub.ID, "count", len(userSubs))
	return sub
}

// Unsubscribe removes sub and closes its event stream. Calling it twice is safe.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	if userSubs, ok := h.subs[sub.UserID]; ok {
		delete(userSubs, sub.ID)
		if len(userSubs) == 0 {
			delete(h.subs, sub.UserID)
		}
	}
	// closed under the write lock so no Publish can be sending on it
	sub.close()
	h.mu.Unlock()

	logger.Debug("Hub:Unsubscribe", "user_id", sub.UserID, "subscription_id", sub.ID)
}

func (h *Hub) Publish(userID uuid.UUID, evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs[userID] {
		select {
		case sub.events <- evt:
		default:
			sub.dropped.Add(1)
			h.dropped.Add(1)
			logger.Warn("Hub:Publish:BufferFull", "user_id", userID, "subscription_id", sub.ID, "type", evt.Type)
		}
	}
}

// Subscribers reports how many live subscriptions userID has.
func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Close ends every subscription.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, userSubs := range h.subs {
		for _, sub := range userSubs {
			sub.close()
		}
		delete(h.subs, userID)
	}
	return nil
}
