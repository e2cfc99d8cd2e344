package channel

import (
	"time"

	"github.com/google/uuid"
)

// Event is one push message for a user. Data carries event-specific fields such as
// swap_request_id.
type Event struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewEvent(eventType, message string, data map[string]any) Event {
	return Event{
		Type:      eventType,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}

// Payload flattens the event into the object clients receive under "data".
func (e Event) Payload() map[string]any {
	out := make(map[string]any, len(e.Data)+2)
	for k, v := range e.Data {
		out[k] = v
	}
	out["type"] = e.Type
	out["message"] = e.Message
	return out
}

// Channel delivers events to the live subscriptions of a user. Delivery is best effort:
// publishing to a user with no subscribers is a no-op, and a subscriber that stops
// draining its buffer loses events rather than slowing the publisher.
type Channel interface {
	Publish(userID uuid.UUID, evt Event)
	Subscribe(userID uuid.UUID) *Subscription
	Unsubscribe(sub *Subscription)
	Close() error
}
