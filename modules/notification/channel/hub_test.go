package channel

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func recv(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case evt, ok := <-sub.Events():
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHub_DeliversToEverySubscriptionOfUser(t *testing.T) {
	hub := NewHub(4)
	alice, bob := uuid.New(), uuid.New()
	s1 := hub.Subscribe(alice)
	s2 := hub.Subscribe(alice)
	s3 := hub.Subscribe(bob)

	hub.Publish(alice, NewEvent("swap_request_received", "hi", nil))

	if got := recv(t, s1); got.Type != "swap_request_received" {
		t.Errorf("s1 got %q", got.Type)
	}
	if got := recv(t, s2); got.Message != "hi" {
		t.Errorf("s2 got %q", got.Message)
	}
	select {
	case evt := <-s3.Events():
		t.Fatalf("bob should not receive alice's event, got %+v", evt)
	default:
	}
}

func TestHub_PreservesPublishOrder(t *testing.T) {
	hub := NewHub(16)
	user := uuid.New()
	sub := hub.Subscribe(user)

	for i := 0; i < 10; i++ {
		hub.Publish(user, NewEvent("n", "", map[string]any{"seq": i}))
	}
	for i := 0; i < 10; i++ {
		if got := recv(t, sub).Data["seq"]; got != i {
			t.Fatalf("event %d out of order: got seq %v", i, got)
		}
	}
}

func TestHub_PublishWithoutSubscribersIsNoop(t *testing.T) {
	hub := NewHub(1)
	hub.Publish(uuid.New(), NewEvent("n", "", nil))
	if hub.Dropped() != 0 {
		t.Errorf("nothing should be counted as dropped")
	}
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(2)
	user := uuid.New()
	sub := hub.Subscribe(user)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			hub.Publish(user, NewEvent("n", "", nil))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
	if sub.Dropped() != 3 {
		t.Errorf("dropped = %d, want 3", sub.Dropped())
	}
}

func TestHub_UnsubscribeClosesAndIsIdempotent(t *testing.T) {
	hub := NewHub(1)
	user := uuid.New()
	sub := hub.Subscribe(user)

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	if _, ok := <-sub.Events(); ok {
		t.Error("events channel should be closed")
	}
	if hub.Subscribers(user) != 0 {
		t.Errorf("subscribers = %d, want 0", hub.Subscribers(user))
	}
	hub.Publish(user, NewEvent("n", "", nil))
}

func TestHub_ConcurrentPublishAndUnsubscribe(t *testing.T) {
	hub := NewHub(8)
	user := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		sub := hub.Subscribe(user)
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Publish(user, NewEvent("n", "", nil))
			}
		}()
		go func(s *Subscription) {
			defer wg.Done()
			hub.Unsubscribe(s)
		}(sub)
	}
	wg.Wait()

	if hub.Subscribers(user) != 0 {
		t.Errorf("subscribers = %d, want 0", hub.Subscribers(user))
	}
}

func TestEventPayload(t *testing.T) {
	evt := NewEvent("swap_request_accepted", "bob accepted your swap request!", map[string]any{"swap_request_id": "r1"})
	p := evt.Payload()
	if p["type"] != "swap_request_accepted" || p["message"] != "bob accepted your swap request!" || p["swap_request_id"] != "r1" {
		t.Errorf("unexpected payload %v", p)
	}
}
