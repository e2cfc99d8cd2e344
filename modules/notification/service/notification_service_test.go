package service

import (
	"context"
	"slot-swapper/core/constants"
	"slot-swapper/core/errors"
	"slot-swapper/core/params"
	"slot-swapper/modules/notification/channel"
	"slot-swapper/modules/notification/queue"
	"slot-swapper/modules/notification/repository"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newService() (*NotificationService, *channel.Hub) {
	repo := repository.NewMemoryNotificationRepository()
	hub := channel.NewHub(8)
	return NewNotificationService(repo, hub, queue.NewInlineDispatcher(repo)), hub
}

func firstPage() params.QueryParams {
	return params.QueryParams{PageNumber: 1, PageSize: 20}
}

func TestNotify_PublishesAndPersists(t *testing.T) {
	svc, hub := newService()
	ctx := context.Background()
	user := uuid.New()
	sub := hub.Subscribe(user)
	defer hub.Unsubscribe(sub)

	svc.Notify(ctx, user, channel.NewEvent(constants.EventSwapRequestReceived, "alice wants to swap slots with you!",
		map[string]any{"swap_request_id": "r1"}))

	select {
	case evt := <-sub.Events():
		if evt.Type != constants.EventSwapRequestReceived {
			t.Errorf("live event type = %q", evt.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no live event")
	}

	page, appErr := svc.GetMyNotifications(ctx, user, firstPage())
	if appErr != nil {
		t.Fatalf("GetMyNotifications: %v", appErr)
	}
	if page.TotalItems != 1 {
		t.Fatalf("total = %d, want 1", page.TotalItems)
	}
	got := page.Items[0]
	if got.Title != "Swap request received" || got.IsRead || got.Data["swap_request_id"] != "r1" {
		t.Errorf("unexpected inbox entry %+v", got)
	}
}

func TestMarkAsReadAndCount(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()

	for i := 0; i < 3; i++ {
		svc.Notify(ctx, user, channel.NewEvent(constants.EventSwapRequestRejected, "no", nil))
	}
	svc.Notify(ctx, other, channel.NewEvent(constants.EventSwapRequestAccepted, "yes", nil))

	count, _ := svc.CountUnread(ctx, user)
	if count.Count != 3 {
		t.Fatalf("unread = %d, want 3", count.Count)
	}

	page, _ := svc.GetMyNotifications(ctx, user, firstPage())
	if appErr := svc.MarkAsRead(ctx, user, []string{page.Items[0].ID.String()}); appErr != nil {
		t.Fatalf("MarkAsRead: %v", appErr)
	}
	count, _ = svc.CountUnread(ctx, user)
	if count.Count != 2 {
		t.Errorf("unread = %d, want 2", count.Count)
	}

	if appErr := svc.MarkAllAsRead(ctx, user); appErr != nil {
		t.Fatalf("MarkAllAsRead: %v", appErr)
	}
	count, _ = svc.CountUnread(ctx, user)
	if count.Count != 0 {
		t.Errorf("unread = %d, want 0", count.Count)
	}

	otherCount, _ := svc.CountUnread(ctx, other)
	if otherCount.Count != 1 {
		t.Errorf("other user's unread = %d, want 1", otherCount.Count)
	}
}

func TestMarkAsRead_RejectsMalformedID(t *testing.T) {
	svc, _ := newService()
	appErr := svc.MarkAsRead(context.Background(), uuid.New(), []string{"nope"})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Errorf("got %v, want %s", appErr, errors.ErrInvalidInput)
	}
}

func TestMarkAsRead_IgnoresForeignNotifications(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	svc.Notify(ctx, owner, channel.NewEvent(constants.EventSwapRequestAccepted, "yes", nil))
	page, _ := svc.GetMyNotifications(ctx, owner, firstPage())

	_ = svc.MarkAsRead(ctx, intruder, []string{page.Items[0].ID.String()})

	count, _ := svc.CountUnread(ctx, owner)
	if count.Count != 1 {
		t.Errorf("unread = %d, want 1", count.Count)
	}
}
