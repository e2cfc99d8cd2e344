package queue

import (
	"context"
	"slot-swapper/core/logger"
	"slot-swapper/modules/notification/entity"
	"sync"
	"time"
)

const persistTimeout = 5 * time.Second

// Store is where a dispatched notification ends up.
type Store interface {
	Create(ctx context.Context, notification *entity.Notification) error
}

// Dispatcher hands a notification off for persistence. Failures are logged, never
// returned: the operation that produced the notification has already committed.
type Dispatcher interface {
	Dispatch(ctx context.Context, notification *entity.Notification)
}

// InlineDispatcher persists in the caller's goroutine. The caller's cancellation does
// not abort the write.
type InlineDispatcher struct {
	store Store
}

func NewInlineDispatcher(store Store) *InlineDispatcher {
	return &InlineDispatcher{store: store}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, notification *entity.Notification) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := d.store.Create(ctx, notification); err != nil {
		logger.Error("InlineDispatcher:Dispatch:Error",
			"notification_id", notification.ID,
			"user_id", notification.UserID,
			"error", err,
		)
	}
}

type dispatchJob struct {
	ctx          context.Context
	notification *entity.Notification
}

// BackgroundDispatcher hands notifications to next on its own goroutine, so callers
// never wait on the store. A full backlog drops the notification.
type BackgroundDispatcher struct {
	next   Dispatcher
	jobs   chan dispatchJob
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

func NewBackgroundDispatcher(next Dispatcher, backlog int) *BackgroundDispatcher {
	if backlog <= 0 {
		backlog = 1
	}
	d := &BackgroundDispatcher{
		next: next,
		jobs: make(chan dispatchJob, backlog),
		done: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *BackgroundDispatcher) run() {
	defer close(d.done)
	for job := range d.jobs {
		d.next.Dispatch(job.ctx, job.notification)
	}
}

func (d *BackgroundDispatcher) Dispatch(ctx context.Context, notification *entity.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		logger.Warn("BackgroundDispatcher:Dispatch:Closed", "notification_id", notification.ID)
		return
	}
	select {
	case d.jobs <- dispatchJob{ctx: context.WithoutCancel(ctx), notification: notification}:
	default:
		logger.Warn("BackgroundDispatcher:Dispatch:BacklogFull",
			"notification_id", notification.ID,
			"user_id", notification.UserID,
		)
	}
}

// Close stops accepting notifications and waits for the backlog to drain.
func (d *BackgroundDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	<-d.done
}

// Discard drops notifications. Used when persistence is disabled.
type Discard struct{}

func (Discard) Dispatch(context.Context, *entity.Notification) {}
