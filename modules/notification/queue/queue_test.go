package queue

import (
	"context"
	"errors"
	"slot-swapper/core/constants"
	"slot-swapper/modules/notification/entity"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type recordingStore struct {
	created []entity.Notification
	err     error
}

func (s *recordingStore) Create(ctx context.Context, n *entity.Notification) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *n)
	return nil
}

func TestInlineDispatcher_IgnoresCallerCancellation(t *testing.T) {
	store := &recordingStore{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewInlineDispatcher(store).Dispatch(ctx, &entity.Notification{UserID: uuid.New(), Title: "t"})

	if len(store.created) != 1 {
		t.Fatalf("created = %d, want 1", len(store.created))
	}
}

func TestInlineDispatcher_SwallowsStoreError(t *testing.T) {
	store := &recordingStore{err: errors.New("db down")}
	NewInlineDispatcher(store).Dispatch(context.Background(), &entity.Notification{UserID: uuid.New()})
}

// blockingStore parks every Create until release is closed.
type blockingStore struct {
	mu      sync.Mutex
	entered chan struct{}
	release chan struct{}
	created int
}

func (s *blockingStore) Create(ctx context.Context, n *entity.Notification) error {
	s.entered <- struct{}{}
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
	return nil
}

func TestBackgroundDispatcher_DoesNotWaitForStore(t *testing.T) {
	store := &blockingStore{entered: make(chan struct{}, 4), release: make(chan struct{})}
	d := NewBackgroundDispatcher(NewInlineDispatcher(store), 1)

	returned := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), &entity.Notification{UserID: uuid.New()})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on the store")
	}
	<-store.entered

	// one queued behind the write in progress, the next one is dropped
	d.Dispatch(context.Background(), &entity.Notification{UserID: uuid.New()})
	d.Dispatch(context.Background(), &entity.Notification{UserID: uuid.New()})

	close(store.release)
	d.Close()

	if store.created != 2 {
		t.Fatalf("created = %d, want 2", store.created)
	}

	// after Close notifications are dropped
	d.Dispatch(context.Background(), &entity.Notification{UserID: uuid.New()})
	if store.created != 2 {
		t.Fatalf("created after Close = %d, want 2", store.created)
	}
}

func TestPersistTaskRoundTrip(t *testing.T) {
	store := &recordingStore{}
	n := &entity.Notification{
		UserID:  uuid.New(),
		Title:   "Swap request accepted",
		Message: "bob accepted your swap request!",
		Type:    constants.EventSwapRequestAccepted,
		Data:    entity.JSONB{"swap_request_id": "abc"},
	}
	n.ID = uuid.New()

	task, err := NewPersistTask(n, 3)
	if err != nil {
		t.Fatalf("NewPersistTask: %v", err)
	}
	if task.Type() != constants.TaskTypeNotificationPersist {
		t.Errorf("task type = %q", task.Type())
	}

	if err := HandlePersist(store)(context.Background(), task); err != nil {
		t.Fatalf("HandlePersist: %v", err)
	}
	if len(store.created) != 1 || store.created[0].ID != n.ID || store.created[0].Data["swap_request_id"] != "abc" {
		t.Errorf("unexpected stored notification %+v", store.created)
	}
}

func TestHandlePersist_BadPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(constants.TaskTypeNotificationPersist, []byte("{not json"))
	err := HandlePersist(&recordingStore{})(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("err = %v, want SkipRetry", err)
	}
}
