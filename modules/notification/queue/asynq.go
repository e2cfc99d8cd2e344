package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"slot-swapper/core/constants"
	"slot-swapper/core/logger"
	"slot-swapper/modules/notification/entity"

	"github.com/hibiken/asynq"
)

const defaultMaxRetry = 5

// AsynqDispatcher enqueues a persist task on Redis; a Worker writes it to the store.
// The notification id is fixed before enqueueing so retries stay idempotent.
type AsynqDispatcher struct {
	client   *asynq.Client
	maxRetry int
}

func NewAsynqDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{client: client, maxRetry: defaultMaxRetry}
}

func NewPersistTask(notification *entity.Notification, maxRetry int) (*asynq.Task, error) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskTypeNotificationPersist, payload,
		asynq.Queue(constants.QueueNotifications),
		asynq.MaxRetry(maxRetry),
	), nil
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, notification *entity.Notification) {
	task, err := NewPersistTask(notification, d.maxRetry)
	if err != nil {
		logger.Error("AsynqDispatcher:Dispatch:NewTask", "error", err)
		return
	}

	info, err := d.client.EnqueueContext(context.WithoutCancel(ctx), task)
	if err != nil {
		logger.Error("AsynqDispatcher:Dispatch:Enqueue",
			"notification_id", notification.ID,
			"error", err,
		)
		return
	}
	logger.Debug("AsynqDispatcher:Dispatch:Enqueued", "task_id", info.ID, "queue", info.Queue)
}

func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}

// HandlePersist decodes a persist task and writes it to store. Undecodable payloads
// are not retried.
func HandlePersist(store Store) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var notification entity.Notification
		if err := json.Unmarshal(t.Payload(), &notification); err != nil {
			return fmt.Errorf("decode notification: %v: %w", err, asynq.SkipRetry)
		}
		if err := store.Create(ctx, &notification); err != nil {
			logger.Warn("Worker:HandlePersist:Error", "notification_id", notification.ID, "error", err)
			return err
		}
		return nil
	}
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(opt asynq.RedisClientOpt, concurrency int, store Store) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{constants.QueueNotifications: 1},
	})

	mux := asynq.NewServeMux()
	mux.Handle(constants.TaskTypeNotificationPersist, HandlePersist(store))

	return &Worker{server: server, mux: mux}
}

func (w *Worker) Start() error {
	logger.Info("Worker:Start", "queue", constants.QueueNotifications)
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}
