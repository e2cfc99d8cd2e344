package channel

import (
	"context"
	"encoding/json"
	"slot-swapper/core/constants"
	"slot-swapper/core/logger"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type envelope struct {
	userID uuid.UUID
	evt    Event
}

// RedisChannel fans events out across instances. Publish hands the event to a single
// writer goroutine that PUBLISHes it on notifications:user:<id>; every instance
// PSUBSCRIBEs to the prefix and feeds its local Hub. Subscriptions stay local.
type RedisChannel struct {
	hub    *Hub
	rdb    *redis.Client
	pubsub *redis.PubSub
	outbox chan envelope

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewRedisChannel(ctx context.Context, rdb *redis.Client, hub *Hub) (*RedisChannel, error) {
	pubsub := rdb.PSubscribe(ctx, constants.NotificationChannelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	c := &RedisChannel{
		hub:    hub,
		rdb:    rdb,
		pubsub: pubsub,
		outbox: make(chan envelope, constants.NotificationOutboxSize),
		cancel: cancel,
	}

	c.wg.Add(2)
	go c.publishLoop(loopCtx)
	go c.receiveLoop(loopCtx)

	logger.Info("RedisChannel:Started", "pattern", constants.NotificationChannelPrefix+"*")
	return c, nil
}

func (c *RedisChannel) Publish(userID uuid.UUID, evt Event) {
	select {
	case c.outbox <- envelope{userID: userID, evt: evt}:
	default:
		logger.Warn("RedisChannel:Publish:OutboxFull", "user_id", userID, "type", evt.Type)
	}
}

func (c *RedisChannel) Subscribe(userID uuid.UUID) *Subscription {
	return c.hub.Subscribe(userID)
}

func (c *RedisChannel) Unsubscribe(sub *Subscription) {
	c.hub.Unsubscribe(sub)
}

func (c *RedisChannel) publishLoop(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-c.outbox:
			body, err := json.Marshal(env.evt)
			if err != nil {
				logger.Error("RedisChannel:publishLoop:Marshal", "error", err)
				continue
			}
			pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err = c.rdb.Publish(pubCtx, constants.NotificationChannelPrefix+env.userID.String(), body).Err()
			cancel()
			if err != nil {
				logger.Error("RedisChannel:publishLoop:Publish", "user_id", env.userID, "error", err)
			}
		}
	}
}

func (c *RedisChannel) receiveLoop(ctx context.Context) {
	defer c.wg.Done()
	messages := c.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			userID, err := uuid.Parse(strings.TrimPrefix(msg.Channel, constants.NotificationChannelPrefix))
			if err != nil {
				logger.Warn("RedisChannel:receiveLoop:BadChannel", "channel", msg.Channel)
				continue
			}
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				logger.Warn("RedisChannel:receiveLoop:BadPayload", "channel", msg.Channel, "error", err)
				continue
			}
			c.hub.Publish(userID, evt)
		}
	}
}

func (c *RedisChannel) Close() error {
	var err error
	c.once.Do(func() {
		c.cancel()
		err = c.pubsub.Close()
		c.wg.Wait()
		_ = c.hub.Close()
	})
	return err
}
