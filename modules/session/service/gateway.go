package service

import (
	"context"
	coreEntity "slot-swapper/core/entity"
	"slot-swapper/core/errors"
	"slot-swapper/core/logger"
	"slot-swapper/core/middleware"
	"slot-swapper/modules/notification/channel"
)

// Stream is an open notification stream bound to one authenticated user.
type Stream struct {
	Identity     *coreEntity.Identity
	Subscription *channel.Subscription
}

type GatewayInterface interface {
	Authenticate(ctx context.Context, credential string) (*coreEntity.Identity, *errors.AppError)
	OpenNotificationStream(ctx context.Context, credential string) (*Stream, *errors.AppError)
	CloseStream(stream *Stream)
}

// Gateway turns a bearer credential into an identity and ties notification
// subscriptions to connection lifetime.
type Gateway struct {
	auth    middleware.Authenticator
	channel channel.Channel
}

func NewGateway(auth middleware.Authenticator, ch channel.Channel) *Gateway {
	return &Gateway{auth: auth, channel: ch}
}

func (g *Gateway) Authenticate(ctx context.Context, credential string) (*coreEntity.Identity, *errors.AppError) {
	if credential == "" {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "credential required", nil)
	}
	return g.auth.Authenticate(ctx, credential)
}

func (g *Gateway) OpenNotificationStream(ctx context.Context, credential string) (*Stream, *errors.AppError) {
	identity, appErr := g.Authenticate(ctx, credential)
	if appErr != nil {
		return nil, appErr
	}

	sub := g.channel.Subscribe(identity.ID)
	logger.Info("Gateway:OpenNotificationStream", "user_id", identity.ID, "subscription_id", sub.ID)
	return &Stream{Identity: identity, Subscription: sub}, nil
}

// CloseStream releases the stream's subscription. It is safe to call more than once.
func (g *Gateway) CloseStream(stream *Stream) {
	if stream == nil {
		return
	}
	g.channel.Unsubscribe(stream.Subscription)
	logger.Info("Gateway:CloseStream", "user_id", stream.Identity.ID, "subscription_id", stream.Subscription.ID)
}
