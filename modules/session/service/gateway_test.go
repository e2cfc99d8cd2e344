package service

import (
	"context"
	coreEntity "slot-swapper/core/entity"
	"slot-swapper/core/errors"
	"slot-swapper/modules/notification/channel"
	"testing"

	"github.com/google/uuid"
)

type stubAuth struct{ identity *coreEntity.Identity }

func (s stubAuth) Authenticate(_ context.Context, credential string) (*coreEntity.Identity, *errors.AppError) {
	if credential != "valid" {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", nil)
	}
	return s.identity, nil
}

func TestGateway_OpenAndCloseStream(t *testing.T) {
	hub := channel.NewHub(4)
	identity := &coreEntity.Identity{ID: uuid.New(), Username: "alice"}
	gw := NewGateway(stubAuth{identity: identity}, hub)

	stream, appErr := gw.OpenNotificationStream(context.Background(), "valid")
	if appErr != nil {
		t.Fatalf("OpenNotificationStream: %v", appErr)
	}
	if stream.Identity.ID != identity.ID || hub.Subscribers(identity.ID) != 1 {
		t.Fatalf("stream not registered for user")
	}

	gw.CloseStream(stream)
	gw.CloseStream(stream)
	if hub.Subscribers(identity.ID) != 0 {
		t.Errorf("subscribers = %d after close", hub.Subscribers(identity.ID))
	}
}

func TestGateway_RejectsBadCredentials(t *testing.T) {
	hub := channel.NewHub(4)
	identity := &coreEntity.Identity{ID: uuid.New()}
	gw := NewGateway(stubAuth{identity: identity}, hub)

	for _, credential := range []string{"", "forged"} {
		stream, appErr := gw.OpenNotificationStream(context.Background(), credential)
		if appErr == nil || stream != nil {
			t.Fatalf("credential %q should be rejected", credential)
		}
		if appErr.Kind() != errors.KindUnauthenticated {
			t.Errorf("kind = %s, want %s", appErr.Kind(), errors.KindUnauthenticated)
		}
	}
	if hub.Subscribers(identity.ID) != 0 {
		t.Error("rejected credentials must not subscribe")
	}
}
