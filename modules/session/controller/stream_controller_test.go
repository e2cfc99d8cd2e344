package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	coreEntity "slot-swapper/core/entity"
	"slot-swapper/core/errors"
	"slot-swapper/modules/notification/channel"
	"slot-swapper/modules/session/service"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"
)

type stubAuth struct{ identity *coreEntity.Identity }

func (s stubAuth) Authenticate(_ context.Context, credential string) (*coreEntity.Identity, *errors.AppError) {
	if credential != "valid" {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", nil)
	}
	return s.identity, nil
}

func newStreamServer(t *testing.T) (*httptest.Server, *channel.Hub, *coreEntity.Identity) {
	t.Helper()
	hub := channel.NewHub(8)
	identity := &coreEntity.Identity{ID: uuid.New(), Username: "bob"}
	ctrl := NewStreamController(service.NewGateway(stubAuth{identity: identity}, hub))

	e := echo.New()
	e.GET("/ws/notifications", ctrl.Notifications)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, hub, identity
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications" + query
}

func receive(t *testing.T, ws *websocket.Conn) frame {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f frame
	if err := websocket.JSON.Receive(ws, &f); err != nil {
		t.Fatalf("receive: %v", err)
	}
	return f
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNotifications_StreamsEvents(t *testing.T) {
	srv, hub, identity := newStreamServer(t)

	ws, err := websocket.Dial(wsURL(srv, "?token=valid"), "", srv.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	first := receive(t, ws)
	if first.Type != "connection_established" || first.Message != "Connected to notifications" {
		t.Fatalf("first frame = %+v", first)
	}

	hub.Publish(identity.ID, channel.NewEvent("swap_request_accepted", "alice accepted your swap request!",
		map[string]any{"swap_request_id": "r1"}))

	got := receive(t, ws)
	if got.Type != "notification" {
		t.Fatalf("frame type = %q", got.Type)
	}
	if got.Data["type"] != "swap_request_accepted" || got.Data["swap_request_id"] != "r1" {
		t.Errorf("frame data = %v", got.Data)
	}

	// inbound frames are ignored
	if err := websocket.Message.Send(ws, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	ws.Close()
	waitFor(t, func() bool { return hub.Subscribers(identity.ID) == 0 })
}

func TestNotifications_RejectsMissingOrBadToken(t *testing.T) {
	srv, hub, identity := newStreamServer(t)

	for _, query := range []string{"", "?token=forged"} {
		resp, err := http.Get(srv.URL + "/ws/notifications" + query)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("query %q: status = %d, want 401", query, resp.StatusCode)
		}
	}
	if hub.Subscribers(identity.ID) != 0 {
		t.Error("no subscription expected")
	}
}

func TestNotifications_FailedUpgradeReleasesSubscription(t *testing.T) {
	srv, hub, identity := newStreamServer(t)

	resp, err := http.Get(srv.URL + "/ws/notifications?token=valid")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusSwitchingProtocols {
		t.Fatal("plain GET must not upgrade")
	}
	waitFor(t, func() bool { return hub.Subscribers(identity.ID) == 0 })
}
