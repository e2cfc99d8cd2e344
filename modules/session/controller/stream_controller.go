package controller

import (
	"slot-swapper/core/constants"
	"slot-swapper/core/controller"
	"slot-swapper/core/logger"
	"slot-swapper/core/utils"
	"slot-swapper/modules/session/service"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"
)

const writeTimeout = 10 * time.Second

type frame struct {
	Type    string         `json:"type"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

type StreamController struct {
	gateway service.GatewayInterface
	controller.BaseController
}

func NewStreamController(gateway service.GatewayInterface) *StreamController {
	return &StreamController{
		gateway:        gateway,
		BaseController: controller.NewBaseController(),
	}
}

// Notifications upgrades to a websocket that carries the caller's notifications.
// The credential comes from ?token= or the Authorization header and is checked before
// the upgrade.
func (h *StreamController) Notifications(c echo.Context) error {
	stream, appErr := h.gateway.OpenNotificationStream(c.Request().Context(), utils.GetTokenFromRequest(c))
	if appErr != nil {
		return h.ErrorResponse(c, appErr)
	}
	// also covers a failed upgrade, where the handler below never runs
	defer h.gateway.CloseStream(stream)

	websocket.Server{
		Handler: func(ws *websocket.Conn) {
			defer ws.Close()
			h.serve(ws, stream)
		},
	}.ServeHTTP(c.Response(), c.Request())
	return nil
}

func send(ws *websocket.Conn, f frame) error {
	if err := ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return websocket.JSON.Send(ws, f)
}

func (h *StreamController) serve(ws *websocket.Conn, stream *service.Stream) {
	userID := stream.Identity.ID

	if err := send(ws, frame{
		Type:    constants.EventConnectionEstablished,
		Message: "Connected to notifications",
	}); err != nil {
		logger.Warn("StreamController:serve:Handshake", "user_id", userID, "error", err)
		return
	}

	// inbound frames are ignored; a read error means the client went away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		var discard string
		for {
			if err := websocket.Message.Receive(ws, &discard); err != nil {
				return
			}
		}
	}()

	events := stream.Subscription.Events()
	for {
		select {
		case <-closed:
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := send(ws, frame{Type: constants.EventNotification, Data: evt.Payload()}); err != nil {
				logger.Warn("StreamController:serve:Send", "user_id", userID, "error", err)
				return
			}
		}
	}
}
