package handler

import (
	"encoding/json"
	"net/http"

	"swipemovie/pkg/logger"
	"swipemovie/pkg/middleware"
	"swipemovie/pkg/types/sock"
	"swipemovie/services/matchsocket/service"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type SocketHandler struct {
	push *service.PushService
	log  zerolog.Logger
}

func NewSocketHandler(push *service.PushService) *SocketHandler {
	return &SocketHandler{
		push: push,
		log:  logger.With("socket_handler"),
	}
}

// HandleRoomSocket upgrades the request and serves the room push
// channel until the client disconnects.
func (h *SocketHandler) HandleRoomSocket(c echo.Context) error {
	userID := c.Request().Header.Get(middleware.UserIDHeader)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error().Msgf("Failed to upgrade websocket for user %s: %v", userID, err)
		return err
	}

	h.log.Info().Msgf("User %s connected to room socket", userID)
	go h.readLoop(conn, userID)
	return nil
}

func (h *SocketHandler) readLoop(conn *websocket.Conn, userID string) {
	defer func() {
		h.push.DisconnectUser(userID)
		conn.Close()
		h.log.Info().Msgf("User %s disconnected from room socket", userID)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn().Msgf("Unexpected close from user %s: %v", userID, err)
			}
			return
		}

		var msg sock.WebSocketMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.log.Warn().Msgf("Invalid message from user %s: %v", userID, err)
			continue
		}

		switch msg.Kind {
		case sock.MessageKindJoinRoom:
			var payload sock.RoomPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.log.Warn().Msgf("Invalid join payload from user %s: %v", userID, err)
				continue
			}
			h.push.JoinRoom(payload.RoomID, userID, conn)
		case sock.MessageKindLeaveRoom:
			var payload sock.RoomPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.log.Warn().Msgf("Invalid leave payload from user %s: %v", userID, err)
				continue
			}
			h.push.LeaveRoom(payload.RoomID, userID)
		default:
			h.log.Warn().Msgf("Unknown message kind %q from user %s", msg.Kind, userID)
		}
	}
}
