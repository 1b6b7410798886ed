package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/uniportal/thesis-portal/internal/api/middleware"
	"github.com/uniportal/thesis-portal/internal/ws"
)

// WSHandler upgrades session-event subscriptions.
type WSHandler struct {
	hub *ws.Hub
	log zerolog.Logger

	upgrader websocket.Upgrader
}

// NewWSHandler wires the session-event websocket endpoint.
func NewWSHandler(hub *ws.Hub, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		log: log.With().Str("handler", "ws").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Session cookies already gate this endpoint; same-origin
			// checking is left to the reverse proxy in front.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// SessionEvents upgrades the connection and subscribes it to the current
// user's session lifecycle events.
func (h *WSHandler) SessionEvents(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}
	h.hub.Register(sess.User.ID, conn)
	return nil
}
