package handler

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"taskboard/internal/realtime"
)

// RealtimeHandler upgrades clients to websocket connections on the broker.
// The websocket carries no credentials; any client may join any project
// channel.
type RealtimeHandler struct {
	broker   *realtime.Broker
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewRealtimeHandler creates a realtime handler. An empty or "*"
// allowedOrigin accepts any origin.
func NewRealtimeHandler(broker *realtime.Broker, allowedOrigin string, logger *log.Logger) *RealtimeHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &RealtimeHandler{
		broker: broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
		logger: logger,
	}
}

// Serve godoc
// @Summary Realtime task events
// @Description Websocket. Frames are {"event": "...", "data": ...}.
// @Tags realtime
// @Router /ws [get]
func (h *RealtimeHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Debug("websocket upgrade failed", "err", err)
		return nil
	}

	realtime.NewClient(conn, h.broker, h.logger).Serve(c.Request().Context())
	return nil
}
