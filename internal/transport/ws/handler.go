package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"gamecodin/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	session  *app.GameSession
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(session *app.GameSession, logger *slog.Logger) *Handler {
	return &Handler{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Clients connect from arbitrary origins
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests. Authentication happens after
// the upgrade: the first frame is the {nickname, token} handshake.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, h.session, h.logger)
	h.logger.Info("websocket connected", "conn", client.ID(), "remote", r.RemoteAddr)

	client.Run()
}
