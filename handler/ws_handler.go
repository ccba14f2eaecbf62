package handler

import (
	"net/http"
	"strings"
	"sync"

	"sms-relay-api/common"
	"sms-relay-api/logger"
	"sms-relay-api/service"

	"github.com/gorilla/websocket"
)

// wsChannel adapts a websocket connection to the hub's Channel interface.
// The mutex serializes writes; gorilla connections allow one concurrent
// writer only.
type wsChannel struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsChannel) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsChannel) Close() error {
	return c.conn.Close()
}

// WSHandler upgrades authenticated clients to a persistent delivery channel
// and keeps the hub registration paired with the connection's lifetime.
type WSHandler struct {
	Auth     *service.AuthService
	Hub      *service.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(authService *service.AuthService, hub *service.Hub) *WSHandler {
	return &WSHandler{
		Auth: authService,
		Hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// bearerToken pulls the token from the Authorization header, falling back
// to a token query parameter for clients that cannot set handshake headers.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// Connect godoc
// @Summary      Open a realtime delivery channel
// @Tags         events
// @Success      101
// @Failure      401 {object} common.AppError
// @Security     BearerAuth
// @Router       /ws [get]
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		common.NewAppError(http.StatusUnauthorized, "Authorization required", nil).Send(w)
		return
	}

	authUser, err := h.Auth.ValidateAccess(token)
	if err != nil {
		common.FromError(err).Send(w)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}

	ch := &wsChannel{conn: conn}
	h.Hub.Admit(ch, authUser)
	defer func() {
		h.Hub.Remove(ch, authUser)
		ch.Close()
	}()

	logger.Log.WithField("user_id", authUser.ID).Info("Websocket client connected")

	// Inbound frames from clients are not part of the protocol; the read
	// loop only exists to notice the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	logger.Log.WithField("user_id", authUser.ID).Info("Websocket client disconnected")
}
