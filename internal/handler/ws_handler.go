package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/foundry/internal/auth"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 4096
	sendBufSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS handled by middleware
	},
}

// WSHandler streams job progress over WebSocket.
type WSHandler struct {
	hub    *Hub
	jwtMgr *auth.JWTManager
}

// NewWSHandler creates a WSHandler.
func NewWSHandler(hub *Hub, jwtMgr *auth.JWTManager) *WSHandler {
	return &WSHandler{hub: hub, jwtMgr: jwtMgr}
}

// ServeWS handles GET /api/v1/ws. Browsers cannot set headers on a
// WebSocket handshake, so the token comes in ?token=.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		writeError(w, http.StatusUnauthorized, "missing token parameter")
		return
	}
	claims, err := h.jwtMgr.ValidateToken(tokenStr)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &WSConn{
		conn:    conn,
		subject: claims.Subject,
		send:    make(chan []byte, sendBufSize),
	}
	h.hub.Register(client)

	welcome, _ := json.Marshal(WSEvent{Type: "connected", Data: map[string]any{}})
	client.send <- welcome

	go h.writePump(client)
	go h.readPump(client)

	log.Info().Str("subject", claims.Subject).Int("total", h.hub.ConnectionCount()).Msg("WebSocket client connected")
}

// readPump handles subscribe/unsubscribe requests until the client goes away.
func (h *WSHandler) readPump(c *WSConn) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("subject", c.subject).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("subject", c.subject).Msg("WebSocket unexpected close")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil || msg.JobID == "" {
			continue
		}
		switch msg.Action {
		case "subscribe":
			h.hub.Subscribe(c, msg.JobID)
		case "unsubscribe":
			h.hub.Unsubscribe(c, msg.JobID)
		}
	}
}

// writePump drains the send queue onto the socket and keeps it alive with pings.
func (h *WSHandler) writePump(c *WSConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// one event per frame so clients can decode each message directly
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
