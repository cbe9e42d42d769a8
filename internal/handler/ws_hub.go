package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSEvent is the envelope for all WebSocket messages.
type WSEvent struct {
	Type  string `json:"type"`
	JobID string `json:"job_id"`
	Data  any    `json:"data"`
}

// ClientMessage is the envelope for messages sent from the client.
type ClientMessage struct {
	Action string `json:"action"` // "subscribe" or "unsubscribe"
	JobID  string `json:"job_id"`
}

// WSConn wraps a WebSocket connection with its token subject and send queue.
type WSConn struct {
	conn    *websocket.Conn
	subject string
	send    chan []byte
}

// Hub tracks WebSocket connections and their job subscriptions.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
	jobs        map[string]map[*WSConn]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*WSConn]bool),
		jobs:        make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// Unregister removes a connection and all its subscriptions, then closes its
// send queue.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connections[c] {
		return
	}
	delete(h.connections, c)
	for jobID, conns := range h.jobs {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.jobs, jobID)
		}
	}
	close(c.send)
}

// Subscribe adds a connection to a job channel.
func (h *Hub) Subscribe(c *WSConn, jobID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connections[c] {
		return
	}
	if h.jobs[jobID] == nil {
		h.jobs[jobID] = make(map[*WSConn]bool)
	}
	h.jobs[jobID][c] = true
}

// Unsubscribe removes a connection from a job channel.
func (h *Hub) Unsubscribe(c *WSConn, jobID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.jobs[jobID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.jobs, jobID)
		}
	}
}

// BroadcastToJob sends an event to every connection subscribed to a job.
// Slow clients with a full queue miss the event.
func (h *Hub) BroadcastToJob(jobID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("jobId", jobID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.jobs[jobID] {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("subject", c.subject).Str("jobId", jobID).Msg("Dropping WebSocket message, buffer full")
		}
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// JobSubscriberCount returns the number of connections subscribed to a job.
func (h *Hub) JobSubscriberCount(jobID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.jobs[jobID])
}
