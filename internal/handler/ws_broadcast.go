package handler

// BroadcastJobEvent implements service.Broadcaster using the WebSocket hub.
func (h *Hub) BroadcastJobEvent(jobID string, eventType string, data any) {
	h.BroadcastToJob(jobID, WSEvent{
		Type:  eventType,
		JobID: jobID,
		Data:  data,
	})
}
