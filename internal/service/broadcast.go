package service

// Event types pushed to job subscribers.
const (
	EventBlueprintSolved = "blueprint_solved"
	EventJobFinished     = "job_finished"
)

// Broadcaster sends real-time job events to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastJobEvent(jobID string, eventType string, data any)
}

// NoopBroadcaster is a no-op implementation for the CLI and tests.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastJobEvent(string, string, any) {}
