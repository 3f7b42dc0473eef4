package session

// EventType defines the type of event being broadcast.
type EventType string

const (
	EventSessionUpdated  EventType = "session_updated"
	EventReconcileFailed EventType = "network_reconcile_failed"
)

// Event represents a session change. Data is a models.Session for EventSessionUpdated
// and the error text for EventReconcileFailed.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// Subscriber is a channel that receives events.
type Subscriber chan Event
