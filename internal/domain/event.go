package domain

// EventKind classifies a lifecycle notification.
type EventKind string

// Notification kinds forwarded to the notification sink.
const (
	EventItemAdded       EventKind = "item-added"
	EventItemRemoved     EventKind = "item-removed"
	EventOrderSent       EventKind = "order-sent"
	EventOrderSendFailed EventKind = "order-send-failed"
	EventConnected       EventKind = "connection-established"
	EventConnectionLost  EventKind = "connection-lost"
	EventFormCleared     EventKind = "form-cleared"
)

// Event is a user-facing lifecycle notification. How it is displayed is
// up to the notification sink; the core only emits it.
type Event struct {
	Kind   EventKind
	Title  string
	Detail string
}
