package ports

import (
	"github.com/smartprint/comanda/internal/domain"
)

// Transport owns the connection to the message broker. Implementations
// auto-reconnect in the background at a fixed interval; callers never
// drive reconnection themselves.
type Transport interface {
	// Connect initiates the broker connection. It does not block and does
	// not report failures to the caller; initial failures roll silently
	// into the background retry loop.
	Connect()

	// Publish sends payload on topic requesting the given delivery level.
	// It must only succeed while the transport is Connected: otherwise it
	// rejects synchronously with domain.ErrNotConnected without contacting
	// the broker. On acceptance it returns a one-shot outcome channel that
	// resolves exactly once, with nil on broker acknowledgment or with the
	// transport error on failure.
	Publish(topic string, payload []byte, qos byte) (<-chan error, error)

	// State returns the current connection state.
	State() domain.ConnectionState

	// SubscribeState registers a handler invoked on every state
	// transition. Handlers must not block.
	SubscribeState(handler func(domain.ConnectionState))

	// Close tears the connection down. A connect acknowledgment arriving
	// after Close is a no-op.
	Close()
}
