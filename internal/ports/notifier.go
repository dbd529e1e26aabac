package ports

import (
	"github.com/smartprint/comanda/internal/domain"
)

// Notifier receives user-facing lifecycle events (item added, order sent,
// connection lost, ...). Display mechanics are the implementation's
// concern; the application core only emits events.
type Notifier interface {
	Notify(event domain.Event)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Notify(domain.Event) {}
