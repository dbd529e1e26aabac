package app

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/smartprint/comanda/internal/domain"
	"github.com/smartprint/comanda/internal/ports"
)

// Config contains the application-level settings.
type Config struct {
	// Topic is the broker topic orders are published under.
	Topic string

	// QoS is the delivery level requested for published orders.
	QoS byte

	// HistoryLimit is the retention bound of the recent-order log.
	HistoryLimit int
}

// App is the explicit context object that owns all process-wide state:
// the cart, the order-id sequence, the history log and the pending
// submission. It is initialized at process start, started once, and torn
// down at process exit; components receive it explicitly rather than
// relying on ambient globals.
type App struct {
	cfg       Config
	cart      *Cart
	seq       *Sequence
	builder   *Builder
	history   *HistoryLog
	publisher *Publisher
	transport ports.Transport
	notifier  ports.Notifier
	logger    ports.Logger
	lifecycle *Lifecycle

	mu        sync.Mutex
	lastState domain.ConnectionState
}

// New wires the application core from its collaborators.
func New(cfg Config, transport ports.Transport, store ports.HistoryStore, notifier ports.Notifier, logger ports.Logger) *App {
	seq := NewSequence()
	history := NewHistoryLog(cfg.HistoryLimit, seq, store, logger)

	return &App{
		cfg:       cfg,
		cart:      NewCart(),
		seq:       seq,
		builder:   NewBuilder(seq),
		history:   history,
		publisher: NewPublisher(transport, history, logger, cfg.Topic, cfg.QoS),
		transport: transport,
		notifier:  notifier,
		logger:    logger,
		lifecycle: NewLifecycle(logger),
		lastState: domain.Disconnected,
	}
}

// Start restores persisted state, subscribes to transport state changes
// and initiates the broker connection. Connection failures do not surface
// here; the transport retries in the background indefinitely.
func (a *App) Start() error {
	if err := a.lifecycle.TransitionTo(StateStarting, "start requested"); err != nil {
		return err
	}

	a.history.Restore()
	a.transport.SubscribeState(a.onConnectionChange)
	a.transport.Connect()

	return a.lifecycle.TransitionTo(StateRunning, "started")
}

// Stop closes the transport and persists a final snapshot.
func (a *App) Stop() error {
	if err := a.lifecycle.TransitionTo(StateStopping, "stop requested"); err != nil {
		return err
	}

	a.transport.Close()
	if err := a.history.Persist(); err != nil {
		a.logger.Warn("failed to persist history on stop", ports.Err(err))
	}

	return a.lifecycle.TransitionTo(StateStopped, "stopped")
}

// Cart returns the cart store.
func (a *App) Cart() *Cart {
	return a.cart
}

// History returns the history log.
func (a *App) History() *HistoryLog {
	return a.history
}

// ConnectionState returns the current transport state.
func (a *App) ConnectionState() domain.ConnectionState {
	return a.transport.State()
}

// AddItem adds a line item to the cart and notifies the sink. Validation
// failures are reported to the sink and returned.
func (a *App) AddItem(name string, quantity int, unitPrice decimal.Decimal) (domain.LineItem, error) {
	item, err := a.cart.AddItem(name, quantity, unitPrice)
	if err != nil {
		a.notify(domain.EventOrderSendFailed, "Invalid item", err.Error())
		return domain.LineItem{}, err
	}

	a.notify(domain.EventItemAdded, "Item added", fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	return item, nil
}

// RemoveItem removes a line item by id. Removing an absent id is a no-op
// and emits no event.
func (a *App) RemoveItem(id string) {
	if item, ok := a.cart.RemoveItem(id); ok {
		a.notify(domain.EventItemRemoved, "Item removed", item.Name)
	}
}

// ClearForm resets the cart. The event is emitted only when there was
// something to clear.
func (a *App) ClearForm() {
	hadItems := a.cart.Len() > 0
	a.cart.Clear()
	if hadItems {
		a.notify(domain.EventFormCleared, "Form cleared", "all order data was removed")
	}
}

// SubmitOrder builds an order from the current cart and submits it. The
// cart is cleared only after the broker acknowledges delivery; on any
// failure it is left intact so the user can retry manually.
//
// The returned channel resolves exactly once, after the history log and
// cart have been updated for the outcome.
func (a *App) SubmitOrder(table int, customer string) (<-chan Result, error) {
	order, err := a.builder.Build(a.cart, table, customer)
	if err != nil {
		a.notify(domain.EventOrderSendFailed, "Cannot send order", err.Error())
		return nil, err
	}

	res, err := a.publisher.Submit(order)
	if err != nil {
		a.notify(domain.EventOrderSendFailed, "Cannot send order", err.Error())
		return nil, err
	}

	out := make(chan Result, 1)
	go func() {
		r := <-res
		if r.Err == nil {
			a.cart.Clear()
			a.notify(domain.EventOrderSent, "Order sent",
				fmt.Sprintf("order #%d, table %d", r.Order.ID, r.Order.Table))
		} else {
			a.notify(domain.EventOrderSendFailed, "Failed to send order", r.Err.Error())
		}
		out <- r
	}()
	return out, nil
}

// onConnectionChange translates transport state transitions into sink
// events. Intermediate Connecting states emit nothing; the sink hears
// about established connections and about losing an established one.
func (a *App) onConnectionChange(state domain.ConnectionState) {
	a.mu.Lock()
	prev := a.lastState
	a.lastState = state
	a.mu.Unlock()

	a.logger.Info("connection state changed",
		ports.String("from", prev.String()),
		ports.String("to", state.String()),
	)

	switch {
	case state == domain.Connected && prev != domain.Connected:
		a.notify(domain.EventConnected, "Connected to broker", "ready to send orders")
	case state != domain.Connected && prev == domain.Connected:
		a.notify(domain.EventConnectionLost, "Connection lost", "reconnecting in the background")
	}
}

func (a *App) notify(kind domain.EventKind, title, detail string) {
	if a.notifier == nil {
		return
	}
	a.notifier.Notify(domain.Event{Kind: kind, Title: title, Detail: detail})
}
