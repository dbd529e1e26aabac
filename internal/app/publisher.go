package app

import (
	"fmt"
	"sync"

	"github.com/smartprint/comanda/internal/domain"
	"github.com/smartprint/comanda/internal/ports"
)

// Result is the single resolution of a submission: the submitted order
// plus a nil error on broker acknowledgment or the transport error on
// failure.
type Result struct {
	Order domain.Order
	Err   error
}

// Publisher hands orders to the transport and enforces the at-most-one
// outstanding submission rule. It performs no retries of its own: a
// failed acknowledgment is surfaced, not retried, and the order is not
// queued for later delivery.
type Publisher struct {
	mu       sync.Mutex
	inFlight bool

	transport ports.Transport
	history   *HistoryLog
	logger    ports.Logger
	topic     string
	qos       byte
}

// NewPublisher creates a publisher sending on the given topic at the
// given delivery level.
func NewPublisher(transport ports.Transport, history *HistoryLog, logger ports.Logger, topic string, qos byte) *Publisher {
	return &Publisher{
		transport: transport,
		history:   history,
		logger:    logger,
		topic:     topic,
		qos:       qos,
	}
}

// InFlight reports whether a submission outcome is currently pending.
func (p *Publisher) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Submit publishes the order. While a prior outcome is pending, further
// calls are rejected synchronously with ErrSubmissionInProgress without
// touching the transport. A submit while not connected is rejected with
// ErrNotConnected and the order is not queued.
//
// On acceptance the returned channel resolves exactly once. On broker
// acknowledgment the order is recorded to the history log before the
// result is delivered.
func (p *Publisher) Submit(order domain.Order) (<-chan Result, error) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil, domain.ErrSubmissionInProgress
	}
	if p.transport.State() != domain.Connected {
		p.mu.Unlock()
		return nil, domain.ErrNotConnected
	}

	payload, err := order.MarshalWire()
	if err != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("encode order: %w", err)
	}

	ack, err := p.transport.Publish(p.topic, payload, p.qos)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.inFlight = true
	p.mu.Unlock()

	out := make(chan Result, 1)
	go p.await(order, ack, out)
	return out, nil
}

// await waits for the transport outcome and resolves the result channel.
// There is no cancellation: once sent, the submission waits for an
// acknowledgment or a transport error.
func (p *Publisher) await(order domain.Order, ack <-chan error, out chan<- Result) {
	err := <-ack

	if err == nil {
		p.history.Record(order)
		p.logger.Info("order delivered",
			ports.Int64("order_id", order.ID),
			ports.Int("table", order.Table),
			ports.String("total", order.Total.StringFixed(2)),
		)
	} else {
		p.logger.Error("order delivery failed",
			ports.Int64("order_id", order.ID),
			ports.Err(err),
		)
	}

	p.mu.Lock()
	p.inFlight = false
	p.mu.Unlock()

	out <- Result{Order: order, Err: err}
}
