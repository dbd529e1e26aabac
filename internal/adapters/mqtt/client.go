// Package mqtt implements the transport connection manager over the
// eclipse paho MQTT client.
package mqtt

import (
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/smartprint/comanda/internal/domain"
	"github.com/smartprint/comanda/internal/ports"
)

// Config holds the broker connection parameters.
type Config struct {
	// BrokerURL is the websocket-capable broker address.
	BrokerURL string

	// ClientID is the per-session unique client identity.
	ClientID string

	// ReconnectInterval is the fixed retry interval. Retries are
	// unbounded: the client is expected to stay open indefinitely, so
	// there is no backoff and no cap.
	ReconnectInterval time.Duration

	// ConnectTimeout bounds a single connection attempt.
	ConnectTimeout time.Duration

	// KeepAlive is the MQTT keep-alive interval.
	KeepAlive time.Duration
}

// pahoClient is the subset of the paho client the manager uses.
// *paho.Client satisfies it; tests inject fakes.
type pahoClient interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Manager implements ports.Transport. It owns the broker connection,
// translates paho callbacks into connection state transitions, and
// reconnects in the background at the fixed interval. Sessions are
// clean: no subscription state is resumed across connections.
type Manager struct {
	logger ports.Logger

	mu     sync.Mutex
	cfg    Config
	client pahoClient
	state  domain.ConnectionState
	subs   []func(domain.ConnectionState)
	closed bool

	// newClient builds the underlying client; replaced in tests.
	newClient func(opts *paho.ClientOptions) pahoClient
}

// NewManager creates a disconnected manager. Call Connect to initiate
// the connection.
func NewManager(cfg Config, logger ports.Logger) *Manager {
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = time.Second
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 30 * time.Second
	}
	return &Manager{
		cfg:    cfg,
		logger: logger,
		state:  domain.Disconnected,
		newClient: func(opts *paho.ClientOptions) pahoClient {
			return paho.NewClient(opts)
		},
	}
}

// Connect initiates the broker connection. It does not block and never
// reports an error to the caller: failed attempts roll into paho's
// connect-retry loop at the fixed interval until the first success, and
// lost connections are re-established the same way.
func (m *Manager) Connect() {
	m.mu.Lock()
	if m.closed || m.client != nil {
		m.mu.Unlock()
		return
	}

	opts := paho.NewClientOptions().
		AddBroker(m.cfg.BrokerURL).
		SetClientID(m.cfg.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(m.cfg.ReconnectInterval).
		SetMaxReconnectInterval(m.cfg.ReconnectInterval).
		SetConnectTimeout(m.cfg.ConnectTimeout).
		SetKeepAlive(m.cfg.KeepAlive).
		SetOnConnectHandler(m.onConnect).
		SetConnectionLostHandler(m.onConnectionLost).
		SetReconnectingHandler(m.onReconnecting)

	client := m.newClient(opts)
	m.client = client
	m.mu.Unlock()

	m.setState(domain.Connecting)
	client.Connect()
}

// Publish sends payload on topic at the requested delivery level. It is
// rejected synchronously with domain.ErrNotConnected unless the manager
// is Connected; the broker is not contacted in that case. The returned
// channel resolves exactly once with the publish outcome.
func (m *Manager) Publish(topic string, payload []byte, qos byte) (<-chan error, error) {
	m.mu.Lock()
	client := m.client
	connected := !m.closed && m.state == domain.Connected && client != nil
	m.mu.Unlock()

	if !connected {
		return nil, domain.ErrNotConnected
	}

	token := client.Publish(topic, qos, false, payload)
	out := make(chan error, 1)
	go func() {
		<-token.Done()
		out <- token.Error()
	}()
	return out, nil
}

// State returns the current connection state.
func (m *Manager) State() domain.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SubscribeState registers a handler for state transitions.
func (m *Manager) SubscribeState(handler func(domain.ConnectionState)) {
	m.mu.Lock()
	m.subs = append(m.subs, handler)
	m.mu.Unlock()
}

// Close tears the connection down. Connect acknowledgments arriving
// after Close are ignored.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	client := m.client
	m.client = nil
	// Shutdown is not an unexpected drop; observers are not notified.
	m.state = domain.Disconnected
	m.mu.Unlock()

	if client != nil {
		client.Disconnect(250)
	}
}

// Reconnect replaces the broker endpoint and re-establishes the
// connection. It exists for configuration changes only; error recovery
// is handled internally by the retry loop.
func (m *Manager) Reconnect(brokerURL string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.cfg.BrokerURL = brokerURL
	client := m.client
	m.client = nil
	m.mu.Unlock()

	m.setState(domain.Disconnected)
	if client != nil {
		client.Disconnect(250)
	}
	m.Connect()
}

func (m *Manager) onConnect(paho.Client) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		// Told to shut down while the connect was in flight.
		return
	}
	m.logger.Info("connected to broker", ports.String("broker", m.brokerURL()))
	m.setState(domain.Connected)
}

func (m *Manager) onConnectionLost(_ paho.Client, err error) {
	m.logger.Warn("connection lost", ports.Err(err))
	m.setState(domain.Disconnected)
}

func (m *Manager) onReconnecting(_ paho.Client, _ *paho.ClientOptions) {
	m.logger.Info("reconnecting to broker", ports.String("broker", m.brokerURL()))
	m.setState(domain.Connecting)
}

func (m *Manager) brokerURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.BrokerURL
}

// setState applies a transition and notifies observers. Redundant
// transitions to the current state are suppressed.
func (m *Manager) setState(state domain.ConnectionState) {
	m.mu.Lock()
	if m.state == state {
		m.mu.Unlock()
		return
	}
	m.state = state
	subs := append([]func(domain.ConnectionState){}, m.subs...)
	m.mu.Unlock()

	for _, sub := range subs {
		sub(state)
	}
}
