package app

import (
	"sync"

	"github.com/smartprint/comanda/internal/domain"
)

// fakeTransport is a scriptable transport for tests: it records published
// payloads and hands back ack channels the test resolves explicitly.
type fakeTransport struct {
	mu        sync.Mutex
	state     domain.ConnectionState
	subs      []func(domain.ConnectionState)
	published [][]byte
	topics    []string
	acks      []chan error
	closed    bool
}

func newFakeTransport(state domain.ConnectionState) *fakeTransport {
	return &fakeTransport{state: state}
}

func (t *fakeTransport) Connect() {}

func (t *fakeTransport) Publish(topic string, payload []byte, qos byte) (<-chan error, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ack := make(chan error, 1)
	t.published = append(t.published, payload)
	t.topics = append(t.topics, topic)
	t.acks = append(t.acks, ack)
	return ack, nil
}

func (t *fakeTransport) State() domain.ConnectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *fakeTransport) SubscribeState(handler func(domain.ConnectionState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = append(t.subs, handler)
}

func (t *fakeTransport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
}

// setState changes the reported state and notifies subscribers, the way
// the real transport does.
func (t *fakeTransport) setState(state domain.ConnectionState) {
	t.mu.Lock()
	t.state = state
	subs := append([]func(domain.ConnectionState){}, t.subs...)
	t.mu.Unlock()

	for _, sub := range subs {
		sub(state)
	}
}

// ackLast resolves the most recent publish with the given error.
func (t *fakeTransport) ackLast(err error) {
	t.mu.Lock()
	ack := t.acks[len(t.acks)-1]
	t.mu.Unlock()
	ack <- err
}

func (t *fakeTransport) publishCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.published)
}

func (t *fakeTransport) lastPayload() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.published[len(t.published)-1]
}

// memStore is an in-memory history store with injectable failures.
type memStore struct {
	mu       sync.Mutex
	snapshot domain.HistorySnapshot
	saves    int
	loadErr  error
	saveErr  error
}

func (s *memStore) Load() (domain.HistorySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return domain.HistorySnapshot{}, s.loadErr
	}
	return s.snapshot, nil
}

func (s *memStore) Save(snapshot domain.HistorySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snapshot = snapshot
	s.saves++
	return nil
}

func (s *memStore) saved() domain.HistorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// recordingNotifier collects events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func (n *recordingNotifier) Notify(event domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) kinds() []domain.EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.EventKind, len(n.events))
	for i, e := range n.events {
		out[i] = e.Kind
	}
	return out
}

func (n *recordingNotifier) has(kind domain.EventKind) bool {
	for _, k := range n.kinds() {
		if k == kind {
			return true
		}
	}
	return false
}
