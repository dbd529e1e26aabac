package app

import (
	"sync"
	"time"

	"github.com/smartprint/comanda/internal/domain"
	"github.com/smartprint/comanda/internal/ports"
)

// DefaultHistoryLimit is the retention bound of the history log.
const DefaultHistoryLimit = 10

// HistoryLog is the bounded, most-recent-first durable record of
// successfully published orders. It also owns persistence of the order-id
// counter, which rides along in the same snapshot.
type HistoryLog struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
	limit   int
	seq     *Sequence
	store   ports.HistoryStore
	logger  ports.Logger
	now     func() time.Time
}

// NewHistoryLog creates a history log with the given retention limit.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewHistoryLog(limit int, seq *Sequence, store ports.HistoryStore, logger ports.Logger) *HistoryLog {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryLog{
		limit:  limit,
		seq:    seq,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Record prepends an entry for a delivered order, evicts beyond the
// retention bound (oldest first) and persists the snapshot. Persistence
// failures are logged and otherwise ignored; the in-memory log stays
// authoritative for the session.
func (h *HistoryLog) Record(order domain.Order) domain.HistoryEntry {
	entry := domain.HistoryEntry{Order: order, RecordedAt: h.now()}

	h.mu.Lock()
	h.entries = append([]domain.HistoryEntry{entry}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	err := h.persistLocked()
	h.mu.Unlock()

	if err != nil {
		h.logger.Warn("failed to persist history", ports.Err(err))
	}
	return entry
}

// All returns a copy of the log, most recent first.
func (h *HistoryLog) All() []domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries in the log.
func (h *HistoryLog) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Persist saves the full log and the current counter value.
func (h *HistoryLog) Persist() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.persistLocked()
}

func (h *HistoryLog) persistLocked() error {
	snapshot := domain.HistorySnapshot{
		Entries:     append([]domain.HistoryEntry{}, h.entries...),
		NextOrderID: h.seq.Peek(),
	}
	return h.store.Save(snapshot)
}

// Restore loads the saved snapshot into the log and the sequence.
// Missing or corrupt storage fails soft: the condition is logged and the
// log keeps its empty/default in-memory state. It never crashes the
// process and is not surfaced to the user.
func (h *HistoryLog) Restore() {
	snapshot, err := h.store.Load()
	if err != nil {
		h.logger.Warn("failed to restore history, starting empty", ports.Err(err))
		return
	}
	if snapshot.IsEmpty() {
		return
	}

	h.mu.Lock()
	h.entries = snapshot.Entries
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	h.mu.Unlock()

	h.seq.Restore(snapshot.NextOrderID)

	h.logger.Info("history restored",
		ports.Int("entries", len(snapshot.Entries)),
		ports.Int64("next_order_id", h.seq.Peek()),
	)
}
