package ports

import (
	"github.com/smartprint/comanda/internal/domain"
)

// HistoryStore handles durable persistence of the recent-order log and
// the order-id counter.
type HistoryStore interface {
	// Load retrieves the last saved snapshot.
	// Returns an empty snapshot and nil error if nothing was saved yet.
	// Returns an error for unreadable or corrupt content; callers are
	// expected to fail soft and continue with defaults.
	Load() (domain.HistorySnapshot, error)

	// Save persists the snapshot atomically.
	Save(snapshot domain.HistorySnapshot) error
}
