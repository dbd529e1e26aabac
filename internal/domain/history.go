package domain

import "time"

// HistoryEntry is a successfully delivered order plus its capture timestamp.
type HistoryEntry struct {
	Order      Order     `json:"order"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HistorySnapshot is the durable unit saved to and loaded from local
// storage: the full recent-history log plus the next order identifier.
type HistorySnapshot struct {
	// Entries holds the recent history, most recent first.
	Entries []HistoryEntry

	// NextOrderID is the identifier the next built order will receive.
	NextOrderID int64
}

// IsEmpty returns true if the snapshot carries no prior state.
func (s HistorySnapshot) IsEmpty() bool {
	return len(s.Entries) == 0 && s.NextOrderID == 0
}
