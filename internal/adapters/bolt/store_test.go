package bolt

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	bbolt "go.etcd.io/bbolt"

	"github.com/smartprint/comanda/internal/domain"
)

func testSnapshot() domain.HistorySnapshot {
	return domain.HistorySnapshot{
		Entries: []domain.HistoryEntry{
			{
				Order: domain.Order{
					ID:       2,
					Table:    5,
					Customer: "Ana",
					Items: []domain.OrderItem{
						{Name: "Coffee", Quantity: 2, UnitPrice: decimal.RequireFromString("3.50")},
					},
					Total: decimal.RequireFromString("7.00"),
				},
				RecordedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			},
			{
				Order: domain.Order{
					ID:    1,
					Table: 3,
					Items: []domain.OrderItem{
						{Name: "Cake", Quantity: 1, UnitPrice: decimal.RequireFromString("5.25")},
					},
					Total: decimal.RequireFromString("5.25"),
				},
				RecordedAt: time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC),
			},
		},
		NextOrderID: 3,
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "comanda.db"))

	want := testSnapshot()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got.NextOrderID != want.NextOrderID {
		t.Errorf("NextOrderID = %d, want %d", got.NextOrderID, want.NextOrderID)
	}
	if len(got.Entries) != len(want.Entries) {
		t.Fatalf("len(Entries) = %d, want %d", len(got.Entries), len(want.Entries))
	}
	for i := range want.Entries {
		g, w := got.Entries[i], want.Entries[i]
		if g.Order.ID != w.Order.ID {
			t.Errorf("Entries[%d].Order.ID = %d, want %d", i, g.Order.ID, w.Order.ID)
		}
		if !g.Order.Total.Equal(w.Order.Total) {
			t.Errorf("Entries[%d].Order.Total = %s, want %s", i, g.Order.Total, w.Order.Total)
		}
		if !g.RecordedAt.Equal(w.RecordedAt) {
			t.Errorf("Entries[%d].RecordedAt = %s, want %s", i, g.RecordedAt, w.RecordedAt)
		}
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist.db"))

	snapshot, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for a missing file", err)
	}
	if !snapshot.IsEmpty() {
		t.Errorf("Load() = %+v, want empty snapshot", snapshot)
	}
}

func TestStore_LoadMissingBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comanda.db")

	// A database file without our bucket (e.g. created then never saved
	// to) reads as a first run.
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.Close()

	snapshot, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for a missing bucket", err)
	}
	if !snapshot.IsEmpty() {
		t.Errorf("Load() = %+v, want empty snapshot", snapshot)
	}
}

func TestStore_LoadCorruptContent(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"corrupt orders", "orders", "{not json"},
		{"corrupt counter", "counter", "not-a-number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "comanda.db")

			db, err := bbolt.Open(path, 0o600, nil)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			err = db.Update(func(tx *bbolt.Tx) error {
				b, err := tx.CreateBucketIfNotExists([]byte("comanda"))
				if err != nil {
					return err
				}
				return b.Put([]byte(tt.key), []byte(tt.value))
			})
			db.Close()
			if err != nil {
				t.Fatalf("seed: %v", err)
			}

			if _, err := NewStore(path).Load(); err == nil {
				t.Error("Load() error = nil, want decode error")
			}
		})
	}
}

func TestStore_SaveOverwritesPrevious(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "comanda.db"))

	if err := store.Save(testSnapshot()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Save(domain.HistorySnapshot{NextOrderID: 9}); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.NextOrderID != 9 {
		t.Errorf("NextOrderID = %d, want 9", got.NextOrderID)
	}
	if len(got.Entries) != 0 {
		t.Errorf("len(Entries) = %d, want 0", len(got.Entries))
	}
}
