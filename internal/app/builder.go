package app

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smartprint/comanda/internal/domain"
)

// Builder turns a cart snapshot plus table/customer metadata into an
// immutable order with a freshly assigned monotonic identifier.
type Builder struct {
	seq *Sequence
}

// NewBuilder creates a builder drawing ids from the given sequence.
func NewBuilder(seq *Sequence) *Builder {
	return &Builder{seq: seq}
}

// Build snapshots the cart into an order. The snapshot is detached: the
// cart may be mutated or cleared afterwards without affecting the order.
// Validation happens before an id is consumed, so rejected builds leave
// the sequence untouched.
func (b *Builder) Build(cart *Cart, table int, customer string) (domain.Order, error) {
	items := cart.Items()
	if len(items) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}
	if table <= 0 {
		return domain.Order{}, domain.ErrInvalidTable
	}

	snapshot := make([]domain.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		snapshot = append(snapshot, domain.OrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
		total = total.Add(item.Subtotal())
	}

	return domain.Order{
		ID:       b.seq.Next(),
		Table:    table,
		Customer: strings.TrimSpace(customer),
		Items:    snapshot,
		// The authoritative transmitted total, independent of any display
		// rounding elsewhere.
		Total: total.Round(2),
	}, nil
}
