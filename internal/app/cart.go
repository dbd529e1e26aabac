package app

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartprint/comanda/internal/domain"
)

// Cart is the mutable working set of line items for the order currently
// being composed. Insertion order is display order.
type Cart struct {
	mu    sync.Mutex
	items []domain.LineItem
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem validates and appends a new line item, returning the created
// item. The item id is freshly minted and opaque; uniqueness, not
// ordering, is the contract.
func (c *Cart) AddItem(name string, quantity int, unitPrice decimal.Decimal) (domain.LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.LineItem{}, domain.ErrInvalidName
	}
	if quantity <= 0 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return domain.LineItem{}, domain.ErrInvalidPrice
	}

	item := domain.LineItem{
		ID:        uuid.NewString(),
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}

	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()

	return item, nil
}

// RemoveItem removes the item with the given id. Removal is idempotent:
// an absent id is a no-op, reported through the second return value.
func (c *Cart) RemoveItem(id string) (domain.LineItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return item, true
		}
	}
	return domain.LineItem{}, false
}

// Items returns a copy of the current line items in insertion order.
func (c *Cart) Items() []domain.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total returns the exact sum of quantity × unit price over all items.
// Rounding happens only at order-build time.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear empties the cart. It always succeeds.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
