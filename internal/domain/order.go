package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order snapshot. It is decoupled from the cart
// line item it was built from; the cart may be mutated or cleared afterwards
// without affecting it.
type OrderItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is an immutable submitted snapshot of items, table and total.
// An order is never constructed with an empty item list.
type Order struct {
	// ID is a device-scoped monotonically increasing identifier starting
	// at 1. It never regresses within a device's lifetime, but it is not
	// globally unique across devices.
	ID int64

	// Table is the table number, always positive.
	Table int

	// Customer is the customer name, may be empty.
	Customer string

	// Items is the non-empty ordered item snapshot.
	Items []OrderItem

	// Total is the authoritative order total: the sum of item subtotals
	// rounded to 2 decimal places.
	Total decimal.Decimal
}

// orderMessage mirrors the wire contract with the downstream
// order-processing system. Field names must be reproduced exactly.
type orderMessage struct {
	PedidoID int64         `json:"pedido_id"`
	Mesa     int           `json:"mesa"`
	Cliente  string        `json:"cliente"`
	Itens    []itemMessage `json:"itens"`
	Total    float64       `json:"total"`
}

type itemMessage struct {
	Nome       string  `json:"nome"`
	Quantidade int     `json:"quantidade"`
	Preco      float64 `json:"preco"`
}

// MarshalWire encodes the order as the JSON payload published to the
// order topic. Decimal amounts become plain JSON numbers.
func (o Order) MarshalWire() ([]byte, error) {
	msg := orderMessage{
		PedidoID: o.ID,
		Mesa:     o.Table,
		Cliente:  o.Customer,
		Itens:    make([]itemMessage, 0, len(o.Items)),
		Total:    o.Total.InexactFloat64(),
	}
	for _, it := range o.Items {
		msg.Itens = append(msg.Itens, itemMessage{
			Nome:       it.Name,
			Quantidade: it.Quantity,
			Preco:      it.UnitPrice.InexactFloat64(),
		})
	}
	return json.Marshal(msg)
}
