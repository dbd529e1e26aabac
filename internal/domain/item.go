package domain

import (
	"github.com/shopspring/decimal"
)

// LineItem is a single cart entry. It is created by the cart store on add,
// immutable thereafter, and destroyed on removal or order submission.
type LineItem struct {
	// ID is an opaque unique token minted at creation time. Uniqueness,
	// not ordering, is the contract.
	ID string

	// Name is the item description, non-empty after trimming.
	Name string

	// Quantity is the number of units, always positive.
	Quantity int

	// UnitPrice is the price per unit, never negative.
	UnitPrice decimal.Decimal
}

// Subtotal returns Quantity × UnitPrice, unrounded.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
