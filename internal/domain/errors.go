package domain

import "errors"

// Domain errors represent error conditions in the comanda domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidQuantity is returned when a line item quantity is zero or negative.
	ErrInvalidQuantity = errors.New("comanda: quantity must be a positive integer")

	// ErrInvalidPrice is returned when a line item unit price is negative.
	ErrInvalidPrice = errors.New("comanda: unit price must not be negative")

	// ErrInvalidName is returned when a line item name is empty after trimming.
	ErrInvalidName = errors.New("comanda: item name must not be empty")

	// ErrInvalidTable is returned when the table number is not a positive integer.
	ErrInvalidTable = errors.New("comanda: table number must be a positive integer")

	// ErrEmptyCart is returned when an order is built from a cart with no items.
	ErrEmptyCart = errors.New("comanda: cart has no items")

	// ErrNotConnected is returned when a publish is attempted while the
	// transport is not connected. The order is not queued.
	ErrNotConnected = errors.New("comanda: not connected to broker")

	// ErrSubmissionInProgress is returned when a submit is attempted while a
	// prior submission's outcome is still pending.
	ErrSubmissionInProgress = errors.New("comanda: a submission is already in flight")

	// ErrAlreadyRunning is returned when Start() is called on a running app.
	ErrAlreadyRunning = errors.New("comanda: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped app.
	ErrNotRunning = errors.New("comanda: not running")
)
