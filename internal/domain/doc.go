// Package domain contains the core entities of the order capture client.
//
// The central types are:
//
//   - [LineItem]: a single cart entry, immutable after creation
//   - [Order]: an immutable snapshot of a cart plus table/customer metadata
//   - [HistoryEntry]: a delivered order with its capture timestamp
//   - [HistorySnapshot]: the durable unit persisted to local storage
//   - [ConnectionState]: the broker connection state machine
//
// Domain types carry no dependencies on transport or storage; adapters
// translate them at the boundaries.
package domain
