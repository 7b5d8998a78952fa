// Package models defines the core domain records for groupledger.
//
// # Ledger Records
//
// The ledger of a group is made of three persisted record types:
//   - Expense: one payment made by one member on behalf of the group
//   - ExpenseSplit: one member's share of one expense
//   - Settlement: a debt-clearing transfer between two members
//
// Balances and suggested payments are derived from these records on every
// request and live in the calculator package; they are never stored.
//
// # Identity
//
// Members reference User IDs. Groups, members and users are owned by the
// boundary (auth and group administration) and are read-only for the ledger.
//
// # Design Principles
//
//  1. **Exact money**: amounts are decimal.Decimal rounded to cents, never float64
//  2. **Avoid circular references**: use ID strings instead of pointers for relationships
//  3. **Unix timestamps**: all times are seconds since epoch, nullable times are pointers
package models
