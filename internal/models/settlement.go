package models

import "github.com/shopspring/decimal"

// SettlementStatus is the lifecycle state of a settlement.
type SettlementStatus string

const (
	// SettlementPending is the initial state. Pending settlements do not affect balances.
	SettlementPending SettlementStatus = "pending"
	// SettlementSettled marks a confirmed transfer.
	SettlementSettled SettlementStatus = "settled"
)

// Valid reports whether s is a known status.
func (s SettlementStatus) Valid() bool {
	return s == SettlementPending || s == SettlementSettled
}

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUserID is the user who pays (debtor settling up).
	FromUserID string

	// ToUserID is the user who receives payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount, always positive and rounded to cents.
	Amount decimal.Decimal

	// Status is pending until the transfer is confirmed.
	Status SettlementStatus

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// SettledAt is set exactly when Status is settled and nil otherwise.
	SettledAt *int64
}

// IsSettled reports whether the settlement counts toward balances.
func (s *Settlement) IsSettled() bool {
	return s.Status == SettlementSettled
}
