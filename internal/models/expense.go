package models

import "github.com/shopspring/decimal"

// Expense represents one payment made by one member on behalf of the group.
// Expenses are immutable once created and deleted as a whole, splits included.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group whose ledger this expense belongs to.
	GroupID string

	// PaidBy is the user ID of the member who paid.
	PaidBy string

	// Description is the human-readable label (e.g., "Dinner").
	Description string

	// Category is an optional free-form label. Category management lives outside the ledger.
	Category string

	// Amount is the total paid, always positive and rounded to cents.
	Amount decimal.Decimal

	// Splits are the members' shares. They sum to Amount within one cent.
	Splits []ExpenseSplit

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseSplit is one member's share of one expense.
type ExpenseSplit struct {
	ID        string
	ExpenseID string
	UserID    string
	Amount    decimal.Decimal
}

// SplitTotal returns the sum of the expense's split amounts.
func (e *Expense) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Splits {
		total = total.Add(s.Amount)
	}
	return total
}
