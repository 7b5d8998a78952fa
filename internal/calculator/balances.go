package calculator

import (
	"github.com/mmynk/groupledger/internal/models"
	"github.com/shopspring/decimal"
)

// Balance is one member's derived position in a group ledger.
type Balance struct {
	UserID      string
	DisplayName string

	TotalPaid           decimal.Decimal // Sum of expenses this member paid
	TotalOwed           decimal.Decimal // Sum of this member's splits
	SettlementsReceived decimal.Decimal // Settled settlements paid to this member
	SettlementsPaid     decimal.Decimal // Settled settlements paid by this member

	// Balance = TotalPaid - TotalOwed - SettlementsReceived + SettlementsPaid.
	// Positive = owed money, Negative = owes money.
	Balance decimal.Decimal
}

// ComputeBalances derives per-member balances from a group's ledger records.
//
// The result has exactly one entry per member, in membership order. Members
// with no activity get zero values. Records referencing users outside the
// membership list are ignored; the membership list is trusted as supplied.
//
// Algorithm:
//   - For each expense: payer's TotalPaid += amount, each split user's TotalOwed += split
//   - For each settled settlement: sender's SettlementsPaid += amount,
//     receiver's SettlementsReceived += amount
//   - Pending settlements are statements of intent and contribute nothing
func ComputeBalances(members []models.Member, expenses []models.Expense, settlements []models.Settlement) []Balance {
	balances := make([]Balance, len(members))
	index := make(map[string]*Balance, len(members))
	for i, m := range members {
		balances[i] = Balance{
			UserID:              m.UserID,
			DisplayName:         m.DisplayName,
			TotalPaid:           decimal.Zero,
			TotalOwed:           decimal.Zero,
			SettlementsReceived: decimal.Zero,
			SettlementsPaid:     decimal.Zero,
			Balance:             decimal.Zero,
		}
		index[m.UserID] = &balances[i]
	}

	for _, expense := range expenses {
		if payer, ok := index[expense.PaidBy]; ok {
			payer.TotalPaid = payer.TotalPaid.Add(expense.Amount)
		}
		for _, split := range expense.Splits {
			if owner, ok := index[split.UserID]; ok {
				owner.TotalOwed = owner.TotalOwed.Add(split.Amount)
			}
		}
	}

	for _, s := range settlements {
		if !s.IsSettled() {
			continue
		}
		if from, ok := index[s.FromUserID]; ok {
			from.SettlementsPaid = from.SettlementsPaid.Add(s.Amount)
		}
		if to, ok := index[s.ToUserID]; ok {
			to.SettlementsReceived = to.SettlementsReceived.Add(s.Amount)
		}
	}

	for i := range balances {
		b := &balances[i]
		b.Balance = b.TotalPaid.
			Sub(b.TotalOwed).
			Sub(b.SettlementsReceived).
			Add(b.SettlementsPaid)
	}

	return balances
}

// Sum returns the sum of all balances. For a consistent ledger it is zero.
func Sum(balances []Balance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Balance)
	}
	return total
}
