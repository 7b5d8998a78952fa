package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SuggestedPayment is a transfer that moves a debtor's and a creditor's
// balances toward zero. Suggestions are never persisted.
type SuggestedPayment struct {
	FromUserID string // Person who owes
	ToUserID   string // Person who is owed
	Amount     decimal.Decimal
}

// Normalizer reduces a balance vector to a list of point-to-point payments.
// Callers depend on this interface so the matching strategy can change
// without touching them.
type Normalizer interface {
	SuggestPayments(balances []Balance) []SuggestedPayment
}

// GreedyNormalizer matches the largest debts with the largest credits.
// It is deterministic but not guaranteed to find the minimum number of payments.
type GreedyNormalizer struct{}

// SuggestPayments implements Normalizer.
func (GreedyNormalizer) SuggestPayments(balances []Balance) []SuggestedPayment {
	return SuggestPayments(balances)
}

type party struct {
	userID    string
	remaining decimal.Decimal // Always positive
}

// SuggestPayments runs greedy debt simplification over balances.
//
// Members within a cent of zero are skipped. Debtors are visited most
// negative first and creditors largest first; equal balances keep their
// input order. Each step transfers min(debt, credit); steps of one cent or
// less are not emitted. Residue left when either side runs out is dropped,
// which only happens when the input does not sum to zero.
func SuggestPayments(balances []Balance) []SuggestedPayment {
	var debtors, creditors []party
	for _, b := range balances {
		if IsNegligible(b.Balance) {
			continue
		}
		if b.Balance.IsNegative() {
			debtors = append(debtors, party{userID: b.UserID, remaining: b.Balance.Neg()})
		} else {
			creditors = append(creditors, party{userID: b.UserID, remaining: b.Balance})
		}
	}

	sort.SliceStable(debtors, func(a, b int) bool {
		return debtors[a].remaining.GreaterThan(debtors[b].remaining)
	})
	sort.SliceStable(creditors, func(a, b int) bool {
		return creditors[a].remaining.GreaterThan(creditors[b].remaining)
	})

	var payments []SuggestedPayment
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		if amount.GreaterThan(Cent) {
			payments = append(payments, SuggestedPayment{
				FromUserID: debtor.userID,
				ToUserID:   creditor.userID,
				Amount:     RoundCents(amount),
			})
		}

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThan(Cent) {
			i++
		}
		if creditor.remaining.LessThan(Cent) {
			j++
		}
	}

	return payments
}
