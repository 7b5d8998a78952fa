package calculator

import (
	"errors"
	"fmt"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNoParticipants = errors.New("must have at least one participant")
	ErrNegativeSplit  = errors.New("split amount cannot be negative")
	ErrSplitMismatch  = errors.New("splits must sum to the expense amount")
)

// SplitEqually divides amount among userIDs in whole cents.
// Leftover cents go one each to the last members, so 10.00 over three
// people yields 3.33, 3.33, 3.34.
func SplitEqually(amount decimal.Decimal, userIDs []string) ([]models.ExpenseSplit, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoParticipants
	}
	total := ToCents(amount)
	if total <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %s", amount)
	}

	n := int64(len(userIDs))
	share := total / n
	remainder := total % n

	splits := make([]models.ExpenseSplit, len(userIDs))
	for i, userID := range userIDs {
		cents := share
		if int64(i) >= n-remainder {
			cents++
		}
		splits[i] = models.ExpenseSplit{
			UserID: userID,
			Amount: FromCents(cents),
		}
	}
	return splits, nil
}

// ValidateSplits checks that splits are non-negative and sum to amount
// within one cent.
func ValidateSplits(amount decimal.Decimal, splits []models.ExpenseSplit) error {
	if len(splits) == 0 {
		return ErrNoParticipants
	}
	total := decimal.Zero
	for _, s := range splits {
		if s.Amount.IsNegative() {
			return fmt.Errorf("%w: %s has %s", ErrNegativeSplit, s.UserID, s.Amount)
		}
		total = total.Add(s.Amount)
	}
	if total.Sub(amount).Abs().GreaterThan(Cent) {
		return fmt.Errorf("%w: splits total %s, expense is %s", ErrSplitMismatch, total, amount)
	}
	return nil
}
