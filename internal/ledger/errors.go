package ledger

import (
	"errors"
	"fmt"

	"github.com/mmynk/groupledger/internal/storage"
)

var (
	// ErrInvalidAmount is returned when an amount is zero or negative after rounding to cents.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidParties is returned when a payer and payee are the same user,
	// or when a referenced user is not a member of the group.
	ErrInvalidParties = errors.New("invalid parties")

	// ErrInvalidSplits is returned when an expense's splits do not add up to its amount.
	ErrInvalidSplits = errors.New("invalid splits")

	// ErrInvalidStatus is returned for a settlement status other than pending or settled.
	ErrInvalidStatus = errors.New("invalid settlement status")

	// ErrNotFound is returned when a record does not exist in the given group.
	ErrNotFound = errors.New("not found")

	// ErrStorage is returned when the store fails. It is never retried here.
	ErrStorage = errors.New("storage failure")

	// ErrNotAuthorized is returned when the caller is not a member of the group.
	ErrNotAuthorized = errors.New("not a member of this group")
)

// IsValidationError reports whether err was caused by bad input rather than
// a missing record or a store failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidParties) ||
		errors.Is(err, ErrInvalidSplits) ||
		errors.Is(err, ErrInvalidStatus)
}

// storageErr classifies an error coming back from the store.
func storageErr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
