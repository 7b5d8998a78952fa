package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/events"
	"github.com/mmynk/groupledger/internal/models"
)

// CreateExpense validates and persists an expense with its splits.
// The expense and all of its splits are written in one transaction.
func (l *Ledger) CreateExpense(ctx context.Context, expense *models.Expense) error {
	expense.Amount = calculator.RoundCents(expense.Amount)
	if !expense.Amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, expense.Amount)
	}
	for i := range expense.Splits {
		expense.Splits[i].Amount = calculator.RoundCents(expense.Splits[i].Amount)
	}
	if err := calculator.ValidateSplits(expense.Amount, expense.Splits); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSplits, err)
	}

	members, err := l.store.ListGroupMembers(ctx, expense.GroupID)
	if err != nil {
		return storageErr("list members", err)
	}
	group := models.Group{ID: expense.GroupID, Members: members}
	if !group.HasMember(expense.PaidBy) {
		return fmt.Errorf("%w: payer %s is not a member of the group", ErrInvalidParties, expense.PaidBy)
	}
	seen := make(map[string]bool, len(expense.Splits))
	for _, split := range expense.Splits {
		if !group.HasMember(split.UserID) {
			return fmt.Errorf("%w: %s is not a member of the group", ErrInvalidParties, split.UserID)
		}
		if seen[split.UserID] {
			return fmt.Errorf("%w: %s appears more than once", ErrInvalidSplits, split.UserID)
		}
		seen[split.UserID] = true
	}

	if expense.CreatedAt == 0 {
		expense.CreatedAt = l.now().Unix()
	}
	if err := l.store.CreateExpense(ctx, expense); err != nil {
		return storageErr("create expense", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"group_id", expense.GroupID,
		"expense_id", expense.ID,
		"paid_by", expense.PaidBy,
		"amount", expense.Amount.StringFixed(2),
		"splits", len(expense.Splits),
	)
	l.afterWrite(ctx, events.ExpenseCreated, expense.GroupID, expense.ID, expense.Amount)
	return nil
}

// ListExpenses returns the group's expenses, newest first, with their splits.
func (l *Ledger) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	expenses, err := l.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	for i := range expenses {
		expenses[i].Splits, err = l.store.ListExpenseSplits(ctx, expenses[i].ID)
		if err != nil {
			return nil, storageErr("list expense splits", err)
		}
	}
	return expenses, nil
}

// DeleteExpense removes an expense and its splits from the group.
func (l *Ledger) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return storageErr("get expense", err)
	}
	if expense.GroupID != groupID {
		return fmt.Errorf("expense %s: %w", expenseID, ErrNotFound)
	}

	if err := l.store.DeleteExpense(ctx, expenseID); err != nil {
		return storageErr("delete expense", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "group_id", groupID, "expense_id", expenseID)
	l.afterWrite(ctx, events.ExpenseDeleted, groupID, expenseID, expense.Amount)
	return nil
}
