package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/events"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/shopspring/decimal"
)

// CreateSettlement records a pending payment from one member to another.
// The amount is rounded to cents before it is checked and stored.
func (l *Ledger) CreateSettlement(ctx context.Context, groupID, fromUserID, toUserID string, amount decimal.Decimal) (*models.Settlement, error) {
	amount = calculator.RoundCents(amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	if fromUserID == toUserID {
		return nil, fmt.Errorf("%w: cannot settle with yourself", ErrInvalidParties)
	}

	for _, userID := range []string{fromUserID, toUserID} {
		ok, err := l.store.IsGroupMember(ctx, groupID, userID)
		if err != nil {
			return nil, storageErr("check membership", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a member of the group", ErrInvalidParties, userID)
		}
	}

	settlement := &models.Settlement{
		GroupID:    groupID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Amount:     amount,
		Status:     models.SettlementPending,
		CreatedAt:  l.now().Unix(),
	}
	if err := l.store.InsertSettlement(ctx, settlement); err != nil {
		return nil, storageErr("insert settlement", err)
	}

	slog.InfoContext(ctx, "Settlement created",
		"group_id", groupID,
		"settlement_id", settlement.ID,
		"from", fromUserID,
		"to", toUserID,
		"amount", amount.StringFixed(2),
	)
	l.metrics.SettlementTransition("created")
	l.afterWrite(ctx, events.SettlementCreated, groupID, settlement.ID, amount)
	return settlement, nil
}

// MarkSettled moves a settlement to settled and stamps SettledAt with the
// current time. Marking an already settled settlement stamps it again.
func (l *Ledger) MarkSettled(ctx context.Context, groupID, settlementID string) (*models.Settlement, error) {
	settlement, err := l.settlementInGroup(ctx, groupID, settlementID)
	if err != nil {
		return nil, err
	}

	settledAt := l.now().Unix()
	if err := l.store.UpdateSettlementStatus(ctx, settlementID, models.SettlementSettled, &settledAt); err != nil {
		return nil, storageErr("update settlement", err)
	}
	settlement.Status = models.SettlementSettled
	settlement.SettledAt = &settledAt

	slog.InfoContext(ctx, "Settlement marked settled", "group_id", groupID, "settlement_id", settlementID)
	l.metrics.SettlementTransition("settled")
	l.afterWrite(ctx, events.SettlementSettled, groupID, settlementID, settlement.Amount)
	return settlement, nil
}

// RevertSettlement moves a settlement back to pending and clears SettledAt.
func (l *Ledger) RevertSettlement(ctx context.Context, groupID, settlementID string) (*models.Settlement, error) {
	settlement, err := l.settlementInGroup(ctx, groupID, settlementID)
	if err != nil {
		return nil, err
	}

	if err := l.store.UpdateSettlementStatus(ctx, settlementID, models.SettlementPending, nil); err != nil {
		return nil, storageErr("update settlement", err)
	}
	settlement.Status = models.SettlementPending
	settlement.SettledAt = nil

	slog.InfoContext(ctx, "Settlement reverted to pending", "group_id", groupID, "settlement_id", settlementID)
	l.metrics.SettlementTransition("reverted")
	l.afterWrite(ctx, events.SettlementReverted, groupID, settlementID, settlement.Amount)
	return settlement, nil
}

// UpdateSettlementStatus applies status to a settlement.
func (l *Ledger) UpdateSettlementStatus(ctx context.Context, groupID, settlementID string, status models.SettlementStatus) (*models.Settlement, error) {
	switch status {
	case models.SettlementSettled:
		return l.MarkSettled(ctx, groupID, settlementID)
	case models.SettlementPending:
		return l.RevertSettlement(ctx, groupID, settlementID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}

// DeleteSettlement removes a settlement from the group.
func (l *Ledger) DeleteSettlement(ctx context.Context, groupID, settlementID string) error {
	settlement, err := l.settlementInGroup(ctx, groupID, settlementID)
	if err != nil {
		return err
	}

	if err := l.store.DeleteSettlement(ctx, settlementID); err != nil {
		return storageErr("delete settlement", err)
	}

	slog.InfoContext(ctx, "Settlement deleted", "group_id", groupID, "settlement_id", settlementID)
	l.metrics.SettlementTransition("deleted")
	l.afterWrite(ctx, events.SettlementDeleted, groupID, settlementID, settlement.Amount)
	return nil
}

// ListSettlements returns the group's settlements, newest first.
func (l *Ledger) ListSettlements(ctx context.Context, groupID string) ([]models.Settlement, error) {
	settlements, err := l.store.ListSettlements(ctx, groupID)
	if err != nil {
		return nil, storageErr("list settlements", err)
	}
	return settlements, nil
}

// settlementInGroup loads a settlement and hides it if it belongs to another group.
func (l *Ledger) settlementInGroup(ctx context.Context, groupID, settlementID string) (*models.Settlement, error) {
	settlement, err := l.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, storageErr("get settlement", err)
	}
	if settlement.GroupID != groupID {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, ErrNotFound)
	}
	return settlement, nil
}
