package ledger

import (
	"context"
	"log/slog"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/storage"
)

// ComputeBalances returns one balance per member of groupID, in membership order.
//
// When the store implements storage.Snapshotter the group is read in one
// consistent view. Otherwise members, expenses, splits and settlements are
// read one after another, and a write landing between those reads can make
// the result briefly not sum to zero. The next read is consistent again:
// a result is cached only if no write touched the group while it was read.
func (l *Ledger) ComputeBalances(ctx context.Context, groupID string) ([]calculator.Balance, error) {
	var gen uint64
	if l.cache != nil {
		if cached, ok := l.cache.Get(groupID); ok {
			l.metrics.CacheHit()
			return append([]calculator.Balance(nil), cached...), nil
		}
		l.metrics.CacheMiss()
		gen = l.cache.Generation(groupID)
	}

	records, err := l.readLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances := calculator.ComputeBalances(records.Members, records.Expenses, records.Settlements)
	slog.DebugContext(ctx, "Computed balances",
		"group_id", groupID,
		"members", len(records.Members),
		"expenses", len(records.Expenses),
		"settlements", len(records.Settlements),
	)

	if l.cache != nil && !l.cache.SetIfGeneration(groupID, gen, append([]calculator.Balance(nil), balances...)) {
		slog.DebugContext(ctx, "Group changed during read, balances not cached", "group_id", groupID)
	}
	return balances, nil
}

// SuggestPayments computes the group's balances and reduces them to a list
// of payments that would bring everyone to zero. Nothing is persisted.
func (l *Ledger) SuggestPayments(ctx context.Context, groupID string) ([]calculator.Balance, []calculator.SuggestedPayment, error) {
	balances, err := l.ComputeBalances(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	return balances, l.normalizer.SuggestPayments(balances), nil
}

func (l *Ledger) readLedger(ctx context.Context, groupID string) (*storage.GroupLedger, error) {
	if snap, ok := l.store.(storage.Snapshotter); ok {
		records, err := snap.Snapshot(ctx, groupID)
		if err != nil {
			return nil, storageErr("read ledger snapshot", err)
		}
		return records, nil
	}

	members, err := l.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, storageErr("list members", err)
	}
	expenses, err := l.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	for i := range expenses {
		splits, err := l.store.ListExpenseSplits(ctx, expenses[i].ID)
		if err != nil {
			return nil, storageErr("list expense splits", err)
		}
		expenses[i].Splits = splits
	}
	settlements, err := l.store.ListSettlements(ctx, groupID)
	if err != nil {
		return nil, storageErr("list settlements", err)
	}

	return &storage.GroupLedger{
		Members:     members,
		Expenses:    expenses,
		Settlements: settlements,
	}, nil
}
