// Package ledger derives group balances from persisted expenses and
// settlements, and owns the settlement lifecycle.
//
// Balances are never stored. Every read recomputes them from the records,
// optionally through a short-lived cache that each write through the
// Ledger invalidates.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/groupledger/internal/cache"
	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/events"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/storage"
	"github.com/shopspring/decimal"
)

// Store is the subset of storage.Store the ledger reads and writes.
type Store interface {
	storage.LedgerStore
	storage.GroupStore
}

// Ledger computes balances and records ledger writes for groups.
type Ledger struct {
	store      Store
	normalizer calculator.Normalizer
	cache      *cache.LRU[[]calculator.Balance]
	publisher  events.Publisher
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithCache caches computed balances per group. A nil cache disables caching.
func WithCache(c *cache.LRU[[]calculator.Balance]) Option {
	return func(l *Ledger) { l.cache = c }
}

// WithPublisher sends a LedgerEvent after every successful write.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithMetrics records cache and settlement counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithNormalizer replaces the greedy payment normalizer.
func WithNormalizer(n calculator.Normalizer) Option {
	return func(l *Ledger) { l.normalizer = n }
}

// WithClock overrides the clock used for settlement timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger over store.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:      store,
		normalizer: calculator.GreedyNormalizer{},
		publisher:  events.NopPublisher{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RequireMember returns ErrNotAuthorized unless userID belongs to groupID.
func (l *Ledger) RequireMember(ctx context.Context, groupID, userID string) error {
	ok, err := l.store.IsGroupMember(ctx, groupID, userID)
	if err != nil {
		return storageErr("check membership", err)
	}
	if !ok {
		return ErrNotAuthorized
	}
	return nil
}

// InvalidateGroup drops any cached balances for groupID. Writes made through
// the Ledger call it themselves; other writers (membership changes) must call it.
func (l *Ledger) InvalidateGroup(groupID string) {
	if l.cache != nil {
		l.cache.Delete(groupID)
	}
}

// afterWrite invalidates the group's cached balances and publishes the change.
// A failed publish is logged and never fails the write.
func (l *Ledger) afterWrite(ctx context.Context, eventType events.Type, groupID, entityID string, amount decimal.Decimal) {
	l.InvalidateGroup(groupID)

	err := l.publisher.Publish(ctx, events.LedgerEvent{
		Type:       eventType,
		GroupID:    groupID,
		EntityID:   entityID,
		Amount:     amount,
		OccurredAt: l.now().UTC(),
	})
	l.metrics.EventPublished(err)
	if err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"type", eventType,
			"group_id", groupID,
			"entity_id", entityID,
			"error", err,
		)
	}
}
