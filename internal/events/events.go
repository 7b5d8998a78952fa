// Package events publishes ledger change notifications.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Type names a ledger change. It doubles as the AMQP routing key.
type Type string

const (
	ExpenseCreated     Type = "expense.created"
	ExpenseDeleted     Type = "expense.deleted"
	SettlementCreated  Type = "settlement.created"
	SettlementSettled  Type = "settlement.settled"
	SettlementReverted Type = "settlement.reverted"
	SettlementDeleted  Type = "settlement.deleted"
)

// LedgerEvent describes one successful write to a group's ledger.
type LedgerEvent struct {
	Type       Type            `json:"type"`
	GroupID    string          `json:"group_id"`
	EntityID   string          `json:"entity_id"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ToJSON converts the event to JSON bytes.
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event from JSON bytes.
func FromJSON(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers ledger events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, LedgerEvent) error { return nil }
func (NopPublisher) Close() error                                { return nil }
