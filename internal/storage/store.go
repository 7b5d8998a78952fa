// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/groupledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the record operations the ledger consumes.
// This abstraction allows swapping storage backends (SQLite, in-memory, etc.)
// without changing the ledger or service layers.
type Store interface {
	LedgerStore
	GroupStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// LedgerStore reads and writes expenses, splits and settlements.
type LedgerStore interface {
	// ListExpenses returns the group's expense headers, newest first.
	// Splits are not populated; read them with ListExpenseSplits.
	ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error)

	// ListExpenseSplits returns the splits of one expense.
	ListExpenseSplits(ctx context.Context, expenseID string) ([]models.ExpenseSplit, error)

	// GetExpense returns one expense with its splits, or ErrNotFound.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// CreateExpense persists an expense and all of its splits atomically.
	// IDs and CreatedAt are populated by the store when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its splits, or returns ErrNotFound.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListSettlements returns the group's settlements, newest first.
	ListSettlements(ctx context.Context, groupID string) ([]models.Settlement, error)

	// GetSettlement returns one settlement, or ErrNotFound.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// InsertSettlement persists a new settlement.
	// ID and CreatedAt are populated by the store when empty.
	InsertSettlement(ctx context.Context, settlement *models.Settlement) error

	// UpdateSettlementStatus sets status and settledAt, or returns ErrNotFound.
	UpdateSettlementStatus(ctx context.Context, settlementID string, status models.SettlementStatus, settledAt *int64) error

	// DeleteSettlement removes a settlement, or returns ErrNotFound.
	DeleteSettlement(ctx context.Context, settlementID string) error
}

// GroupStore manages groups and their membership.
type GroupStore interface {
	// CreateGroup persists a group and its initial members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns a group with its members in join order, or ErrNotFound.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns every group the user belongs to.
	ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error)

	// ListGroupMembers returns the members of a group in join order.
	ListGroupMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// AddGroupMember appends a member. Adding an existing member is a no-op.
	AddGroupMember(ctx context.Context, groupID string, member models.Member) error

	// IsGroupMember reports whether userID belongs to groupID.
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns nil, nil when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// GroupLedger is every record needed to compute a group's balances,
// read from a single consistent view of the store. Expenses carry their splits.
type GroupLedger struct {
	Members     []models.Member
	Expenses    []models.Expense
	Settlements []models.Settlement
}

// Snapshotter is implemented by stores that can read a group's ledger
// inside one read transaction. Stores without it are read query by query,
// and concurrent writes between those reads may show up as read skew.
type Snapshotter interface {
	Snapshot(ctx context.Context, groupID string) (*GroupLedger, error)
}
