// Package memory provides an in-process storage.Store for tests and demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

var (
	_ storage.Store       = (*Store)(nil)
	_ storage.Snapshotter = (*Store)(nil)
)

// Store keeps every record in maps guarded by one RWMutex.
type Store struct {
	mu          sync.RWMutex
	groups      map[string]*models.Group
	expenses    []models.Expense
	settlements []models.Settlement
	users       map[string]*models.User
}

// New returns an empty store.
func New() *Store {
	return &Store{
		groups: make(map[string]*models.Group),
		users:  make(map[string]*models.User),
	}
}

func (s *Store) Close() error { return nil }

// Snapshot copies a group's ledger under the read lock.
func (s *Store) Snapshot(_ context.Context, groupID string) (*storage.GroupLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &storage.GroupLedger{
		Members:     s.membersLocked(groupID),
		Expenses:    s.expensesLocked(groupID, true),
		Settlements: s.settlementsLocked(groupID),
	}, nil
}

// Groups

func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	for i := range group.Members {
		if group.Members[i].JoinedAt == 0 {
			group.Members[i].JoinedAt = group.CreatedAt
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.groups[group.ID]; exists {
		return fmt.Errorf("group %s already exists", group.ID)
	}
	stored := *group
	stored.Members = append([]models.Member(nil), group.Members...)
	s.groups[group.ID] = &stored
	return nil
}

func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	out := *g
	out.Members = s.membersLocked(groupID)
	return &out, nil
}

func (s *Store) ListGroupsForUser(_ context.Context, userID string) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var groups []models.Group
	for _, g := range s.groups {
		if g.HasMember(userID) {
			out := *g
			out.Members = s.membersLocked(g.ID)
			groups = append(groups, out)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].CreatedAt != groups[j].CreatedAt {
			return groups[i].CreatedAt < groups[j].CreatedAt
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

func (s *Store) ListGroupMembers(_ context.Context, groupID string) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.membersLocked(groupID), nil
}

func (s *Store) AddGroupMember(_ context.Context, groupID string, member models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if g.HasMember(member.UserID) {
		return nil
	}
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}
	g.Members = append(g.Members, member)
	return nil
}

func (s *Store) IsGroupMember(_ context.Context, groupID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[groupID]
	return ok && g.HasMember(userID), nil
}

// Expenses

func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	for i := range expense.Splits {
		if expense.Splits[i].ID == "" {
			expense.Splits[i].ID = uuid.New().String()
		}
		expense.Splits[i].ExpenseID = expense.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[expense.GroupID]; !ok {
		return fmt.Errorf("group %s: %w", expense.GroupID, storage.ErrNotFound)
	}
	s.expenses = append(s.expenses, copyExpense(*expense))
	return nil
}

func (s *Store) GetExpense(_ context.Context, expenseID string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.expenses {
		if e.ID == expenseID {
			out := copyExpense(e)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
}

func (s *Store) ListExpenses(_ context.Context, groupID string) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expensesLocked(groupID, false), nil
}

func (s *Store) ListExpenseSplits(_ context.Context, expenseID string) ([]models.ExpenseSplit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.expenses {
		if e.ID == expenseID {
			return append([]models.ExpenseSplit(nil), e.Splits...), nil
		}
	}
	return nil, nil
}

func (s *Store) DeleteExpense(_ context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.expenses {
		if e.ID == expenseID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
}

// Settlements

func (s *Store) InsertSettlement(_ context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.Status == "" {
		settlement.Status = models.SettlementPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[settlement.GroupID]; !ok {
		return fmt.Errorf("group %s: %w", settlement.GroupID, storage.ErrNotFound)
	}
	s.settlements = append(s.settlements, copySettlement(*settlement))
	return nil
}

func (s *Store) GetSettlement(_ context.Context, settlementID string) (*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.settlements {
		if st.ID == settlementID {
			out := copySettlement(st)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
}

func (s *Store) ListSettlements(_ context.Context, groupID string) ([]models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settlementsLocked(groupID), nil
}

func (s *Store) UpdateSettlementStatus(_ context.Context, settlementID string, status models.SettlementStatus, settledAt *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.settlements {
		if s.settlements[i].ID == settlementID {
			s.settlements[i].Status = status
			s.settlements[i].SettledAt = copyTime(settledAt)
			return nil
		}
	}
	return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
}

func (s *Store) DeleteSettlement(_ context.Context, settlementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, st := range s.settlements {
		if st.ID == settlementID {
			s.settlements = append(s.settlements[:i], s.settlements[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
}

// Users

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("email %s already registered", user.Email)
		}
	}
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

// helpers; callers hold s.mu

func (s *Store) membersLocked(groupID string) []models.Member {
	g, ok := s.groups[groupID]
	if !ok {
		return nil
	}
	return append([]models.Member(nil), g.Members...)
}

func (s *Store) expensesLocked(groupID string, withSplits bool) []models.Expense {
	var out []models.Expense
	for i := len(s.expenses) - 1; i >= 0; i-- {
		if s.expenses[i].GroupID != groupID {
			continue
		}
		e := copyExpense(s.expenses[i])
		if !withSplits {
			e.Splits = nil
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

func (s *Store) settlementsLocked(groupID string) []models.Settlement {
	var out []models.Settlement
	for i := len(s.settlements) - 1; i >= 0; i-- {
		if s.settlements[i].GroupID == groupID {
			out = append(out, copySettlement(s.settlements[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

func copyExpense(e models.Expense) models.Expense {
	e.Splits = append([]models.ExpenseSplit(nil), e.Splits...)
	return e
}

func copySettlement(st models.Settlement) models.Settlement {
	st.SettledAt = copyTime(st.SettledAt)
	return st
}

func copyTime(t *int64) *int64 {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
