// Package storetest holds the behavior every storage.Store backend must share.
package storetest

import (
	"context"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// StoreSuite runs the shared store contract. Backends embed it and set NewStore.
type StoreSuite struct {
	suite.Suite

	// NewStore returns an empty store for each test.
	NewStore func() storage.Store

	ctx   context.Context
	store storage.Store
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore()
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *StoreSuite) createGroup(id string, userIDs ...string) {
	members := make([]models.Member, len(userIDs))
	for i, u := range userIDs {
		members[i] = models.Member{UserID: u, DisplayName: u}
	}
	s.Require().NoError(s.store.CreateGroup(s.ctx, &models.Group{
		ID:        id,
		Name:      "Group " + id,
		CreatedBy: userIDs[0],
		Members:   members,
		CreatedAt: 1000,
	}))
}

func (s *StoreSuite) TestGroupsKeepJoinOrder() {
	s.createGroup("g1", "alice", "bob")
	s.Require().NoError(s.store.AddGroupMember(s.ctx, "g1", models.Member{UserID: "carol", DisplayName: "Carol", JoinedAt: 2000}))
	// Re-adding is a no-op.
	s.Require().NoError(s.store.AddGroupMember(s.ctx, "g1", models.Member{UserID: "alice", DisplayName: "Renamed", JoinedAt: 3000}))

	group, err := s.store.GetGroup(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal("Group g1", group.Name)
	s.Equal("alice", group.CreatedBy)
	s.Equal([]string{"alice", "bob", "carol"}, group.MemberIDs())
	s.Equal("alice", group.Members[0].DisplayName)

	members, err := s.store.ListGroupMembers(s.ctx, "g1")
	s.Require().NoError(err)
	s.Len(members, 3)

	ok, err := s.store.IsGroupMember(s.ctx, "g1", "carol")
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.store.IsGroupMember(s.ctx, "g1", "mallory")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestGroupNotFound() {
	_, err := s.store.GetGroup(s.ctx, "missing")
	s.ErrorIs(err, storage.ErrNotFound)

	err = s.store.AddGroupMember(s.ctx, "missing", models.Member{UserID: "alice"})
	s.ErrorIs(err, storage.ErrNotFound)

	ok, err := s.store.IsGroupMember(s.ctx, "missing", "alice")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestListGroupsForUser() {
	s.createGroup("g1", "alice", "bob")
	s.createGroup("g2", "alice")
	s.createGroup("g3", "carol")

	groups, err := s.store.ListGroupsForUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(groups, 2)
	s.ElementsMatch([]string{"g1", "g2"}, []string{groups[0].ID, groups[1].ID})

	groups, err = s.store.ListGroupsForUser(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(groups)
}

func (s *StoreSuite) TestExpenseRoundTrip() {
	s.createGroup("g1", "alice", "bob")

	expense := &models.Expense{
		GroupID:     "g1",
		PaidBy:      "alice",
		Description: "Groceries",
		Category:    "food",
		Amount:      dec("12.34"),
		Splits: []models.ExpenseSplit{
			{UserID: "alice", Amount: dec("6.17")},
			{UserID: "bob", Amount: dec("6.17")},
		},
	}
	s.Require().NoError(s.store.CreateExpense(s.ctx, expense))
	s.NotEmpty(expense.ID)
	s.NotZero(expense.CreatedAt)
	for _, split := range expense.Splits {
		s.NotEmpty(split.ID)
		s.Equal(expense.ID, split.ExpenseID)
	}

	got, err := s.store.GetExpense(s.ctx, expense.ID)
	s.Require().NoError(err)
	s.Equal("Groceries", got.Description)
	s.Equal("food", got.Category)
	s.True(dec("12.34").Equal(got.Amount), "amount = %s", got.Amount)
	s.Require().Len(got.Splits, 2)
	s.True(dec("12.34").Equal(got.SplitTotal()))

	splits, err := s.store.ListExpenseSplits(s.ctx, expense.ID)
	s.Require().NoError(err)
	s.Len(splits, 2)
}

func (s *StoreSuite) TestListExpensesReturnsHeadersNewestFirst() {
	s.createGroup("g1", "alice", "bob")
	s.createGroup("g2", "alice")

	for i, amount := range []string{"1.00", "2.00", "3.00"} {
		s.Require().NoError(s.store.CreateExpense(s.ctx, &models.Expense{
			GroupID:     "g1",
			PaidBy:      "alice",
			Description: amount,
			Amount:      dec(amount),
			Splits:      []models.ExpenseSplit{{UserID: "bob", Amount: dec(amount)}},
			CreatedAt:   int64(100 + i),
		}))
	}
	s.Require().NoError(s.store.CreateExpense(s.ctx, &models.Expense{
		GroupID: "g2", PaidBy: "alice", Description: "other", Amount: dec("9"),
		Splits: []models.ExpenseSplit{{UserID: "alice", Amount: dec("9")}},
	}))

	expenses, err := s.store.ListExpenses(s.ctx, "g1")
	s.Require().NoError(err)
	s.Require().Len(expenses, 3)
	s.Equal([]string{"3.00", "2.00", "1.00"}, []string{expenses[0].Description, expenses[1].Description, expenses[2].Description})
	for _, e := range expenses {
		s.Empty(e.Splits)
	}
}

func (s *StoreSuite) TestDeleteExpense() {
	s.createGroup("g1", "alice", "bob")
	expense := &models.Expense{
		GroupID: "g1", PaidBy: "alice", Description: "Taxi", Amount: dec("8"),
		Splits: []models.ExpenseSplit{{UserID: "bob", Amount: dec("8")}},
	}
	s.Require().NoError(s.store.CreateExpense(s.ctx, expense))

	s.Require().NoError(s.store.DeleteExpense(s.ctx, expense.ID))

	_, err := s.store.GetExpense(s.ctx, expense.ID)
	s.ErrorIs(err, storage.ErrNotFound)
	splits, err := s.store.ListExpenseSplits(s.ctx, expense.ID)
	s.Require().NoError(err)
	s.Empty(splits)

	s.ErrorIs(s.store.DeleteExpense(s.ctx, expense.ID), storage.ErrNotFound)
}

func (s *StoreSuite) TestSettlementLifecycle() {
	s.createGroup("g1", "alice", "bob")

	settlement := &models.Settlement{
		GroupID:    "g1",
		FromUserID: "bob",
		ToUserID:   "alice",
		Amount:     dec("10.50"),
	}
	s.Require().NoError(s.store.InsertSettlement(s.ctx, settlement))
	s.NotEmpty(settlement.ID)
	s.Equal(models.SettlementPending, settlement.Status)

	got, err := s.store.GetSettlement(s.ctx, settlement.ID)
	s.Require().NoError(err)
	s.Equal(models.SettlementPending, got.Status)
	s.Nil(got.SettledAt)
	s.True(dec("10.50").Equal(got.Amount))

	settledAt := int64(5000)
	s.Require().NoError(s.store.UpdateSettlementStatus(s.ctx, settlement.ID, models.SettlementSettled, &settledAt))
	got, err = s.store.GetSettlement(s.ctx, settlement.ID)
	s.Require().NoError(err)
	s.True(got.IsSettled())
	s.Require().NotNil(got.SettledAt)
	s.Equal(int64(5000), *got.SettledAt)

	s.Require().NoError(s.store.UpdateSettlementStatus(s.ctx, settlement.ID, models.SettlementPending, nil))
	got, err = s.store.GetSettlement(s.ctx, settlement.ID)
	s.Require().NoError(err)
	s.False(got.IsSettled())
	s.Nil(got.SettledAt)

	settlements, err := s.store.ListSettlements(s.ctx, "g1")
	s.Require().NoError(err)
	s.Len(settlements, 1)

	s.Require().NoError(s.store.DeleteSettlement(s.ctx, settlement.ID))
	_, err = s.store.GetSettlement(s.ctx, settlement.ID)
	s.ErrorIs(err, storage.ErrNotFound)
	s.ErrorIs(s.store.DeleteSettlement(s.ctx, settlement.ID), storage.ErrNotFound)
	s.ErrorIs(s.store.UpdateSettlementStatus(s.ctx, settlement.ID, models.SettlementSettled, nil), storage.ErrNotFound)
}

func (s *StoreSuite) TestSnapshot() {
	snap, ok := s.store.(storage.Snapshotter)
	if !ok {
		s.T().Skip("store does not implement Snapshotter")
	}

	s.createGroup("g1", "alice", "bob")
	s.Require().NoError(s.store.CreateExpense(s.ctx, &models.Expense{
		GroupID: "g1", PaidBy: "alice", Description: "Dinner", Amount: dec("20"),
		Splits: []models.ExpenseSplit{
			{UserID: "alice", Amount: dec("10")},
			{UserID: "bob", Amount: dec("10")},
		},
	}))
	s.Require().NoError(s.store.InsertSettlement(s.ctx, &models.Settlement{
		GroupID: "g1", FromUserID: "bob", ToUserID: "alice", Amount: dec("10"),
	}))

	ledger, err := snap.Snapshot(s.ctx, "g1")
	s.Require().NoError(err)
	s.Len(ledger.Members, 2)
	s.Require().Len(ledger.Expenses, 1)
	s.Len(ledger.Expenses[0].Splits, 2)
	s.Len(ledger.Settlements, 1)

	empty, err := snap.Snapshot(s.ctx, "missing")
	s.Require().NoError(err)
	s.Empty(empty.Members)
	s.Empty(empty.Expenses)
}

func (s *StoreSuite) TestUsers() {
	user := models.NewUser("alice@example.com", "Alice", "hash")
	s.Require().NoError(s.store.CreateUser(s.ctx, user))

	byEmail, err := s.store.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(byEmail)
	s.Equal(user.ID, byEmail.ID)
	s.Equal("Alice", byEmail.DisplayName)

	byID, err := s.store.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Equal("alice@example.com", byID.Email)

	missing, err := s.store.GetUserByEmail(s.ctx, "nobody@example.com")
	s.Require().NoError(err)
	s.Nil(missing)

	s.Error(s.store.CreateUser(s.ctx, models.NewUser("alice@example.com", "Other", "hash")))
}
