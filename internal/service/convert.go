package service

import (
	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]*api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = &api.Member{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			JoinedAt:    m.JoinedAt,
		}
	}
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		Members:     members,
		CreatedAt:   g.CreatedAt,
	}
}

func toAPIBalances(balances []calculator.Balance) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{
			UserID:              b.UserID,
			DisplayName:         b.DisplayName,
			TotalPaid:           b.TotalPaid,
			TotalOwed:           b.TotalOwed,
			SettlementsReceived: b.SettlementsReceived,
			SettlementsPaid:     b.SettlementsPaid,
			Balance:             b.Balance,
		}
	}
	return out
}

func toAPIPayments(payments []calculator.SuggestedPayment) []*api.SuggestedPayment {
	out := make([]*api.SuggestedPayment, len(payments))
	for i, p := range payments {
		out[i] = &api.SuggestedPayment{
			FromUserID: p.FromUserID,
			ToUserID:   p.ToUserID,
			Amount:     p.Amount,
		}
	}
	return out
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     s.Amount,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		SettledAt:  s.SettledAt,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]*api.ExpenseSplit, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = &api.ExpenseSplit{UserID: s.UserID, Amount: s.Amount}
	}
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PaidBy:      e.PaidBy,
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}
