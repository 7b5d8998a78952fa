// Package api defines the groupledger.v1 request and response messages.
//
// Messages travel as JSON. Money fields are decimal strings ("12.34") so no
// precision is lost between client and server.
package api

import "github.com/shopspring/decimal"

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type Member struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	JoinedAt    int64  `json:"joined_at"`
}

type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	Members     []*Member `json:"members"`
	CreatedAt   int64     `json:"created_at"`
}

type Balance struct {
	UserID              string          `json:"user_id"`
	DisplayName         string          `json:"display_name"`
	TotalPaid           decimal.Decimal `json:"total_paid"`
	TotalOwed           decimal.Decimal `json:"total_owed"`
	SettlementsReceived decimal.Decimal `json:"settlements_received"`
	SettlementsPaid     decimal.Decimal `json:"settlements_paid"`
	Balance             decimal.Decimal `json:"balance"`
}

type SuggestedPayment struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type Settlement struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"group_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	CreatedAt  int64           `json:"created_at"`
	SettledAt  *int64          `json:"settled_at,omitempty"`
}

type ExpenseSplit struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PaidBy      string          `json:"paid_by"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Splits      []*ExpenseSplit `json:"splits"`
	CreatedAt   int64           `json:"created_at"`
}

// LedgerService

type GetBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type SuggestPaymentsRequest struct {
	GroupID string `json:"group_id"`
}

type SuggestPaymentsResponse struct {
	Balances []*Balance          `json:"balances"`
	Payments []*SuggestedPayment `json:"payments"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type CreateSettlementRequest struct {
	GroupID    string          `json:"group_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type CreateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type UpdateSettlementStatusRequest struct {
	GroupID      string `json:"group_id"`
	SettlementID string `json:"settlement_id"`
	Status       string `json:"status"` // "pending" or "settled"
}

type UpdateSettlementStatusResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type DeleteSettlementRequest struct {
	GroupID      string `json:"group_id"`
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}

// CreateExpenseRequest records an expense. Either Splits lists each member's
// share explicitly, or SplitMembers names the members who share it equally.
type CreateExpenseRequest struct {
	GroupID      string          `json:"group_id"`
	PaidBy       string          `json:"paid_by"`
	Description  string          `json:"description"`
	Category     string          `json:"category,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Splits       []*ExpenseSplit `json:"splits,omitempty"`
	SplitMembers []string        `json:"split_members,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	GroupID   string `json:"group_id"`
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

// GroupService

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// AddMemberRequest adds a registered user, looked up by email, to a group.
type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	Email   string `json:"email"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
