package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/pkg/api"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService.
// Every call requires the caller to be a member of the requested group.
type LedgerService struct {
	ledger *ledger.Ledger
}

// NewLedgerService creates a new LedgerService over l.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// GetBalances returns every member's balance in membership order.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.GroupID); err != nil {
		return nil, err
	}

	balances, err := s.ledger.ComputeBalances(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances: toAPIBalances(balances),
	}), nil
}

// SuggestPayments returns balances plus the payments that would settle them.
func (s *LedgerService) SuggestPayments(ctx context.Context, req *connect.Request[api.SuggestPaymentsRequest]) (*connect.Response[api.SuggestPaymentsResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.GroupID); err != nil {
		return nil, err
	}

	balances, payments, err := s.ledger.SuggestPayments(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("SuggestPayments failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Debug("Suggested payments", "group_id", req.Msg.GroupID, "count", len(payments))
	return connect.NewResponse(&api.SuggestPaymentsResponse{
		Balances: toAPIBalances(balances),
		Payments: toAPIPayments(payments),
	}), nil
}

// ListSettlements returns the group's settlements, newest first.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.GroupID); err != nil {
		return nil, err
	}

	settlements, err := s.ledger.ListSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i := range settlements {
		out[i] = toAPISettlement(&settlements[i])
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// CreateSettlement records a pending payment between two members.
func (s *LedgerService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	userID, err := requireMember(ctx, s.ledger, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateSettlement request received",
		"group_id", req.Msg.GroupID,
		"user_id", userID,
		"from", req.Msg.FromUserID,
		"to", req.Msg.ToUserID,
		"amount", req.Msg.Amount.String(),
	)

	settlement, err := s.ledger.CreateSettlement(ctx, req.Msg.GroupID, req.Msg.FromUserID, req.Msg.ToUserID, req.Msg.Amount)
	if err != nil {
		slog.Warn("CreateSettlement failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateSettlementResponse{
		Settlement: toAPISettlement(settlement),
	}), nil
}

// UpdateSettlementStatus marks a settlement settled or reverts it to pending.
func (s *LedgerService) UpdateSettlementStatus(ctx context.Context, req *connect.Request[api.UpdateSettlementStatusRequest]) (*connect.Response[api.UpdateSettlementStatusResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.GroupID); err != nil {
		return nil, err
	}

	status := models.SettlementStatus(strings.ToLower(req.Msg.Status))
	settlement, err := s.ledger.UpdateSettlementStatus(ctx, req.Msg.GroupID, req.Msg.SettlementID, status)
	if err != nil {
		slog.Warn("UpdateSettlementStatus failed",
			"group_id", req.Msg.GroupID,
			"settlement_id", req.Msg.SettlementID,
			"status", req.Msg.Status,
			"error", err,
		)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.UpdateSettlementStatusResponse{
		Settlement: toAPISettlement(settlement),
	}), nil
}

// DeleteSettlement removes a settlement.
func (s *LedgerService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.GroupID); err != nil {
		return nil, err
	}

	if err := s.ledger.DeleteSettlement(ctx, req.Msg.GroupID, req.Msg.SettlementID); err != nil {
		slog.Warn("DeleteSettlement failed", "group_id", req.Msg.GroupID, "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}

// CreateExpense records an expense. Shares come from Splits when given,
// otherwise the amount is divided equally among SplitMembers.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := requireMember(ctx, s.ledger, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"user_id", userID,
		"paid_by", req.Msg.PaidBy,
		"amount", req.Msg.Amount.String(),
		"splits", len(req.Msg.Splits),
		"split_members", len(req.Msg.SplitMembers),
	)

	if strings.TrimSpace(req.Msg.Description) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("description is required"))
	}

	splits, err := expenseSplits(req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		GroupID:     req.Msg.GroupID,
		PaidBy:      req.Msg.PaidBy,
		Description: strings.TrimSpace(req.Msg.Description),
		Category:    req.Msg.Category,
		Amount:      req.Msg.Amount,
		Splits:      splits,
	}
	if err := s.ledger.CreateExpense(ctx, expense); err != nil {
		slog.Warn("CreateExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense: toAPIExpense(expense),
	}), nil
}

func expenseSplits(msg *api.CreateExpenseRequest) ([]models.ExpenseSplit, error) {
	if len(msg.Splits) > 0 {
		splits := make([]models.ExpenseSplit, len(msg.Splits))
		for i, sp := range msg.Splits {
			splits[i] = models.ExpenseSplit{UserID: sp.UserID, Amount: sp.Amount}
		}
		return splits, nil
	}

	if !msg.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ledger.ErrInvalidAmount, msg.Amount)
	}
	splits, err := calculator.SplitEqually(msg.Amount, msg.SplitMembers)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrInvalidSplits, err)
	}
	return splits, nil
}

// ListExpenses returns the group's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.GroupID); err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i := range expenses {
		out[i] = toAPIExpense(&expenses[i])
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense and its splits.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.GroupID); err != nil {
		return nil, err
	}

	if err := s.ledger.DeleteExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID); err != nil {
		slog.Warn("DeleteExpense failed", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
