package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/mmynk/groupledger/pkg/api"
)

type dinnerGroup struct {
	groupID           string
	alice, bob, carol testUser
}

func setupDinnerGroup(t *testing.T, c *testClients) dinnerGroup {
	t.Helper()
	g := dinnerGroup{
		alice: register(t, c, "alice@example.com", "Alice"),
		bob:   register(t, c, "bob@example.com", "Bob"),
		carol: register(t, c, "carol@example.com", "Carol"),
	}
	g.groupID = createGroupWith(t, c, g.alice, "bob@example.com", "carol@example.com")
	return g
}

func TestLedgerService_DinnerScenario(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	g := setupDinnerGroup(t, c)

	_, err := c.ledger.CreateExpense(ctx, authed(&api.CreateExpenseRequest{
		GroupID:      g.groupID,
		PaidBy:       g.alice.ID,
		Description:  "Dinner",
		Amount:       d("90.00"),
		SplitMembers: []string{g.alice.ID, g.bob.ID, g.carol.ID},
	}, g.alice))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	resp, err := c.ledger.SuggestPayments(ctx, authed(&api.SuggestPaymentsRequest{GroupID: g.groupID}, g.bob))
	if err != nil {
		t.Fatalf("SuggestPayments failed: %v", err)
	}

	balances := resp.Msg.Balances
	if len(balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(balances))
	}
	if balances[0].UserID != g.alice.ID {
		t.Errorf("balances should follow membership order, first is %s", balances[0].UserID)
	}
	if got := balanceOf(t, balances, g.alice.ID); !got.Equal(d("60")) {
		t.Errorf("alice: expected 60, got %s", got)
	}
	if got := balanceOf(t, balances, g.bob.ID); !got.Equal(d("-30")) {
		t.Errorf("bob: expected -30, got %s", got)
	}

	payments := resp.Msg.Payments
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
	for _, p := range payments {
		if p.ToUserID != g.alice.ID || !p.Amount.Equal(d("30")) {
			t.Errorf("unexpected payment %+v", p)
		}
	}

	// Bob pays Alice back.
	created, err := c.ledger.CreateSettlement(ctx, authed(&api.CreateSettlementRequest{
		GroupID:    g.groupID,
		FromUserID: g.bob.ID,
		ToUserID:   g.alice.ID,
		Amount:     d("30"),
	}, g.bob))
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	if created.Msg.Settlement.Status != "pending" || created.Msg.Settlement.SettledAt != nil {
		t.Errorf("new settlement should be pending, got %+v", created.Msg.Settlement)
	}

	// Pending settlements leave balances alone.
	bal, err := c.ledger.GetBalances(ctx, authed(&api.GetBalancesRequest{GroupID: g.groupID}, g.bob))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if got := balanceOf(t, bal.Msg.Balances, g.bob.ID); !got.Equal(d("-30")) {
		t.Errorf("bob with pending settlement: expected -30, got %s", got)
	}

	updated, err := c.ledger.UpdateSettlementStatus(ctx, authed(&api.UpdateSettlementStatusRequest{
		GroupID:      g.groupID,
		SettlementID: created.Msg.Settlement.ID,
		Status:       "settled",
	}, g.alice))
	if err != nil {
		t.Fatalf("UpdateSettlementStatus failed: %v", err)
	}
	if updated.Msg.Settlement.SettledAt == nil {
		t.Error("expected settled_at to be set")
	}

	bal, err = c.ledger.GetBalances(ctx, authed(&api.GetBalancesRequest{GroupID: g.groupID}, g.carol))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if got := balanceOf(t, bal.Msg.Balances, g.bob.ID); !got.IsZero() {
		t.Errorf("bob after settling: expected 0, got %s", got)
	}
	if got := balanceOf(t, bal.Msg.Balances, g.alice.ID); !got.Equal(d("30")) {
		t.Errorf("alice after settling: expected 30, got %s", got)
	}

	list, err := c.ledger.ListSettlements(ctx, authed(&api.ListSettlementsRequest{GroupID: g.groupID}, g.carol))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(list.Msg.Settlements) != 1 || list.Msg.Settlements[0].Status != "settled" {
		t.Errorf("unexpected settlements: %+v", list.Msg.Settlements)
	}
}

func TestLedgerService_Expenses(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	g := setupDinnerGroup(t, c)

	resp, err := c.ledger.CreateExpense(ctx, authed(&api.CreateExpenseRequest{
		GroupID:     g.groupID,
		PaidBy:      g.bob.ID,
		Description: "Taxi",
		Category:    "transport",
		Amount:      d("10.00"),
		Splits: []*api.ExpenseSplit{
			{UserID: g.bob.ID, Amount: d("4.00")},
			{UserID: g.carol.ID, Amount: d("6.00")},
		},
	}, g.bob))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	expenseID := resp.Msg.Expense.ID

	equal, err := c.ledger.CreateExpense(ctx, authed(&api.CreateExpenseRequest{
		GroupID:      g.groupID,
		PaidBy:       g.alice.ID,
		Description:  "Snacks",
		Amount:       d("10.00"),
		SplitMembers: []string{g.alice.ID, g.bob.ID, g.carol.ID},
	}, g.alice))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	shares := equal.Msg.Expense.Splits
	if len(shares) != 3 || !shares[0].Amount.Equal(d("3.33")) || !shares[2].Amount.Equal(d("3.34")) {
		t.Errorf("unexpected equal split: %+v", shares)
	}

	list, err := c.ledger.ListExpenses(ctx, authed(&api.ListExpensesRequest{GroupID: g.groupID}, g.carol))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(list.Msg.Expenses))
	}
	for _, e := range list.Msg.Expenses {
		if len(e.Splits) == 0 {
			t.Errorf("expense %s listed without splits", e.ID)
		}
	}

	if _, err := c.ledger.DeleteExpense(ctx, authed(&api.DeleteExpenseRequest{GroupID: g.groupID, ExpenseID: expenseID}, g.bob)); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	bal, err := c.ledger.GetBalances(ctx, authed(&api.GetBalancesRequest{GroupID: g.groupID}, g.alice))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if got := balanceOf(t, bal.Msg.Balances, g.alice.ID); !got.Equal(d("6.67")) {
		t.Errorf("alice: expected 6.67, got %s", got)
	}
	if got := balanceOf(t, bal.Msg.Balances, g.carol.ID); !got.Equal(d("-3.34")) {
		t.Errorf("carol: expected -3.34, got %s", got)
	}

	_, err = c.ledger.DeleteExpense(ctx, authed(&api.DeleteExpenseRequest{GroupID: g.groupID, ExpenseID: expenseID}, g.bob))
	assertCode(t, err, connect.CodeNotFound)
}

func TestLedgerService_ErrorCodes(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	g := setupDinnerGroup(t, c)
	mallory := register(t, c, "mallory@example.com", "Mallory")

	settlement, err := c.ledger.CreateSettlement(ctx, authed(&api.CreateSettlementRequest{
		GroupID: g.groupID, FromUserID: g.carol.ID, ToUserID: g.bob.ID, Amount: d("5"),
	}, g.carol))
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	settlementID := settlement.Msg.Settlement.ID

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{
			name: "no token",
			call: func() error {
				_, err := c.ledger.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{GroupID: g.groupID}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
		{
			name: "not a member",
			call: func() error {
				_, err := c.ledger.GetBalances(ctx, authed(&api.GetBalancesRequest{GroupID: g.groupID}, mallory))
				return err
			},
			want: connect.CodePermissionDenied,
		},
		{
			name: "zero amount",
			call: func() error {
				_, err := c.ledger.CreateSettlement(ctx, authed(&api.CreateSettlementRequest{
					GroupID: g.groupID, FromUserID: g.bob.ID, ToUserID: g.alice.ID, Amount: d("0"),
				}, g.bob))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "settle with yourself",
			call: func() error {
				_, err := c.ledger.CreateSettlement(ctx, authed(&api.CreateSettlementRequest{
					GroupID: g.groupID, FromUserID: g.bob.ID, ToUserID: g.bob.ID, Amount: d("5"),
				}, g.bob))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "payee outside group",
			call: func() error {
				_, err := c.ledger.CreateSettlement(ctx, authed(&api.CreateSettlementRequest{
					GroupID: g.groupID, FromUserID: g.bob.ID, ToUserID: mallory.ID, Amount: d("5"),
				}, g.bob))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "unknown status",
			call: func() error {
				_, err := c.ledger.UpdateSettlementStatus(ctx, authed(&api.UpdateSettlementStatusRequest{
					GroupID: g.groupID, SettlementID: settlementID, Status: "refunded",
				}, g.bob))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "unknown settlement",
			call: func() error {
				_, err := c.ledger.UpdateSettlementStatus(ctx, authed(&api.UpdateSettlementStatusRequest{
					GroupID: g.groupID, SettlementID: "missing", Status: "settled",
				}, g.bob))
				return err
			},
			want: connect.CodeNotFound,
		},
		{
			name: "splits do not add up",
			call: func() error {
				_, err := c.ledger.CreateExpense(ctx, authed(&api.CreateExpenseRequest{
					GroupID: g.groupID, PaidBy: g.bob.ID, Description: "Lunch", Amount: d("10"),
					Splits: []*api.ExpenseSplit{{UserID: g.bob.ID, Amount: d("4")}},
				}, g.bob))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "no split members",
			call: func() error {
				_, err := c.ledger.CreateExpense(ctx, authed(&api.CreateExpenseRequest{
					GroupID: g.groupID, PaidBy: g.bob.ID, Description: "Lunch", Amount: d("10"),
				}, g.bob))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "missing description",
			call: func() error {
				_, err := c.ledger.CreateExpense(ctx, authed(&api.CreateExpenseRequest{
					GroupID: g.groupID, PaidBy: g.bob.ID, Amount: d("10"), SplitMembers: []string{g.bob.ID},
				}, g.bob))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, tt.call(), tt.want)
		})
	}

	// Deleting from the wrong group looks like a missing record.
	other := createGroupWith(t, c, mallory)
	_, err = c.ledger.DeleteSettlement(ctx, authed(&api.DeleteSettlementRequest{GroupID: other, SettlementID: settlementID}, mallory))
	assertCode(t, err, connect.CodeNotFound)

	if _, err := c.ledger.DeleteSettlement(ctx, authed(&api.DeleteSettlementRequest{GroupID: g.groupID, SettlementID: settlementID}, g.alice)); err != nil {
		t.Fatalf("DeleteSettlement failed: %v", err)
	}
}
