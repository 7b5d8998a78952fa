package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/groupledger/pkg/api"
)

const LedgerServiceName = "groupledger.v1.LedgerService"

const (
	LedgerServiceGetBalancesProcedure            = "/groupledger.v1.LedgerService/GetBalances"
	LedgerServiceSuggestPaymentsProcedure        = "/groupledger.v1.LedgerService/SuggestPayments"
	LedgerServiceListSettlementsProcedure        = "/groupledger.v1.LedgerService/ListSettlements"
	LedgerServiceCreateSettlementProcedure       = "/groupledger.v1.LedgerService/CreateSettlement"
	LedgerServiceUpdateSettlementStatusProcedure = "/groupledger.v1.LedgerService/UpdateSettlementStatus"
	LedgerServiceDeleteSettlementProcedure       = "/groupledger.v1.LedgerService/DeleteSettlement"
	LedgerServiceCreateExpenseProcedure          = "/groupledger.v1.LedgerService/CreateExpense"
	LedgerServiceListExpensesProcedure           = "/groupledger.v1.LedgerService/ListExpenses"
	LedgerServiceDeleteExpenseProcedure          = "/groupledger.v1.LedgerService/DeleteExpense"
)

// LedgerServiceHandler serves balances, payment suggestions, settlements and expenses.
type LedgerServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	SuggestPayments(context.Context, *connect.Request[api.SuggestPaymentsRequest]) (*connect.Response[api.SuggestPaymentsResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error)
	UpdateSettlementStatus(context.Context, *connect.Request[api.UpdateSettlementStatusRequest]) (*connect.Response[api.UpdateSettlementStatusResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
}

// NewLedgerServiceHandler returns the path prefix and handler to mount on a mux.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(LedgerServiceGetBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...))
	mux.Handle(LedgerServiceSuggestPaymentsProcedure, connect.NewUnaryHandler(LedgerServiceSuggestPaymentsProcedure, svc.SuggestPayments, opts...))
	mux.Handle(LedgerServiceListSettlementsProcedure, connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(LedgerServiceCreateSettlementProcedure, connect.NewUnaryHandler(LedgerServiceCreateSettlementProcedure, svc.CreateSettlement, opts...))
	mux.Handle(LedgerServiceUpdateSettlementStatusProcedure, connect.NewUnaryHandler(LedgerServiceUpdateSettlementStatusProcedure, svc.UpdateSettlementStatus, opts...))
	mux.Handle(LedgerServiceDeleteSettlementProcedure, connect.NewUnaryHandler(LedgerServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...))
	mux.Handle(LedgerServiceCreateExpenseProcedure, connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(LedgerServiceListExpensesProcedure, connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(LedgerServiceDeleteExpenseProcedure, connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient calls a LedgerService over Connect.
type LedgerServiceClient struct {
	getBalances            *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	suggestPayments        *connect.Client[api.SuggestPaymentsRequest, api.SuggestPaymentsResponse]
	listSettlements        *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	createSettlement       *connect.Client[api.CreateSettlementRequest, api.CreateSettlementResponse]
	updateSettlementStatus *connect.Client[api.UpdateSettlementStatusRequest, api.UpdateSettlementStatusResponse]
	deleteSettlement       *connect.Client[api.DeleteSettlementRequest, api.DeleteSettlementResponse]
	createExpense          *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	listExpenses           *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	deleteExpense          *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
}

// NewLedgerServiceClient builds a client for the server at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &LedgerServiceClient{
		getBalances:            connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		suggestPayments:        connect.NewClient[api.SuggestPaymentsRequest, api.SuggestPaymentsResponse](httpClient, baseURL+LedgerServiceSuggestPaymentsProcedure, opts...),
		listSettlements:        connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		createSettlement:       connect.NewClient[api.CreateSettlementRequest, api.CreateSettlementResponse](httpClient, baseURL+LedgerServiceCreateSettlementProcedure, opts...),
		updateSettlementStatus: connect.NewClient[api.UpdateSettlementStatusRequest, api.UpdateSettlementStatusResponse](httpClient, baseURL+LedgerServiceUpdateSettlementStatusProcedure, opts...),
		deleteSettlement:       connect.NewClient[api.DeleteSettlementRequest, api.DeleteSettlementResponse](httpClient, baseURL+LedgerServiceDeleteSettlementProcedure, opts...),
		createExpense:          connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		listExpenses:           connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		deleteExpense:          connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
	}
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SuggestPayments(ctx context.Context, req *connect.Request[api.SuggestPaymentsRequest]) (*connect.Response[api.SuggestPaymentsResponse], error) {
	return c.suggestPayments.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UpdateSettlementStatus(ctx context.Context, req *connect.Request[api.UpdateSettlementStatusRequest]) (*connect.Response[api.UpdateSettlementStatusResponse], error) {
	return c.updateSettlementStatus.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}
