package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/cache"
	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
	"github.com/mmynk/groupledger/pkg/api"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
	"github.com/shopspring/decimal"
)

const testSecret = "test-secret-key-at-least-32-bytes!"

type testClients struct {
	auth   *apiconnect.AuthServiceClient
	groups *apiconnect.GroupServiceClient
	ledger *apiconnect.LedgerServiceClient
}

type testUser struct {
	ID    string
	Token string
}

// setupTestServer starts every service on an httptest server backed by a temp SQLite database.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	l := ledger.New(store, ledger.WithCache(cache.NewLRU[[]calculator.Balance](16, time.Minute)))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	protected := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(nil))
	public := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(nil))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(l), protected))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, l), protected))
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger), public))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testClients{
		auth:   apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups: apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		ledger: apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
	}
}

func authed[T any](msg *T, user testUser) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+user.Token)
	return req
}

func register(t *testing.T, c *testClients, email, name string) testUser {
	t.Helper()
	resp, err := c.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register %s failed: %v", email, err)
	}
	return testUser{ID: resp.Msg.User.ID, Token: resp.Msg.Token}
}

// createGroupWith creates a group owned by owner and adds the others by email.
func createGroupWith(t *testing.T, c *testClients, owner testUser, emails ...string) string {
	t.Helper()
	ctx := context.Background()

	resp, err := c.groups.CreateGroup(ctx, authed(&api.CreateGroupRequest{Name: "Dinner club"}, owner))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := resp.Msg.Group.ID

	for _, email := range emails {
		if _, err := c.groups.AddMember(ctx, authed(&api.AddMemberRequest{GroupID: groupID, Email: email}, owner)); err != nil {
			t.Fatalf("AddMember %s failed: %v", email, err)
		}
	}
	return groupID
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func balanceOf(t *testing.T, balances []*api.Balance, userID string) decimal.Decimal {
	t.Helper()
	for _, b := range balances {
		if b.UserID == userID {
			return b.Balance
		}
	}
	t.Fatalf("no balance for %s", userID)
	return decimal.Zero
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code = %v, want %v (err: %v)", got, want, err)
	}
}
