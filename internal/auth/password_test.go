package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/groupledger/internal/storage/memory"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator() *PasswordAuthenticator {
	a := NewPasswordAuthenticator(memory.New())
	a.cost = bcrypt.MinCost
	return a
}

func TestPasswordAuthenticator_RegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()

	user, err := a.Register(ctx, "  Alice@Example.com ", "Alice", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want normalized", user.Email)
	}
	if user.PasswordHash == "correct horse" {
		t.Error("password stored in plain text")
	}

	got, err := a.Authenticate(ctx, "ALICE@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated %s, want %s", got.ID, user.ID)
	}

	fetched, err := a.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if fetched.DisplayName != "Alice" {
		t.Errorf("display name = %q", fetched.DisplayName)
	}
}

func TestPasswordAuthenticator_Errors(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()

	if _, err := a.Register(ctx, "bob@example.com", "Bob", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak password: got %v", err)
	}
	if _, err := a.Register(ctx, "bob@example.com", "Bob", "long enough"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := a.Register(ctx, "BOB@example.com", "Bobby", "long enough"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate email: got %v", err)
	}
	if _, err := a.Authenticate(ctx, "bob@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "long enough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
	if _, err := a.GetUser(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing user: got %v", err)
	}
}
