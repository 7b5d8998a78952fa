package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/middleware"
)

// toConnectError maps ledger errors to Connect status codes.
func toConnectError(err error) error {
	switch {
	case ledger.IsValidationError(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrNotAuthorized):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// requireUser returns the authenticated caller's ID.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// requireMember checks that the caller belongs to groupID.
func requireMember(ctx context.Context, l *ledger.Ledger, groupID string) (string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	if groupID == "" {
		return "", connect.NewError(connect.CodeInvalidArgument, errors.New("group_id is required"))
	}
	if err := l.RequireMember(ctx, groupID, userID); err != nil {
		return "", toConnectError(err)
	}
	return userID, nil
}
