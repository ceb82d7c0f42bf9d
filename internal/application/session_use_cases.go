package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
)

// SignOutUser revokes the requester's tokens at the authorization server.
type SignOutUser struct {
	Tokens TokenService
	Logger *logrus.Logger
}

func NewSignOutUser(tokens TokenService, logger *logrus.Logger) *SignOutUser {
	return &SignOutUser{Tokens: tokens, Logger: logger}
}

func (uc *SignOutUser) Execute(ctx context.Context, requester *entity.SessionUser) (out Response[Unit]) {
	defer recoverUnexpected(uc.Logger, "SignOutUser", &out)

	if requester == nil || requester.Username == "" {
		return fail[Unit](NotAuthorized(nil))
	}
	if err := uc.Tokens.RevokeTokens(ctx, requester.Username); err != nil {
		logOf(uc.Logger).WithError(err).WithField("username", requester.Username).Warn("revoke tokens failed")
		return fail[Unit](NotAuthorized(err))
	}
	return succeed(Unit{})
}

// RefreshAccessToken returns the requester's stored token, refreshed when
// it is about to expire.
type RefreshAccessToken struct {
	Tokens TokenService
	Logger *logrus.Logger
}

func NewRefreshAccessToken(tokens TokenService, logger *logrus.Logger) *RefreshAccessToken {
	return &RefreshAccessToken{Tokens: tokens, Logger: logger}
}

func (uc *RefreshAccessToken) Execute(ctx context.Context, requester *entity.SessionUser) (out Response[entity.AccessToken]) {
	defer recoverUnexpected(uc.Logger, "RefreshAccessToken", &out)

	if requester == nil || requester.Username == "" {
		return fail[entity.AccessToken](NotAuthorized(nil))
	}
	stored, err := uc.Tokens.StoredToken(ctx, requester.Username)
	if errors.Is(err, ErrNoStoredToken) {
		return fail[entity.AccessToken](NotAuthorized(err))
	}
	if err != nil {
		return unexpected[entity.AccessToken](uc.Logger, "RefreshAccessToken", err)
	}
	tok, err := uc.Tokens.HasExpired(ctx, requester.Username, *stored)
	if err != nil {
		logOf(uc.Logger).WithError(err).WithField("username", requester.Username).Warn("refresh access token failed")
		return fail[entity.AccessToken](NotAuthorized(err))
	}
	return succeed(tok)
}
