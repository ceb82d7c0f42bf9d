package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
	"github.com/oksasatya/go-identity-service/pkg/guard"
	"github.com/oksasatya/go-identity-service/pkg/result"
)

type SignInInput struct {
	Username string
	Password string
	Scope    string
}

type SignInResult struct {
	Token   entity.AccessToken
	IDToken string
	User    entity.SessionUser
}

// SignInUser authenticates a user and obtains an access token from the
// authorization server.
type SignInUser struct {
	Repo    repository.UserRepository
	Tokens  TokenService
	Issuer  *IDTokenIssuer
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewSignInUser(repo repository.UserRepository, tokens TokenService, issuer *IDTokenIssuer, logger *logrus.Logger, timeout time.Duration) *SignInUser {
	return &SignInUser{Repo: repo, Tokens: tokens, Issuer: issuer, Logger: logger, Timeout: timeout}
}

func (uc *SignInUser) Execute(ctx context.Context, in SignInInput) (out Response[SignInResult]) {
	defer recoverUnexpected(uc.Logger, "SignInUser", &out)

	// Only presence is checked for the password: complexity rules apply
	// when it is set, not when it is presented.
	name := entity.NewUserName(in.Username)
	scope := entity.NewUserScope(in.Scope)
	if r := result.Combine(name, verdict(guard.AgainstNilOrEmpty(in.Password, "password")), scope); r.IsFailure() {
		return fail[SignInResult](ValidationError(r.Error()))
	}

	rctx, cancel := bound(ctx, uc.Timeout)
	defer cancel()

	user, err := uc.Repo.Exists(rctx, name.Value().Value(), "")
	if err != nil {
		return unexpected[SignInResult](uc.Logger, "SignInUser", err)
	}
	if user == nil || !user.Credential().Compare(in.Password) {
		return fail[SignInResult](InvalidCredential())
	}
	if user.IsDeleted() {
		return fail[SignInResult](UserIsMarkedForDeletion())
	}

	requested := scope.Value().Value()
	if requested == "" {
		requested = user.Scope().Value()
	}
	token, ok := uc.Tokens.GetAccessToken(ctx, user.Username().Value(), in.Password, requested)
	if !ok {
		return fail[SignInResult](NotAuthorized(nil))
	}

	res := SignInResult{Token: *token, User: entity.SessionUserFrom(user)}
	if uc.Issuer != nil {
		idToken, err := uc.Issuer.CreateIDToken(user)
		if err != nil {
			return unexpected[SignInResult](uc.Logger, "SignInUser", err)
		}
		res.IDToken = idToken
	}
	logOf(uc.Logger).WithField("username", user.Username().Value()).Info("user signed in")
	return succeed(res)
}
