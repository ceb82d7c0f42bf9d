package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/event"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
	"github.com/oksasatya/go-identity-service/pkg/result"
)

type SignUpInput struct {
	Username string
	Email    string
	Password string
}

// SignUpUser registers a new account.
type SignUpUser struct {
	Repo    repository.UserRepository
	Bus     *event.Bus
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewSignUpUser(repo repository.UserRepository, bus *event.Bus, logger *logrus.Logger, timeout time.Duration) *SignUpUser {
	return &SignUpUser{Repo: repo, Bus: bus, Logger: logger, Timeout: timeout}
}

func (uc *SignUpUser) Execute(ctx context.Context, in SignUpInput) (out Response[Unit]) {
	defer recoverUnexpected(uc.Logger, "SignUpUser", &out)

	// Value objects are built in order so an invalid username short-circuits
	// before the password is hashed.
	name := entity.NewUserName(in.Username)
	if name.IsFailure() {
		return fail[Unit](ValidationError(name.Error()))
	}
	email := entity.NewUserEmail(in.Email)
	if email.IsFailure() {
		return fail[Unit](ValidationError(email.Error()))
	}
	cred := entity.NewUserCredential(in.Password)
	scope := entity.NewUserScope(entity.DefaultScope)
	if r := result.Combine(name, email, cred, scope); r.IsFailure() {
		return fail[Unit](ValidationError(r.Error()))
	}

	rctx, cancel := bound(ctx, uc.Timeout)
	defer cancel()

	existing, err := uc.Repo.Exists(rctx, name.Value().Value(), email.Value().Value())
	if err != nil {
		return unexpected[Unit](uc.Logger, "SignUpUser", err)
	}
	if existing != nil {
		switch {
		case existing.IsDeleted():
			return fail[Unit](UserIsMarkedForDeletion())
		case existing.Username().Equals(name.Value()):
			return fail[Unit](UsernameTaken(name.Value().Value()))
		case existing.Email().Equals(email.Value()):
			return fail[Unit](EmailAlreadyExists(email.Value().Value()))
		}
	}

	created := entity.NewUser(entity.UserProps{
		Username:   name.Value(),
		Email:      email.Value(),
		Credential: cred.Value(),
		Scope:      scope.Value(),
	}, nil)
	if created.IsFailure() {
		return fail[Unit](ValidationError(created.Error()))
	}
	user := created.Value()

	saved, err := uc.Repo.Save(rctx, user)
	if err != nil || !saved {
		logOf(uc.Logger).WithError(err).WithField("username", name.Value().Value()).Error("save user failed")
		return fail[Unit](UnableToSaveUser(name.Value().Value(), err))
	}

	dispatch(ctx, uc.Logger, uc.Bus, user)
	logOf(uc.Logger).WithField("username", user.Username().Value()).Info("user signed up")
	return succeed(Unit{})
}
