package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/event"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
)

type DeleteUserInput struct {
	Username  string
	Requester *entity.SessionUser
}

// DeleteUser removes an account row. Owners may delete their own active
// account; administrators may delete any account, including soft-deleted
// ones.
type DeleteUser struct {
	Repo    repository.UserRepository
	Bus     *event.Bus
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewDeleteUser(repo repository.UserRepository, bus *event.Bus, logger *logrus.Logger, timeout time.Duration) *DeleteUser {
	return &DeleteUser{Repo: repo, Bus: bus, Logger: logger, Timeout: timeout}
}

func (uc *DeleteUser) Execute(ctx context.Context, in DeleteUserInput) (out Response[Unit]) {
	defer recoverUnexpected(uc.Logger, "DeleteUser", &out)

	if !authorizeOwnerOrAdmin(in.Requester, in.Username) {
		return fail[Unit](NotAuthorized(nil))
	}
	name := entity.NewUserName(in.Username)
	if name.IsFailure() {
		return fail[Unit](ValidationError(name.Error()))
	}

	rctx, cancel := bound(ctx, uc.Timeout)
	defer cancel()

	user, err := uc.Repo.Exists(rctx, name.Value().Value(), "")
	if err != nil {
		return unexpected[Unit](uc.Logger, "DeleteUser", err)
	}
	if user == nil {
		return fail[Unit](UserNotFound(name.Value().Value()))
	}
	if user.IsDeleted() && !in.Requester.IsAdminUser {
		return fail[Unit](UserAwaitingRemoval(name.Value().Value()))
	}

	deleted, err := uc.Repo.Delete(rctx, user)
	if err != nil || !deleted {
		logOf(uc.Logger).WithError(err).WithField("username", name.Value().Value()).Error("delete user failed")
		return fail[Unit](UnableToDeleteUser(name.Value().Value(), err))
	}

	user.RecordHardDeletion()
	dispatch(ctx, uc.Logger, uc.Bus, user)
	logOf(uc.Logger).WithFields(logrus.Fields{
		"username":     user.Username().Value(),
		"requested_by": in.Requester.Username,
	}).Info("user deleted")
	return succeed(Unit{})
}
