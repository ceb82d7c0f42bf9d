package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/event"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
)

// MarkUserForDeletion soft-deletes an account. The row stays until an
// administrator deletes it.
type MarkUserForDeletion struct {
	Repo    repository.UserRepository
	Bus     *event.Bus
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewMarkUserForDeletion(repo repository.UserRepository, bus *event.Bus, logger *logrus.Logger, timeout time.Duration) *MarkUserForDeletion {
	return &MarkUserForDeletion{Repo: repo, Bus: bus, Logger: logger, Timeout: timeout}
}

func (uc *MarkUserForDeletion) Execute(ctx context.Context, in DeleteUserInput) (out Response[Unit]) {
	defer recoverUnexpected(uc.Logger, "MarkUserForDeletion", &out)

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
		return unexpected[Unit](uc.Logger, "MarkUserForDeletion", err)
	}
	if user == nil {
		return fail[Unit](UserNotFound(name.Value().Value()))
	}
	if user.IsDeleted() {
		return fail[Unit](UserAwaitingRemoval(name.Value().Value()))
	}

	user.MarkForDeletion()
	marked, err := uc.Repo.MarkUserForDeletion(rctx, user)
	if err != nil || !marked {
		user.ClearEvents()
		logOf(uc.Logger).WithError(err).WithField("username", name.Value().Value()).Error("mark user for deletion failed")
		return fail[Unit](UnableToDeleteUser(name.Value().Value(), err))
	}

	dispatch(ctx, uc.Logger, uc.Bus, user)
	return succeed(Unit{})
}
