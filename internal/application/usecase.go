package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/event"
	"github.com/oksasatya/go-identity-service/pkg/guard"
	"github.com/oksasatya/go-identity-service/pkg/result"
)

// Response is what every use case returns: a Left *UseCaseError or a Right
// successful Result.
type Response[T any] struct {
	result.Either[*UseCaseError, result.Result[T]]
}

func fail[T any](e *UseCaseError) Response[T] {
	return Response[T]{result.Left[*UseCaseError, result.Result[T]](e)}
}

func succeed[T any](v T) Response[T] {
	return Response[T]{result.Right[*UseCaseError](result.Ok(v))}
}

// Unit is the payload of use cases with nothing to return.
type Unit struct{}

// recoverUnexpected turns a panic inside a use case into UnexpectedError.
// It must be deferred directly.
func recoverUnexpected[T any](logger *logrus.Logger, op string, out *Response[T]) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		*out = unexpected[T](logger, op, err)
	}
}

// unexpected logs err with its type and wraps it.
func unexpected[T any](logger *logrus.Logger, op string, err error) Response[T] {
	logOf(logger).WithFields(logrus.Fields{
		"use_case":   op,
		"error_type": fmt.Sprintf("%T", err),
		"error":      err.Error(),
	}).Error("unexpected error")
	return fail[T](UnexpectedError(err))
}

func verdict(v guard.Verdict) result.Result[struct{}] {
	if v.Succeeded {
		return result.Ok(struct{}{})
	}
	return result.FailMsg[struct{}](v.Message)
}

// dispatch flushes the aggregate's events. Subscriber failures are logged
// and do not fail the request.
func dispatch(ctx context.Context, logger *logrus.Logger, bus *event.Bus, u *entity.User) {
	if bus == nil {
		u.ClearEvents()
		return
	}
	if err := u.DispatchDomainEvents(ctx, bus); err != nil {
		logOf(logger).WithError(err).WithField("aggregate_id", u.AggregateID()).Error("dispatch domain events failed")
	}
}

// authorizeOwnerOrAdmin accepts an authenticated requester acting on their
// own account, or an administrator.
func authorizeOwnerOrAdmin(requester *entity.SessionUser, username string) bool {
	if requester == nil || requester.Username == "" {
		return false
	}
	return requester.IsAdminUser || requester.Username == username
}

func logOf(l *logrus.Logger) *logrus.Logger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}
