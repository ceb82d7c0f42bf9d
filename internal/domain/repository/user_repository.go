package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/event"
)

// ErrStorage wraps every failure reported by a storage driver.
var ErrStorage = errors.New("storage error")

// StorageError wraps err so that errors.Is(err, ErrStorage) holds while the
// original cause stays reachable.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// UserRepository persists User aggregates.
type UserRepository interface {
	// Exists returns the account matching username, or email when non-empty,
	// or nil when none matches.
	Exists(ctx context.Context, username, email string) (*entity.User, error)
	// Save inserts u and reports whether exactly one record was created.
	Save(ctx context.Context, u *entity.User) (bool, error)
	// MarkUserForDeletion persists the soft-delete flag.
	MarkUserForDeletion(ctx context.Context, u *entity.User) (bool, error)
	// Delete removes the account row by username.
	Delete(ctx context.Context, u *entity.User) (bool, error)
}

// TokenSessionRepository stores the serialized authorization-server token
// per username.
type TokenSessionRepository interface {
	UpdateSession(ctx context.Context, username string, token []byte) (bool, error)
	// GetSession returns nil when no token is stored.
	GetSession(ctx context.Context, username string) ([]byte, error)
}

// EventLogger appends domain events to the audit log.
type EventLogger interface {
	LogEvent(ctx context.Context, e event.DomainEvent) error
}
