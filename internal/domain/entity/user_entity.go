package entity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-identity-service/internal/domain/event"
	"github.com/oksasatya/go-identity-service/pkg/guard"
	"github.com/oksasatya/go-identity-service/pkg/result"
)

// UserProps are the validated parts a User is built from.
type UserProps struct {
	Username        UserName
	Email           UserEmail
	Credential      UserCredential
	Scope           UserScope
	IsEmailVerified bool
	IsAdminUser     bool
	IsDeleted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// User is the aggregate root for the identity domain.
type User struct {
	event.Root
	id    UserID
	props UserProps
}

// NewUser builds a User from already validated value objects. When id is
// nil a new identity is generated and USER_CREATED is recorded; a non-nil
// id rehydrates an existing account without events.
func NewUser(props UserProps, id *UserID) result.Result[*User] {
	g := guard.AgainstNilOrEmptyBulk([]guard.Argument{
		{Value: props.Username.Value(), Name: "username"},
		{Value: props.Email.Value(), Name: "email"},
	})
	if !g.Succeeded {
		return result.FailMsg[*User](g.Message)
	}

	now := time.Now().UTC()
	if props.CreatedAt.IsZero() {
		props.CreatedAt = now
	}
	if props.UpdatedAt.IsZero() {
		props.UpdatedAt = props.CreatedAt
	}

	u := &User{props: props}
	if id != nil && !id.IsZero() {
		u.id = *id
		return result.Ok(u)
	}
	u.id = NewUserID()
	u.AddEvent(event.New(event.UserCreated, u.id.UUID(), u.eventMeta(nil)))
	return result.Ok(u)
}

func (u *User) ID() UserID                 { return u.id }
func (u *User) AggregateID() uuid.UUID     { return u.id.UUID() }
func (u *User) Username() UserName         { return u.props.Username }
func (u *User) Email() UserEmail           { return u.props.Email }
func (u *User) Credential() UserCredential { return u.props.Credential }
func (u *User) Scope() UserScope           { return u.props.Scope }
func (u *User) IsEmailVerified() bool      { return u.props.IsEmailVerified }
func (u *User) IsAdminUser() bool          { return u.props.IsAdminUser }
func (u *User) IsDeleted() bool            { return u.props.IsDeleted }
func (u *User) CreatedAt() time.Time       { return u.props.CreatedAt }
func (u *User) UpdatedAt() time.Time       { return u.props.UpdatedAt }

// VerifyEmail marks the email verified and returns the events it raised.
// Verifying an already verified email raises nothing.
func (u *User) VerifyEmail() []event.DomainEvent {
	if u.props.IsEmailVerified {
		return nil
	}
	u.props.IsEmailVerified = true
	u.touch()
	e := event.New(event.UserEmailVerified, u.id.UUID(), u.eventMeta(nil))
	u.AddEvent(e)
	return []event.DomainEvent{e}
}

// MarkForDeletion soft-deletes the account.
func (u *User) MarkForDeletion() []event.DomainEvent {
	if u.props.IsDeleted {
		return nil
	}
	u.props.IsDeleted = true
	u.touch()
	e := event.New(event.UserDeleted, u.id.UUID(), u.eventMeta(map[string]any{"hard": false}))
	u.AddEvent(e)
	return []event.DomainEvent{e}
}

// RecordHardDeletion records that the account row was removed.
func (u *User) RecordHardDeletion() []event.DomainEvent {
	e := event.New(event.UserDeleted, u.id.UUID(), u.eventMeta(map[string]any{"hard": true}))
	u.AddEvent(e)
	return []event.DomainEvent{e}
}

// DispatchDomainEvents marks the aggregate on bus and flushes its events.
func (u *User) DispatchDomainEvents(ctx context.Context, bus *event.Bus) error {
	bus.MarkAggregateForDispatch(u)
	return bus.DispatchEventsForAggregate(ctx, u.AggregateID())
}

func (u *User) touch() { u.props.UpdatedAt = time.Now().UTC() }

func (u *User) eventMeta(extra map[string]any) map[string]any {
	m := map[string]any{
		"username": u.props.Username.Value(),
		"email":    u.props.Email.Value(),
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}
