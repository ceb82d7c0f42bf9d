package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/event"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
	"github.com/oksasatya/go-identity-service/pkg/mailer"
	mailtpl "github.com/oksasatya/go-identity-service/pkg/mailer/templates"
)

// JobPublisher enqueues a JSON job. Satisfied by helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserDocument is the searchable projection of an account.
type UserDocument struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type UserIndexer interface {
	IndexUser(ctx context.Context, doc UserDocument) error
	RemoveUser(ctx context.Context, id string) error
}

type EventArchiver interface {
	Archive(ctx context.Context, e event.DomainEvent) error
}

var userEvents = []event.Type{event.UserCreated, event.UserDeleted, event.UserEmailVerified}

// Subscriber failures are logged and swallowed; the request that raised
// the event has already committed.

// AuditSubscriber appends every user event to the audit log.
type AuditSubscriber struct {
	Log    repository.EventLogger
	Logger *logrus.Logger
}

func (s *AuditSubscriber) Register(bus *event.Bus) {
	for _, t := range userEvents {
		bus.Register(s.handle, t)
	}
}

func (s *AuditSubscriber) handle(ctx context.Context, e event.DomainEvent) error {
	if err := s.Log.LogEvent(ctx, e); err != nil {
		logEventFailure(s.Logger, "audit log", e, err)
	}
	return nil
}

// NotificationSubscriber queues the welcome and account_deleted emails.
type NotificationSubscriber struct {
	Publisher JobPublisher
	Brand     mailtpl.Brand
	Logger    *logrus.Logger
}

func (s *NotificationSubscriber) Register(bus *event.Bus) {
	bus.Register(s.handle, event.UserCreated)
	bus.Register(s.handle, event.UserDeleted)
}

func (s *NotificationSubscriber) handle(ctx context.Context, e event.DomainEvent) error {
	template := mailtpl.Welcome
	if e.Type == event.UserDeleted {
		template = mailtpl.AccountDeleted
	}
	username, email := metaString(e, "username"), metaString(e, "email")
	if email == "" {
		return nil
	}
	hard, _ := e.Meta["hard"].(bool)
	data := mailtpl.NewBaseEmailData(s.Brand, template, username, email, email,
		mailtpl.WithTime(e.OccurredAt), mailtpl.WithPermanent(hard))
	job := mailer.EmailJob{To: email, Template: template, Data: mailtpl.ToMap(data)}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		logEventFailure(s.Logger, "enqueue email", e, err)
	}
	return nil
}

// SearchSubscriber keeps the user search index in step with the accounts
// table.
type SearchSubscriber struct {
	Index  UserIndexer
	Logger *logrus.Logger
}

func (s *SearchSubscriber) Register(bus *event.Bus) {
	bus.Register(s.handle, event.UserCreated)
	bus.Register(s.handle, event.UserDeleted)
}

func (s *SearchSubscriber) handle(ctx context.Context, e event.DomainEvent) error {
	var err error
	switch e.Type {
	case event.UserCreated:
		err = s.Index.IndexUser(ctx, UserDocument{
			ID:        e.AggregateID.String(),
			Username:  metaString(e, "username"),
			Email:     metaString(e, "email"),
			CreatedAt: e.OccurredAt,
		})
	case event.UserDeleted:
		if hard, _ := e.Meta["hard"].(bool); hard {
			err = s.Index.RemoveUser(ctx, e.AggregateID.String())
		}
	}
	if err != nil {
		logEventFailure(s.Logger, "search index", e, err)
	}
	return nil
}

// ArchiveSubscriber copies every user event to long-term storage.
type ArchiveSubscriber struct {
	Archive EventArchiver
	Logger  *logrus.Logger
}

func (s *ArchiveSubscriber) Register(bus *event.Bus) {
	for _, t := range userEvents {
		bus.Register(s.handle, t)
	}
}

func (s *ArchiveSubscriber) handle(ctx context.Context, e event.DomainEvent) error {
	if err := s.Archive.Archive(ctx, e); err != nil {
		logEventFailure(s.Logger, "archive event", e, err)
	}
	return nil
}

func metaString(e event.DomainEvent, key string) string {
	if v, ok := e.Meta[key]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func logEventFailure(logger *logrus.Logger, what string, e event.DomainEvent, err error) {
	logOf(logger).WithError(err).WithFields(logrus.Fields{
		"event_type":   e.Type,
		"aggregate_id": e.AggregateID,
	}).Error(what + " failed")
}
