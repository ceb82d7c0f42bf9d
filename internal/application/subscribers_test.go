package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/internal/domain/event"
	"github.com/oksasatya/go-identity-service/pkg/mailer"
	mailtpl "github.com/oksasatya/go-identity-service/pkg/mailer/templates"
)

type recordingLog struct {
	events []event.DomainEvent
	err    error
}

func (r *recordingLog) LogEvent(ctx context.Context, e event.DomainEvent) error {
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingLog) Archive(ctx context.Context, e event.DomainEvent) error {
	return r.LogEvent(ctx, e)
}

type recordingPublisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, body any) error {
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return p.err
}

type recordingIndex struct {
	indexed []UserDocument
	removed []string
}

func (i *recordingIndex) IndexUser(ctx context.Context, doc UserDocument) error {
	i.indexed = append(i.indexed, doc)
	return nil
}

func (i *recordingIndex) RemoveUser(ctx context.Context, id string) error {
	i.removed = append(i.removed, id)
	return nil
}

func userEvent(t event.Type, meta map[string]any) event.DomainEvent {
	base := map[string]any{"username": "alice1", "email": "alice@example.com"}
	for k, v := range meta {
		base[k] = v
	}
	return event.New(t, uuid.New(), base)
}

func TestAuditSubscriberSwallowsErrors(t *testing.T) {
	log := &recordingLog{err: errors.New("insert failed")}
	s := &AuditSubscriber{Log: log, Logger: quietLogger()}

	for _, typ := range userEvents {
		assert.NoError(t, s.handle(context.Background(), userEvent(typ, nil)))
	}
	assert.Len(t, log.events, 3)
}

func TestNotificationSubscriber(t *testing.T) {
	pub := &recordingPublisher{}
	s := &NotificationSubscriber{Publisher: pub, Brand: mailtpl.Brand{AppName: "Identity"}, Logger: quietLogger()}
	bus := event.NewBus()
	s.Register(bus)

	require.NoError(t, s.handle(context.Background(), userEvent(event.UserCreated, nil)))
	require.NoError(t, s.handle(context.Background(), userEvent(event.UserDeleted, map[string]any{"hard": true})))

	require.Len(t, pub.jobs, 2)
	assert.Equal(t, mailtpl.Welcome, pub.jobs[0].Template)
	assert.Equal(t, "alice@example.com", pub.jobs[0].To)
	assert.Equal(t, mailtpl.AccountDeleted, pub.jobs[1].Template)
	assert.Equal(t, true, pub.jobs[1].Data["Permanent"])
}

func TestNotificationSubscriberSkipsMissingEmail(t *testing.T) {
	pub := &recordingPublisher{}
	s := &NotificationSubscriber{Publisher: pub, Logger: quietLogger()}

	e := event.New(event.UserCreated, uuid.New(), map[string]any{"username": "alice1"})
	require.NoError(t, s.handle(context.Background(), e))
	assert.Empty(t, pub.jobs)
}

func TestSearchSubscriber(t *testing.T) {
	idx := &recordingIndex{}
	s := &SearchSubscriber{Index: idx, Logger: quietLogger()}

	created := userEvent(event.UserCreated, nil)
	require.NoError(t, s.handle(context.Background(), created))
	require.NoError(t, s.handle(context.Background(), userEvent(event.UserDeleted, map[string]any{"hard": false})))
	hard := userEvent(event.UserDeleted, map[string]any{"hard": true})
	require.NoError(t, s.handle(context.Background(), hard))

	require.Len(t, idx.indexed, 1)
	assert.Equal(t, created.AggregateID.String(), idx.indexed[0].ID)
	assert.Equal(t, "alice1", idx.indexed[0].Username)
	assert.Equal(t, []string{hard.AggregateID.String()}, idx.removed)
}

func TestSubscribersThroughBus(t *testing.T) {
	log := &recordingLog{}
	archive := &recordingLog{}
	bus := event.NewBus()
	(&AuditSubscriber{Log: log, Logger: quietLogger()}).Register(bus)
	(&ArchiveSubscriber{Archive: archive, Logger: quietLogger()}).Register(bus)

	out := NewSignUpUser(newFakeRepo(), bus, quietLogger(), 0).
		Execute(context.Background(), SignUpInput{Username: "alice1", Email: "alice@example.com", Password: "Abcde1!"})

	require.True(t, out.IsRight())
	require.Len(t, log.events, 1)
	assert.Equal(t, event.UserCreated, log.events[0].Type)
	assert.Len(t, archive.events, 1)
}
