package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/service"
)

func TestTokenManagerGetAccessToken(t *testing.T) {
	client := &fakeAuthClient{issued: entity.AccessToken{AccessToken: "at-1", TokenType: "Bearer", RefreshToken: "rt-1", ExpiresIn: 3600}}
	sessions := newFakeSessions()
	m := NewTokenManager(client, sessions, 0, time.Second, quietLogger())

	tok, ok := m.GetAccessToken(context.Background(), "alice1", "Abcde1!", "profile")
	require.True(t, ok)
	assert.Equal(t, "at-1", tok.AccessToken)
	assert.Equal(t, DefaultExpirationWindow, m.Window)

	stored, err := m.StoredToken(context.Background(), "alice1")
	require.NoError(t, err)
	assert.Equal(t, *tok, *stored)
}

func TestTokenManagerGetAccessTokenFailures(t *testing.T) {
	t.Run("grant rejected", func(t *testing.T) {
		client := &fakeAuthClient{grantErr: service.ErrAuthorizationRejected}
		sessions := newFakeSessions()
		tok, ok := NewTokenManager(client, sessions, 0, 0, quietLogger()).GetAccessToken(context.Background(), "alice1", "x", "")
		assert.False(t, ok)
		assert.Nil(t, tok)
		assert.Zero(t, sessions.writes)
	})

	t.Run("store failure", func(t *testing.T) {
		sessions := newFakeSessions()
		sessions.failErr = errors.New("redis down")
		_, ok := NewTokenManager(&fakeAuthClient{}, sessions, 0, 0, quietLogger()).GetAccessToken(context.Background(), "alice1", "x", "")
		assert.False(t, ok)
	})
}

func TestTokenManagerHasExpired(t *testing.T) {
	now := time.Now()

	t.Run("inside the window refreshes and stores", func(t *testing.T) {
		client := &fakeAuthClient{now: now, refreshed: entity.AccessToken{AccessToken: "at-2", RefreshToken: "rt-2", ExpiresAt: now.Add(time.Hour)}}
		sessions := newFakeSessions()
		m := NewTokenManager(client, sessions, 300*time.Second, 0, quietLogger())

		old := entity.AccessToken{AccessToken: "at-1", RefreshToken: "rt-1", ExpiresAt: now.Add(100 * time.Second)}
		tok, err := m.HasExpired(context.Background(), "alice1", old)

		require.NoError(t, err)
		assert.Equal(t, "at-2", tok.AccessToken)
		assert.Equal(t, 1, client.refreshes)
		assert.Equal(t, 1, sessions.writes)
		stored, err := m.StoredToken(context.Background(), "alice1")
		require.NoError(t, err)
		assert.Equal(t, "at-2", stored.AccessToken)
	})

	t.Run("outside the window is returned unchanged", func(t *testing.T) {
		client := &fakeAuthClient{now: now}
		sessions := newFakeSessions()
		m := NewTokenManager(client, sessions, 300*time.Second, 0, quietLogger())

		old := entity.AccessToken{AccessToken: "at-1", RefreshToken: "rt-1", ExpiresAt: now.Add(1000 * time.Second)}
		tok, err := m.HasExpired(context.Background(), "alice1", old)

		require.NoError(t, err)
		assert.Equal(t, old, tok)
		assert.Zero(t, client.refreshes)
		assert.Zero(t, sessions.writes)
	})

	t.Run("refresh failure", func(t *testing.T) {
		client := &fakeAuthClient{now: now, refreshErr: service.ErrAuthorizationRejected}
		m := NewTokenManager(client, newFakeSessions(), 0, 0, quietLogger())

		_, err := m.HasExpired(context.Background(), "alice1", entity.AccessToken{ExpiresAt: now.Add(time.Second)})
		assert.ErrorIs(t, err, service.ErrAuthorizationRejected)
	})
}

func TestTokenManagerRevokeTokens(t *testing.T) {
	t.Run("revokes and keeps the record", func(t *testing.T) {
		client := &fakeAuthClient{issued: entity.AccessToken{AccessToken: "at-1", RefreshToken: "rt-1"}}
		sessions := newFakeSessions()
		m := NewTokenManager(client, sessions, 0, 0, quietLogger())
		_, ok := m.GetAccessToken(context.Background(), "alice1", "Abcde1!", "")
		require.True(t, ok)

		require.NoError(t, m.RevokeTokens(context.Background(), "alice1"))
		assert.Equal(t, 1, client.revokes)
		assert.NotNil(t, sessions.data["alice1"])
	})

	t.Run("nothing stored", func(t *testing.T) {
		m := NewTokenManager(&fakeAuthClient{}, newFakeSessions(), 0, 0, quietLogger())
		assert.ErrorIs(t, m.RevokeTokens(context.Background(), "alice1"), ErrNoStoredToken)
	})

	t.Run("server error is wrapped", func(t *testing.T) {
		client := &fakeAuthClient{revokeErr: errors.New("503")}
		sessions := newFakeSessions()
		m := NewTokenManager(client, sessions, 0, 0, quietLogger())
		_, _ = m.GetAccessToken(context.Background(), "alice1", "Abcde1!", "")

		assert.ErrorIs(t, m.RevokeTokens(context.Background(), "alice1"), client.revokeErr)
	})
}

func TestTokenManagerStoredTokenCorrupt(t *testing.T) {
	sessions := newFakeSessions()
	sessions.data["alice1"] = []byte("{not json")
	_, err := NewTokenManager(&fakeAuthClient{}, sessions, 0, 0, quietLogger()).StoredToken(context.Background(), "alice1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoStoredToken)
}
