package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
	"github.com/oksasatya/go-identity-service/internal/domain/service"
)

// DefaultExpirationWindow is how close to expiry a token may get before it
// is refreshed.
const DefaultExpirationWindow = 300 * time.Second

var ErrNoStoredToken = errors.New("no stored token for user")

// TokenService is the token lifecycle seen by the use cases.
type TokenService interface {
	GetAccessToken(ctx context.Context, username, password, scope string) (*entity.AccessToken, bool)
	HasExpired(ctx context.Context, username string, token entity.AccessToken) (entity.AccessToken, error)
	RevokeTokens(ctx context.Context, username string) error
	StoredToken(ctx context.Context, username string) (*entity.AccessToken, error)
}

// TokenManager acquires, refreshes and revokes authorization-server tokens
// and keeps the latest serialized token per username. Refresh is lazy: it
// only happens when HasExpired is called.
type TokenManager struct {
	Client   service.AuthorizationClient
	Sessions repository.TokenSessionRepository
	Window   time.Duration
	Timeout  time.Duration
	Logger   *logrus.Logger
}

func NewTokenManager(client service.AuthorizationClient, sessions repository.TokenSessionRepository, window, timeout time.Duration, logger *logrus.Logger) *TokenManager {
	if window <= 0 {
		window = DefaultExpirationWindow
	}
	return &TokenManager{Client: client, Sessions: sessions, Window: window, Timeout: timeout, Logger: logger}
}

// GetAccessToken runs the password grant and stores the token. It returns
// false when the server rejects the grant, the call times out, or the token
// cannot be stored.
func (m *TokenManager) GetAccessToken(ctx context.Context, username, password, scope string) (*entity.AccessToken, bool) {
	ctx, cancel := bound(ctx, m.Timeout)
	defer cancel()

	h, err := m.Client.GetToken(ctx, username, password, scope)
	if err != nil {
		m.log().WithError(err).WithField("username", username).Warn("password grant failed")
		return nil, false
	}
	tok := h.Token()
	if err := m.store(ctx, username, tok); err != nil {
		m.log().WithError(err).WithField("username", username).Error("store token failed")
		return nil, false
	}
	return &tok, true
}

// HasExpired returns token unchanged unless it expires within the window,
// in which case it is refreshed, stored and the new token returned.
func (m *TokenManager) HasExpired(ctx context.Context, username string, token entity.AccessToken) (entity.AccessToken, error) {
	h := m.Client.CreateToken(token)
	if !h.Expired(m.Window) {
		return token, nil
	}

	ctx, cancel := bound(ctx, m.Timeout)
	defer cancel()

	refreshed, err := h.Refresh(ctx)
	if err != nil {
		return entity.AccessToken{}, fmt.Errorf("refresh token: %w", err)
	}
	tok := refreshed.Token()
	if err := m.store(ctx, username, tok); err != nil {
		return entity.AccessToken{}, err
	}
	m.log().WithField("username", username).Debug("access token refreshed")
	return tok, nil
}

// RevokeTokens revokes the stored access and refresh tokens at the
// authorization server. The stored record is left untouched.
func (m *TokenManager) RevokeTokens(ctx context.Context, username string) error {
	ctx, cancel := bound(ctx, m.Timeout)
	defer cancel()

	tok, err := m.StoredToken(ctx, username)
	if err != nil {
		return err
	}
	if err := m.Client.CreateToken(*tok).RevokeAll(ctx); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}

// StoredToken loads the last stored token for username.
func (m *TokenManager) StoredToken(ctx context.Context, username string) (*entity.AccessToken, error) {
	b, err := m.Sessions.GetSession(ctx, username)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNoStoredToken
	}
	tok, err := entity.DeserializeAccessToken(b)
	if err != nil {
		return nil, fmt.Errorf("decode stored token: %w", err)
	}
	return &tok, nil
}

func (m *TokenManager) store(ctx context.Context, username string, tok entity.AccessToken) error {
	b, err := tok.Serialize()
	if err != nil {
		return err
	}
	ok, err := m.Sessions.UpdateSession(ctx, username, b)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("token session not updated")
	}
	return nil
}

func (m *TokenManager) log() *logrus.Logger {
	if m.Logger == nil {
		return logrus.StandardLogger()
	}
	return m.Logger
}

// bound derives a context with timeout d, or a cancelable one when d is
// not positive.
func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
