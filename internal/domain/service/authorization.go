// Package service declares the contracts of external collaborators the
// identity domain depends on.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
)

// ErrAuthorizationRejected is returned when the authorization server
// refuses a grant, refresh or revocation.
var ErrAuthorizationRejected = errors.New("authorization server rejected the request")

type TokenKind string

const (
	AccessTokenKind  TokenKind = "access_token"
	RefreshTokenKind TokenKind = "refresh_token"
)

// TokenHandle is a live view of a token issued by the authorization server.
type TokenHandle interface {
	Token() entity.AccessToken
	// Expired reports whether the token expires within window.
	Expired(window time.Duration) bool
	Refresh(ctx context.Context) (TokenHandle, error)
	// RevokeAll revokes the access and refresh tokens.
	RevokeAll(ctx context.Context) error
	Revoke(ctx context.Context, kind TokenKind) error
}

// AuthorizationClient talks to an OAuth2 server using the resource owner
// password credentials grant.
type AuthorizationClient interface {
	GetToken(ctx context.Context, username, password, scope string) (TokenHandle, error)
	// CreateToken rebuilds a handle from a stored token.
	CreateToken(t entity.AccessToken) TokenHandle
}
