package application

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

const DefaultIDTokenLifetime = 10 * time.Hour

// IDTokenIssuer builds signed identity tokens whose optional claim groups
// follow the user's scope.
type IDTokenIssuer struct {
	JWT      *helpers.JWTManager
	Lifetime time.Duration
	now      func() time.Time
}

func NewIDTokenIssuer(m *helpers.JWTManager, lifetime time.Duration) *IDTokenIssuer {
	if lifetime <= 0 {
		lifetime = DefaultIDTokenLifetime
	}
	return &IDTokenIssuer{JWT: m, Lifetime: lifetime, now: time.Now}
}

// CreateIDToken always carries sub, scope and exp. The "email" scope adds
// email and email_verified; "profile" adds name and nickname.
func (i *IDTokenIssuer) CreateIDToken(u *entity.User) (string, error) {
	scope := u.Scope()
	claims := jwt.MapClaims{
		"sub":   u.ID().String(),
		"scope": scope.Value(),
		"exp":   i.now().Add(i.Lifetime).Unix(),
	}
	if scope.Has("email") {
		claims["email"] = u.Email().Value()
		claims["email_verified"] = u.IsEmailVerified()
	}
	if scope.Has("profile") {
		claims["name"] = u.Username().Value()
		claims["nickname"] = u.Username().Value()
	}
	return i.JWT.Sign(claims)
}

// VerifyToken returns the claims of a valid token. Any failure is
// reported as helpers.ErrInvalidToken.
func (i *IDTokenIssuer) VerifyToken(token string) (jwt.MapClaims, error) {
	return i.JWT.Verify(token)
}
