package application

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

func newTestIssuer(t *testing.T) *IDTokenIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewIDTokenIssuer(helpers.NewJWTManager(key, nil, "identity-test", "identity-clients"), 0)
}

func userWithScope(t *testing.T, scope string) *entity.User {
	t.Helper()
	id := entity.NewUserID()
	u := entity.NewUser(entity.UserProps{
		Username:        entity.NewUserName("alice1").Value(),
		Email:           entity.NewUserEmail("alice@example.com").Value(),
		Credential:      entity.CredentialFromHash("$2a$04$hash").Value(),
		Scope:           entity.NewUserScope(scope).Value(),
		IsEmailVerified: true,
	}, &id)
	require.True(t, u.IsSuccess())
	return u.Value()
}

func TestCreateIDTokenClaimGroups(t *testing.T) {
	issuer := newTestIssuer(t)

	cases := []struct {
		scope       string
		wantEmail   bool
		wantProfile bool
	}{
		{scope: "", wantEmail: false, wantProfile: false},
		{scope: "email", wantEmail: true, wantProfile: false},
		{scope: "profile", wantEmail: false, wantProfile: true},
		{scope: "profile email", wantEmail: true, wantProfile: true},
	}
	for _, tc := range cases {
		t.Run("scope="+tc.scope, func(t *testing.T) {
			u := userWithScope(t, tc.scope)
			token, err := issuer.CreateIDToken(u)
			require.NoError(t, err)

			claims, err := issuer.VerifyToken(token)
			require.NoError(t, err)
			assert.Equal(t, u.ID().String(), claims["sub"])
			assert.Equal(t, tc.scope, claims["scope"])
			assert.Contains(t, claims, "exp")

			_, hasEmail := claims["email"]
			_, hasVerified := claims["email_verified"]
			assert.Equal(t, tc.wantEmail, hasEmail)
			assert.Equal(t, tc.wantEmail, hasVerified)
			if tc.wantEmail {
				assert.Equal(t, "alice@example.com", claims["email"])
				assert.Equal(t, true, claims["email_verified"])
			}

			_, hasName := claims["name"]
			_, hasNick := claims["nickname"]
			assert.Equal(t, tc.wantProfile, hasName)
			assert.Equal(t, tc.wantProfile, hasNick)
		})
	}
}

func TestCreateIDTokenLifetime(t *testing.T) {
	issuer := newTestIssuer(t)
	fixed := time.Now().Truncate(time.Second)
	issuer.now = func() time.Time { return fixed }

	token, err := issuer.CreateIDToken(userWithScope(t, "profile"))
	require.NoError(t, err)
	claims, err := issuer.VerifyToken(token)
	require.NoError(t, err)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(DefaultIDTokenLifetime).Unix(), exp.Unix())
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	issuer := newTestIssuer(t)
	token, err := issuer.CreateIDToken(userWithScope(t, "profile"))
	require.NoError(t, err)

	_, err = issuer.VerifyToken(token + "x")
	assert.ErrorIs(t, err, helpers.ErrInvalidToken)

	_, err = newTestIssuer(t).VerifyToken(token)
	assert.ErrorIs(t, err, helpers.ErrInvalidToken)
}
