package helpers

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// expiry, wrong issuer or audience, malformed input.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs and verifies RS256 tokens. Issuer and audience are
// merged into every signed claims set.
type JWTManager struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	Issuer     string
	Audience   string
	now        func() time.Time
}

func NewJWTManager(priv *rsa.PrivateKey, pub *rsa.PublicKey, issuer, audience string) *JWTManager {
	if pub == nil && priv != nil {
		pub = &priv.PublicKey
	}
	return &JWTManager{privateKey: priv, publicKey: pub, Issuer: issuer, Audience: audience, now: time.Now}
}

// LoadJWTManager reads a PEM encoded key pair from disk.
func LoadJWTManager(privatePath, publicPath, issuer, audience string) (*JWTManager, error) {
	privPEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	var pub *rsa.PublicKey
	if publicPath != "" {
		pubPEM, err := os.ReadFile(publicPath)
		if err != nil {
			return nil, fmt.Errorf("read public key: %w", err)
		}
		if pub, err = jwt.ParseRSAPublicKeyFromPEM(pubPEM); err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
	}
	return NewJWTManager(priv, pub, issuer, audience), nil
}

// Sign merges the standard claims under claims and signs the result.
// Keys in claims win over the standard ones.
func (m *JWTManager) Sign(claims jwt.MapClaims) (string, error) {
	if m.privateKey == nil {
		return "", errors.New("jwt: no private key configured")
	}
	merged := jwt.MapClaims{
		"iss": m.Issuer,
		"aud": m.Audience,
		"iat": m.now().Unix(),
	}
	for k, v := range claims {
		merged[k] = v
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, merged).SignedString(m.privateKey)
}

// Verify checks the signature, expiry, issuer and audience of tokenStr.
func (m *JWTManager) Verify(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(m.Issuer),
		jwt.WithAudience(m.Audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
