package entity

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrEmptyAccessToken = errors.New("access token is empty")

// AccessToken is the token artifact returned by the authorization server.
// It is persisted in serialized form keyed by username.
type AccessToken struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresIn    int64     `json:"expires_in,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

func (t AccessToken) Serialize() ([]byte, error) {
	if t.AccessToken == "" {
		return nil, ErrEmptyAccessToken
	}
	return json.Marshal(t)
}

func DeserializeAccessToken(b []byte) (AccessToken, error) {
	var t AccessToken
	if err := json.Unmarshal(b, &t); err != nil {
		return AccessToken{}, err
	}
	if t.AccessToken == "" {
		return AccessToken{}, ErrEmptyAccessToken
	}
	return t, nil
}

// ExpiresWithin reports whether the remaining lifetime at now is at most
// window. A token without an expiry never expires.
func (t AccessToken) ExpiresWithin(window time.Duration, now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return t.ExpiresAt.Sub(now) <= window
}
