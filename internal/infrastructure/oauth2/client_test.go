package oauth2

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/service"
)

type fakeServer struct {
	mu       sync.Mutex
	grants   []string
	revoked  []string
	reject   bool
	scopeOut string
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		id, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", id)
		assert.Equal(t, "secret", secret)

		f.mu.Lock()
		f.grants = append(f.grants, r.PostForm.Get("grant_type"))
		reject := f.reject
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if reject {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		body := map[string]any{
			"access_token": "at-" + r.PostForm.Get("grant_type"),
			"token_type":   "bearer",
			"expires_in":   3600,
		}
		switch r.PostForm.Get("grant_type") {
		case "password":
			assert.Equal(t, "alice1", r.PostForm.Get("username"))
			assert.Equal(t, "Abcde1!", r.PostForm.Get("password"))
			body["refresh_token"] = "rt-1"
		case "refresh_token":
			assert.Equal(t, "rt-1", r.PostForm.Get("refresh_token"))
			body["refresh_token"] = "rt-2"
		}
		if f.scopeOut != "" {
			body["scope"] = f.scopeOut
		}
		_ = json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("/revoke", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		f.mu.Lock()
		f.revoked = append(f.revoked, r.PostForm.Get("token_type_hint")+":"+r.PostForm.Get("token"))
		reject := f.reject
		f.mu.Unlock()
		if reject {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func newTestClient(t *testing.T) (*Client, *fakeServer) {
	t.Helper()
	fs := &fakeServer{}
	srv := httptest.NewServer(fs.handler(t))
	t.Cleanup(srv.Close)
	c := NewClient(Config{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/token",
		RevokeURL:    srv.URL + "/revoke",
		HTTPClient:   srv.Client(),
	})
	return c, fs
}

func TestGetToken(t *testing.T) {
	c, fs := newTestClient(t)
	fs.scopeOut = "profile email"

	h, err := c.GetToken(context.Background(), "alice1", "Abcde1!", "profile email")
	require.NoError(t, err)

	tok := h.Token()
	assert.Equal(t, "at-password", tok.AccessToken)
	assert.Equal(t, "rt-1", tok.RefreshToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, "profile email", tok.Scope)
	assert.InDelta(t, 3600, tok.ExpiresIn, 2)
	assert.False(t, h.Expired(300*time.Second))
	assert.Equal(t, []string{"password"}, fs.grants)
}

func TestGetToken_Rejected(t *testing.T) {
	c, fs := newTestClient(t)
	fs.reject = true

	_, err := c.GetToken(context.Background(), "alice1", "Abcde1!", "")
	assert.ErrorIs(t, err, service.ErrAuthorizationRejected)
}

func TestGetToken_ContextDeadline(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetToken(ctx, "alice1", "Abcde1!", "")
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	c, fs := newTestClient(t)
	h := c.CreateToken(entity.AccessToken{
		AccessToken:  "old",
		RefreshToken: "rt-1",
		Scope:        "profile",
		ExpiresAt:    time.Now().Add(100 * time.Second),
	})
	require.True(t, h.Expired(300*time.Second))

	refreshed, err := h.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "at-refresh_token", refreshed.Token().AccessToken)
	assert.Equal(t, "rt-2", refreshed.Token().RefreshToken)
	assert.Equal(t, "profile", refreshed.Token().Scope)
	assert.Equal(t, []string{"refresh_token"}, fs.grants)
}

func TestRefresh_NoRefreshToken(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.CreateToken(entity.AccessToken{AccessToken: "a"}).Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestRevokeAll(t *testing.T) {
	c, fs := newTestClient(t)
	h := c.CreateToken(entity.AccessToken{AccessToken: "at", RefreshToken: "rt"})

	require.NoError(t, h.RevokeAll(context.Background()))
	assert.Equal(t, []string{"refresh_token:rt", "access_token:at"}, fs.revoked)
}

func TestRevoke_Rejected(t *testing.T) {
	c, fs := newTestClient(t)
	fs.reject = true
	err := c.CreateToken(entity.AccessToken{AccessToken: "at"}).Revoke(context.Background(), service.AccessTokenKind)
	assert.ErrorIs(t, err, service.ErrAuthorizationRejected)
}

func TestRevoke_Disabled(t *testing.T) {
	c := NewClient(Config{TokenURL: "http://127.0.0.1:0/token"})
	err := c.CreateToken(entity.AccessToken{AccessToken: "at"}).RevokeAll(context.Background())
	assert.ErrorIs(t, err, ErrRevocationDisabled)
}
